package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	pkgneo4j "github.com/wunderfrucht/jobsuche/pkg/neo4j"
)

// GraphToolParams defines the arguments for the graph_tool tool
type GraphToolParams struct {
	Cypher   string         `json:"cypher,omitempty" jsonschema:"Read-only Cypher query to run"`
	Refnr    string         `json:"refnr,omitempty" jsonschema:"Show the stored job with this reference number"`
	Employer string         `json:"employer,omitempty" jsonschema:"Show stored jobs of this employer"`
	Params   map[string]any `json:"params,omitempty" jsonschema:"Parameters for a custom Cypher query"`
}

const (
	jobByRefnrQuery = `
		MATCH (j:Job {refnr: $refnr})
		OPTIONAL MATCH (j)-[:OFFERED_BY]->(e:Employer)
		OPTIONAL MATCH (j)-[:LOCATED_IN]->(l:Location)
		RETURN j, e, l
	`
	jobsByEmployerQuery = `
		MATCH (e:Employer {name: $employer})<-[:OFFERED_BY]-(j:Job)
		RETURN j.refnr AS refnr, j.title AS title, j.location AS location, j.publishedAt AS published
		ORDER BY j.publishedAt DESC
		LIMIT 50
	`
	graphOverviewQuery = "MATCH (n) RETURN labels(n) as labels, count(n) as count ORDER BY count DESC LIMIT 20"
)

var writeClause = regexp.MustCompile(`(?i)\b(CREATE|MERGE|DELETE|DETACH|SET|REMOVE|DROP|LOAD\s+CSV|CALL\s+\{)`)

type graphToolHandler struct {
	client *pkgneo4j.Client
}

func (h *graphToolHandler) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params GraphToolParams) (*sdkmcp.CallToolResult, any, error) {
	if h.client == nil {
		return nil, nil, fmt.Errorf("graph_tool unavailable: Neo4j client not configured")
	}

	query, queryParams, err := graphQuery(params)
	if err != nil {
		return nil, nil, err
	}

	result, err := h.executeQuery(ctx, query, queryParams)
	if err != nil {
		return nil, nil, fmt.Errorf("graph_tool: %w", err)
	}

	return textResult(result), nil, nil
}

// graphQuery picks the query for params. Custom Cypher must be read-only.
func graphQuery(params GraphToolParams) (string, map[string]any, error) {
	switch {
	case params.Cypher != "":
		if writeClause.MatchString(params.Cypher) {
			return "", nil, fmt.Errorf("graph_tool only runs read-only queries")
		}
		return params.Cypher, params.Params, nil
	case params.Refnr != "":
		return jobByRefnrQuery, map[string]any{"refnr": params.Refnr}, nil
	case params.Employer != "":
		return jobsByEmployerQuery, map[string]any{"employer": params.Employer}, nil
	default:
		return graphOverviewQuery, nil, nil
	}
}

func (h *graphToolHandler) executeQuery(ctx context.Context, query string, params map[string]any) (string, error) {
	session := h.client.NewSession(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	var allRecords []*neo4j.Record
	var keys []string

	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		for result.Next(ctx) {
			record := result.Record()
			if keys == nil {
				keys = record.Keys
			}
			allRecords = append(allRecords, record)
		}

		return nil, result.Err()
	})
	if err != nil {
		return "", fmt.Errorf("query execution failed: %w", err)
	}

	return formatRecords(allRecords, keys), nil
}

func formatRecords(records []*neo4j.Record, keys []string) string {
	if len(records) == 0 {
		return "Query executed successfully but returned no rows"
	}

	var sb strings.Builder
	sb.WriteString("Results:\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for i, record := range records {
		fmt.Fprintf(&sb, "Row %d:\n", i+1)

		for _, key := range keys {
			val, ok := record.Get(key)
			if !ok {
				fmt.Fprintf(&sb, "  %s: <not found>\n", key)
				continue
			}
			fmt.Fprintf(&sb, "  %s: %s\n", key, formatValue(val))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatValue(val any) string {
	if val == nil {
		return "null"
	}

	switch v := val.(type) {
	case neo4j.Node:
		propsJSON, _ := json.Marshal(v.Props)
		return fmt.Sprintf("Node%v %s", v.Labels, string(propsJSON))
	case neo4j.Relationship:
		propsJSON, _ := json.Marshal(v.Props)
		return fmt.Sprintf("Relationship[%s] %s", v.Type, string(propsJSON))
	case neo4j.Date:
		return v.Time().Format("2006-01-02")
	case []any:
		if len(v) == 0 {
			return "[]"
		}
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, formatValue(item))
		}
		return fmt.Sprintf("[%s]", strings.Join(items, ", "))
	case map[string]any:
		jsonBytes, _ := json.Marshal(v)
		return string(jsonBytes)
	case string:
		return fmt.Sprintf("%q", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%.2f", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(jsonBytes)
	}
}
