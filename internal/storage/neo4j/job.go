package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/wunderfrucht/jobsuche/internal/domain"
	"github.com/wunderfrucht/jobsuche/internal/domain/job"

	pkgneo4j "github.com/wunderfrucht/jobsuche/pkg/neo4j"
)

// Ensure JobRepository implements job.Repository
var _ job.Repository = (*JobRepository)(nil)

// JobRepository stores listings as a Job-Employer-Location graph
type JobRepository struct {
	client *pkgneo4j.Client
}

// NewJobRepository creates a JobRepository with a Neo4j client
func NewJobRepository(client *pkgneo4j.Client) *JobRepository {
	return &JobRepository{
		client: client,
	}
}

const upsertJobsQuery = `
	UNWIND $jobs AS job
	MERGE (j:Job {refnr: job.refnr})
	SET j.id = job.id,
	    j.title = job.title,
	    j.occupation = job.occupation,
	    j.location = job.location,
	    j.url = job.url,
	    j.externalUrl = job.externalUrl,
	    j.publishedAt = CASE WHEN job.publishedAt IS NULL THEN j.publishedAt ELSE date(job.publishedAt) END,
	    j.modifiedAt = job.modifiedAt,
	    j.firstSeenAt = coalesce(j.firstSeenAt, datetime({epochMillis: job.fetchedAt})),
	    j.fetchedAt = datetime({epochMillis: job.fetchedAt})
	WITH j, job
	FOREACH (ignored IN CASE WHEN job.employer = "" THEN [] ELSE [1] END |
		MERGE (e:Employer {name: job.employer})
		SET e.logoHash = coalesce(CASE WHEN job.employerHash <> "" THEN job.employerHash ELSE null END, e.logoHash)
		MERGE (j)-[:OFFERED_BY]->(e)
	)
	FOREACH (ignored IN CASE WHEN job.city = "" THEN [] ELSE [1] END |
		MERGE (l:Location {city: job.city, postalCode: job.postalCode})
		SET l.region = job.region
		MERGE (j)-[:LOCATED_IN]->(l)
	)
`

const employerStatsQuery = `
	MATCH (e:Employer)<-[:OFFERED_BY]-(j:Job)
	RETURN e.name AS employer, count(j) AS jobs
	ORDER BY jobs DESC, employer ASC
	LIMIT $limit
`

// UpsertJobs merges jobs on refnr and links employer and location
func (r *JobRepository) UpsertJobs(ctx context.Context, jobs []domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	session := r.client.NewSession(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, upsertJobsQuery, map[string]any{"jobs": jobParams(jobs)})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("neo4j: upsert %d jobs: %w", len(jobs), err)
	}
	return nil
}

// EmployerStats returns employers ordered by stored listing count
func (r *JobRepository) EmployerStats(ctx context.Context, limit int) ([]domain.EmployerStat, error) {
	session := r.client.NewSession(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	stats, err := neo4j.ExecuteRead(ctx, session, func(tx neo4j.ManagedTransaction) ([]domain.EmployerStat, error) {
		result, err := tx.Run(ctx, employerStatsQuery, map[string]any{"limit": int64(limit)})
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		out := make([]domain.EmployerStat, 0, len(records))
		for _, record := range records {
			name, _, err := neo4j.GetRecordValue[string](record, "employer")
			if err != nil {
				return nil, err
			}
			count, _, err := neo4j.GetRecordValue[int64](record, "jobs")
			if err != nil {
				return nil, err
			}
			out = append(out, domain.EmployerStat{Employer: name, Jobs: count})
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: employer stats: %w", err)
	}
	return stats, nil
}

func jobParams(jobs []domain.Job) []map[string]any {
	out := make([]map[string]any, 0, len(jobs))
	for _, j := range jobs {
		var published any
		if !j.PublishedAt.IsZero() {
			published = j.PublishedAt.Format("2006-01-02")
		}
		out = append(out, map[string]any{
			"id":           j.ID.String(),
			"refnr":        j.Refnr,
			"title":        j.Title,
			"occupation":   j.Occupation,
			"employer":     j.Employer.Name,
			"employerHash": j.Employer.Hash,
			"location":     j.Location,
			"city":         j.City,
			"postalCode":   j.PostalCode,
			"region":       j.Region,
			"url":          j.URL,
			"externalUrl":  j.ExternalURL,
			"publishedAt":  published,
			"modifiedAt":   j.ModifiedAt,
			"fetchedAt":    j.FetchedAt.UnixMilli(),
		})
	}
	return out
}
