package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains runtime settings for the MCP server and CLI
type Config struct {
	LogLevel  string
	LogFormat string // json (default) or console
	Host      string // default 0.0.0.0
	Port      string // default PORT env or 8080
	Jobsuche  struct {
		BaseURL     string
		APIKey      string
		Timeout     time.Duration
		MaxAttempts int
	}
	// Neo4j is optional; an empty URI disables the job graph.
	Neo4j struct {
		URI      string
		Username string
		Password string
		Database string
	}
	SheetsCredentialsPath string
	Watch                 Watch
}

// Watch configures periodic searches stored in the job graph.
type Watch struct {
	Schedule string // cron spec, empty disables
	Queries  []WatchQuery
	MaxItems int
}

// WatchQuery is one title/location pair from WATCH_QUERIES.
type WatchQuery struct {
	Title    string
	Location string
}

func (q WatchQuery) String() string {
	if q.Location == "" {
		return q.Title
	}
	return q.Title + "@" + q.Location
}

// Load populates config from environment variables
func Load() (Config, error) {
	cfg := Config{
		LogLevel:  "info",
		LogFormat: "json",
		Host:      "0.0.0.0",
		Port:      "8080",
	}
	cfg.Jobsuche.Timeout = 30 * time.Second
	cfg.Watch.MaxItems = 500

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	if v := os.Getenv("MCP_HOST"); v != "" {
		cfg.Host = v
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	var problems []string

	cfg.Jobsuche.BaseURL = os.Getenv("JOBSUCHE_BASE_URL")
	cfg.Jobsuche.APIKey = os.Getenv("JOBSUCHE_API_KEY")
	if v := os.Getenv("JOBSUCHE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			problems = append(problems, fmt.Sprintf("JOBSUCHE_TIMEOUT: invalid duration %q", v))
		} else {
			cfg.Jobsuche.Timeout = d
		}
	}
	if v := os.Getenv("JOBSUCHE_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			problems = append(problems, fmt.Sprintf("JOBSUCHE_MAX_ATTEMPTS: want a positive integer, got %q", v))
		} else {
			cfg.Jobsuche.MaxAttempts = n
		}
	}

	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.Neo4j.Database = os.Getenv("NEO4J_DATABASE")

	cfg.SheetsCredentialsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")

	cfg.Watch.Schedule = strings.TrimSpace(os.Getenv("WATCH_SCHEDULE"))
	queries, err := ParseWatchQueries(os.Getenv("WATCH_QUERIES"))
	if err != nil {
		problems = append(problems, "WATCH_QUERIES: "+err.Error())
	}
	cfg.Watch.Queries = queries
	if v := os.Getenv("WATCH_MAX_ITEMS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			problems = append(problems, fmt.Sprintf("WATCH_MAX_ITEMS: want a positive integer, got %q", v))
		} else {
			cfg.Watch.MaxItems = n
		}
	}

	var missingVars []string

	if cfg.Neo4j.URI != "" {
		if cfg.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}
		if cfg.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}
	}

	if cfg.Watch.Schedule != "" {
		if len(cfg.Watch.Queries) == 0 {
			missingVars = append(missingVars, "WATCH_QUERIES")
		}
		if cfg.Neo4j.URI == "" {
			missingVars = append(missingVars, "NEO4J_URI")
		}
	}

	if len(missingVars) > 0 {
		problems = append(problems, "missing required environment variables: "+strings.Join(missingVars, ", "))
	}

	if len(problems) > 0 {
		return cfg, fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// Neo4jEnabled reports whether a graph database is configured.
func (c Config) Neo4jEnabled() bool { return c.Neo4j.URI != "" }

// ParseWatchQueries parses "title@location;title@location". The location
// part is optional; blank entries are skipped.
func ParseWatchQueries(s string) ([]WatchQuery, error) {
	var out []WatchQuery
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		title, location, _ := strings.Cut(entry, "@")
		title = strings.TrimSpace(title)
		if title == "" {
			return nil, fmt.Errorf("entry %q has no title", entry)
		}
		out = append(out, WatchQuery{Title: title, Location: strings.TrimSpace(location)})
	}
	return out, nil
}
