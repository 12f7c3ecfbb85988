package jobsuche

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public Jobsuche endpoint of the Bundesagentur für Arbeit.
	DefaultBaseURL = "https://rest.arbeitsagentur.de/jobboerse/jobsuche-service"
	// DefaultAPIKey is the public client key the service expects.
	DefaultAPIKey = "jobboerse-jobsuche"

	defaultTimeout = 30 * time.Second
)

var (
	searchPath  = []string{"pc", "v4", "jobs"}
	detailsPath = []string{"pc", "v2", "jobdetails"}
	logoPath    = []string{"ed", "v1", "arbeitgeberlogo"}
)

// NewClient creates a Jobsuche client. Zero fields of cfg take defaults.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("jobsuche: parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("jobsuche: base url %q must be absolute http(s)", baseURL)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = DefaultAPIKey
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		retry:      cfg.Retry.withDefaults(),
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Search fetches the single page q asks for. It does not enforce MaxPage;
// use Jobs or AllJobs to walk a result set.
func (c *Client) Search(ctx context.Context, q SearchQuery) (*ResultPage, error) {
	resp, err := c.execute(ctx, request{path: searchPath, query: q.Values()})
	if err != nil {
		return nil, err
	}

	var payload searchResponse
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, fmt.Errorf("jobsuche: decode search response: %w", err)
	}

	page := &ResultPage{
		Jobs:   payload.Jobs,
		Total:  int64(payload.Total),
		Page:   int(payload.Page),
		Size:   int(payload.Size),
		Facets: payload.Facets,
	}
	if page.Page <= 0 {
		page.Page = q.Page()
	}
	if page.Size <= 0 {
		page.Size = q.Size()
	}
	if page.Jobs == nil {
		page.Jobs = []JobSummary{}
	}
	return page, nil
}

// JobDetails fetches the full record for refnr. A listing that has been
// withdrawn since it was found by a search yields ErrNotFound.
func (c *Client) JobDetails(ctx context.Context, refnr string) (*JobDetail, error) {
	if strings.TrimSpace(refnr) == "" {
		return nil, invalid("refnr", "must not be empty")
	}

	path := append(append([]string{}, detailsPath...), EncodeRefnr(refnr))
	resp, err := c.execute(ctx, request{path: path})
	if err != nil {
		return nil, err
	}

	var detail JobDetail
	if err := json.Unmarshal(resp.body, &detail); err != nil {
		return nil, fmt.Errorf("jobsuche: decode job details %s: %w", refnr, err)
	}
	if detail.Refnr == "" {
		detail.Refnr = refnr
	}
	return &detail, nil
}

// EmployerLogo fetches the raw PNG logo for an employer hash. Most
// employers have none, which surfaces as ErrNotFound.
func (c *Client) EmployerLogo(ctx context.Context, employerHash string) ([]byte, error) {
	switch {
	case strings.TrimSpace(employerHash) == "":
		return nil, invalid("employer_hash", "must not be empty")
	case strings.Contains(employerHash, "/"):
		return nil, invalid("employer_hash", "must not contain '/'")
	}

	path := append(append([]string{}, logoPath...), employerHash)
	resp, err := c.execute(ctx, request{path: path, accept: "image/png"})
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}
