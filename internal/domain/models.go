package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wunderfrucht/jobsuche/pkg/jobsuche"
)

// JobID uniquely identifies a job
type JobID = uuid.UUID

// jobNamespace scopes job IDs so the same refnr always maps to the same ID.
var jobNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(jobsuche.DefaultBaseURL))

// NewJobID derives the stable ID of a listing from its reference number.
func NewJobID(refnr string) JobID {
	return uuid.NewSHA1(jobNamespace, []byte(refnr))
}

// ListingURL is the public page of a listing on arbeitsagentur.de.
func ListingURL(refnr string) string {
	return "https://www.arbeitsagentur.de/jobsuche/jobdetail/" + refnr
}

// EmployerRef references an employer
type EmployerRef struct {
	Name string
	Hash string
}

// Job is the normalized job posting entity
type Job struct {
	ID          JobID
	Refnr       string
	Title       string
	Occupation  string
	Employer    EmployerRef
	Location    string
	City        string
	PostalCode  string
	Region      string
	URL         string
	ExternalURL string
	PublishedAt time.Time
	ModifiedAt  string
	FetchedAt   time.Time
}

// JobFromSummary normalizes one search hit.
func JobFromSummary(s jobsuche.JobSummary, fetchedAt time.Time) Job {
	return Job{
		ID:          NewJobID(s.Refnr),
		Refnr:       s.Refnr,
		Title:       s.DisplayTitle(),
		Occupation:  s.Occupation,
		Employer:    EmployerRef{Name: strings.TrimSpace(s.Employer), Hash: s.EmployerHash},
		Location:    s.Location.String(),
		City:        s.Location.City,
		PostalCode:  s.Location.PostalCode,
		Region:      s.Location.Region,
		URL:         ListingURL(s.Refnr),
		ExternalURL: s.ExternalURL,
		PublishedAt: parseDate(s.PublishedAt),
		ModifiedAt:  s.ModifiedAt,
		FetchedAt:   fetchedAt,
	}
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339, "2006-01-02T15:04:05.999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SearchParams are the caller-facing search filters
type SearchParams struct {
	Title           string   `json:"title,omitempty"`
	Location        string   `json:"location,omitempty"`
	Radius          *int     `json:"radius_km,omitempty"`
	Employer        string   `json:"employer,omitempty"`
	EmploymentTypes []string `json:"employment_types,omitempty"`
	ContractTypes   []string `json:"contract_types,omitempty"`
	WorkingTimes    []string `json:"working_times,omitempty"`
	PublishedWithin *int     `json:"published_within_days,omitempty"`
	TempAgency      *bool    `json:"temp_agency,omitempty"`
	Page            int      `json:"page,omitempty"`
	Size            int      `json:"size,omitempty"`
}

// Query validates the params into a client query.
func (p SearchParams) Query() (jobsuche.SearchQuery, error) {
	b := jobsuche.NewQuery().
		Title(strings.TrimSpace(p.Title)).
		Location(strings.TrimSpace(p.Location)).
		Employer(p.Employer)
	if p.Radius != nil {
		b.Radius(*p.Radius)
	}
	if len(p.EmploymentTypes) > 0 {
		types := make([]jobsuche.EmploymentType, len(p.EmploymentTypes))
		for i, t := range p.EmploymentTypes {
			types[i] = jobsuche.EmploymentType(t)
		}
		b.EmploymentTypes(types...)
	}
	if len(p.ContractTypes) > 0 {
		types := make([]jobsuche.ContractType, len(p.ContractTypes))
		for i, t := range p.ContractTypes {
			types[i] = jobsuche.ContractType(t)
		}
		b.ContractTypes(types...)
	}
	if len(p.WorkingTimes) > 0 {
		models := make([]jobsuche.WorkingTime, len(p.WorkingTimes))
		for i, t := range p.WorkingTimes {
			models[i] = jobsuche.WorkingTime(t)
		}
		b.WorkingTimes(models...)
	}
	if p.PublishedWithin != nil {
		b.PublishedWithin(*p.PublishedWithin)
	}
	if p.TempAgency != nil {
		b.TempAgency(*p.TempAgency)
	}
	if p.Page != 0 {
		b.Page(p.Page)
	}
	if p.Size != 0 {
		b.Size(p.Size)
	}
	return b.Build()
}

// JobSummary is the response-friendly job view
type JobSummary struct {
	ID          JobID  `json:"id"`
	Refnr       string `json:"refnr"`
	Title       string `json:"title"`
	Employer    string `json:"employer"`
	Location    string `json:"location"`
	PublishedAt string `json:"published_at,omitempty"`
	URL         string `json:"url"`
	LogoHash    string `json:"logo_hash,omitempty"`
}

// Summary is the response view of j.
func (j Job) Summary() JobSummary {
	s := JobSummary{
		ID:       j.ID,
		Refnr:    j.Refnr,
		Title:    j.Title,
		Employer: j.Employer.Name,
		Location: j.Location,
		URL:      j.URL,
		LogoHash: j.Employer.Hash,
	}
	if !j.PublishedAt.IsZero() {
		s.PublishedAt = j.PublishedAt.Format(time.DateOnly)
	}
	return s
}

// JobSearchResult wraps one page of search output
type JobSearchResult struct {
	Jobs      []JobSummary `json:"jobs"`
	Total     int64        `json:"total"`
	Page      int          `json:"page"`
	Size      int          `json:"size"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// CollectResult is the outcome of walking a result set. On failure it
// still carries the jobs read before the error.
type CollectResult struct {
	Jobs      []JobSummary `json:"jobs"`
	Total     int64        `json:"total"`
	Pages     int          `json:"pages"`
	Limited   bool         `json:"limited,omitempty"`
	Truncated bool         `json:"truncated,omitempty"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// DetailsResult holds fetched details in request order plus refnrs the
// service no longer knows.
type DetailsResult struct {
	Details []*jobsuche.JobDetail `json:"details"`
	Missing []string              `json:"missing,omitempty"`
}

// EmployerStat counts stored listings per employer.
type EmployerStat struct {
	Employer string `json:"employer"`
	Jobs     int64  `json:"jobs"`
}
