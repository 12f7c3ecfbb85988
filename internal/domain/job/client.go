package job

import (
	"context"

	"github.com/wunderfrucht/jobsuche/pkg/jobsuche"
)

// Client is the part of *jobsuche.Client the service depends on.
type Client interface {
	Search(ctx context.Context, q jobsuche.SearchQuery) (*jobsuche.ResultPage, error)
	Jobs(q jobsuche.SearchQuery) *jobsuche.Iterator
	JobDetails(ctx context.Context, refnr string) (*jobsuche.JobDetail, error)
	EmployerLogo(ctx context.Context, employerHash string) ([]byte, error)
}

var _ Client = (*jobsuche.Client)(nil)
