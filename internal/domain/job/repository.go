package job

import (
	"context"

	"github.com/wunderfrucht/jobsuche/internal/domain"
)

// Repository persists and loads jobs from storage
type Repository interface {
	// UpsertJobs creates or updates jobs keyed by refnr
	UpsertJobs(ctx context.Context, jobs []domain.Job) error

	// EmployerStats returns employers ordered by stored listing count
	EmployerStats(ctx context.Context, limit int) ([]domain.EmployerStat, error)
}
