package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"

	"github.com/wunderfrucht/jobsuche/internal/domain"
	"github.com/wunderfrucht/jobsuche/pkg/jobsuche"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
)

const (
	// DefaultCollectLimit bounds Collect when the caller gives no limit.
	DefaultCollectLimit = 500
	// MaxCollectLimit is everything the page ceiling lets through.
	MaxCollectLimit = jobsuche.MaxPage * jobsuche.MaxPageSize
	// MaxDetailBatch bounds one Details call.
	MaxDetailBatch = 50

	defaultDetailConcurrency = 4
)

// ErrNoRepository is returned by operations that need stored jobs when the
// service runs without a graph database.
var ErrNoRepository = errors.New("job.Service: no repository configured")

type Service interface {
	// Search fetches one page and stores its jobs.
	Search(ctx context.Context, params domain.SearchParams) (domain.JobSearchResult, error)
	// Collect walks the result set up to limit jobs. On failure the result
	// still holds every job read before the error.
	Collect(ctx context.Context, params domain.SearchParams, limit int) (domain.CollectResult, error)
	// Details fetches listings concurrently; withdrawn ones are reported as missing.
	Details(ctx context.Context, refnrs []string) (domain.DetailsResult, error)
	// Logo returns an employer logo; ok is false when the employer has none.
	Logo(ctx context.Context, employerHash string) (png []byte, ok bool, err error)
	EmployerStats(ctx context.Context, limit int) ([]domain.EmployerStat, error)
}

// Option configures Service
type Option func(*config)

type config struct {
	client      Client
	repo        Repository
	log         *logging.Logger
	clock       func() time.Time
	concurrency int
}

// WithClient sets the Jobsuche client
func WithClient(client Client) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithRepository sets the repository. Without one, results are not stored.
func WithRepository(repo Repository) Option {
	return func(c *config) {
		c.repo = repo
	}
}

func WithLogger(log *logging.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithDetailConcurrency bounds parallel detail requests.
func WithDetailConcurrency(n int) Option {
	return func(c *config) {
		c.concurrency = n
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		clock:       time.Now,
		concurrency: defaultDetailConcurrency,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.client == nil {
		return nil, fmt.Errorf("job.Service: client is required")
	}
	if cfg.log == nil {
		cfg.log = logging.NewNop()
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}

	return &service{
		client:      cfg.client,
		repo:        cfg.repo,
		log:         cfg.log.Named("job"),
		clock:       cfg.clock,
		concurrency: cfg.concurrency,
	}, nil
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible).
// repo may be nil.
func NewServiceWithDeps(client Client, repo Repository, log *logging.Logger) (Service, error) {
	return NewService(WithClient(client), WithRepository(repo), WithLogger(log))
}

type service struct {
	client      Client
	repo        Repository
	log         *logging.Logger
	clock       func() time.Time
	concurrency int
}

// Search queries one page and stores results
func (s *service) Search(ctx context.Context, params domain.SearchParams) (domain.JobSearchResult, error) {
	q, err := params.Query()
	if err != nil {
		return domain.JobSearchResult{}, err
	}

	now := s.clock()
	page, err := s.client.Search(ctx, q)
	if err != nil {
		return domain.JobSearchResult{}, fmt.Errorf("search jobs: %w", err)
	}

	jobs := make([]domain.Job, 0, len(page.Jobs))
	for _, sum := range page.Jobs {
		if sum.Refnr == "" {
			continue
		}
		jobs = append(jobs, domain.JobFromSummary(sum, now))
	}

	if err := s.store(ctx, jobs); err != nil {
		return domain.JobSearchResult{}, err
	}

	s.log.Debug("search page fetched", "page", page.Page, "jobs", len(jobs), "total", page.Total)

	return domain.JobSearchResult{
		Jobs:      summaries(jobs),
		Total:     page.Total,
		Page:      page.Page,
		Size:      page.Size,
		FetchedAt: now,
	}, nil
}

func (s *service) Collect(ctx context.Context, params domain.SearchParams, limit int) (domain.CollectResult, error) {
	if limit <= 0 {
		limit = DefaultCollectLimit
	}
	if limit > MaxCollectLimit {
		limit = MaxCollectLimit
	}

	q, err := params.Query()
	if err != nil {
		return domain.CollectResult{}, err
	}

	now := s.clock()
	it := s.client.Jobs(q)

	var (
		jobs    []domain.Job
		failure error
		limited bool
	)
	for {
		if len(jobs) >= limit {
			limited = true
			break
		}
		sum, err := it.Next(ctx)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			failure = fmt.Errorf("collect jobs: %w", err)
			break
		}
		if sum.Refnr == "" {
			continue
		}
		jobs = append(jobs, domain.JobFromSummary(sum, now))
	}

	total, _ := it.Total()
	result := domain.CollectResult{
		Jobs:      summaries(jobs),
		Total:     total,
		Pages:     it.PagesFetched(),
		Limited:   limited,
		Truncated: it.Truncated(),
		FetchedAt: now,
	}

	if err := s.store(ctx, jobs); err != nil {
		if failure != nil {
			s.log.Warn("storing partial results failed", "err", err)
			return result, failure
		}
		return result, err
	}

	if failure != nil {
		s.log.Warn("collect stopped early", "collected", len(jobs), "pages", it.PagesFetched(), "err", failure)
		return result, failure
	}

	s.log.Info("collect finished",
		"title", params.Title,
		"location", params.Location,
		"jobs", len(jobs),
		"pages", result.Pages,
		"limited", limited,
		"truncated", result.Truncated,
	)
	return result, nil
}

func (s *service) Details(ctx context.Context, refnrs []string) (domain.DetailsResult, error) {
	refnrs = dedupe(refnrs)
	if len(refnrs) == 0 {
		return domain.DetailsResult{}, fmt.Errorf("details: at least one refnr is required")
	}
	if len(refnrs) > MaxDetailBatch {
		return domain.DetailsResult{}, fmt.Errorf("details: at most %d refnrs per call, got %d", MaxDetailBatch, len(refnrs))
	}

	details := make([]*jobsuche.JobDetail, len(refnrs))
	missing := make([]bool, len(refnrs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, refnr := range refnrs {
		g.Go(func() error {
			d, err := s.client.JobDetails(gctx, refnr)
			switch {
			case errors.Is(err, jobsuche.ErrNotFound):
				missing[i] = true
				return nil
			case err != nil:
				return fmt.Errorf("details %s: %w", refnr, err)
			}
			details[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.DetailsResult{}, err
	}

	result := domain.DetailsResult{Details: make([]*jobsuche.JobDetail, 0, len(refnrs))}
	for i, refnr := range refnrs {
		if missing[i] {
			result.Missing = append(result.Missing, refnr)
			continue
		}
		result.Details = append(result.Details, details[i])
	}
	if len(result.Missing) > 0 {
		s.log.Info("listings no longer available", "refnrs", result.Missing)
	}
	return result, nil
}

func (s *service) Logo(ctx context.Context, employerHash string) ([]byte, bool, error) {
	png, err := s.client.EmployerLogo(ctx, employerHash)
	if errors.Is(err, jobsuche.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("employer logo: %w", err)
	}
	return png, true, nil
}

func (s *service) EmployerStats(ctx context.Context, limit int) ([]domain.EmployerStat, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.EmployerStats(ctx, limit)
}

func (s *service) store(ctx context.Context, jobs []domain.Job) error {
	if s.repo == nil || len(jobs) == 0 {
		return nil
	}
	if err := s.repo.UpsertJobs(ctx, jobs); err != nil {
		return fmt.Errorf("store jobs: %w", err)
	}
	return nil
}

func summaries(jobs []domain.Job) []domain.JobSummary {
	out := make([]domain.JobSummary, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Summary())
	}
	return out
}

func dedupe(refnrs []string) []string {
	seen := make(map[string]struct{}, len(refnrs))
	out := make([]string, 0, len(refnrs))
	for _, r := range refnrs {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
