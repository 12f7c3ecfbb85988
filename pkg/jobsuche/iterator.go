package jobsuche

import (
	"context"
	"errors"
	"iter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

// Iterator walks the result set of a query one job at a time, fetching a
// page only when the previous one has been consumed. It is not safe for
// concurrent use.
//
// Next returns iterator.Done once the result set is exhausted: an empty
// page was returned, the declared total was reached, or the next page would
// lie beyond MaxPage. Any other error is final; later calls repeat it.
type Iterator struct {
	client  *Client
	query   SearchQuery
	session string
	buf     []JobSummary
	cur     cursor
}

type cursor struct {
	startPage  int
	nextPage   int
	size       int
	total      int64
	totalKnown bool
	pages      int
	yielded    int
	exhausted  bool
	truncated  bool
	err        error
}

// position is the absolute index of the next item in the full result set.
func (c *cursor) position() int64 {
	return int64(c.startPage-1)*int64(c.size) + int64(c.yielded)
}

// Jobs returns a lazy iterator over all results of q, starting at q's page.
// No request is made until the first call to Next.
func (c *Client) Jobs(q SearchQuery) *Iterator {
	return &Iterator{
		client:  c,
		query:   q,
		session: uuid.NewString(),
		cur: cursor{
			startPage: q.Page(),
			nextPage:  q.Page(),
			size:      q.Size(),
		},
	}
}

// Next returns the next job, iterator.Done when there are no more, or the
// error that stopped iteration.
func (it *Iterator) Next(ctx context.Context) (JobSummary, error) {
	if it.cur.err != nil {
		return JobSummary{}, it.cur.err
	}

	for len(it.buf) == 0 {
		if it.cur.exhausted {
			return JobSummary{}, iterator.Done
		}
		if done := it.checkExhausted(); done {
			return JobSummary{}, iterator.Done
		}
		if err := it.fetch(ctx); err != nil {
			it.cur.err = err
			it.buf = nil
			return JobSummary{}, err
		}
		if it.cur.exhausted {
			return JobSummary{}, iterator.Done
		}
	}

	job := it.buf[0]
	it.buf = it.buf[1:]
	it.cur.yielded++
	return job, nil
}

// checkExhausted applies the ceiling and the declared total before a fetch.
// The ceiling goes first so that Truncated reflects declared data it hides.
func (it *Iterator) checkExhausted() bool {
	c := &it.cur
	if c.nextPage > MaxPage {
		c.exhausted = true
		c.truncated = c.totalKnown && c.position() < c.total
		if c.truncated {
			it.client.logger.Info("jobsuche page ceiling reached",
				zap.String("session", it.session),
				zap.Int("max_page", MaxPage),
				zap.Int64("total", c.total),
				zap.Int64("position", c.position()),
			)
		}
		return true
	}
	if c.totalKnown && c.position() >= c.total {
		c.exhausted = true
		return true
	}
	return false
}

func (it *Iterator) fetch(ctx context.Context) error {
	c := &it.cur
	page, err := it.client.Search(ctx, it.query.WithPage(c.nextPage))
	if err != nil {
		it.client.logger.Debug("jobsuche page failed",
			zap.String("session", it.session),
			zap.Int("page", c.nextPage),
			zap.Error(err),
		)
		return err
	}

	c.pages++
	c.nextPage++
	if page.Total > 0 || len(page.Jobs) == 0 {
		c.total = page.Total
		c.totalKnown = true
	}

	it.client.logger.Debug("jobsuche page fetched",
		zap.String("session", it.session),
		zap.Int("page", page.Page),
		zap.Int("items", len(page.Jobs)),
		zap.Int64("total", page.Total),
	)

	if len(page.Jobs) == 0 {
		c.exhausted = true
		return nil
	}
	it.buf = page.Jobs
	return nil
}

// All adapts the iterator to range-over-func. A failure is yielded once
// with a zero JobSummary and ends the sequence.
func (it *Iterator) All(ctx context.Context) iter.Seq2[JobSummary, error] {
	return func(yield func(JobSummary, error) bool) {
		for {
			job, err := it.Next(ctx)
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				yield(JobSummary{}, err)
				return
			}
			if !yield(job, nil) {
				return
			}
		}
	}
}

// Total returns the declared result count once a page has been fetched.
func (it *Iterator) Total() (int64, bool) { return it.cur.total, it.cur.totalKnown }

// Yielded is the number of jobs returned by Next so far.
func (it *Iterator) Yielded() int { return it.cur.yielded }

// PagesFetched is the number of successful page requests.
func (it *Iterator) PagesFetched() int { return it.cur.pages }

// Truncated reports whether iteration stopped at MaxPage while the server
// still declared more results.
func (it *Iterator) Truncated() bool { return it.cur.truncated }

// Err returns the error that stopped iteration, or nil.
func (it *Iterator) Err() error { return it.cur.err }

// AllJobs drains q from its page to exhaustion. On failure it returns no
// jobs, only the error.
func (c *Client) AllJobs(ctx context.Context, q SearchQuery) ([]JobSummary, error) {
	it := c.Jobs(q)
	var jobs []JobSummary
	for {
		job, err := it.Next(ctx)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if jobs == nil {
		jobs = []JobSummary{}
	}
	return jobs, nil
}
