package tokensync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	loggeradapter "github.com/jatsharma/stackera-project/internal/adapters/logger"
	"github.com/jatsharma/stackera-project/internal/adapters/metrics"
	"github.com/jatsharma/stackera-project/internal/adapters/uniswap"
	"github.com/jatsharma/stackera-project/internal/domain"
	"github.com/jatsharma/stackera-project/internal/domain/token"
)

const (
	PageSize   = 1000
	MaxPages   = 6
	MaxRecords = PageSize * MaxPages
)

var (
	ErrFetch   = errors.New("token fetch failed")
	ErrPersist = errors.New("token persist failed")
)

// FetchError reports the page that aborted a cycle.
type FetchError struct {
	Page int
	Skip int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d (skip %d): %v", e.Page, e.Skip, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetch, domain.ErrUpstreamFailure, e.Err}
}

type PersistError struct {
	Records int
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %d tokens: %v", e.Records, e.Err)
}

func (e *PersistError) Unwrap() []error {
	return []error{ErrPersist, domain.ErrPersistenceFailure, e.Err}
}

// Snapshotter receives every fetched batch before it is written.
type Snapshotter interface {
	Write(runID string, tokens []*token.Token) error
}

// Result describes one cycle. Err is nil on success.
type Result struct {
	RunID    string
	Pages    int
	Fetched  int
	Written  int
	Started  time.Time
	Duration time.Duration
	Err      error
}

func (r Result) OK() bool { return r.Err == nil }

// Job copies the top tokens by total supply from the subgraph into the store.
// A cycle either writes every fetched row or nothing.
type Job struct {
	upstream domain.Upstream
	store    token.Writer
	snapshot Snapshotter
	metrics  *metrics.Metrics
	logger   *loggeradapter.Logger
	pageSize int
	maxPages int
	now      func() time.Time
}

func NewJob(upstream domain.Upstream, store token.Writer, logger *loggeradapter.Logger) *Job {
	if logger == nil {
		logger = loggeradapter.NewNopLogger()
	}
	return &Job{
		upstream: upstream,
		store:    store,
		logger:   logger,
		pageSize: PageSize,
		maxPages: MaxPages,
		now:      time.Now,
	}
}

func (j *Job) SetSnapshotter(s Snapshotter) {
	j.snapshot = s
}

func (j *Job) SetMetrics(m *metrics.Metrics) {
	j.metrics = m
}

// Run performs one cycle. Failures are logged and returned in the Result.
func (j *Job) Run(ctx context.Context) Result {
	res := Result{RunID: uuid.NewString(), Started: j.now()}
	log := j.logger.WithFields(zap.String("run_id", res.RunID))
	log.Info("token sync started")

	batch, pages, fetched, err := j.fetchAll(ctx)
	res.Pages, res.Fetched = pages, fetched
	if err == nil {
		res.Err = j.persist(ctx, log, res.RunID, batch)
		if res.Err == nil {
			res.Written = len(batch)
		}
	} else {
		res.Err = err
	}

	res.Duration = j.now().Sub(res.Started)
	j.metrics.ObserveSync(res.OK(), res.Written, res.Duration, res.Started.Add(res.Duration))

	fields := []zap.Field{
		zap.Int("pages", res.Pages),
		zap.Int("records", res.Written),
		zap.Int("fetched", res.Fetched),
		zap.Duration("duration", res.Duration),
	}
	if res.Err != nil {
		log.WithError(res.Err).Error("token sync failed", fields...)
		return res
	}
	log.Info("token sync finished", fields...)
	return res
}

func (j *Job) fetchAll(ctx context.Context) ([]*token.Token, int, int, error) {
	var (
		all   []*token.Token
		pages int
	)
	for page := 0; page < j.maxPages; page++ {
		skip := page * j.pageSize

		var data uniswap.TokensData
		if err := j.upstream.Decode(ctx, "sync_tokens", uniswap.TokensPageQuery(j.pageSize, skip), &data); err != nil {
			return nil, pages, len(all), &FetchError{Page: page + 1, Skip: skip, Err: err}
		}
		pages++

		for _, dto := range data.Tokens {
			t, err := dto.ToDomain()
			if err != nil {
				return nil, pages, len(all), &FetchError{Page: page + 1, Skip: skip, Err: err}
			}
			all = append(all, t)
		}

		if len(data.Tokens) < j.pageSize {
			break
		}
	}

	fetched := len(all)
	if fetched > j.pageSize*j.maxPages {
		all = all[:j.pageSize*j.maxPages]
	}
	return token.Dedupe(all), pages, fetched, nil
}

func (j *Job) persist(ctx context.Context, log *loggeradapter.Logger, runID string, batch []*token.Token) error {
	if j.snapshot != nil {
		if err := j.snapshot.Write(runID, batch); err != nil {
			log.Warn("failed to write sync snapshot", zap.Error(err))
		}
	}

	if len(batch) == 0 {
		log.Warn("upstream returned no tokens, nothing to write")
		return nil
	}

	if err := j.store.UpsertTokens(ctx, batch); err != nil {
		return &PersistError{Records: len(batch), Err: err}
	}
	return nil
}
