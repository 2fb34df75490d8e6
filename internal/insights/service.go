// Package insights is the retrieval facade used by the HTTP layer. It turns
// filter selections into store queries, memoizes chart summaries and derives
// the filter options.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"insights-dashboard/internal/aggregate"
	"insights-dashboard/internal/cache"
	"insights-dashboard/internal/filter"
	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/metrics"
	"insights-dashboard/internal/model"
	"insights-dashboard/internal/query"
	"insights-dashboard/internal/store"
)

// sharedTimeout bounds a retrieval shared between callers
const sharedTimeout = 30 * time.Second

// Finder is the part of the store the service reads from
type Finder interface {
	Find(ctx context.Context, p query.Predicate) ([]model.Record, error)
	DatasetVersion(ctx context.Context) (int64, error)
}

// Service answers dashboard data requests
type Service struct {
	store   Finder
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	log     logger.Logger
	group   singleflight.Group
}

// NewService wires a service. ttl bounds how long a summary is reused for an
// unchanged dataset version.
func NewService(finder Finder, c cache.Cache, ttl time.Duration, m *metrics.Metrics, log logger.Logger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{
		store:   finder,
		cache:   c,
		ttl:     ttl,
		metrics: m,
		log:     log,
	}
}

// Fetch returns the records matching sel
func (s *Service) Fetch(ctx context.Context, sel model.Selection) ([]model.Record, error) {
	return s.fetch(ctx, query.Build(sel))
}

func (s *Service) fetch(ctx context.Context, p query.Predicate) ([]model.Record, error) {
	start := time.Now()
	records, err := s.store.Find(ctx, p)
	s.metrics.ObserveFetch(time.Since(start), failureKind(err))
	if err != nil {
		s.logFailure("Failed to fetch insights", err, logger.String("predicate", p.Key()))
		return nil, err
	}
	s.log.Debug("Fetched insights",
		logger.String("predicate", p.Key()),
		logger.Int("count", len(records)),
		logger.Duration("duration", time.Since(start)),
	)
	return records, nil
}

// Summarize returns the chart summaries for sel. Results are shared between
// concurrent callers and cached per dataset version.
func (s *Service) Summarize(ctx context.Context, sel model.Selection, opts aggregate.Options) (model.Summary, error) {
	p := query.Build(sel)

	version, err := s.version(ctx)
	if err != nil {
		return model.Summary{}, err
	}
	key := fmt.Sprintf("summary:v%d:top%d:%s", version, opts.TopN, p.Key())

	var summary model.Summary
	if s.lookup(ctx, key, &summary) {
		return summary, nil
	}

	v, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		records, err := s.fetch(ctx, p)
		if err != nil {
			return nil, err
		}
		sum := aggregate.Summarize(records, opts)
		s.remember(ctx, key, sum)
		return sum, nil
	})
	if err != nil {
		return model.Summary{}, err
	}
	return v.(model.Summary), nil
}

// Options returns the distinct values of every filter field across the whole
// dataset. The options never narrow with the current selection.
func (s *Service) Options(ctx context.Context) (map[model.Field][]string, error) {
	version, err := s.version(ctx)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("options:v%d", version)

	var opts map[model.Field][]string
	if s.lookup(ctx, key, &opts) {
		return opts, nil
	}

	v, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		records, err := s.fetch(ctx, query.Predicate{})
		if err != nil {
			return nil, err
		}
		all := filter.AllOptions(records)
		s.remember(ctx, key, all)
		return all, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[model.Field][]string), nil
}

// shared runs fn once per key for all concurrent callers. fn gets a context
// detached from any single caller so one disconnect cannot fail the others;
// each caller still stops waiting when its own ctx ends.
func (s *Service) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := s.group.DoChan(key, func() (interface{}, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedTimeout)
		defer cancel()
		return fn(sctx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, &store.RetrievalError{Kind: store.KindCanceled, Op: "wait " + key, Err: ctx.Err()}
	}
}

func (s *Service) version(ctx context.Context) (int64, error) {
	version, err := s.store.DatasetVersion(ctx)
	if err != nil {
		s.metrics.ObserveFetch(0, failureKind(err))
		s.logFailure("Failed to read dataset version", err)
		return 0, err
	}
	return version, nil
}

// lookup decodes a cached value into dst. Cache trouble is logged and treated
// as a miss.
func (s *Service) lookup(ctx context.Context, key string, dst interface{}) bool {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.CacheResult("error")
		s.log.Warn("Summary cache read failed", logger.String("key", key), logger.Error(err))
		return false
	}
	if !ok {
		s.metrics.CacheResult("miss")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.metrics.CacheResult("error")
		s.log.Warn("Discarding undecodable cache entry", logger.String("key", key), logger.Error(err))
		return false
	}
	s.metrics.CacheResult("hit")
	return true
}

func (s *Service) remember(ctx context.Context, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("Summary encode failed", logger.String("key", key), logger.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.log.Warn("Summary cache write failed", logger.String("key", key), logger.Error(err))
	}
}

func (s *Service) logFailure(msg string, err error, fields ...logger.Field) {
	fields = append(fields, logger.String("kind", failureKind(err)), logger.Error(err))
	if store.KindOf(err) == store.KindCanceled {
		s.log.Debug(msg, fields...)
		return
	}
	s.log.Error(msg, fields...)
}

func failureKind(err error) string {
	if err == nil {
		return ""
	}
	if kind := store.KindOf(err); kind != "" {
		return string(kind)
	}
	return "unknown"
}
