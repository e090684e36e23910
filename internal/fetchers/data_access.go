package fetchers

import (
	"context"
	"encoding/json"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"laborviz/internal/logger"
	"laborviz/internal/models"
)

// DataAccess fetches each resource from its Source at most once per
// process and serves later calls from memory. Concurrent first calls
// share one in-flight fetch. Failures are not cached, so the next call
// tries again.
type DataAccess struct {
	source Source
	group  singleflight.Group
	log    *logger.Logger

	mu           sync.RWMutex
	dataset      models.Dataset
	correlations models.Correlations
	metadata     models.Metadata
	timeseries   json.RawMessage
	loaded       map[string]bool
}

// NewDataAccess creates a DataAccess over source
func NewDataAccess(source Source) *DataAccess {
	return &DataAccess{
		source: source,
		log:    logger.Component("fetchers"),
		loaded: make(map[string]bool),
	}
}

// SourceName returns the name of the underlying source
func (a *DataAccess) SourceName() string {
	return a.source.Name()
}

// load returns the cached value for key, fetching it through the
// singleflight group on a miss. The fetch runs detached from ctx so a
// caller that gives up does not fail the others waiting on it; the
// abandoned fetch still completes and fills the cache.
func (a *DataAccess) load(ctx context.Context, key string, cached func() interface{}, fetch func(context.Context) (interface{}, error), store func(interface{})) (interface{}, error) {
	a.mu.RLock()
	if a.loaded[key] {
		v := cached()
		a.mu.RUnlock()
		return v, nil
	}
	a.mu.RUnlock()

	ch := a.group.DoChan(key, func() (interface{}, error) {
		a.mu.RLock()
		if a.loaded[key] {
			v := cached()
			a.mu.RUnlock()
			return v, nil
		}
		a.mu.RUnlock()

		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			a.log.Error("Fetch failed", err, map[string]interface{}{
				"resource": key,
				"source":   a.source.Name(),
			})
			return nil, err
		}

		a.mu.Lock()
		store(v)
		a.loaded[key] = true
		a.mu.Unlock()
		a.log.Info("Resource cached", map[string]interface{}{
			"resource": key,
			"source":   a.source.Name(),
		})
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *DataAccess) fullDataset(ctx context.Context) (models.Dataset, error) {
	v, err := a.load(ctx, ResourceDataset,
		func() interface{} { return a.dataset },
		func(ctx context.Context) (interface{}, error) { return a.source.FetchDataset(ctx) },
		func(v interface{}) { a.dataset = v.(models.Dataset) },
	)
	if err != nil {
		return nil, err
	}
	return v.(models.Dataset), nil
}

// FetchDataset returns the records inside filter. The result is always a
// fresh slice; the cached dataset is never exposed.
func (a *DataAccess) FetchDataset(ctx context.Context, filter models.YearFilter) (models.Dataset, error) {
	full, err := a.fullDataset(ctx)
	if err != nil {
		return nil, err
	}
	return full.Filter(filter), nil
}

// FetchYearRange returns the min and max year. ok is false when the
// dataset is empty.
func (a *DataAccess) FetchYearRange(ctx context.Context) (yr models.YearRange, ok bool, err error) {
	full, err := a.fullDataset(ctx)
	if err != nil {
		return models.YearRange{}, false, err
	}
	yr, ok = full.YearRange()
	return yr, ok, nil
}

// FetchIndicators lists the dataset's columns other than year
func (a *DataAccess) FetchIndicators(ctx context.Context) ([]string, error) {
	full, err := a.fullDataset(ctx)
	if err != nil {
		return nil, err
	}
	return full.Indicators(), nil
}

// FetchCorrelations returns a copy of every indicator's correlation result
func (a *DataAccess) FetchCorrelations(ctx context.Context) (models.Correlations, error) {
	v, err := a.load(ctx, ResourceCorrelations,
		func() interface{} { return a.correlations },
		func(ctx context.Context) (interface{}, error) { return a.source.FetchCorrelations(ctx) },
		func(v interface{}) { a.correlations = v.(models.Correlations) },
	)
	if err != nil {
		return nil, err
	}
	src := v.(models.Correlations)
	out := make(models.Correlations, len(src))
	for k, r := range src {
		if r != nil {
			c := *r
			r = &c
		}
		out[k] = r
	}
	return out, nil
}

// FetchCorrelation returns the result for indicator, or nil when the
// analysis has no entry for it.
func (a *DataAccess) FetchCorrelation(ctx context.Context, indicator string) (*models.CorrelationResult, error) {
	all, err := a.FetchCorrelations(ctx)
	if err != nil {
		return nil, err
	}
	return all[indicator], nil
}

// FetchMetadata returns a copy of the dataset descriptions
func (a *DataAccess) FetchMetadata(ctx context.Context) (models.Metadata, error) {
	v, err := a.load(ctx, ResourceMetadata,
		func() interface{} { return a.metadata },
		func(ctx context.Context) (interface{}, error) { return a.source.FetchMetadata(ctx) },
		func(v interface{}) { a.metadata = v.(models.Metadata) },
	)
	if err != nil {
		return nil, err
	}
	src := v.(models.Metadata)
	out := make(models.Metadata, len(src))
	for k, m := range src {
		out[k] = m
	}
	return out, nil
}

// FetchTimeSeriesAnalysis returns the raw time series analysis document
func (a *DataAccess) FetchTimeSeriesAnalysis(ctx context.Context) (json.RawMessage, error) {
	v, err := a.load(ctx, ResourceTimeSeries,
		func() interface{} { return a.timeseries },
		func(ctx context.Context) (interface{}, error) { return a.source.FetchTimeSeries(ctx) },
		func(v interface{}) { a.timeseries = v.(json.RawMessage) },
	)
	if err != nil {
		return nil, err
	}
	raw := v.(json.RawMessage)
	return append(json.RawMessage(nil), raw...), nil
}

// Warm loads the dataset, correlations and metadata concurrently. It
// returns the first error; resources that did load stay cached.
func (a *DataAccess) Warm(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := a.fullDataset(ctx)
		return err
	})
	g.Go(func() error {
		_, err := a.FetchCorrelations(ctx)
		return err
	})
	g.Go(func() error {
		_, err := a.FetchMetadata(ctx)
		return err
	})
	return g.Wait()
}
