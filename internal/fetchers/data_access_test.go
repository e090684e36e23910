package fetchers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"laborviz/internal/mocks"
	"laborviz/internal/models"
)

func TestDataAccess_FetchOnceUnderConcurrency(t *testing.T) {
	source := mocks.NewMockService()
	source.SetDelay(50 * time.Millisecond)
	access := NewDataAccess(source)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := access.FetchDataset(context.Background(), models.YearFilter{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("FetchDataset failed: %v", err)
		}
	}
	if got := source.Calls(ResourceDataset); got != 1 {
		t.Errorf("Expected exactly 1 transport call, got %d", got)
	}

	// later calls, including derived resources, are served from the cache
	if _, _, err := access.FetchYearRange(context.Background()); err != nil {
		t.Fatalf("FetchYearRange failed: %v", err)
	}
	if _, err := access.FetchIndicators(context.Background()); err != nil {
		t.Fatalf("FetchIndicators failed: %v", err)
	}
	if got := source.Calls(ResourceDataset); got != 1 {
		t.Errorf("Expected cache hits after first fetch, got %d transport calls", got)
	}
}

func TestDataAccess_FilterReturnsFreshSlices(t *testing.T) {
	access := NewDataAccess(mocks.NewMockService())
	ctx := context.Background()

	first, err := access.FetchDataset(ctx, models.Between(2000, 2004))
	if err != nil {
		t.Fatalf("FetchDataset failed: %v", err)
	}
	if len(first) != 5 || first[0].Year != 2000 || first[4].Year != 2004 {
		t.Fatalf("Expected years 2000-2004, got %v", first)
	}
	first[0].Year = 1

	again, err := access.FetchDataset(ctx, models.Between(2000, 2000))
	if err != nil {
		t.Fatalf("FetchDataset failed: %v", err)
	}
	if len(again) != 1 || again[0].Year != 2000 {
		t.Errorf("Cached dataset was mutated through a filtered view: %v", again)
	}

	full, _ := access.FetchDataset(ctx, models.YearFilter{})
	if len(full) != 34 {
		t.Errorf("Expected 34 records in sample dataset, got %d", len(full))
	}
}

func TestDataAccess_ErrorsAreNotCached(t *testing.T) {
	source := mocks.NewMockService()
	boom := newFetchError(ResourceDataset, "mock", 503, errors.New("Service Unavailable"))
	source.FailWith(ResourceDataset, boom)
	access := NewDataAccess(source)

	_, err := access.FetchDataset(context.Background(), models.YearFilter{})
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode != 503 {
		t.Fatalf("Expected FetchError with status 503, got %v", err)
	}
	if err != error(boom) {
		t.Errorf("Expected error to propagate unchanged, got %v", err)
	}

	source.FailWith(ResourceDataset, nil)
	if _, err := access.FetchDataset(context.Background(), models.YearFilter{}); err != nil {
		t.Fatalf("Expected retry on next call to succeed, got %v", err)
	}
	if got := source.Calls(ResourceDataset); got != 2 {
		t.Errorf("Expected 2 transport calls, got %d", got)
	}
}

func TestDataAccess_YearRangeUnavailable(t *testing.T) {
	access := NewDataAccess(&staticFake{dataset: models.Dataset{}})

	_, ok, err := access.FetchYearRange(context.Background())
	if err != nil {
		t.Fatalf("FetchYearRange failed: %v", err)
	}
	if ok {
		t.Error("Expected year range to be unavailable for empty dataset")
	}
}

func TestDataAccess_Correlation(t *testing.T) {
	access := NewDataAccess(mocks.NewMockService())
	ctx := context.Background()

	r, err := access.FetchCorrelation(ctx, models.FieldGDPGrowthRate)
	if err != nil {
		t.Fatalf("FetchCorrelation failed: %v", err)
	}
	if r == nil || r.NSamples != 34 {
		t.Fatalf("Expected gdp_growth_rate result with 34 samples, got %+v", r)
	}
	r.NSamples = 0

	again, _ := access.FetchCorrelation(ctx, models.FieldGDPGrowthRate)
	if again.NSamples != 34 {
		t.Error("Returned correlation aliases the cache")
	}

	missing, err := access.FetchCorrelation(ctx, "does_not_exist")
	if err != nil || missing != nil {
		t.Errorf("Expected nil result for unknown indicator, got %+v (%v)", missing, err)
	}
	null, err := access.FetchCorrelation(ctx, "labor_productivity")
	if err != nil || null != nil {
		t.Errorf("Expected nil result for null entry, got %+v (%v)", null, err)
	}
}

func TestDataAccess_CallerCancelDoesNotPoisonCache(t *testing.T) {
	source := mocks.NewMockService()
	source.SetDelay(100 * time.Millisecond)
	access := NewDataAccess(source)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := access.FetchMetadata(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline error for impatient caller, got %v", err)
	}

	meta, err := access.FetchMetadata(context.Background())
	if err != nil {
		t.Fatalf("FetchMetadata failed: %v", err)
	}
	if len(meta) != 3 {
		t.Errorf("Expected 3 metadata entries, got %d", len(meta))
	}
	if got := source.Calls(ResourceMetadata); got != 1 {
		t.Errorf("Expected the abandoned fetch to be shared, got %d calls", got)
	}
}

func TestDataAccess_Warm(t *testing.T) {
	source := mocks.NewMockService()
	access := NewDataAccess(source)

	if err := access.Warm(context.Background()); err != nil {
		t.Fatalf("Warm failed: %v", err)
	}
	for _, r := range []string{ResourceDataset, ResourceCorrelations, ResourceMetadata} {
		if got := source.Calls(r); got != 1 {
			t.Errorf("Expected %s to be fetched once, got %d", r, got)
		}
	}

	source.FailWith(ResourceTimeSeries, errors.New("down"))
	if _, err := access.FetchTimeSeriesAnalysis(context.Background()); err == nil {
		t.Error("Expected time series failure to surface")
	}
}

// staticFake is a minimal Source returning fixed values
type staticFake struct {
	dataset models.Dataset
}

func (f *staticFake) Name() string { return "fake" }

func (f *staticFake) FetchDataset(ctx context.Context) (models.Dataset, error) {
	return f.dataset, nil
}

func (f *staticFake) FetchCorrelations(ctx context.Context) (models.Correlations, error) {
	return models.Correlations{}, nil
}

func (f *staticFake) FetchMetadata(ctx context.Context) (models.Metadata, error) {
	return models.Metadata{}, nil
}

func (f *staticFake) FetchTimeSeries(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}
