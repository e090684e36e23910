package fetchers

import (
	"context"
	"errors"
	"testing"

	"laborviz/internal/models"
	"laborviz/internal/storage"
)

func newStaticFixture(t *testing.T, files map[string]string) *StaticSource {
	t.Helper()
	store, err := storage.NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	for name, body := range files {
		if err := store.StoreFile(context.Background(), name, []byte(body)); err != nil {
			t.Fatalf("Failed to store %s: %v", name, err)
		}
	}
	return NewStaticSource(store)
}

func TestStaticSource_FetchDataset(t *testing.T) {
	source := newStaticFixture(t, map[string]string{
		CombinedDatasetFile: `[{"year":1990,"hours_per_year":2031},{"year":1991,"hours_per_year":2016,"unemployment_rate":2.1}]`,
	})

	data, err := source.FetchDataset(context.Background())
	if err != nil {
		t.Fatalf("FetchDataset failed: %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(data))
	}
	if v, ok := data[1].Value("unemployment_rate"); !ok || v != 2.1 {
		t.Errorf("Expected extra column to be kept, got %v (%v)", v, ok)
	}
}

func TestStaticSource_FetchDatasetRejectsMalformedYears(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantDup bool
	}{
		{name: "duplicate year", body: `[{"year":1990,"hours_per_year":2031},{"year":1990,"hours_per_year":2016}]`, wantDup: true},
		{name: "fractional year", body: `[{"year":2001.9,"hours_per_year":1837}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newStaticFixture(t, map[string]string{CombinedDatasetFile: tt.body})

			data, err := source.FetchDataset(context.Background())
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("Expected FetchError, got %v (data=%v)", err, data)
			}
			if fetchErr.Resource != ResourceDataset {
				t.Errorf("Expected resource %q, got %q", ResourceDataset, fetchErr.Resource)
			}
			if got := errors.Is(err, models.ErrDuplicateYear); got != tt.wantDup {
				t.Errorf("errors.Is(err, ErrDuplicateYear) = %v, want %v (err=%v)", got, tt.wantDup, err)
			}
		})
	}
}

func TestStaticSource_MissingFile(t *testing.T) {
	source := newStaticFixture(t, nil)

	_, err := source.FetchCorrelations(context.Background())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != 404 {
		t.Errorf("Expected status 404, got %d", fetchErr.StatusCode)
	}
	if !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("Expected error to wrap storage.ErrNotExist, got %v", err)
	}
}

func TestStaticSource_MetadataSkipsBrokenFiles(t *testing.T) {
	source := newStaticFixture(t, map[string]string{
		"labor_hours_metadata.json":  `{"description":"hours","year_range":"1990-2023","data_points":34}`,
		"reading_time_metadata.json": `not json`,
	})

	meta, err := source.FetchMetadata(context.Background())
	if err != nil {
		t.Fatalf("FetchMetadata failed: %v", err)
	}
	if len(meta) != 1 {
		t.Fatalf("Expected 1 metadata entry, got %d: %v", len(meta), meta)
	}
	if meta["labor_hours"].YearRange != "1990-2023" {
		t.Errorf("Unexpected labor_hours entry: %+v", meta["labor_hours"])
	}
}

func TestStaticSource_TimeSeriesIsRaw(t *testing.T) {
	source := newStaticFixture(t, map[string]string{
		TimeSeriesAnalysisFile: `{"hours_per_year":{"trend":"decreasing"}}`,
	})

	raw, err := source.FetchTimeSeries(context.Background())
	if err != nil {
		t.Fatalf("FetchTimeSeries failed: %v", err)
	}
	if string(raw) != `{"hours_per_year":{"trend":"decreasing"}}` {
		t.Errorf("Unexpected document: %s", raw)
	}
}
