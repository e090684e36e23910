package mocks

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"laborviz/internal/models"
)

//go:embed data/*.json
var fixtures embed.FS

// MockService is an in-memory data source backed by the sample documents
// embedded in the binary. It powers mock mode and doubles as a test fake:
// it counts calls per resource and can be told to fail or stall.
type MockService struct {
	files fs.FS

	mu       sync.Mutex
	calls    map[string]int
	failures map[string]error
	delay    time.Duration
}

// NewMockService creates a mock service over the embedded sample data
func NewMockService() *MockService {
	sub, err := fs.Sub(fixtures, "data")
	if err != nil {
		panic(err)
	}
	return NewMockServiceFS(sub)
}

// NewMockServiceFS creates a mock service over an arbitrary set of documents
func NewMockServiceFS(files fs.FS) *MockService {
	return &MockService{
		files:    files,
		calls:    make(map[string]int),
		failures: make(map[string]error),
	}
}

// Name identifies the source in logs
func (m *MockService) Name() string {
	return "mock"
}

// FailWith makes every later fetch of resource return err; nil clears it
func (m *MockService) FailWith(resource string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, resource)
		return
	}
	m.failures[resource] = err
}

// SetDelay makes every fetch sleep for d before answering
func (m *MockService) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Calls returns how many fetches of resource were made
func (m *MockService) Calls(resource string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[resource]
}

func (m *MockService) begin(ctx context.Context, resource string) error {
	m.mu.Lock()
	m.calls[resource]++
	delay := m.delay
	failure := m.failures[resource]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return failure
}

func (m *MockService) decode(name string, target interface{}) error {
	content, err := fs.ReadFile(m.files, name)
	if err != nil {
		return fmt.Errorf("failed to read mock file %s: %w", name, err)
	}
	if err := json.Unmarshal(content, target); err != nil {
		return fmt.Errorf("failed to unmarshal mock file %s: %w", name, err)
	}
	return nil
}

// FetchDataset returns the sample combined dataset
func (m *MockService) FetchDataset(ctx context.Context) (models.Dataset, error) {
	if err := m.begin(ctx, "dataset"); err != nil {
		return nil, err
	}
	var out models.Dataset
	if err := m.decode("combined_dataset.json", &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("sample dataset: %w", err)
	}
	return out, nil
}

// FetchCorrelations returns the sample correlation analysis
func (m *MockService) FetchCorrelations(ctx context.Context) (models.Correlations, error) {
	if err := m.begin(ctx, "correlations"); err != nil {
		return nil, err
	}
	var out models.Correlations
	if err := m.decode("correlation_analysis.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchMetadata returns every *_metadata.json document in the fixture set
func (m *MockService) FetchMetadata(ctx context.Context) (models.Metadata, error) {
	if err := m.begin(ctx, "metadata"); err != nil {
		return nil, err
	}
	names, err := fs.Glob(m.files, "*_metadata.json")
	if err != nil {
		return nil, err
	}
	out := make(models.Metadata, len(names))
	for _, name := range names {
		var entry models.MetadataEntry
		if err := m.decode(name, &entry); err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(name, "_metadata.json")] = entry
	}
	return out, nil
}

// FetchTimeSeries returns the sample time series analysis document
func (m *MockService) FetchTimeSeries(ctx context.Context) (json.RawMessage, error) {
	if err := m.begin(ctx, "timeseries"); err != nil {
		return nil, err
	}
	content, err := fs.ReadFile(m.files, "time_series_analysis.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read mock time series: %w", err)
	}
	return json.RawMessage(content), nil
}
