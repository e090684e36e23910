package fetchers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"laborviz/internal/logger"
	"laborviz/internal/models"
	"laborviz/internal/storage"
)

// Static document names
const (
	CombinedDatasetFile     = "combined_dataset.json"
	CorrelationAnalysisFile = "correlation_analysis.json"
	TimeSeriesAnalysisFile  = "time_series_analysis.json"
	metadataSuffix          = "_metadata.json"
)

// MetadataFiles lists the per-dataset metadata documents, in display order
var MetadataFiles = []string{
	"labor_hours_metadata.json",
	"economic_indicators_metadata.json",
	"reading_time_metadata.json",
}

// StaticSource reads pre-built JSON documents from a storage client
type StaticSource struct {
	store storage.StorageClient
	log   *logger.Logger
}

// NewStaticSource creates a source over store
func NewStaticSource(store storage.StorageClient) *StaticSource {
	return &StaticSource{
		store: store,
		log:   logger.Component("fetchers.static"),
	}
}

// Name identifies the source in logs
func (s *StaticSource) Name() string {
	return "static"
}

func (s *StaticSource) read(ctx context.Context, resource, name string, target interface{}) error {
	body, err := s.store.GetFile(ctx, name)
	if err != nil {
		status := 0
		if errors.Is(err, storage.ErrNotExist) {
			status = 404
		}
		return newFetchError(resource, name, status, err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return newFetchError(resource, name, 0, err)
	}
	return nil
}

// FetchDataset reads combined_dataset.json, a bare array of records
func (s *StaticSource) FetchDataset(ctx context.Context) (models.Dataset, error) {
	var out models.Dataset
	if err := s.read(ctx, ResourceDataset, CombinedDatasetFile, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = models.Dataset{}
	}
	if err := out.Validate(); err != nil {
		return nil, newFetchError(ResourceDataset, CombinedDatasetFile, 0, err)
	}
	return out, nil
}

// FetchCorrelations reads correlation_analysis.json
func (s *StaticSource) FetchCorrelations(ctx context.Context) (models.Correlations, error) {
	var out models.Correlations
	if err := s.read(ctx, ResourceCorrelations, CorrelationAnalysisFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchMetadata reads the per-dataset metadata documents. Files that are
// missing or unreadable are skipped with a warning.
func (s *StaticSource) FetchMetadata(ctx context.Context) (models.Metadata, error) {
	out := make(models.Metadata, len(MetadataFiles))
	for _, name := range MetadataFiles {
		var entry models.MetadataEntry
		if err := s.read(ctx, ResourceMetadata, name, &entry); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Warn("Skipping metadata file", map[string]interface{}{
				"file":  name,
				"error": err.Error(),
			})
			continue
		}
		out[strings.TrimSuffix(name, metadataSuffix)] = entry
	}
	return out, nil
}

// FetchTimeSeries reads time_series_analysis.json without interpreting it
func (s *StaticSource) FetchTimeSeries(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.read(ctx, ResourceTimeSeries, TimeSeriesAnalysisFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}
