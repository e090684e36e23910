package models

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// CorrelationResult holds the pre-computed statistics for one indicator
// against annual labor hours.
type CorrelationResult struct {
	PearsonCorrelation  float64  `json:"pearson_correlation"`
	PearsonPValue       float64  `json:"pearson_p_value"`
	SpearmanCorrelation *float64 `json:"spearman_correlation,omitempty"`
	SpearmanPValue      *float64 `json:"spearman_p_value,omitempty"`
	NSamples            int      `json:"n_samples"`
}

// Correlations maps an indicator name to its result. Entries may be nil
// when the analysis could not be run for that indicator.
type Correlations map[string]*CorrelationResult

// MetadataEntry describes one source dataset
type MetadataEntry struct {
	Description string `json:"description"`
	YearRange   string `json:"year_range"`
	DataPoints  int    `json:"data_points"`
}

// Summary renders the entry as a one-line human readable description
func (m MetadataEntry) Summary() string {
	return fmt.Sprintf("%s (%s, %s data points)", m.Description, m.YearRange, humanize.Comma(int64(m.DataPoints)))
}

// Metadata maps a dataset key (labor_hours, economic_indicators, reading_time)
// to its description.
type Metadata map[string]MetadataEntry
