package charts

import (
	"fmt"

	"laborviz/internal/models"
)

// Stats is the panel shown under the correlation chart
type Stats struct {
	Indicator string   `json:"indicator"`
	Label     string   `json:"label"`
	Pearson   float64  `json:"pearson_correlation"`
	PValue    float64  `json:"pearson_p_value"`
	Samples   int      `json:"n_samples"`
	Strength  string   `json:"strength"`
	Spearman  *float64 `json:"spearman_correlation,omitempty"`
}

// StatRow is one label/value line of the panel
type StatRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// NewStats builds the panel for an analysis result
func NewStats(indicator, label string, r models.CorrelationResult) Stats {
	s := Stats{
		Indicator: indicator,
		Label:     label,
		Pearson:   r.PearsonCorrelation,
		PValue:    r.PearsonPValue,
		Samples:   r.NSamples,
		Strength:  Interpret(r.PearsonCorrelation),
	}
	if r.SpearmanCorrelation != nil {
		v := *r.SpearmanCorrelation
		s.Spearman = &v
	}
	return s
}

// Title heads the panel
func (s Stats) Title() string {
	return "Correlation analysis: " + s.Label
}

// Rows formats coefficients and p-values to four decimals
func (s Stats) Rows() []StatRow {
	rows := []StatRow{
		{Label: "Pearson correlation", Value: fmt.Sprintf("%.4f", s.Pearson)},
		{Label: "P-value", Value: fmt.Sprintf("%.4f", s.PValue)},
		{Label: "Samples", Value: fmt.Sprintf("%d", s.Samples)},
		{Label: "Interpretation", Value: s.Strength},
	}
	if s.Spearman != nil {
		rows = append(rows, StatRow{Label: "Spearman correlation", Value: fmt.Sprintf("%.4f", *s.Spearman)})
	}
	return rows
}
