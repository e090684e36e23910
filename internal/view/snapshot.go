package view

import (
	"laborviz/internal/charts"
	"laborviz/internal/models"
)

// Snapshot is the view state as served to the dashboard page
type Snapshot struct {
	Tab         charts.Kind               `json:"tab"`
	Tabs        []charts.Kind             `json:"tabs"`
	Indicator   string                    `json:"indicator"`
	Filter      models.YearFilter         `json:"filter"`
	YearRange   *models.YearRange         `json:"year_range,omitempty"`
	Records     int                       `json:"records"`
	Correlation *models.CorrelationResult `json:"correlation,omitempty"`
	Stats       *charts.Stats             `json:"stats,omitempty"`
	Banner      *Banner                   `json:"banner,omitempty"`
	ChartState  string                    `json:"chart_state"`
	ChartID     string                    `json:"chart_id"`
	Revision    uint64                    `json:"revision"`
}

// Snapshot copies the current view state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := c.renderers[c.tab]
	s := Snapshot{
		Tab:        c.tab,
		Tabs:       charts.Kinds(),
		Indicator:  c.indicator,
		Filter:     c.filter,
		Records:    len(c.dataset),
		Stats:      active.Stats(),
		ChartState: active.State().String(),
		ChartID:    c.tab.ContainerID(),
		Revision:   active.Revision(),
	}
	if c.yearRange != nil {
		yr := *c.yearRange
		s.YearRange = &yr
	}
	if c.correlation != nil && c.correlationFor == c.indicator {
		cr := *c.correlation
		s.Correlation = &cr
	}
	if c.banner != nil {
		b := *c.banner
		s.Banner = &b
	}
	return s
}
