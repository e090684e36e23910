package dashboard

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"laborviz/internal/charts"
	"laborviz/internal/models"
	"laborviz/internal/view"
)

func sampleData() models.Dataset {
	return models.Dataset{
		{Year: 2001, HoursPerYear: models.Float(1809), GDPGrowthRate: models.Float(0.4), ReadingMinutesPerDay: models.Float(21)},
		{Year: 2000, HoursPerYear: models.Float(1821), GDPGrowthRate: models.Float(2.8), ReadingMinutesPerDay: models.Float(22)},
		{Year: 2002, HoursPerYear: models.Float(1798), GDPGrowthRate: models.Float(0.1)},
	}
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(models.DefaultCatalog())
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	b.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return b
}

func TestExplanationMarkdown(t *testing.T) {
	info, ok := models.DefaultCatalog().Lookup(models.FieldGDPGrowthRate)
	if !ok {
		t.Fatal("Expected gdp_growth_rate in catalogue")
	}
	md := ExplanationMarkdown(info)
	for _, want := range []string{"### GDP growth rate", "**Strengths**", "**Limitations**", "- Primary gauge of overall economic health"} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q, got:\n%s", want, md)
		}
	}

	if got := ExplanationMarkdown(models.IndicatorInfo{Key: "x"}); got != "" {
		t.Errorf("Expected empty markdown without explanation, got %q", got)
	}
}

func TestExplanationHTML(t *testing.T) {
	b := newTestBuilder(t)

	html, err := b.ExplanationHTML(models.FieldGDPPerCapitaUSD)
	if err != nil {
		t.Fatalf("ExplanationHTML failed: %v", err)
	}
	for _, want := range []string{"<h3", "GDP per capita", "<ul>", "<strong>Strengths</strong>"} {
		if !strings.Contains(string(html), want) {
			t.Errorf("Expected HTML to contain %q, got:\n%s", want, html)
		}
	}

	html, err = b.ExplanationHTML("unknown_indicator")
	if err != nil || html != "" {
		t.Errorf("Expected empty HTML for unknown indicator, got %q (err=%v)", html, err)
	}
}

func TestBuilder_Render(t *testing.T) {
	b := newTestBuilder(t)
	stats := charts.NewStats(models.FieldGDPGrowthRate, "GDP growth rate",
		models.CorrelationResult{PearsonCorrelation: -0.6234, PearsonPValue: 0.0001, NSamples: 34})

	in := PageInput{
		Snapshot: view.Snapshot{
			Tab:       charts.KindCorrelation,
			Tabs:      charts.Kinds(),
			Indicator: models.FieldGDPGrowthRate,
			Filter:    models.Between(1990, 2023),
			YearRange: &models.YearRange{Min: 1990, Max: 2023},
			Records:   34,
			Stats:     &stats,
			Banner:    &view.Banner{ID: 1, Message: "Failed to load data: <boom>"},
			ChartID:   charts.KindCorrelation.ContainerID(),
			Revision:  7,
		},
		Metadata: models.Metadata{
			"reading_time": {Description: "Reading time per day", YearRange: "1991-2021", DataPoints: 1200},
			"labor_hours":  {Description: "Annual hours worked", YearRange: "1990-2023", DataPoints: 34},
		},
		Version: "1.2.3",
	}

	var buf bytes.Buffer
	if err := b.Render(&buf, in); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	page := buf.String()

	for _, want := range []string{
		`id="correlation-chart"`,
		`/view/chart.svg?rev=7`,
		`Failed to load data: &lt;boom&gt;`,
		`class="active">Correlation`,
		`value="1990"`,
		`value="2023"`,
		`-0.6234`,
		`strong`,
		`1,200`,
		`v1.2.3`,
		`<option value="gdp_growth_rate" selected>`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}

	if strings.Index(page, "labor_hours") > strings.Index(page, "reading_time") {
		t.Error("Expected data sources sorted by key")
	}
}

func TestBuilder_RenderMinimal(t *testing.T) {
	b := newTestBuilder(t)
	var buf bytes.Buffer
	err := b.Render(&buf, PageInput{Snapshot: view.Snapshot{
		Tab:       charts.KindTimeSeries,
		Tabs:      charts.Kinds(),
		Indicator: models.DefaultIndicator,
	}})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	page := buf.String()
	if strings.Contains(page, "error-banner") {
		t.Error("Expected no banner")
	}
	if strings.Contains(page, "correlation-stats") {
		t.Error("Expected no stats panel outside the correlation tab")
	}
}

func TestRenderInteractive(t *testing.T) {
	var buf bytes.Buffer
	in := InteractiveInput{
		Data:        sampleData(),
		Indicator:   models.FieldGDPGrowthRate,
		Correlation: &models.CorrelationResult{PearsonCorrelation: -0.62, PearsonPValue: 0.0001, NSamples: 3},
	}
	if err := RenderInteractive(&buf, in, models.DefaultCatalog()); err != nil {
		t.Fatalf("RenderInteractive failed: %v", err)
	}
	page := buf.String()
	for _, want := range []string{
		"echarts",
		"Working hours and GDP growth rate",
		"Working hours vs GDP growth rate",
		"Regression line",
		"International comparison",
		"Working hours and reading time",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("Expected interactive page to contain %q", want)
		}
	}
}

func TestNewInteractivePage_Charts(t *testing.T) {
	page := NewInteractivePage(InteractiveInput{Data: sampleData()}, models.DefaultCatalog())
	if got := len(page.Charts); got != 4 {
		t.Errorf("Expected 4 charts, got %d", got)
	}
}

func TestTabLabel(t *testing.T) {
	if got := TabLabel(charts.KindReading); got != "Reading time" {
		t.Errorf("Expected 'Reading time', got %q", got)
	}
	if got := TabLabel(charts.Kind("other")); got != "other" {
		t.Errorf("Expected fallback to kind, got %q", got)
	}
}
