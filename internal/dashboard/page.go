package dashboard

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"laborviz/internal/charts"
	"laborviz/internal/models"
	"laborviz/internal/view"
)

//go:embed templates/dashboard.html
var dashboardTemplate string

var tabLabels = map[charts.Kind]string{
	charts.KindTimeSeries:  "Time series",
	charts.KindCorrelation: "Correlation",
	charts.KindComparison:  "International comparison",
	charts.KindReading:     "Reading time",
}

// TabLabel is the caption of a dashboard tab
func TabLabel(kind charts.Kind) string {
	if l, ok := tabLabels[kind]; ok {
		return l
	}
	return string(kind)
}

// PageInput is what the dashboard page is built from
type PageInput struct {
	Snapshot view.Snapshot
	Metadata models.Metadata
	Version  string
}

// Tab is one entry of the tab bar
type Tab struct {
	Kind   string
	Label  string
	Active bool
}

// IndicatorOption is one entry of the indicator picker
type IndicatorOption struct {
	Key      string
	Label    string
	Selected bool
}

// Source is one row of the data sources panel
type Source struct {
	Key         string
	Description string
	YearRange   string
	DataPoints  string
}

// PageData is the template model of the dashboard page
type PageData struct {
	Title       string
	Version     string
	GeneratedAt string
	Snapshot    view.Snapshot
	Tabs        []Tab
	Indicators  []IndicatorOption
	ChartURL    string
	StatsTitle  string
	StatsRows   []charts.StatRow
	Explanation template.HTML
	Sources     []Source
}

// Builder renders the dashboard HTML page
type Builder struct {
	goldmark goldmark.Markdown
	tmpl     *template.Template
	catalog  *models.Catalog
	now      func() time.Time
}

// NewBuilder parses the page template
func NewBuilder(catalog *models.Catalog) (*Builder, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	tmpl, err := template.New("dashboard").Parse(dashboardTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	return &Builder{goldmark: md, tmpl: tmpl, catalog: catalog, now: time.Now}, nil
}

// ExplanationMarkdown describes an indicator with its pros and cons
func ExplanationMarkdown(info models.IndicatorInfo) string {
	if info.Explanation == nil {
		return ""
	}
	e := info.Explanation
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n%s\n\n", e.Title, e.Description)
	if len(e.Pros) > 0 {
		b.WriteString("**Strengths**\n\n")
		for _, p := range e.Pros {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}
	if len(e.Cons) > 0 {
		b.WriteString("**Limitations**\n\n")
		for _, c := range e.Cons {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	return b.String()
}

// ExplanationHTML renders the explanation panel of indicator
func (b *Builder) ExplanationHTML(indicator string) (template.HTML, error) {
	info, ok := b.catalog.Lookup(indicator)
	if !ok {
		return "", nil
	}
	var buf bytes.Buffer
	if err := b.goldmark.Convert([]byte(ExplanationMarkdown(info)), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Data assembles the template model
func (b *Builder) Data(in PageInput) (PageData, error) {
	s := in.Snapshot
	data := PageData{
		Title:       "Japanese working hours and the economy",
		Version:     in.Version,
		GeneratedAt: b.now().UTC().Format("2006-01-02 15:04:05 UTC"),
		Snapshot:    s,
		ChartURL:    fmt.Sprintf("/view/chart.svg?rev=%d", s.Revision),
	}

	for _, kind := range s.Tabs {
		data.Tabs = append(data.Tabs, Tab{Kind: string(kind), Label: TabLabel(kind), Active: kind == s.Tab})
	}
	for _, info := range b.catalog.Selectable() {
		data.Indicators = append(data.Indicators, IndicatorOption{
			Key:      info.Key,
			Label:    info.ShortLabel,
			Selected: info.Key == s.Indicator,
		})
	}
	if s.Stats != nil {
		data.StatsTitle = s.Stats.Title()
		data.StatsRows = s.Stats.Rows()
	}

	explanation, err := b.ExplanationHTML(s.Indicator)
	if err != nil {
		return PageData{}, err
	}
	data.Explanation = explanation

	keys := make([]string, 0, len(in.Metadata))
	for k := range in.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m := in.Metadata[k]
		data.Sources = append(data.Sources, Source{
			Key:         k,
			Description: m.Description,
			YearRange:   m.YearRange,
			DataPoints:  humanize.Comma(int64(m.DataPoints)),
		})
	}
	return data, nil
}

// Render writes the dashboard page
func (b *Builder) Render(w io.Writer, in PageInput) error {
	data, err := b.Data(in)
	if err != nil {
		return err
	}
	if err := b.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}
