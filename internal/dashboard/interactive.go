package dashboard

import (
	"fmt"
	"io"
	"math"
	"strconv"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"laborviz/internal/charts"
	"laborviz/internal/models"
)

// InteractiveInput is what the ECharts page is built from
type InteractiveInput struct {
	Data        models.Dataset
	Indicator   string
	Correlation *models.CorrelationResult
}

const (
	interactiveWidth  = "800px"
	interactiveHeight = "500px"
)

// NewInteractivePage builds a go-echarts page with the four dashboard
// charts, in tab order
func NewInteractivePage(in InteractiveInput, catalog *models.Catalog) *components.Page {
	if in.Indicator == "" {
		in.Indicator = models.DefaultIndicator
	}
	page := components.NewPage()
	page.PageTitle = "Labor hours dashboard (interactive)"
	page.AddCharts(
		dualAxisLine(catalog, in.Data, "Working hours and "+catalog.ShortLabel(in.Indicator), in.Indicator, charts.ColorIndicator),
		correlationScatter(catalog, in),
		comparisonPlaceholder(),
		dualAxisLine(catalog, in.Data, "Working hours and reading time", models.FieldReadingMinutesPerDay, charts.ColorReading),
	)
	return page
}

// RenderInteractive writes the ECharts page as a complete HTML document
func RenderInteractive(w io.Writer, in InteractiveInput, catalog *models.Catalog) error {
	if err := NewInteractivePage(in, catalog).Render(w); err != nil {
		return fmt.Errorf("failed to render interactive page: %w", err)
	}
	return nil
}

func globalOpts(title, subtitle string) []echarts.GlobalOpts {
	return []echarts.GlobalOpts{
		echarts.WithInitializationOpts(opts.Initialization{Width: interactiveWidth, Height: interactiveHeight}),
		echarts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	}
}

// dualAxisLine plots hours on the left axis and second on the right one
func dualAxisLine(catalog *models.Catalog, data models.Dataset, title, second, color string) *echarts.Line {
	rows := data.Where(models.FieldHoursPerYear, second).SortedByYear()

	subtitle := ""
	if len(rows) == 0 {
		subtitle = "No data available"
	}

	line := echarts.NewLine()
	line.SetGlobalOptions(append(globalOpts(title, subtitle),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithXAxisOpts(opts.XAxis{Name: "Year", Type: "category"}),
		echarts.WithYAxisOpts(opts.YAxis{
			Name:  catalog.Label(models.FieldHoursPerYear),
			Type:  "value",
			Scale: opts.Bool(true),
		}),
	)...)
	line.ExtendYAxis(opts.YAxis{
		Name:     catalog.Label(second),
		Type:     "value",
		Position: "right",
		Scale:    opts.Bool(true),
	})

	years := make([]string, len(rows))
	hours := make([]opts.LineData, len(rows))
	values := make([]opts.LineData, len(rows))
	for i, r := range rows {
		years[i] = strconv.Itoa(r.Year)
		hours[i] = opts.LineData{Value: *r.HoursPerYear}
		v, _ := r.Value(second)
		values[i] = opts.LineData{Value: v}
	}

	line.SetXAxis(years).
		AddSeries(catalog.ShortLabel(models.FieldHoursPerYear), hours,
			echarts.WithItemStyleOpts(opts.ItemStyle{Color: charts.ColorHours}),
			echarts.WithLineStyleOpts(opts.LineStyle{Color: charts.ColorHours, Width: 2}),
		).
		AddSeries(catalog.ShortLabel(second), values,
			echarts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}),
			echarts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			echarts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 2}),
		)
	return line
}

// correlationScatter plots hours against the indicator, with the OLS fit
// overlaid when an analysis result is available
func correlationScatter(catalog *models.Catalog, in InteractiveInput) *echarts.Scatter {
	rows := in.Data.Where(models.FieldHoursPerYear, in.Indicator)

	title := "Working hours vs " + catalog.ShortLabel(in.Indicator)
	subtitle := ""
	switch {
	case len(rows) == 0:
		subtitle = "No data available"
	case in.Correlation != nil:
		subtitle = fmt.Sprintf("r = %.4f, p = %.4f, n = %d (%s)",
			in.Correlation.PearsonCorrelation, in.Correlation.PearsonPValue,
			in.Correlation.NSamples, charts.Interpret(in.Correlation.PearsonCorrelation))
	}

	scatter := echarts.NewScatter()
	scatter.SetGlobalOptions(append(globalOpts(title, subtitle),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		echarts.WithXAxisOpts(opts.XAxis{Name: catalog.Label(models.FieldHoursPerYear), Type: "value", Scale: opts.Bool(true)}),
		echarts.WithYAxisOpts(opts.YAxis{Name: catalog.Label(in.Indicator), Type: "value", Scale: opts.Bool(true)}),
	)...)

	points := make([]charts.Point, 0, len(rows))
	data := make([]opts.ScatterData, 0, len(rows))
	for _, r := range rows {
		y, _ := r.Value(in.Indicator)
		points = append(points, charts.Point{X: *r.HoursPerYear, Y: y})
		data = append(data, opts.ScatterData{
			Name:       strconv.Itoa(r.Year),
			Value:      []float64{*r.HoursPerYear, y},
			SymbolSize: 8,
		})
	}
	scatter.AddSeries(catalog.ShortLabel(in.Indicator), data,
		echarts.WithItemStyleOpts(opts.ItemStyle{Color: charts.ColorIndicator, Opacity: opts.Float(0.6)}),
	)

	if in.Correlation == nil || len(points) == 0 {
		return scatter
	}
	fit, err := charts.ComputeOLS(points)
	if err != nil {
		return scatter
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
	}
	overlay := echarts.NewLine()
	overlay.AddSeries("Regression line", []opts.LineData{
		{Value: []float64{minX, fit.At(minX)}},
		{Value: []float64{maxX, fit.At(maxX)}},
	},
		echarts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		echarts.WithLineStyleOpts(opts.LineStyle{Color: charts.ColorRegression, Width: 2, Type: "dashed"}),
	)
	scatter.Overlap(overlay)
	return scatter
}

func comparisonPlaceholder() *echarts.Bar {
	bar := echarts.NewBar()
	bar.SetGlobalOptions(globalOpts("International comparison",
		"International comparison data is not available yet.")...)
	return bar
}
