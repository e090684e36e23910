package charts

import (
	"errors"
	"math"

	"laborviz/internal/canvas"
	"laborviz/internal/models"
)

// correlationChart scatters working hours against the selected indicator
// and overlays the least squares line when analysis results are given
type correlationChart struct{}

func (correlationChart) render(f frame, data models.Dataset, opts Options) renderResult {
	indicator := opts.Indicator
	rows := data.Where(models.FieldHoursPerYear, indicator)
	if len(rows) == 0 {
		placeholder(f, noDataMessage, 18)
		return renderResult{}
	}

	xr0, xr1 := f.layout.xRange()
	yr0, yr1 := f.layout.yRange()
	hMin, hMax := extent(rows, models.FieldHoursPerYear)
	x := NewLinearScale(hMin, hMax, xr0, xr1).Nice(defaultTickCount)
	vMin, vMax := extent(rows, indicator)
	y := NewLinearScale(vMin, vMax, yr0, yr1).Nice(defaultTickCount)

	gridX(f, x)
	gridY(f, y)
	axisBottom(f, x, x.TickFormat(defaultTickCount), f.catalog.Label(models.FieldHoursPerYear))
	axisLeft(f, y, y.TickFormat(defaultTickCount), f.catalog.Label(indicator), colorAxis)

	fields := []string{models.FieldHoursPerYear, indicator}
	samples := make([]Point, 0, len(rows))
	points := make([]*hoverPoint, 0, len(rows))
	for _, rec := range rows {
		h, _ := rec.Value(models.FieldHoursPerYear)
		v, _ := rec.Value(indicator)
		samples = append(samples, Point{X: h, Y: v})
		el := f.surface.Circle(x.Map(h), y.Map(v), 4, canvas.Style{Fill: ColorIndicator, Opacity: 0.6, Class: "dot"})
		points = append(points, &hoverPoint{
			el:           el,
			record:       rec,
			fields:       fields,
			baseRadius:   4,
			baseOpacity:  0.6,
			hoverRadius:  6,
			hoverOpacity: 1,
		})
	}

	res := renderResult{
		scales: map[Axis]*LinearScale{AxisX: x, AxisY: y},
		points: points,
	}
	if opts.Correlation == nil {
		return res
	}

	if err := regressionLine(f, samples, x, y); err != nil {
		f.log.Warn("Skipping regression overlay", map[string]interface{}{
			"indicator": indicator,
			"samples":   len(samples),
			"error":     err.Error(),
		})
	}
	stats := NewStats(indicator, f.catalog.ShortLabel(indicator), *opts.Correlation)
	res.stats = &stats
	return res
}

// regressionLine draws the fitted line across the sampled x extent
func regressionLine(f frame, samples []Point, x, y *LinearScale) error {
	fit, err := ComputeOLS(samples)
	if err != nil {
		return err
	}
	lo, hi := extentX(samples)
	y0, y1 := fit.At(lo), fit.At(hi)
	if math.IsNaN(y0) || math.IsNaN(y1) {
		return errors.New("regression produced NaN")
	}
	f.surface.Line(x.Map(lo), y.Map(y0), x.Map(hi), y.Map(y1), canvas.Style{
		Stroke:      ColorRegression,
		StrokeWidth: 2,
		Dash:        []float64{5, 5},
		Class:       "regression-line",
	})
	return nil
}
