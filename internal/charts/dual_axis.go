package charts

import (
	"math"

	"laborviz/internal/canvas"
	"laborviz/internal/models"
)

const noDataMessage = "No data available"

// dualAxisChart plots working hours on the left axis and a second series
// on the right axis against year. The second series is either fixed or
// the selected indicator.
type dualAxisChart struct {
	fixed        string
	class        string
	color        string
	empty        string
	integerHours bool
}

func (c dualAxisChart) render(f frame, data models.Dataset, opts Options) renderResult {
	second := c.fixed
	if second == "" {
		second = opts.Indicator
	}
	rows := data.Where(models.FieldHoursPerYear, second).SortedByYear()
	if len(rows) == 0 {
		msg := c.empty
		if msg == "" {
			msg = noDataMessage
		}
		placeholder(f, msg, 18)
		return renderResult{}
	}

	yearMin, yearMax := math.Inf(1), math.Inf(-1)
	for _, rec := range rows {
		yearMin = math.Min(yearMin, float64(rec.Year))
		yearMax = math.Max(yearMax, float64(rec.Year))
	}
	xr0, xr1 := f.layout.xRange()
	yr0, yr1 := f.layout.yRange()
	x := NewLinearScale(yearMin, yearMax, xr0, xr1)
	hMin, hMax := extent(rows, models.FieldHoursPerYear)
	y1 := NewLinearScale(hMin, hMax, yr0, yr1).Nice(defaultTickCount)
	vMin, vMax := extent(rows, second)
	y2 := NewLinearScale(vMin, vMax, yr0, yr1).Nice(defaultTickCount)

	gridY(f, y1)

	hoursFormat := y1.TickFormat(defaultTickCount)
	if c.integerHours {
		hoursFormat = formatInteger
	}
	axisBottom(f, x, formatInteger, "Year")
	axisLeft(f, y1, hoursFormat, f.catalog.Label(models.FieldHoursPerYear), ColorHours)
	axisRight(f, y2, y2.TickFormat(defaultTickCount), f.catalog.Label(second), c.color)

	hoursLine := make([]canvas.Point, 0, len(rows))
	secondLine := make([]canvas.Point, 0, len(rows))
	for _, rec := range rows {
		h, _ := rec.Value(models.FieldHoursPerYear)
		v, _ := rec.Value(second)
		px := x.Map(float64(rec.Year))
		hoursLine = append(hoursLine, canvas.Point{X: px, Y: y1.Map(h)})
		secondLine = append(secondLine, canvas.Point{X: px, Y: y2.Map(v)})
	}
	f.surface.Polyline(hoursLine, canvas.Style{Stroke: ColorHours, StrokeWidth: 2, Class: "line labor-hours-line"})
	f.surface.Polyline(secondLine, canvas.Style{Stroke: c.color, StrokeWidth: 2, Class: "line " + c.class + "-line"})

	fields := []string{models.FieldHoursPerYear, second}
	points := make([]*hoverPoint, 0, 2*len(rows))
	for i, rec := range rows {
		points = append(points, dot(f, hoursLine[i], ColorHours, "dot dot-labor", rec, fields))
	}
	for i, rec := range rows {
		points = append(points, dot(f, secondLine[i], c.color, "dot dot-"+c.class, rec, fields))
	}

	legend(f, []legendItem{
		{label: f.catalog.ShortLabel(models.FieldHoursPerYear), color: ColorHours},
		{label: f.catalog.ShortLabel(second), color: c.color},
	})

	return renderResult{
		scales: map[Axis]*LinearScale{AxisX: x, AxisY: y1, AxisY2: y2},
		points: points,
	}
}

// dot draws a small line-chart marker that grows on hover
func dot(f frame, at canvas.Point, color, class string, rec models.Record, fields []string) *hoverPoint {
	el := f.surface.Circle(at.X, at.Y, 3, canvas.Style{Fill: color, Class: class})
	return &hoverPoint{
		el:          el,
		record:      rec,
		fields:      fields,
		baseRadius:  3,
		hoverRadius: 5,
	}
}

// extent returns the min and max of field over rows that have it
func extent(rows models.Dataset, field string) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, rec := range rows {
		if v, ok := rec.Value(field); ok {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}
