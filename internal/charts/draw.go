package charts

import (
	"laborviz/internal/canvas"
)

const (
	tickSize      = 6
	tickPadding   = 3
	tickFontSize  = 10
	titleFontSize = 12
	gridTickCount = 5
)

type legendItem struct {
	label string
	color string
}

// placeholder draws message centred in the plot area
func placeholder(f frame, message string, fontSize float64) {
	f.surface.Text(
		f.left()+f.layout.PlotWidth()/2,
		f.top()+f.layout.PlotHeight()/2,
		message,
		canvas.Style{Fill: colorMessage, FontSize: fontSize, Anchor: canvas.AnchorMiddle, Class: "message"},
	)
}

var gridStyle = canvas.Style{Stroke: colorGrid, StrokeWidth: 1, Dash: []float64{3, 3}}

func gridY(f frame, y *LinearScale) {
	style := gridStyle
	style.Class = "grid-line grid-line-y"
	for _, t := range y.Ticks(gridTickCount) {
		py := y.Map(t)
		f.surface.Line(f.left(), py, f.right(), py, style)
	}
}

func gridX(f frame, x *LinearScale) {
	style := gridStyle
	style.Class = "grid-line grid-line-x"
	for _, t := range x.Ticks(gridTickCount) {
		px := x.Map(t)
		f.surface.Line(px, f.top(), px, f.bottom(), style)
	}
}

func axisBottom(f frame, x *LinearScale, format func(float64) string, title string) {
	style := canvas.Style{Stroke: colorAxis, StrokeWidth: 1, Class: "axis x-axis"}
	y := f.bottom()
	r0, r1 := x.Range()
	f.surface.Line(r0, y, r1, y, style)
	for _, t := range x.Ticks(defaultTickCount) {
		px := x.Map(t)
		f.surface.Line(px, y, px, y+tickSize, canvas.Style{Stroke: colorAxis, StrokeWidth: 1, Class: "tick x-tick"})
		f.surface.Text(px, y+tickSize+tickPadding+tickFontSize, format(t),
			canvas.Style{Fill: colorAxis, FontSize: tickFontSize, Anchor: canvas.AnchorMiddle, Class: "tick-label x-tick-label"})
	}
	f.surface.Text(f.left()+f.layout.PlotWidth()/2, y+45, title,
		canvas.Style{Fill: colorAxis, FontSize: titleFontSize, Anchor: canvas.AnchorMiddle, Class: "axis-title x-axis-title"})
}

func axisLeft(f frame, y *LinearScale, format func(float64) string, title, titleColor string) {
	axisVertical(f, y, format, f.left(), -1, title, titleColor, "y-axis-left")
}

func axisRight(f frame, y *LinearScale, format func(float64) string, title, titleColor string) {
	axisVertical(f, y, format, f.right(), 1, title, titleColor, "y-axis-right")
}

// axisVertical draws a y-axis at x; side is -1 for ticks pointing left
// and 1 for ticks pointing right
func axisVertical(f frame, y *LinearScale, format func(float64) string, x, side float64, title, titleColor, class string) {
	r0, r1 := y.Range()
	f.surface.Line(x, r0, x, r1, canvas.Style{Stroke: colorAxis, StrokeWidth: 1, Class: "axis y-axis " + class})

	anchor := canvas.AnchorEnd
	if side > 0 {
		anchor = canvas.AnchorStart
	}
	for _, t := range y.Ticks(defaultTickCount) {
		py := y.Map(t)
		f.surface.Line(x, py, x+side*tickSize, py, canvas.Style{Stroke: colorAxis, StrokeWidth: 1, Class: "tick " + class + "-tick"})
		f.surface.Text(x+side*(tickSize+tickPadding), py+tickFontSize/3, format(t),
			canvas.Style{Fill: colorAxis, FontSize: tickFontSize, Anchor: anchor, Class: "tick-label " + class + "-tick-label"})
	}

	rotate := -90.0
	if side > 0 {
		rotate = 90
	}
	f.surface.Text(x+side*50, f.top()+f.layout.PlotHeight()/2, title,
		canvas.Style{Fill: titleColor, FontSize: titleFontSize, Anchor: canvas.AnchorMiddle, Rotate: rotate, Class: "axis-title " + class + "-title"})
}

func legend(f frame, items []legendItem) {
	x := f.left() + f.layout.PlotWidth() - 150
	y := f.top() + 20
	for i, item := range items {
		row := y + float64(i)*25
		f.surface.Line(x, row, x+20, row, canvas.Style{Stroke: item.color, StrokeWidth: 2, Class: "legend legend-swatch"})
		f.surface.Text(x+25, row+4, item.label, canvas.Style{Fill: colorAxis, FontSize: 14, Class: "legend legend-label"})
	}
}
