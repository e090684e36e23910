package charts

import (
	"laborviz/internal/canvas"
	"laborviz/internal/logger"
	"laborviz/internal/models"
)

// Series and chrome colors
const (
	ColorHours      = "#e74c3c"
	ColorIndicator  = "#3498db"
	ColorReading    = "#9b59b6"
	ColorRegression = "#e74c3c"
	colorGrid       = "#e0e0e0"
	colorAxis       = "#333333"
	colorMessage    = "#999999"
)

// Margins is the space between the surface edge and the plot area
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Layout is the pixel geometry of a chart
type Layout struct {
	Width   int
	Height  int
	Margins Margins
}

// DefaultLayout is the 800x500 chart with room for axes on both sides
func DefaultLayout() Layout {
	return Layout{
		Width:   800,
		Height:  500,
		Margins: Margins{Top: 20, Right: 80, Bottom: 60, Left: 80},
	}
}

// PlotWidth is the width of the area inside the margins
func (l Layout) PlotWidth() float64 {
	return float64(l.Width) - l.Margins.Left - l.Margins.Right
}

// PlotHeight is the height of the area inside the margins
func (l Layout) PlotHeight() float64 {
	return float64(l.Height) - l.Margins.Top - l.Margins.Bottom
}

// xRange is the pixel extent of a horizontal scale
func (l Layout) xRange() (float64, float64) {
	return l.Margins.Left, l.Margins.Left + l.PlotWidth()
}

// yRange is the pixel extent of a vertical scale, bottom first so larger
// values sit higher
func (l Layout) yRange() (float64, float64) {
	return l.Margins.Top + l.PlotHeight(), l.Margins.Top
}

// frame bundles what a chart variant draws with
type frame struct {
	surface canvas.Surface
	layout  Layout
	catalog *models.Catalog
	log     *logger.Logger
}

func (f frame) left() float64   { return f.layout.Margins.Left }
func (f frame) top() float64    { return f.layout.Margins.Top }
func (f frame) right() float64  { return f.layout.Margins.Left + f.layout.PlotWidth() }
func (f frame) bottom() float64 { return f.layout.Margins.Top + f.layout.PlotHeight() }
