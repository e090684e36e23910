package charts

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"laborviz/internal/canvas"
	"laborviz/internal/logger"
	"laborviz/internal/models"
)

// Kind names a chart variant
type Kind string

const (
	KindTimeSeries  Kind = "timeseries"
	KindCorrelation Kind = "correlation"
	KindComparison  Kind = "comparison"
	KindReading     Kind = "reading"
)

var kinds = []Kind{KindTimeSeries, KindCorrelation, KindComparison, KindReading}

// Kinds returns every chart kind in tab order
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind validates a chart kind name
func ParseKind(name string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == strings.ToLower(name) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q", name)
}

// ContainerID is the id of the page element the chart is mounted in
func (k Kind) ContainerID() string {
	return string(k) + "-chart"
}

// KindForContainer resolves a container id back to its chart kind
func KindForContainer(id string) (Kind, bool) {
	for _, k := range kinds {
		if k.ContainerID() == id {
			return k, true
		}
	}
	return "", false
}

// Options are the per-render inputs besides the data
type Options struct {
	Indicator   string
	Correlation *models.CorrelationResult
}

// State is a renderer's lifecycle state
type State int

const (
	StateUninitialized State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "uninitialized"
}

// Axis identifies one of a chart's scales
type Axis string

const (
	AxisX  Axis = "x"
	AxisY  Axis = "y"
	AxisY2 Axis = "y2"
)

// TooltipLine is one labelled value in a tooltip
type TooltipLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Tooltip is shown next to the pointer while a point is hovered
type Tooltip struct {
	X     float64       `json:"x"`
	Y     float64       `json:"y"`
	Year  int           `json:"year"`
	Lines []TooltipLine `json:"lines"`
}

// Text renders the tooltip as plain lines
func (t Tooltip) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", t.Year)
	for _, l := range t.Lines {
		fmt.Fprintf(&b, "\n%s: %s", l.Label, l.Value)
	}
	return b.String()
}

// renderResult is what a variant leaves behind after drawing
type renderResult struct {
	scales map[Axis]*LinearScale
	points []*hoverPoint
	stats  *Stats
}

// chartVariant draws one kind of chart onto a cleared surface
type chartVariant interface {
	render(f frame, data models.Dataset, opts Options) renderResult
}

// hoverPoint ties a drawn point to its record
type hoverPoint struct {
	el           *canvas.Element
	record       models.Record
	fields       []string
	baseRadius   float64
	baseOpacity  float64
	hoverRadius  float64
	hoverOpacity float64
}

// hitRadius is how far from a point's centre the pointer may be and
// still hover it
const hitRadius = 8.0

// Renderer draws one chart kind onto its own scene. Every Render rebuilds
// the scene from scratch.
type Renderer struct {
	mu      sync.Mutex
	kind    Kind
	variant chartVariant
	layout  Layout
	scene   *canvas.Scene
	catalog *models.Catalog
	log     *logger.Logger

	state     State
	indicator string
	scales    map[Axis]*LinearScale
	points    []*hoverPoint
	hovered   *hoverPoint
	stats     *Stats
	revision  uint64
}

// NewRenderer creates an uninitialized renderer for kind
func NewRenderer(kind Kind, layout Layout) (*Renderer, error) {
	var v chartVariant
	switch kind {
	case KindTimeSeries:
		v = dualAxisChart{class: "economic", color: ColorIndicator, integerHours: true}
	case KindReading:
		v = dualAxisChart{fixed: models.FieldReadingMinutesPerDay, class: "reading", color: ColorReading,
			empty: "No reading time data available"}
	case KindCorrelation:
		v = correlationChart{}
	case KindComparison:
		v = comparisonChart{}
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
	if layout.Width <= 0 || layout.Height <= 0 {
		layout = DefaultLayout()
	}
	return &Renderer{
		kind:    kind,
		variant: v,
		layout:  layout,
		scene:   canvas.NewScene(layout.Width, layout.Height),
		catalog: models.DefaultCatalog(),
		log:     logger.Component("charts").WithFields(map[string]interface{}{"chart": string(kind)}),
	}, nil
}

// Kind returns the chart kind
func (r *Renderer) Kind() Kind {
	return r.kind
}

// State returns the lifecycle state
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Indicator returns the indicator of the last render
func (r *Renderer) Indicator() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indicator
}

// Scene returns the drawing surface. Callers must not draw on it.
func (r *Renderer) Scene() *canvas.Scene {
	return r.scene
}

// Render tears the scene down and draws data. An empty data set after
// filtering gives a placeholder message, never an error.
func (r *Renderer) Render(data models.Dataset, opts Options) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if opts.Indicator == "" {
		opts.Indicator = models.DefaultIndicator
	}
	r.scene.Clear()
	r.scales = nil
	r.points = nil
	r.hovered = nil
	r.stats = nil
	r.indicator = opts.Indicator

	res := r.variant.render(frame{surface: r.scene, layout: r.layout, catalog: r.catalog, log: r.log}, data, opts)
	r.scales = res.scales
	r.points = res.points
	r.stats = res.stats
	r.state = StateReady
	r.revision++

	r.log.Debug("Chart rendered", map[string]interface{}{
		"indicator": opts.Indicator,
		"records":   len(data),
		"points":    len(res.points),
		"elements":  r.scene.Len(),
	})
}

// Scale returns the scale for axis from the last render. It is absent
// before the first render and after a placeholder render.
func (r *Renderer) Scale(axis Axis) (*LinearScale, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scales[axis]
	if !ok {
		return nil, false
	}
	c := *s
	return &c, true
}

// Stats returns the correlation stats panel of the last render, if any
func (r *Renderer) Stats() *Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stats == nil {
		return nil
	}
	s := *r.stats
	return &s
}

// Hover finds the point nearest (x, y) within the hit radius, enlarges
// it and returns its tooltip anchored at the pointer
func (r *Renderer) Hover(x, y float64) (Tooltip, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *hoverPoint
	bestDist := math.Inf(1)
	for _, p := range r.points {
		d := math.Hypot(p.el.Center.X-x, p.el.Center.Y-y)
		if d <= hitRadius && d < bestDist {
			best, bestDist = p, d
		}
	}

	if best != r.hovered {
		r.restore()
	}
	if best == nil {
		return Tooltip{}, false
	}
	if r.hovered == nil {
		best.el.Radius = best.hoverRadius
		best.el.Style.Opacity = best.hoverOpacity
		r.hovered = best
		r.revision++
	}

	return Tooltip{
		X:     x + 10,
		Y:     y - 10,
		Year:  best.record.Year,
		Lines: r.tooltipLines(best),
	}, true
}

// Leave restores the hovered point and hides the tooltip
func (r *Renderer) Leave() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restore()
}

func (r *Renderer) restore() {
	if r.hovered == nil {
		return
	}
	r.hovered.el.Radius = r.hovered.baseRadius
	r.hovered.el.Style.Opacity = r.hovered.baseOpacity
	r.hovered = nil
	r.revision++
}

// tooltipLines formats hour counts as integers and everything else to
// two decimals
func (r *Renderer) tooltipLines(p *hoverPoint) []TooltipLine {
	lines := make([]TooltipLine, 0, len(p.fields))
	for _, field := range p.fields {
		v, ok := p.record.Value(field)
		value := "N/A"
		if ok {
			if field == models.FieldHoursPerYear {
				value = fmt.Sprintf("%.0f", v)
			} else {
				value = fmt.Sprintf("%.2f", v)
			}
		}
		lines = append(lines, TooltipLine{Label: r.catalog.ShortLabel(field), Value: value})
	}
	return lines
}

// Encode writes the current scene as an image. Hover state is included.
func (r *Renderer) Encode(format canvas.Format, w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return canvas.Encode(r.scene, format, w)
}

// Revision identifies the current drawing. It changes on every render
// and whenever a point is enlarged or restored.
func (r *Renderer) Revision() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revision
}
