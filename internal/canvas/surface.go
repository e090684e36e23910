package canvas

// Point is a position in pixel space
type Point struct {
	X float64
	Y float64
}

// Anchor is the horizontal alignment of a text element
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Style describes how a primitive is painted. Colors are CSS hex strings;
// an empty color means none.
type Style struct {
	Stroke      string
	StrokeWidth float64
	Dash        []float64
	Fill        string
	Opacity     float64 // 0 means fully opaque
	FontSize    float64
	Anchor      Anchor
	Rotate      float64 // degrees, around the element's anchor point
	Class       string
}

// Kind is the primitive an Element was drawn with
type Kind string

const (
	KindLine     Kind = "line"
	KindPolyline Kind = "polyline"
	KindCircle   Kind = "circle"
	KindRect     Kind = "rect"
	KindText     Kind = "text"
)

// Element is a handle to one drawn primitive. Callers may mutate it after
// drawing (hover enlarges a point this way) and the change shows up on
// the next encode.
type Element struct {
	Kind   Kind
	Points []Point // line and polyline vertices
	Center Point   // circle centre, rect top-left, text anchor
	Radius float64
	Width  float64
	Height float64
	Body   string
	Style  Style
	Hidden bool
}

// Surface is a drawing target for charts
type Surface interface {
	Size() (width, height int)
	Clear()
	Line(x1, y1, x2, y2 float64, style Style) *Element
	Polyline(points []Point, style Style) *Element
	Circle(cx, cy, r float64, style Style) *Element
	Rect(x, y, w, h float64, style Style) *Element
	Text(x, y float64, body string, style Style) *Element
}
