package canvas

import (
	"strings"
	"sync"
)

// Scene records drawn primitives in paint order. It is the Surface every
// chart draws on; Encode turns it into an image.
type Scene struct {
	mu         sync.RWMutex
	width      int
	height     int
	elements   []*Element
	generation uint64
}

// NewScene creates an empty scene of the given pixel size
func NewScene(width, height int) *Scene {
	return &Scene{width: width, height: height}
}

// Size returns the scene dimensions in pixels
func (s *Scene) Size() (int, int) {
	return s.width, s.height
}

// Clear removes every element and starts a new generation
func (s *Scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements = nil
	s.generation++
}

// Generation counts how many times the scene was cleared. Two encodes of
// the same generation differ only if an element was mutated in between.
func (s *Scene) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Scene) add(e *Element) *Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements = append(s.elements, e)
	return e
}

func (s *Scene) Line(x1, y1, x2, y2 float64, style Style) *Element {
	return s.add(&Element{
		Kind:   KindLine,
		Points: []Point{{X: x1, Y: y1}, {X: x2, Y: y2}},
		Style:  style,
	})
}

func (s *Scene) Polyline(points []Point, style Style) *Element {
	pts := make([]Point, len(points))
	copy(pts, points)
	return s.add(&Element{Kind: KindPolyline, Points: pts, Style: style})
}

func (s *Scene) Circle(cx, cy, r float64, style Style) *Element {
	return s.add(&Element{Kind: KindCircle, Center: Point{X: cx, Y: cy}, Radius: r, Style: style})
}

func (s *Scene) Rect(x, y, w, h float64, style Style) *Element {
	return s.add(&Element{Kind: KindRect, Center: Point{X: x, Y: y}, Width: w, Height: h, Style: style})
}

func (s *Scene) Text(x, y float64, body string, style Style) *Element {
	return s.add(&Element{Kind: KindText, Center: Point{X: x, Y: y}, Body: body, Style: style})
}

// Elements returns the drawn elements in paint order
func (s *Scene) Elements() []*Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// Len returns the number of drawn elements
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}

// Find returns the elements whose class list contains class
func (s *Scene) Find(class string) []*Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Element
	for _, e := range s.elements {
		if hasClass(e.Style.Class, class) {
			out = append(out, e)
		}
	}
	return out
}

func hasClass(list, class string) bool {
	for _, c := range strings.Fields(list) {
		if c == class {
			return true
		}
	}
	return false
}
