package canvas

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestScene_FindByClass(t *testing.T) {
	s := NewScene(200, 100)
	s.Line(0, 0, 10, 10, Style{Class: "grid"})
	s.Circle(5, 5, 3, Style{Class: "dot hours"})
	s.Circle(8, 8, 3, Style{Class: "dot indicator"})
	s.Text(1, 1, "label", Style{})

	if got := len(s.Find("dot")); got != 2 {
		t.Errorf("Expected 2 dots, got %d", got)
	}
	if got := len(s.Find("hours")); got != 1 {
		t.Errorf("Expected 1 hours dot, got %d", got)
	}
	if got := len(s.Find("do")); got != 0 {
		t.Errorf("Expected no partial class match, got %d", got)
	}
	if s.Len() != 4 {
		t.Errorf("Expected 4 elements, got %d", s.Len())
	}
}

func TestScene_ClearStartsNewGeneration(t *testing.T) {
	s := NewScene(200, 100)
	s.Rect(0, 0, 10, 10, Style{Fill: "#ffffff"})
	before := s.Generation()

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Expected empty scene after Clear, got %d elements", s.Len())
	}
	if s.Generation() != before+1 {
		t.Errorf("Expected generation %d, got %d", before+1, s.Generation())
	}
}

func TestScene_PolylineCopiesPoints(t *testing.T) {
	s := NewScene(200, 100)
	pts := []Point{{X: 1, Y: 2}, {X: 3, Y: 4}}
	e := s.Polyline(pts, Style{})
	pts[0].X = 99

	if e.Points[0].X != 1 {
		t.Errorf("Polyline aliases caller slice: %v", e.Points)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"png", FormatPNG, false},
		{"SVG", FormatSVG, false},
		{" svg ", FormatSVG, false},
		{"jpeg", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("ParseFormat(%q): expected ErrUnsupportedFormat, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func sampleScene() *Scene {
	s := NewScene(320, 200)
	s.Line(10, 190, 310, 190, Style{Stroke: "#000000"})
	s.Polyline([]Point{{X: 10, Y: 150}, {X: 160, Y: 60}, {X: 310, Y: 100}}, Style{Stroke: "#e74c3c", StrokeWidth: 2})
	s.Circle(160, 60, 3, Style{Fill: "#3498db", Stroke: "#ffffff"})
	s.Line(10, 100, 310, 100, Style{Stroke: "#e0e0e0", Dash: []float64{3, 3}})
	s.Text(160, 20, "Hours & GDP", Style{FontSize: 14, Anchor: AnchorMiddle})
	s.Text(20, 100, "Hours", Style{FontSize: 12, Anchor: AnchorMiddle, Rotate: -90})
	hidden := s.Text(0, 0, "tooltip-only", Style{})
	hidden.Hidden = true
	return s
}

func TestEncode_SVG(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(sampleScene(), FormatSVG, &buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") {
		t.Fatalf("Expected SVG document, got %.80q", out)
	}
	if !strings.Contains(out, "Hours &amp; GDP") {
		t.Error("Expected escaped title text in SVG")
	}
	if strings.Contains(out, "tooltip-only") {
		t.Error("Hidden element was painted")
	}
	if !strings.Contains(out, "stroke-dasharray") {
		t.Error("Expected dashed gridline in SVG")
	}
}

func TestEncode_PNG(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(sampleScene(), FormatPNG, &buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Errorf("Expected PNG signature, got %d bytes", buf.Len())
	}
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(sampleScene(), Format("gif"), &buf)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("Expected nothing written for unsupported format")
	}
}
