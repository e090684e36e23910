package canvas

import (
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an image encoding
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ErrUnsupportedFormat is returned for any format other than png or svg
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ParseFormat validates a format name, case-insensitively
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Encode paints scene onto a go-chart renderer for format and writes the
// result to w
func Encode(scene *Scene, format Format, w io.Writer) error {
	var provider chart.RendererProvider
	switch format {
	case FormatPNG:
		provider = chart.PNG
	case FormatSVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	width, height := scene.Size()
	r, err := provider(width, height)
	if err != nil {
		return fmt.Errorf("failed to create %s renderer: %w", format, err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}

	// white background, as a browser page would show
	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	for _, e := range scene.Elements() {
		if e.Hidden {
			continue
		}
		r.ResetStyle()
		r.SetFont(font)
		paint(r, e, format)
	}

	if err := r.Save(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", format, err)
	}
	return nil
}

func paint(r chart.Renderer, e *Element, format Format) {
	s := e.Style
	stroke := color(s.Stroke, s.Opacity)
	fill := color(s.Fill, s.Opacity)

	r.SetStrokeColor(stroke)
	r.SetFillColor(fill)
	if s.StrokeWidth > 0 {
		r.SetStrokeWidth(s.StrokeWidth)
	} else {
		r.SetStrokeWidth(1)
	}
	if len(s.Dash) > 0 {
		r.SetStrokeDashArray(s.Dash)
	}

	switch e.Kind {
	case KindLine, KindPolyline:
		if len(e.Points) < 2 {
			return
		}
		r.MoveTo(px(e.Points[0].X), px(e.Points[0].Y))
		for _, p := range e.Points[1:] {
			r.LineTo(px(p.X), px(p.Y))
		}
		r.Stroke()

	case KindCircle:
		r.Circle(e.Radius, px(e.Center.X), px(e.Center.Y))
		finish(r, stroke, fill)

	case KindRect:
		x0, y0 := px(e.Center.X), px(e.Center.Y)
		x1, y1 := px(e.Center.X+e.Width), px(e.Center.Y+e.Height)
		r.MoveTo(x0, y0)
		r.LineTo(x1, y0)
		r.LineTo(x1, y1)
		r.LineTo(x0, y1)
		r.Close()
		finish(r, stroke, fill)

	case KindText:
		paintText(r, e, format)
	}
}

func finish(r chart.Renderer, stroke, fill drawing.Color) {
	switch {
	case !stroke.IsZero() && !fill.IsZero():
		r.FillStroke()
	case !fill.IsZero():
		r.Fill()
	default:
		r.Stroke()
	}
}

// paintText draws a text element. Text is painted by the fill color,
// black when unset.
func paintText(r chart.Renderer, e *Element, format Format) {
	s := e.Style
	textColor := color(s.Fill, s.Opacity)
	if textColor.IsZero() {
		textColor = drawing.ColorBlack
	}
	r.SetFontColor(textColor)
	size := s.FontSize
	if size <= 0 {
		size = 12
	}
	r.SetFontSize(size)

	x, y := e.Center.X, e.Center.Y
	if s.Anchor == AnchorMiddle || s.Anchor == AnchorEnd {
		shift := float64(r.MeasureText(e.Body).Width())
		if s.Anchor == AnchorMiddle {
			shift /= 2
		}
		theta := s.Rotate * math.Pi / 180
		x -= shift * math.Cos(theta)
		y -= shift * math.Sin(theta)
	}
	if s.Rotate != 0 {
		r.SetTextRotation(s.Rotate * math.Pi / 180)
		defer r.ClearTextRotation()
	}

	body := e.Body
	if format == FormatSVG {
		body = html.EscapeString(body)
	}
	r.Text(body, px(x), px(y))
}

// color converts a CSS hex color to a drawing color. Empty and "none"
// give the zero (transparent) color.
func color(hex string, opacity float64) drawing.Color {
	if hex == "" || hex == "none" {
		return drawing.Color{}
	}
	c := drawing.ColorFromHex(hex)
	if opacity > 0 && opacity < 1 {
		c = c.WithAlpha(uint8(math.Round(opacity * 255)))
	}
	return c
}

func px(v float64) int {
	return int(math.Round(v))
}
