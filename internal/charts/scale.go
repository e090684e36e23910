package charts

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// defaultTickCount is the tick count axes ask for when none is given
const defaultTickCount = 10

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// LinearScale maps a continuous domain onto a pixel range
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinearScale creates a scale from domain [d0, d1] to range [r0, r1]
func NewLinearScale(d0, d1, r0, r1 float64) *LinearScale {
	return &LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the input interval
func (s *LinearScale) Domain() (float64, float64) {
	return s.d0, s.d1
}

// Range returns the output interval
func (s *LinearScale) Range() (float64, float64) {
	return s.r0, s.r1
}

// Map converts a domain value to range space. A zero-width domain maps
// every value to the middle of the range.
func (s *LinearScale) Map(v float64) float64 {
	if s.d1 == s.d0 {
		return (s.r0 + s.r1) / 2
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + t*(s.r1-s.r0)
}

// Invert converts a range value back to domain space
func (s *LinearScale) Invert(p float64) float64 {
	if s.r1 == s.r0 {
		return (s.d0 + s.d1) / 2
	}
	t := (p - s.r0) / (s.r1 - s.r0)
	return s.d0 + t*(s.d1-s.d0)
}

// Nice extends the domain outward to round tick boundaries
func (s *LinearScale) Nice(count int) *LinearScale {
	start, stop := s.d0, s.d1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}

	var prestep float64
	for i := 0; i < 10; i++ {
		step := tickIncrement(start, stop, float64(count))
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			i = 10
		}
		prestep = step
	}

	if reversed {
		start, stop = stop, start
	}
	s.d0, s.d1 = start, stop
	return s
}

// Ticks returns roughly count round values spanning the domain
func (s *LinearScale) Ticks(count int) []float64 {
	return ticks(s.d0, s.d1, float64(count))
}

// TickFormat returns a formatter with just enough decimals to tell ticks
// apart, with thousands separators
func (s *LinearScale) TickFormat(count int) func(float64) string {
	d0, d1 := s.d0, s.d1
	if d1 < d0 {
		d0, d1 = d1, d0
	}
	precision := 0
	if inc := tickIncrement(d0, d1, float64(count)); inc < 0 {
		// steps below one are carried as -1/step
		precision = int(math.Ceil(math.Log10(-inc) - 1e-9))
	}
	if precision > 9 {
		precision = 9
	}
	format := "#,###." + strings.Repeat("#", precision)
	return func(v float64) string {
		return humanize.FormatFloat(format, v)
	}
}

// formatInteger renders a tick as a plain integer, the way year axes are
// labelled
func formatInteger(v float64) string {
	return humanize.FormatFloat("#.", v)
}

func tickSpec(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}

	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && count >= 0.5 && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

// tickIncrement returns the tick step, negated and inverted for steps
// below one so callers can stay in integer arithmetic
func tickIncrement(start, stop, count float64) float64 {
	_, _, inc := tickSpec(start, stop, count)
	if math.IsNaN(inc) || math.IsInf(inc, 0) {
		return 0
	}
	return inc
}

func ticks(start, stop, count float64) []float64 {
	if count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}

	i1, i2, inc := tickSpec(start, stop, count)
	if i2 < i1 || math.IsNaN(inc) || math.IsInf(inc, 0) || inc == 0 {
		return nil
	}
	n := int(i2-i1) + 1
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if inc < 0 {
			out[i] = (i1 + float64(i)) / -inc
		} else {
			out[i] = (i1 + float64(i)) * inc
		}
	}
	if reversed {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
