package charts

import "math"

// Strength labels for a correlation coefficient
const (
	StrengthNegligible = "negligible"
	StrengthWeak       = "weak"
	StrengthModerate   = "moderate"
	StrengthStrong     = "strong"
	StrengthVeryStrong = "very strong"
)

// Interpret labels the strength of a correlation coefficient by its
// absolute value. Each band includes its lower bound.
func Interpret(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs < 0.1:
		return StrengthNegligible
	case abs < 0.3:
		return StrengthWeak
	case abs < 0.5:
		return StrengthModerate
	case abs < 0.7:
		return StrengthStrong
	default:
		return StrengthVeryStrong
	}
}
