package domain

import (
	"math"
	"strings"
)

// DamageExponent maps a damage unit indicator to its power-of-ten exponent.
// H, K, M, and B (any case) mean hundred, thousand, million, and billion; a
// single digit is used literally as the exponent. Empty and "NA" indicators
// mean no multiplier. The second return is false for any other indicator,
// which still resolves to exponent 0; malformed units are a data quality
// signal, never an error.
func DamageExponent(unit string) (int, bool) {
	u := strings.TrimSpace(unit)
	if u == "" || strings.EqualFold(u, "NA") {
		return 0, true
	}

	switch strings.ToLower(u) {
	case "h":
		return 2, true
	case "k":
		return 3, true
	case "m":
		return 6, true
	case "b":
		return 9, true
	}

	if len(u) == 1 && u[0] >= '0' && u[0] <= '9' {
		return int(u[0] - '0'), true
	}
	return 0, false
}

// ResolveDamage converts a magnitude and unit indicator into an absolute
// damage amount: magnitude x 10^exponent. Non-positive magnitudes resolve
// to 0, keeping damage amounts non-negative.
func ResolveDamage(magnitude float64, unit string) float64 {
	if magnitude <= 0 {
		return 0
	}
	exp, _ := DamageExponent(unit)
	return magnitude * math.Pow10(exp)
}
