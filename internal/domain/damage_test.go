package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDamage(t *testing.T) {
	tests := []struct {
		name      string
		magnitude float64
		unit      string
		expected  float64
	}{
		{"thousands", 2.5, "K", 2500},
		{"thousands lowercase", 2.5, "k", 2500},
		{"hundreds", 100, "H", 10000},
		{"millions", 5, "m", 5e6},
		{"billions", 2.5, "b", 2.5e9},
		{"digit exponent", 2.5, "3", 2500},
		{"zero digit exponent", 4, "0", 4},
		{"empty unit", 2.5, "", 2.5},
		{"NA unit", 7, "NA", 7},
		{"malformed plus", 1, "+", 1},
		{"malformed question mark", 1, "?", 1},
		{"multi-character junk", 3, "KM", 3},
		{"zero magnitude", 0, "B", 0},
		{"negative magnitude clamped", -4, "K", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveDamage(tt.magnitude, tt.unit))
		})
	}
}

func TestDamageExponent(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected int
		known    bool
	}{
		{"empty", "", 0, true},
		{"whitespace", "   ", 0, true},
		{"NA sentinel", "NA", 0, true},
		{"na lowercase", "na", 0, true},
		{"hundred", "H", 2, true},
		{"thousand", "k", 3, true},
		{"million", "M", 6, true},
		{"billion", "b", 9, true},
		{"digit", "7", 7, true},
		{"unrecognized symbol", "?", 0, false},
		{"unrecognized letter", "x", 0, false},
		{"two digits", "12", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, known := DamageExponent(tt.unit)
			assert.Equal(t, tt.expected, exp)
			assert.Equal(t, tt.known, known)
		})
	}
}
