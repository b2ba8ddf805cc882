package mathutil

import (
	"math"
	"testing"
)

func TestRoundToMinorUnit(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		places   int32
		expected float64
	}{
		{"Payment of the example loan", 2724.8630789039776, 2, 2724.86},
		{"Binary midpoint rounds away from zero", 1.005, 2, 1.01},
		{"Negative midpoint", -1.005, 2, -1.01},
		{"Already rounded", 1000, 2, 1000},
		{"Whole units", 1234.5, 0, 1235},
		{"Tiny residue", 2.5e-10, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundToMinorUnit(tt.input, tt.places)
			if result != tt.expected {
				t.Errorf("RoundToMinorUnit(%v, %d) = %v, expected %v", tt.input, tt.places, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Very small positive", 0.001, true},
		{"Very small negative", -0.001, true},
		{"Just above tolerance", 0.02, false},
		{"Just below negative tolerance", -0.02, false},
		{"Large positive", 100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsZero(tt.input)
			if result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(100.0, 100.005, 0.01) {
		t.Error("expected values within a cent to match")
	}
	if WithinTolerance(100.0, 100.02, 0.01) {
		t.Error("expected values two cents apart not to match")
	}
}

func TestPeriodicRate(t *testing.T) {
	tests := []struct {
		annual   float64
		expected float64
	}{
		{12.0, 0.01},
		{6.0, 0.005},
		{0.0, 0.0},
	}

	for _, tt := range tests {
		if result := PeriodicRate(tt.annual); math.Abs(result-tt.expected) > 1e-12 {
			t.Errorf("PeriodicRate(%v) = %v, expected %v", tt.annual, result, tt.expected)
		}
	}
}
