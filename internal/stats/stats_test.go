package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCircularMeanWraparound(t *testing.T) {
	got := CircularMean([]float64{350, 10})
	// 350 and 10 straddle north; the vector mean is 0, never 180.
	if !almostEqual(got, 0) && !almostEqual(got, 360) {
		t.Errorf("expected circular mean 0, got %f", got)
	}
}

func TestCircularMean(t *testing.T) {
	cases := []struct {
		name    string
		degrees []float64
		want    float64
	}{
		{"single sample", []float64{90}, 90},
		{"no wraparound", []float64{80, 100}, 90},
		{"south cluster", []float64{170, 190}, 180},
		{"west cluster", []float64{260, 280}, 270},
		{"northwest and northeast", []float64{315, 45}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CircularMean(tc.degrees)
			diff := math.Abs(got - tc.want)
			if diff > 180 {
				diff = 360 - diff
			}
			if diff > 1e-9 {
				t.Errorf("expected %f, got %f", tc.want, got)
			}
		})
	}
}

func TestCircularMeanRange(t *testing.T) {
	for _, degrees := range [][]float64{{359}, {180}, {0}, {350, 10}, {181, 179}} {
		got := CircularMean(degrees)
		if got < 0 || got >= 360 {
			t.Errorf("circular mean of %v out of [0,360): %f", degrees, got)
		}
	}
}

func TestStdDevPop(t *testing.T) {
	got := StdDevPop([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !almostEqual(got, 2) {
		t.Errorf("expected population stddev 2, got %f", got)
	}

	if got := StdDevPop([]float64{5}); !almostEqual(got, 0) {
		t.Errorf("expected stddev 0 for single sample, got %f", got)
	}
}

func TestScalars(t *testing.T) {
	samples := []float64{3.5, -1, 4, 0}

	if got := Sum(samples); !almostEqual(got, 6.5) {
		t.Errorf("Sum: expected 6.5, got %f", got)
	}
	if got := Mean(samples); !almostEqual(got, 1.625) {
		t.Errorf("Mean: expected 1.625, got %f", got)
	}
	if got := Min(samples); !almostEqual(got, -1) {
		t.Errorf("Min: expected -1, got %f", got)
	}
	if got := Max(samples); !almostEqual(got, 4) {
		t.Errorf("Max: expected 4, got %f", got)
	}
}
