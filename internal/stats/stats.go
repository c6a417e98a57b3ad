// Package stats provides the scalar and circular aggregation primitives used
// by the hourly and daily rollups.
package stats

import "math"

// Sum returns the sum of the samples.
func Sum(samples []float64) float64 {
	var total float64
	for _, v := range samples {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean of the samples.
func Mean(samples []float64) float64 {
	return Sum(samples) / float64(len(samples))
}

// Min returns the smallest sample.
func Min(samples []float64) float64 {
	min := samples[0]
	for _, v := range samples[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest sample.
func Max(samples []float64) float64 {
	max := samples[0]
	for _, v := range samples[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// StdDevPop returns the population standard deviation of the samples.
func StdDevPop(samples []float64) float64 {
	mean := Mean(samples)
	var sq float64
	for _, v := range samples {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(samples)))
}

// CircularMean averages angular samples in degrees by vector summation, so
// that wraparound at 0/360 is handled correctly: {350, 10} averages to 0,
// not 180. The result is normalized into [0, 360).
func CircularMean(degrees []float64) float64 {
	var sinSum, cosSum float64
	for _, d := range degrees {
		r := d * math.Pi / 180
		sinSum += math.Sin(r)
		cosSum += math.Cos(r)
	}
	mean := math.Atan2(sinSum, cosSum) * 180 / math.Pi
	return math.Mod(mean+360, 360)
}
