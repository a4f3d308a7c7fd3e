// Package level computes level statistics of separated and reference
// signals: energy, RMS, peak and crest factor.
package level

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Stats holds level statistics of a signal. dB fields are -Inf for a
// silent signal.
type Stats struct {
	Length        int
	DC            float64 // mean
	Energy        float64 // sum of squares
	RMS           float64
	RMSdB         float64
	Peak          float64 // max |x|
	PeakPos       int
	PeakdB        float64
	CrestFactordB float64 // peak/RMS; 0 when silent
	ZeroCrossings int
}

// Calculate computes all statistics in a single pass.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{
			RMSdB:  math.Inf(-1),
			PeakdB: math.Inf(-1),
		}
	}

	var (
		sum, sumSq    float64
		peak          float64
		peakPos       int
		zeroCrossings int
	)

	for i, x := range signal {
		sum += x
		sumSq += x * x

		if a := math.Abs(x); a > peak {
			peak = a
			peakPos = i
		}

		if i > 0 && signal[i-1]*x < 0 {
			zeroCrossings++
		}
	}

	rms := math.Sqrt(sumSq / float64(n))

	crest := 0.0
	if rms > 0 {
		crest = ampTodB(peak / rms)
	}

	return Stats{
		Length:        n,
		DC:            sum / float64(n),
		Energy:        sumSq,
		RMS:           rms,
		RMSdB:         ampTodB(rms),
		Peak:          peak,
		PeakPos:       peakPos,
		PeakdB:        ampTodB(peak),
		CrestFactordB: crest,
		ZeroCrossings: zeroCrossings,
	}
}

// Energy returns the sum of squares of the signal.
func Energy(signal []float64) float64 {
	return floats.Dot(signal, signal)
}

// RMS returns the root-mean-square of the signal, 0 when empty.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(Energy(signal) / float64(len(signal)))
}

// ampTodB converts an amplitude to decibels; -Inf for zero.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}
