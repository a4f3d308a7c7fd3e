package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Repeat tiles pattern until length samples are produced.
func Repeat(pattern []float64, length int) []float64 {
	out := make([]float64, length)
	if len(pattern) == 0 {
		return out
	}
	for i := range out {
		out[i] = pattern[i%len(pattern)]
	}
	return out
}

// Zeros returns a silent signal of the given length.
func Zeros(length int) []float64 {
	return make([]float64, length)
}
