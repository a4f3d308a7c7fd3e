package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// OverlapProperties describes how a window behaves under weighted
// overlap-add (analysis and synthesis both windowed) at a given hop.
type OverlapProperties struct {
	// Hop is the frame advance in samples.
	Hop int
	// Overlap is the fraction of each frame shared with the next one.
	Overlap float64
	// MinGain and MaxGain bound the steady-state sum of w[n]^2 over all
	// frames covering one sample.
	MinGain float64
	MaxGain float64
	// RippledB is 10*log10(MaxGain/MinGain); 0 for a constant envelope.
	RippledB float64
}

// Constant reports whether the steady-state envelope is flat within tol
// (relative). A flat envelope reconstructs without per-sample normalisation.
func (p OverlapProperties) Constant(tol float64) bool {
	if p.MaxGain <= 0 {
		return false
	}

	return (p.MaxGain-p.MinGain)/p.MaxGain <= tol
}

// SquaredEnvelope returns the overlap-added squared window for frames
// frames spaced hop samples apart: env[k*hop+n] += w[n]^2.
// The result has (frames-1)*hop + len(coeffs) samples.
func SquaredEnvelope(coeffs []float64, hop, frames int) ([]float64, error) {
	if err := validateLength(len(coeffs)); err != nil {
		return nil, err
	}

	if err := validateHop(hop, len(coeffs)); err != nil {
		return nil, err
	}

	if frames <= 0 {
		return nil, nil
	}

	n := len(coeffs)
	sq := make([]float64, n)
	vecmath.MulBlock(sq, coeffs, coeffs)

	env := make([]float64, (frames-1)*hop+n)
	for k := range frames {
		pos := k * hop
		vecmath.AddBlockInPlace(env[pos:pos+n], sq)
	}

	return env, nil
}

// AnalyzeOverlap computes the steady-state overlap-add envelope of coeffs
// at the given hop. The steady state is sampled over one hop period far
// enough from the edges that every sample is covered by the maximum
// number of frames.
func AnalyzeOverlap(coeffs []float64, hop int) (OverlapProperties, error) {
	n := len(coeffs)
	if err := validateLength(n); err != nil {
		return OverlapProperties{}, err
	}

	if err := validateHop(hop, n); err != nil {
		return OverlapProperties{}, err
	}

	covering := (n + hop - 1) / hop
	env, err := SquaredEnvelope(coeffs, hop, 2*covering+1)
	if err != nil {
		return OverlapProperties{}, err
	}

	start := covering * hop
	minGain, maxGain := math.Inf(1), 0.0

	for _, v := range env[start : start+hop] {
		minGain = math.Min(minGain, v)
		maxGain = math.Max(maxGain, v)
	}

	ripple := math.Inf(1)
	if minGain > 0 {
		ripple = 10 * math.Log10(maxGain/minGain)
	}

	return OverlapProperties{
		Hop:      hop,
		Overlap:  1 - float64(hop)/float64(n),
		MinGain:  minGain,
		MaxGain:  maxGain,
		RippledB: ripple,
	}, nil
}
