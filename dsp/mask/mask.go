package mask

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-separation/dsp/core"
	"github.com/cwbudde/algo-separation/dsp/stft"
	"github.com/cwbudde/algo-vecmath"
)

// ErrShapeMismatch is returned when two grids do not share frame and bin counts.
var ErrShapeMismatch = errors.New("mask: shape mismatch")

// Mask holds one real gain per spectrogram cell, indexed [frame][bin].
type Mask [][]float64

// Frames returns the frame count.
func (m Mask) Frames() int { return len(m) }

// Bins returns the bin count of the first frame, or 0 if empty.
func (m Mask) Bins() int {
	if len(m) == 0 {
		return 0
	}

	return len(m[0])
}

// Fill returns a frames x bins mask with every cell set to v.
func Fill(frames, bins int, v float64) Mask {
	m := make(Mask, frames)
	for k := range m {
		row := make([]float64, bins)
		for b := range row {
			row[b] = v
		}
		m[k] = row
	}

	return m
}

// Ratio returns |t|^2 / (|t|^2 + |i|^2), or 0 when both bins are zero.
func Ratio(t, i complex128) float64 {
	return ratioFromPower(power(t), power(i))
}

// Binary returns 1 when |t| > |i| and 0 otherwise. Ties go to the
// interference.
func Binary(t, i complex128) float64 {
	return binaryFromPower(power(t), power(i))
}

// Derive computes the ratio and binary masks for two spectrograms of
// identical shape.
func Derive(target, interference stft.Spectrogram) (ratio, binary Mask, err error) {
	if !target.SameShape(interference) {
		return nil, nil, fmt.Errorf("%w: target %dx%d, interference %dx%d", ErrShapeMismatch,
			target.Frames(), target.Bins(), interference.Frames(), interference.Bins())
	}

	ratio = make(Mask, len(target))
	binary = make(Mask, len(target))

	var sc scratch

	for k := range target {
		n := len(target[k])
		pt, pi := sc.powers(target[k], interference[k])

		r := make([]float64, n)
		b := make([]float64, n)

		for j := range n {
			r[j] = ratioFromPower(pt[j], pi[j])
			b[j] = binaryFromPower(pt[j], pi[j])
		}

		ratio[k] = r
		binary[k] = b
	}

	return ratio, binary, nil
}

// Apply returns a new spectrogram with every bin of spec scaled by the
// matching cell of m.
func Apply(spec stft.Spectrogram, m Mask) (stft.Spectrogram, error) {
	if len(spec) != len(m) {
		return nil, fmt.Errorf("%w: spectrogram has %d frames, mask %d", ErrShapeMismatch, len(spec), len(m))
	}

	out := make(stft.Spectrogram, len(spec))

	for k, bins := range spec {
		gains := m[k]
		if len(gains) != len(bins) {
			return nil, fmt.Errorf("%w: frame %d has %d bins, mask %d", ErrShapeMismatch, k, len(bins), len(gains))
		}

		row := make([]complex128, len(bins))
		for j, v := range bins {
			g := gains[j]
			row[j] = complex(real(v)*g, imag(v)*g)
		}

		out[k] = row
	}

	return out, nil
}

func ratioFromPower(pt, pi float64) float64 {
	den := pt + pi
	if den == 0 {
		return 0
	}

	return core.Clamp(pt/den, 0, 1)
}

func binaryFromPower(pt, pi float64) float64 {
	if pt > pi {
		return 1
	}

	return 0
}

func power(v complex128) float64 {
	re, im := real(v), imag(v)
	return re*re + im*im
}

// scratch holds per-frame buffers for the vectorised energy computation.
type scratch struct {
	re, im []float64
	pt, pi []float64
}

func (s *scratch) powers(t, i []complex128) (pt, pi []float64) {
	n := len(t)
	if cap(s.re) < n {
		s.re = make([]float64, n)
		s.im = make([]float64, n)
		s.pt = make([]float64, n)
		s.pi = make([]float64, n)
	}

	re, im := s.re[:n], s.im[:n]
	pt, pi = s.pt[:n], s.pi[:n]

	split(re, im, t)
	vecmath.Power(pt, re, im)
	split(re, im, i)
	vecmath.Power(pi, re, im)

	return pt, pi
}

func split(re, im []float64, in []complex128) {
	for j, v := range in {
		re[j] = real(v)
		im[j] = imag(v)
	}
}
