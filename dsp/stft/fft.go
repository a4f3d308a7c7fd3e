package stft

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// fftBackend computes length-N complex transforms. Inverse is scaled by 1/N.
type fftBackend interface {
	Forward(dst, src []complex128) error
	Inverse(dst, src []complex128) error
}

func newBackend(n int) (fftBackend, error) {
	if n == 1 {
		return identityBackend{}, nil
	}

	if isPowerOf2(n) {
		plan, err := algofft.NewPlan64(n)
		if err != nil {
			return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
		}

		return plan, nil
	}

	return &gonumBackend{
		fft:   fourier.NewCmplxFFT(n),
		scale: 1 / float64(n),
	}, nil
}

// gonumBackend adapts fourier.CmplxFFT, whose inverse is unnormalised.
type gonumBackend struct {
	fft   *fourier.CmplxFFT
	scale float64
}

func (g *gonumBackend) Forward(dst, src []complex128) error {
	g.fft.Coefficients(dst, src)
	return nil
}

func (g *gonumBackend) Inverse(dst, src []complex128) error {
	g.fft.Sequence(dst, src)

	s := complex(g.scale, 0)
	for i := range dst {
		dst[i] *= s
	}

	return nil
}

// identityBackend handles single-sample frames, whose DFT is the sample.
type identityBackend struct{}

func (identityBackend) Forward(dst, src []complex128) error {
	copy(dst, src)
	return nil
}

func (identityBackend) Inverse(dst, src []complex128) error {
	copy(dst, src)
	return nil
}

func isPowerOf2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
