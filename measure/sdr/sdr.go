package sdr

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-separation/dsp/core"
	"github.com/cwbudde/algo-separation/stats/level"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrEmptyInput     = errors.New("sdr: empty input")
	ErrLengthMismatch = errors.New("sdr: length mismatch")
	ErrSilentRef      = errors.New("sdr: reference has no energy")
)

// Metrics holds SNR and SI-SDR in dB.
type Metrics struct {
	SNR   float64
	SISDR float64
}

// Report compares the mixture and an estimate against the same reference.
type Report struct {
	Input       Metrics
	Output      Metrics
	Improvement Metrics
}

// SNR returns 10*log10(sum(ref^2) / sum((ref-est)^2)). A perfect estimate
// yields +Inf.
func SNR(reference, estimate []float64) (float64, error) {
	if err := validate(reference, estimate); err != nil {
		return 0, err
	}

	signal := level.Energy(reference)
	if signal == 0 {
		return 0, ErrSilentRef
	}

	residual := floats.SubTo(make([]float64, len(reference)), reference, estimate)

	return ratioDB(signal, level.Energy(residual)), nil
}

// SISDR returns the scale-invariant SDR of estimate against reference.
func SISDR(reference, estimate []float64) (float64, error) {
	if err := validate(reference, estimate); err != nil {
		return 0, err
	}

	refEnergy := level.Energy(reference)
	if refEnergy == 0 {
		return 0, ErrSilentRef
	}

	alpha := floats.Dot(reference, estimate) / refEnergy

	// Projection of estimate onto reference, then its distance to estimate.
	target := floats.ScaleTo(make([]float64, len(reference)), alpha, reference)
	residual := floats.SubTo(make([]float64, len(reference)), target, estimate)

	return ratioDB(level.Energy(target), level.Energy(residual)), nil
}

// Measure returns both metrics for one estimate.
func Measure(reference, estimate []float64) (Metrics, error) {
	snr, err := SNR(reference, estimate)
	if err != nil {
		return Metrics{}, err
	}

	sisdr, err := SISDR(reference, estimate)
	if err != nil {
		return Metrics{}, err
	}

	return Metrics{SNR: snr, SISDR: sisdr}, nil
}

// Evaluate measures mixture and estimate against reference and reports
// the gain of the estimate over the mixture.
func Evaluate(reference, mixture, estimate []float64) (Report, error) {
	in, err := Measure(reference, mixture)
	if err != nil {
		return Report{}, fmt.Errorf("sdr: mixture: %w", err)
	}

	out, err := Measure(reference, estimate)
	if err != nil {
		return Report{}, fmt.Errorf("sdr: estimate: %w", err)
	}

	return Report{
		Input:  in,
		Output: out,
		Improvement: Metrics{
			SNR:   out.SNR - in.SNR,
			SISDR: out.SISDR - in.SISDR,
		},
	}, nil
}

func validate(reference, estimate []float64) error {
	if len(reference) == 0 {
		return ErrEmptyInput
	}

	if len(reference) != len(estimate) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(reference), len(estimate))
	}

	return nil
}

func ratioDB(signal, noise float64) float64 {
	switch {
	case signal == 0:
		return math.Inf(-1)
	case noise == 0:
		return math.Inf(1)
	}

	return core.LinearPowerToDB(signal / noise)
}
