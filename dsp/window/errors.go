package window

import (
	"errors"
	"fmt"
)

var (
	errEmptyCoeffs      = errors.New("window coefficients must not be empty")
	errAllZero          = errors.New("window coefficients must not all be zero")
	errMismatchedLength = errors.New("samples and coefficients must have same length")
)

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}
	return nil
}

func validateHop(hop, size int) error {
	if hop <= 0 || hop > size {
		return fmt.Errorf("window hop must be in [1, %d]: %d", size, hop)
	}
	return nil
}

func errNonFinite(i int, v float64) error {
	return fmt.Errorf("window coefficient %d must be finite: %v", i, v)
}

func errUnknownType(name string) error {
	return fmt.Errorf("unknown window type %q", name)
}
