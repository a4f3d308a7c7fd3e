package stft

import "errors"

var (
	ErrInvalidWindow    = errors.New("stft: invalid window")
	ErrInvalidHop       = errors.New("stft: invalid hop size")
	ErrSignalTooShort   = errors.New("stft: signal shorter than window")
	ErrEmptySpectrogram = errors.New("stft: empty spectrogram")
	ErrShapeMismatch    = errors.New("stft: spectrogram shape mismatch")
)
