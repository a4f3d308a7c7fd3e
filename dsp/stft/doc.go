// Package stft provides short-time Fourier analysis and weighted
// overlap-add synthesis over a shared window and hop.
//
// Frames are length-N slices of the input taken at offsets k*hop and
// tapered by the analysis window. Each frame maps to a full length-N
// complex spectrum, so a [Spectrogram] is indexed [frame][bin]:
//
//	tr, err := stft.New(window.Generate(window.TypeHamming, 1024), 512)
//	spec, err := tr.Analyze(signal)
//	// ... modify spec bins ...
//	out, err := tr.Synthesize(spec)
//
// For a signal of length L the frame count is floor((L-N)/hop)+1 and the
// synthesized length is (frames-1)*hop + N. Trailing samples that do not
// fill a whole frame are not analysed.
//
// Synthesis windows every inverse-transformed frame a second time and
// divides the overlap-added result by the summed squared window, so an
// unmodified spectrogram reconstructs the analysed samples for any window
// whose envelope stays above a small floor.
//
// Power-of-two sizes use algo-fft; other sizes fall back to gonum's
// mixed-radix complex FFT. A [Transform] keeps scratch buffers and is not
// safe for concurrent use; use [Transform.Clone] per goroutine.
package stft
