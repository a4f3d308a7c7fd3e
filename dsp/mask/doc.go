// Package mask derives oracle time-frequency masks from the clean
// spectrograms of a target and an interference signal, and applies a mask
// to a mixture spectrogram.
//
// Two masks are derived cell by cell from the bin energies |T|^2 and |I|^2:
//
//   - ratio:  |T|^2 / (|T|^2 + |I|^2), in [0, 1]; 0 where both are silent
//   - binary: 1 where |T|^2 > |I|^2, else 0; equal energies resolve to 0
//
// No cell depends on any other cell.
package mask
