// Package oracle computes ideal ratio and binary mask separations of a
// target from an additive interference, given both clean signals.
//
// The result is the best a time-frequency masking separator could do with
// the chosen window and hop, which makes it a reference point for real
// (blind) separation algorithms.
//
//	res, err := oracle.Separate(target, interference,
//		oracle.WithWindow(oracle.FixedSize(1024)),
//		oracle.WithHop(256),
//		oracle.WithBinaryMask(),
//	)
//
// Both inputs are zero-padded to the longer length, analysed along with
// their sum, and the masked mixture is resynthesized and trimmed or padded
// back to that length. Every failing precondition returns an error wrapping
// [ErrInvalidInput] before any transform work is done.
package oracle
