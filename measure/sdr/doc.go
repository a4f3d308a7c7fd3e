// Package sdr measures how closely a separated signal matches its clean
// reference.
//
// Two metrics are provided:
//
//   - SNR:    10*log10(|s|^2 / |s - e|^2), the plain reconstruction SNR
//   - SI-SDR: the scale-invariant signal-to-distortion ratio, which first
//     projects the estimate onto the reference so a pure gain error is not
//     counted as distortion
//
// [Evaluate] reports both for the unprocessed mixture and for an estimate,
// so the improvement achieved by a separator can be read directly.
package sdr
