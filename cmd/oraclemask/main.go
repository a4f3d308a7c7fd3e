// Command oraclemask separates a target signal from an interference signal
// with oracle time-frequency masks and reports the achieved SNR.
//
// Usage:
//
//	oraclemask [flags] <command> [args]
//
// Commands:
//
//	separate  - apply ratio/binary oracle masks to target+interference WAVs
//	window    - print weighted overlap-add properties of window/hop pairs
//
// Examples:
//
//	oraclemask separate -t voice.wav -i noise.wav -o out --binary
//	oraclemask separate -t voice.wav -i noise.wav --config sep.yaml
//	oraclemask window --size 1024 --hop 256 hann hamming
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
