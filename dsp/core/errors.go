package core

import "fmt"

func errLengthMismatch(a, b int) error {
	return fmt.Errorf("core: length mismatch: %d vs %d", a, b)
}
