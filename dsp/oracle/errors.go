package oracle

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every argument validation failure.
var ErrInvalidInput = errors.New("oracle: invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
