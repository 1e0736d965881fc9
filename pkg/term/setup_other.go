//go:build !unix

package term

import (
	"errors"
	"os"
)

// ErrUnsupported is returned by Setup on platforms without termios.
var ErrUnsupported = errors.New("terminal setup not supported on this platform")

// Setup is not supported on this platform.
func Setup(f *os.File) (restore func() error, err error) {
	return nil, ErrUnsupported
}
