//go:build unix

package term

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Setup switches the terminal into the mode the demo needs: no canonical
// line editing, no echo, byte-at-a-time reads, CR translated to NL. It
// returns a function restoring the attributes that were in effect.
func Setup(f *os.File) (restore func() error, err error) {
	fd := int(f.Fd())
	saved, err := unix.IoctlGetTermios(fd, getAttrIoctl)
	if err != nil {
		return nil, fmt.Errorf("get terminal attributes: %w", err)
	}

	raw := *saved
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Iflag |= unix.ICRNL
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, setAttrIoctl, &raw); err != nil {
		return nil, fmt.Errorf("set terminal attributes: %w", err)
	}

	return func() error {
		return unix.IoctlSetTermios(fd, setAttrIoctl, saved)
	}, nil
}
