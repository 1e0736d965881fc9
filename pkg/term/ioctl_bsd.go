//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package term

import "golang.org/x/sys/unix"

const (
	getAttrIoctl = unix.TIOCGETA
	setAttrIoctl = unix.TIOCSETA
)
