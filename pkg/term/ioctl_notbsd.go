//go:build linux || solaris

package term

import "golang.org/x/sys/unix"

const (
	getAttrIoctl = unix.TCGETS
	setAttrIoctl = unix.TCSETS
)
