// Package term provides the minimal terminal support the demo binary
// needs: switching a tty into raw-ish mode and decoding key presses from
// it. It is not a full terminal abstraction.
package term

import (
	"bufio"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Kind classifies a decoded key.
type Kind uint8

// Kind values.
const (
	KindRune Kind = iota
	KindCtrl
	KindEnter
	KindTab
	KindBackspace
	KindEsc
	KindUp
	KindDown
	KindLeft
	KindRight
)

// Key is one decoded key press. Rune is set for KindRune (the rune itself)
// and KindCtrl (the lowercase letter, so Ctrl-C is {Rune: 'c', Kind:
// KindCtrl}).
type Key struct {
	Rune rune
	Kind Kind
}

// K is a shorthand Key constructor for special keys.
func K(kind Kind) Key { return Key{Kind: kind} }

// Ctrl returns the Key for Ctrl plus a letter.
func Ctrl(r rune) Key { return Key{Rune: r, Kind: KindCtrl} }

// IsTerminal reports whether the file is a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// A Reader decodes key presses from a byte stream.
type Reader struct {
	br *bufio.Reader
}

// NewReader returns a Reader decoding keys from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadKey blocks until one key press has been decoded. CSI arrow sequences
// are recognized; a lone escape byte with nothing buffered behind it
// decodes as Esc.
func (rd *Reader) ReadKey() (Key, error) {
	r, _, err := rd.br.ReadRune()
	if err != nil {
		return Key{}, err
	}
	switch r {
	case '\r', '\n':
		return K(KindEnter), nil
	case '\t':
		return K(KindTab), nil
	case 0x7f, '\b':
		return K(KindBackspace), nil
	case 0x1b:
		return rd.readEscape()
	}
	if r < 0x20 {
		return Ctrl(r + 0x60), nil
	}
	return Key{Rune: r}, nil
}

func (rd *Reader) readEscape() (Key, error) {
	// A real escape sequence arrives as one burst, so an empty buffer
	// means the user pressed the Esc key itself.
	if rd.br.Buffered() == 0 {
		return K(KindEsc), nil
	}
	b, err := rd.br.ReadByte()
	if err != nil {
		return Key{}, err
	}
	if b != '[' {
		rd.br.UnreadByte()
		return K(KindEsc), nil
	}
	final, err := rd.br.ReadByte()
	if err != nil {
		return Key{}, err
	}
	switch final {
	case 'A':
		return K(KindUp), nil
	case 'B':
		return K(KindDown), nil
	case 'C':
		return K(KindRight), nil
	case 'D':
		return K(KindLeft), nil
	}
	// Unrecognized sequence; report it as Esc and let the following bytes
	// decode as ordinary keys.
	return K(KindEsc), nil
}
