package render

import (
	"fmt"
	"io"
	"strings"

	"src.loom.dev/pkg/node"
)

// A Frame repaints a node tree in place: each Draw moves the cursor back
// over the previous frame's lines, erases them and writes the new ones, so
// successive frames occupy the same screen region instead of scrolling.
type Frame struct {
	w      io.Writer
	styled bool
	lines  int
}

// NewFrame returns a Frame writing to w. When styled is false, style
// properties are ignored (useful when w is not a terminal).
func NewFrame(w io.Writer, styled bool) *Frame {
	return &Frame{w: w, styled: styled}
}

// Draw repaints the tree.
func (f *Frame) Draw(root *node.Node) error {
	lines := renderLines(root, f.styled)
	var sb strings.Builder
	if f.lines > 0 {
		fmt.Fprintf(&sb, "\x1b[%dA", f.lines)
	}
	for _, line := range lines {
		sb.WriteString("\r\x1b[K")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if f.lines > len(lines) {
		// The previous frame was taller; erase what it left below.
		sb.WriteString("\x1b[J")
	}
	f.lines = len(lines)
	_, err := io.WriteString(f.w, sb.String())
	return err
}
