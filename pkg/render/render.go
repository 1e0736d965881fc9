// Package render draws node trees as terminal text.
//
// The model is deliberately small: text nodes and elements with an inline
// tag render on the current line; every other element is a block occupying
// its own line or lines. A "style" property holds space-separated style
// names (bold, dim, underline, inverse, and the eight basic colors) that
// RenderANSI turns into SGR sequences and Render ignores.
package render

import (
	"strings"

	"src.loom.dev/pkg/node"
)

// Inline tags. Everything else is a block.
var inlineTags = map[string]bool{
	"span": true, "em": true, "strong": true, "b": true, "i": true,
	"code": true,
}

var sgrCodes = map[string]string{
	"bold":      "1",
	"dim":       "2",
	"italic":    "3",
	"underline": "4",
	"inverse":   "7",
	"black":     "30",
	"red":       "31",
	"green":     "32",
	"yellow":    "33",
	"blue":      "34",
	"magenta":   "35",
	"cyan":      "36",
	"white":     "37",
}

// Render renders the tree as plain text, one block per line, without any
// escape sequences.
func Render(root *node.Node) string {
	return strings.Join(renderLines(root, false), "\n")
}

// RenderANSI renders the tree with SGR styling from "style" properties.
func RenderANSI(root *node.Node) string {
	return strings.Join(renderLines(root, true), "\n")
}

// Lines returns the rendered lines of the tree.
func Lines(root *node.Node, styled bool) []string {
	return renderLines(root, styled)
}

func isInline(n *node.Node) bool {
	return n.IsText() || inlineTags[n.Tag()]
}

// renderLines renders a block node.
func renderLines(n *node.Node, styled bool) []string {
	if isInline(n) {
		return []string{renderInline(n, styled)}
	}
	var lines []string
	cur, curOpen := "", false
	flush := func() {
		if curOpen {
			lines = append(lines, cur)
			cur, curOpen = "", false
		}
	}
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if isInline(c) {
			cur += renderInline(c, styled)
			curOpen = true
			continue
		}
		flush()
		lines = append(lines, renderLines(c, styled)...)
	}
	flush()
	if len(lines) == 0 {
		// An empty block still takes up a line.
		lines = []string{""}
	}
	if styled {
		if sgr := sgrOf(n); sgr != "" {
			for i, line := range lines {
				lines[i] = "\x1b[" + sgr + "m" + line + "\x1b[m"
			}
		}
	}
	return lines
}

// renderInline renders a text node or inline element to a single line
// fragment.
func renderInline(n *node.Node, styled bool) string {
	if n.IsText() {
		return n.Text()
	}
	var sb strings.Builder
	for i := 0; i < n.ChildCount(); i++ {
		sb.WriteString(renderInline(n.Child(i), styled))
	}
	s := sb.String()
	if styled {
		if sgr := sgrOf(n); sgr != "" {
			s = "\x1b[" + sgr + "m" + s + "\x1b[m"
		}
	}
	return s
}

func sgrOf(n *node.Node) string {
	style, _ := n.Prop("style").(string)
	if style == "" {
		return ""
	}
	var codes []string
	for _, name := range strings.Fields(style) {
		if code, ok := sgrCodes[name]; ok {
			codes = append(codes, code)
		}
	}
	return strings.Join(codes, ";")
}
