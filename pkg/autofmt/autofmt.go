// Package autofmt pretty-prints rsx blocks.
//
// Given a parsed syntax tree it produces a canonical, stably indented
// rendering: one node or attribute per line, brace-delimited bodies,
// four-space indentation units by default, a trailing comma after every
// attribute and field line. Formatting already-formatted source is a
// no-op.
package autofmt

import (
	"io"
	"strings"

	"github.com/flisky/dioxus/pkg/rsx"
)

// DefaultIndentWidth is the number of spaces per indentation level when no
// width is configured.
const DefaultIndentWidth = 4

// Formatter formats rsx trees.
type Formatter struct {
	// IndentWidth is the number of spaces per indentation level
	// (default: 4).
	IndentWidth int
	// Expr renders embedded expressions. Nil selects a GoRenderer at the
	// formatter's indent width.
	Expr Renderer
}

// New creates a Formatter with default settings.
func New() *Formatter {
	return &Formatter{IndentWidth: DefaultIndentWidth}
}

// FormatBlock parses raw rsx source and formats it at indent zero.
//
// Failures are typed: *rsx.ParseError for malformed source,
// *UnsupportedError for constructs the formatter does not handle yet, and
// the underlying write error otherwise.
func (f *Formatter) FormatBlock(src string) (string, error) {
	nodes, err := rsx.Parse("", src)
	if err != nil {
		return "", err
	}
	return f.Format(nodes, 0)
}

// Format renders nodes to a string with the leftmost lines at the given
// indentation depth.
func (f *Formatter) Format(nodes []rsx.Node, indent int) (string, error) {
	var sb strings.Builder
	if err := f.Fprint(&sb, nodes, indent); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Fprint renders nodes to w with the leftmost lines at the given
// indentation depth. The traversal is a single depth-first pass; the first
// failure aborts it and any partial output written to w must be discarded
// by the caller.
func (f *Formatter) Fprint(w io.Writer, nodes []rsx.Node, indent int) error {
	width := f.IndentWidth
	if width <= 0 {
		width = DefaultIndentWidth
	}

	expr := f.Expr
	if expr == nil {
		expr = GoRenderer{IndentWidth: width}
	}

	wr := &writer{
		w:    w,
		unit: strings.Repeat(" ", width),
		expr: expr,
	}
	for _, node := range nodes {
		if err := wr.writeNode(node, indent); err != nil {
			return err
		}
	}
	return nil
}

// FormatBlock formats raw rsx source with default settings.
func FormatBlock(src string) (string, error) {
	return New().FormatBlock(src)
}
