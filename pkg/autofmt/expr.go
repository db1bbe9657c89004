package autofmt

import (
	"bytes"
	"fmt"
	goparser "go/parser"
	"go/printer"
	"go/token"
)

// Renderer turns an opaque embedded expression into its canonical text.
//
// Implementations must be deterministic: the same source always yields
// the same rendering, which is what makes formatting idempotent. The
// rendering owns the expression's internal line structure; the formatter
// only controls the column the block starts at.
type Renderer interface {
	Render(src string) (string, error)
}

// GoRenderer renders embedded Go expressions through go/printer, indenting
// with spaces at the configured width. Line breaks present in the source
// are preserved; indentation inside the expression is recomputed, so the
// output does not depend on how the source was indented.
type GoRenderer struct {
	// IndentWidth is the number of spaces per indentation level
	// (default: 4).
	IndentWidth int
}

// Render implements Renderer.
func (r GoRenderer) Render(src string) (string, error) {
	width := r.IndentWidth
	if width <= 0 {
		width = DefaultIndentWidth
	}

	fset := token.NewFileSet()
	expr, err := goparser.ParseExprFrom(fset, "", src, 0)
	if err != nil {
		return "", fmt.Errorf("render expression: %w", err)
	}

	var buf bytes.Buffer
	cfg := printer.Config{Mode: printer.UseSpaces, Tabwidth: width}
	if err := cfg.Fprint(&buf, fset, expr); err != nil {
		return "", fmt.Errorf("render expression: %w", err)
	}
	return buf.String(), nil
}
