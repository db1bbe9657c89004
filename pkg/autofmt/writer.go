package autofmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/flisky/dioxus/pkg/rsx"
)

// writer walks a tree depth-first and appends the rendering to an output
// sink. Depth is passed down explicitly; there is no other state.
type writer struct {
	w    io.Writer
	unit string // one indentation level
	expr Renderer
}

func (wr *writer) writeNode(node rsx.Node, depth int) error {
	switch n := node.(type) {
	case *rsx.Element:
		return wr.writeElement(n, depth)
	case *rsx.Component:
		return wr.writeComponent(n, depth)
	case *rsx.Text:
		if err := wr.tabs(depth); err != nil {
			return err
		}
		return wr.str(`"` + n.Value + "\"\n")
	case *rsx.RawExpr:
		// Raw expression children intentionally produce no output;
		// TestRawExprChildrenEmitNothing pins this down.
		return nil
	case *rsx.Meta:
		if err := wr.tabs(depth); err != nil {
			return err
		}
		return wr.str(n.Literal + "\n")
	default:
		return fmt.Errorf("unknown node type %T", node)
	}
}

func (wr *writer) writeElement(el *rsx.Element, depth int) error {
	if err := wr.tabs(depth); err != nil {
		return err
	}
	if err := wr.str(el.Name + " {\n"); err != nil {
		return err
	}

	// The key always comes first, with a trailing comma only when an
	// attribute that renders output follows.
	if el.Key != nil {
		if err := wr.tabs(depth + 1); err != nil {
			return err
		}
		if err := wr.str(`key: "` + el.Key.Value + `"`); err != nil {
			return err
		}
		if hasVisibleAttrs(el.Attributes) {
			if err := wr.str(","); err != nil {
				return err
			}
		}
		if err := wr.str("\n"); err != nil {
			return err
		}
	}

	for _, attr := range el.Attributes {
		if err := wr.writeAttribute(attr, depth+1); err != nil {
			return err
		}
	}

	for _, child := range el.Children {
		if err := wr.writeNode(child, depth+1); err != nil {
			return err
		}
	}

	if err := wr.tabs(depth); err != nil {
		return err
	}
	return wr.str("}\n")
}

func (wr *writer) writeAttribute(attr rsx.Attribute, depth int) error {
	switch attr.Kind {
	case rsx.AttrStaticText:
		if err := wr.tabs(depth); err != nil {
			return err
		}
		return wr.str(attr.Name + `: "` + attr.Value + "\",\n")

	case rsx.AttrDynamic:
		out, err := wr.expr.Render(attr.Value)
		if err != nil {
			return err
		}
		if !strings.Contains(out, "\n") {
			if err := wr.tabs(depth); err != nil {
				return err
			}
			return wr.str(attr.Name + ": " + out + ",\n")
		}
		return wr.writeHandler(attr.Name, out, depth)

	case rsx.AttrEventHandler:
		out, err := wr.expr.Render(attr.Value)
		if err != nil {
			return err
		}
		return wr.writeHandler(attr.Name, out, depth)

	case rsx.AttrMeta:
		// Annotations contribute nothing at the attribute position.
		return nil

	case rsx.AttrCustomStaticText, rsx.AttrCustomDynamic:
		return &UnsupportedError{
			Construct: attr.Kind.String(),
			Name:      attr.Name,
			Pos:       attr.Position,
		}

	default:
		return fmt.Errorf("unknown attribute kind %v", attr.Kind)
	}
}

// writeHandler emits a name-value pair whose rendered value may span
// several lines: the first line follows the name, every further line is
// re-based to this attribute's depth with its own relative indentation
// preserved, and a comma trails the last.
func (wr *writer) writeHandler(name, rendered string, depth int) error {
	lines := strings.Split(rendered, "\n")

	if err := wr.tabs(depth); err != nil {
		return err
	}
	if err := wr.str(name + ": " + lines[0]); err != nil {
		return err
	}
	for _, line := range lines[1:] {
		if err := wr.str("\n"); err != nil {
			return err
		}
		if err := wr.tabs(depth); err != nil {
			return err
		}
		if err := wr.str(line); err != nil {
			return err
		}
	}
	return wr.str(",\n")
}

func (wr *writer) writeComponent(c *rsx.Component, depth int) error {
	if err := wr.tabs(depth); err != nil {
		return err
	}
	if err := wr.str(c.Name + " {\n"); err != nil {
		return err
	}

	for _, field := range c.Fields {
		if err := wr.writeField(field, depth+1); err != nil {
			return err
		}
	}

	if c.Spread != "" {
		if err := wr.writeSpread(c.Spread, depth+1); err != nil {
			return err
		}
	}

	for _, child := range c.Children {
		if err := wr.writeNode(child, depth+1); err != nil {
			return err
		}
	}

	if err := wr.tabs(depth); err != nil {
		return err
	}
	return wr.str("}\n")
}

func (wr *writer) writeField(field rsx.Field, depth int) error {
	switch field.Kind {
	case rsx.FieldLiteral:
		if err := wr.tabs(depth); err != nil {
			return err
		}
		return wr.str(field.Name + `: "` + field.Value + "\",\n")

	case rsx.FieldExpression:
		out, err := wr.expr.Render(field.Value)
		if err != nil {
			return err
		}
		if !strings.Contains(out, "\n") {
			if err := wr.tabs(depth); err != nil {
				return err
			}
			return wr.str(field.Name + ": " + out + ",\n")
		}
		return wr.writeHandler(field.Name, out, depth)

	case rsx.FieldHandler:
		out, err := wr.expr.Render(field.Value)
		if err != nil {
			return err
		}
		return wr.writeHandler(field.Name, out, depth)

	default:
		return fmt.Errorf("unknown field kind %v", field.Kind)
	}
}

// writeSpread emits `..expr` with the handler re-indentation rule but no
// name and no trailing comma.
func (wr *writer) writeSpread(expr string, depth int) error {
	out, err := wr.expr.Render(expr)
	if err != nil {
		return err
	}
	lines := strings.Split(out, "\n")

	if err := wr.tabs(depth); err != nil {
		return err
	}
	if err := wr.str(".." + lines[0]); err != nil {
		return err
	}
	for _, line := range lines[1:] {
		if err := wr.str("\n"); err != nil {
			return err
		}
		if err := wr.tabs(depth); err != nil {
			return err
		}
		if err := wr.str(line); err != nil {
			return err
		}
	}
	return wr.str("\n")
}

// hasVisibleAttrs reports whether any attribute produces output. Meta
// attributes render nothing, so a key followed only by them takes no
// comma; otherwise the comma would vanish on the next pass.
func hasVisibleAttrs(attrs []rsx.Attribute) bool {
	for _, attr := range attrs {
		if attr.Kind != rsx.AttrMeta {
			return true
		}
	}
	return false
}

func (wr *writer) str(s string) error {
	_, err := io.WriteString(wr.w, s)
	return err
}

// tabs writes depth indentation units.
func (wr *writer) tabs(depth int) error {
	for i := 0; i < depth; i++ {
		if err := wr.str(wr.unit); err != nil {
			return err
		}
	}
	return nil
}
