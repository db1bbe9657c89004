// Package rsx defines the syntax tree for rsx blocks and the parser that
// builds it from source text.
//
// An rsx block describes a UI fragment: markup-style elements with
// attributes, component invocations with named fields, literal text, and
// embedded Go expressions. The tree is immutable input to consumers such as
// the autofmt pretty-printer; nothing in this package mutates a parsed tree.
package rsx

import "fmt"

// Position identifies a location in rsx source.
type Position struct {
	File string
	Line int
	Col  int
}

// String returns the position as "file:line:col".
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Node is the interface implemented by all syntax tree nodes.
type Node interface {
	node() // marker method, keeps the node set closed
	Pos() Position
}

// Element represents a markup tag with attributes and children:
//
//	div {
//	    class: "container",
//	    "hello"
//	}
type Element struct {
	Name string
	// Key is the optional `key: "..."` attribute, promoted out of the
	// attribute list by the parser. Nil when absent.
	Key        *Text
	Attributes []Attribute
	Children   []Node
	Position   Position
}

func (e *Element) node()         {}
func (e *Element) Pos() Position { return e.Position }

// Component represents a named component invocation with fields, an
// optional `..props` spread, and children. Name is the dotted path as
// written in source (e.g. "icons.Button").
type Component struct {
	Name   string
	Fields []Field
	// Spread is the expression source of a `..expr` property spread,
	// empty when none was written.
	Spread   string
	Children []Node
	Position Position
}

func (c *Component) node()         {}
func (c *Component) Pos() Position { return c.Position }

// Text represents a string literal child. Value holds the literal body
// exactly as written between the quotes, escape sequences untouched, so
// re-emitting it reproduces the source bytes.
type Text struct {
	Value    string
	Position Position
}

func (t *Text) node()         {}
func (t *Text) Pos() Position { return t.Position }

// RawExpr represents a brace-wrapped expression child: { expr }.
// Expr is the opaque expression source.
type RawExpr struct {
	Expr     string
	Position Position
}

func (r *RawExpr) node()         {}
func (r *RawExpr) Pos() Position { return r.Position }

// Meta represents a `#[...]` annotation appearing as a child node.
// Literal is the full annotation text including the brackets.
type Meta struct {
	Literal  string
	Position Position
}

func (m *Meta) node()         {}
func (m *Meta) Pos() Position { return m.Position }

// AttrKind discriminates the attribute variants of an Element.
type AttrKind int

const (
	// AttrStaticText is `name: "literal"`.
	AttrStaticText AttrKind = iota
	// AttrDynamic is `name: expr`.
	AttrDynamic
	// AttrEventHandler is an `on`-prefixed attribute with an expression
	// value, expected to render as a callback body.
	AttrEventHandler
	// AttrCustomStaticText is `"name": "literal"`; the attribute name is
	// itself a string rather than a fixed identifier.
	AttrCustomStaticText
	// AttrCustomDynamic is `"name": expr`.
	AttrCustomDynamic
	// AttrMeta is a `#[...]` annotation at the attribute position.
	AttrMeta
)

// String returns a human-readable name for the attribute kind.
func (k AttrKind) String() string {
	switch k {
	case AttrStaticText:
		return "static attribute"
	case AttrDynamic:
		return "dynamic attribute"
	case AttrEventHandler:
		return "event handler"
	case AttrCustomStaticText:
		return "custom static attribute"
	case AttrCustomDynamic:
		return "custom dynamic attribute"
	case AttrMeta:
		return "meta attribute"
	}
	return fmt.Sprintf("AttrKind(%d)", int(k))
}

// Attribute is a name-value pair on an Element.
//
// For the Custom* kinds, Name holds the quoted literal body that forms the
// attribute name. For AttrMeta, Name is empty and Value holds the full
// `#[...]` text. Otherwise Value is the string literal body
// (AttrStaticText) or the opaque expression source.
type Attribute struct {
	Kind     AttrKind
	Name     string
	Value    string
	Position Position
}

// FieldKind discriminates the content variants of a Component field.
type FieldKind int

const (
	// FieldExpression is `name: expr`.
	FieldExpression FieldKind = iota
	// FieldLiteral is `name: "literal"`.
	FieldLiteral
	// FieldHandler is an `on`-prefixed field with an expression value,
	// rendered as a callback body like an element event handler.
	FieldHandler
)

// Field is a named property on a Component invocation.
type Field struct {
	Name     string
	Kind     FieldKind
	Value    string
	Position Position
}
