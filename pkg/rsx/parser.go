package rsx

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse parses the source text of an rsx block into its root nodes.
// filename is used only for error positions and may be empty.
//
// On malformed input the result is nil and a *ParseError, never a
// partial tree.
func Parse(filename, input string) ([]Node, error) {
	p := &parser{
		input:    input,
		line:     1,
		col:      1,
		filename: filename,
	}

	nodes, err := p.parseNodes()
	if err != nil {
		return nil, err
	}

	p.skipTrivia()
	if !p.eof() {
		return nil, p.errorf("unexpected %q at top level", rune(p.input[p.pos]))
	}

	return nodes, nil
}

// parser is a recursive descent parser over raw rsx source.
type parser struct {
	input    string
	pos      int
	line     int
	col      int
	filename string
}

// parseNodes parses the node sequence at the root of a block. Element and
// component bodies have their own loops because attributes and fields may
// appear there; at the root only nodes are legal.
func (p *parser) parseNodes() ([]Node, error) {
	var nodes []Node

	for {
		p.skipTrivia()
		if p.eof() || p.peek("}") {
			return nodes, nil
		}

		switch {
		case p.peek("#["):
			node, err := p.parseMeta()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)

		case p.peek(`"`):
			pos := p.position()
			value, err := p.parseStringLit()
			if err != nil {
				return nil, err
			}
			p.skipTrivia()
			if p.peek(":") {
				return nil, p.errorf("custom attribute outside an element")
			}
			nodes = append(nodes, &Text{Value: value, Position: pos})

		case p.peek("{"):
			node, err := p.parseRawExpr()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)

		default:
			node, err := p.parseNamed()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}

		p.skipTrivia()
		p.consume(",")
	}
}

// parseNamed parses an element or component starting at its name.
func (p *parser) parseNamed() (Node, error) {
	pos := p.position()

	name := p.parseName()
	if name == "" {
		return nil, p.errorf("expected element or component name")
	}

	p.skipTrivia()
	if !p.consume("{") {
		return nil, p.errorf("expected '{' after %q", name)
	}

	if isComponentName(name) {
		return p.parseComponentBody(name, pos)
	}
	return p.parseElementBody(name, pos)
}

// parseElementBody parses attributes and children up to the closing brace.
// Attributes and children may interleave in source; each list keeps its
// own order.
func (p *parser) parseElementBody(name string, pos Position) (*Element, error) {
	el := &Element{Name: name, Position: pos}

	for {
		p.skipTrivia()
		if p.eof() {
			return nil, p.errorf("unexpected end of input in element %q", name)
		}
		if p.consume("}") {
			return el, nil
		}

		switch {
		case p.peek("#["):
			itemPos := p.position()
			literal, err := p.scanMeta()
			if err != nil {
				return nil, err
			}
			// Annotations in the attribute section attach to the
			// attribute list; once children have started they are
			// child nodes of their own.
			if len(el.Children) == 0 {
				el.Attributes = append(el.Attributes, Attribute{
					Kind:     AttrMeta,
					Value:    literal,
					Position: itemPos,
				})
			} else {
				el.Children = append(el.Children, &Meta{Literal: literal, Position: itemPos})
			}

		case p.peek(`"`):
			itemPos := p.position()
			lit, err := p.parseStringLit()
			if err != nil {
				return nil, err
			}
			p.skipTrivia()
			if p.consume(":") {
				attr, err := p.parseCustomAttr(lit, itemPos)
				if err != nil {
					return nil, err
				}
				el.Attributes = append(el.Attributes, attr)
			} else {
				el.Children = append(el.Children, &Text{Value: lit, Position: itemPos})
			}

		case p.peek("{"):
			node, err := p.parseRawExpr()
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, node)

		case p.peek(".."):
			return nil, p.errorf("property spread is only allowed in components")

		default:
			itemPos := p.position()
			ident := p.parseName()
			if ident == "" {
				return nil, p.errorf("unexpected %q in element %q", rune(p.input[p.pos]), name)
			}

			p.skipTrivia()
			if p.consume(":") {
				if strings.Contains(ident, ".") {
					return nil, p.errorf("invalid attribute name %q", ident)
				}
				if err := p.parseElementAttr(el, ident, itemPos); err != nil {
					return nil, err
				}
			} else if p.peek("{") {
				p.consume("{")
				var child Node
				var err error
				if isComponentName(ident) {
					child, err = p.parseComponentBody(ident, itemPos)
				} else {
					child, err = p.parseElementBody(ident, itemPos)
				}
				if err != nil {
					return nil, err
				}
				el.Children = append(el.Children, child)
			} else {
				return nil, p.errorf("expected ':' or '{' after %q", ident)
			}
		}

		p.skipTrivia()
		p.consume(",")
	}
}

// parseElementAttr parses the value of `name:` inside an element and
// appends the attribute, promoting `key` to the element itself.
func (p *parser) parseElementAttr(el *Element, name string, pos Position) error {
	p.skipTrivia()

	if p.peek(`"`) {
		value, err := p.parseStringLit()
		if err != nil {
			return err
		}
		if name == "key" {
			if el.Key != nil {
				return p.errorf("duplicate key attribute")
			}
			el.Key = &Text{Value: value, Position: pos}
			return nil
		}
		el.Attributes = append(el.Attributes, Attribute{
			Kind:     AttrStaticText,
			Name:     name,
			Value:    value,
			Position: pos,
		})
		return nil
	}

	if name == "key" {
		return p.errorf("key attribute must be a string literal")
	}

	expr, err := p.scanExpr()
	if err != nil {
		return err
	}

	kind := AttrDynamic
	if strings.HasPrefix(name, "on") {
		kind = AttrEventHandler
	}
	el.Attributes = append(el.Attributes, Attribute{
		Kind:     kind,
		Name:     name,
		Value:    expr,
		Position: pos,
	})
	return nil
}

// parseCustomAttr parses the value of a string-named attribute. The colon
// has already been consumed; name holds the literal body.
func (p *parser) parseCustomAttr(name string, pos Position) (Attribute, error) {
	p.skipTrivia()

	if p.peek(`"`) {
		value, err := p.parseStringLit()
		if err != nil {
			return Attribute{}, err
		}
		return Attribute{
			Kind:     AttrCustomStaticText,
			Name:     name,
			Value:    value,
			Position: pos,
		}, nil
	}

	expr, err := p.scanExpr()
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{
		Kind:     AttrCustomDynamic,
		Name:     name,
		Value:    expr,
		Position: pos,
	}, nil
}

// parseComponentBody parses fields, an optional `..expr` spread, and
// children up to the closing brace.
func (p *parser) parseComponentBody(name string, pos Position) (*Component, error) {
	c := &Component{Name: name, Position: pos}

	for {
		p.skipTrivia()
		if p.eof() {
			return nil, p.errorf("unexpected end of input in component %q", name)
		}
		if p.consume("}") {
			return c, nil
		}

		switch {
		case p.peek("#["):
			itemPos := p.position()
			literal, err := p.scanMeta()
			if err != nil {
				return nil, err
			}
			c.Children = append(c.Children, &Meta{Literal: literal, Position: itemPos})

		case p.peek(`"`):
			itemPos := p.position()
			lit, err := p.parseStringLit()
			if err != nil {
				return nil, err
			}
			p.skipTrivia()
			if p.peek(":") {
				return nil, p.errorf("string field names are not allowed in components")
			}
			c.Children = append(c.Children, &Text{Value: lit, Position: itemPos})

		case p.peek(".."):
			p.consume("..")
			if c.Spread != "" {
				return nil, p.errorf("duplicate property spread in component %q", name)
			}
			expr, err := p.scanSpreadExpr()
			if err != nil {
				return nil, err
			}
			c.Spread = expr

		case p.peek("{"):
			node, err := p.parseRawExpr()
			if err != nil {
				return nil, err
			}
			c.Children = append(c.Children, node)

		default:
			itemPos := p.position()
			ident := p.parseName()
			if ident == "" {
				return nil, p.errorf("unexpected %q in component %q", rune(p.input[p.pos]), name)
			}

			p.skipTrivia()
			if p.consume(":") {
				if strings.Contains(ident, ".") {
					return nil, p.errorf("invalid field name %q", ident)
				}
				field, err := p.parseField(ident, itemPos)
				if err != nil {
					return nil, err
				}
				c.Fields = append(c.Fields, field)
			} else if p.peek("{") {
				p.consume("{")
				var child Node
				var err error
				if isComponentName(ident) {
					child, err = p.parseComponentBody(ident, itemPos)
				} else {
					child, err = p.parseElementBody(ident, itemPos)
				}
				if err != nil {
					return nil, err
				}
				c.Children = append(c.Children, child)
			} else {
				return nil, p.errorf("expected ':' or '{' after %q", ident)
			}
		}

		p.skipTrivia()
		p.consume(",")
	}
}

// parseField parses the value of `name:` inside a component.
func (p *parser) parseField(name string, pos Position) (Field, error) {
	p.skipTrivia()

	if p.peek(`"`) {
		value, err := p.parseStringLit()
		if err != nil {
			return Field{}, err
		}
		return Field{Name: name, Kind: FieldLiteral, Value: value, Position: pos}, nil
	}

	expr, err := p.scanExpr()
	if err != nil {
		return Field{}, err
	}

	kind := FieldExpression
	if strings.HasPrefix(name, "on") {
		kind = FieldHandler
	}
	return Field{Name: name, Kind: kind, Value: expr, Position: pos}, nil
}

// parseRawExpr parses a brace-wrapped expression child: { expr }.
func (p *parser) parseRawExpr() (*RawExpr, error) {
	pos := p.position()
	if !p.consume("{") {
		return nil, p.errorf("expected '{'")
	}

	start := p.pos
	depth := 1
	for !p.eof() {
		switch p.input[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				expr := strings.TrimSpace(p.input[start:p.pos])
				p.advance()
				if expr == "" {
					return nil, &ParseError{Pos: pos, Message: "empty expression"}
				}
				return &RawExpr{Expr: expr, Position: pos}, nil
			}
		case '"', '`', '\'':
			if err := p.skipStringFrom(p.input[p.pos]); err != nil {
				return nil, err
			}
			continue
		case '/':
			if p.skipComment() {
				continue
			}
		}
		p.advance()
	}

	return nil, &ParseError{Pos: pos, Message: "unterminated expression"}
}

// parseMeta parses a `#[...]` annotation as a child node.
func (p *parser) parseMeta() (*Meta, error) {
	pos := p.position()
	literal, err := p.scanMeta()
	if err != nil {
		return nil, err
	}
	return &Meta{Literal: literal, Position: pos}, nil
}

// scanMeta captures a `#[...]` annotation verbatim, brackets included.
// Square brackets nest; string literals inside are honored.
func (p *parser) scanMeta() (string, error) {
	pos := p.position()
	start := p.pos

	if !p.consume("#[") {
		return "", p.errorf("expected '#['")
	}

	depth := 1
	for !p.eof() {
		switch p.input[p.pos] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				p.advance()
				return p.input[start:p.pos], nil
			}
		case '"', '`', '\'':
			if err := p.skipStringFrom(p.input[p.pos]); err != nil {
				return "", err
			}
			continue
		}
		p.advance()
	}

	return "", &ParseError{Pos: pos, Message: "unterminated annotation"}
}

// parseStringLit parses a double-quoted string literal and returns its body
// exactly as written, escapes untouched.
func (p *parser) parseStringLit() (string, error) {
	pos := p.position()
	if !p.consume(`"`) {
		return "", p.errorf("expected string literal")
	}

	start := p.pos
	for !p.eof() {
		switch p.input[p.pos] {
		case '\\':
			p.advance()
			if p.eof() {
				return "", &ParseError{Pos: pos, Message: "unterminated string literal"}
			}
		case '"':
			value := p.input[start:p.pos]
			p.advance()
			return value, nil
		case '\n':
			return "", &ParseError{Pos: pos, Message: "newline in string literal"}
		}
		p.advance()
	}

	return "", &ParseError{Pos: pos, Message: "unterminated string literal"}
}

// scanExpr captures an opaque expression value: everything up to the next
// comma or closing brace at bracket depth zero. Parentheses, brackets,
// braces, string and rune literals, and comments are tracked so that
// delimiters inside them do not end the scan. The expression may span
// multiple lines.
func (p *parser) scanExpr() (string, error) {
	return p.scanExprUntil(false)
}

// scanSpreadExpr scans the expression of a `..expr` spread. A spread line
// carries no trailing comma in canonical output, so a newline outside
// brackets also ends the expression; otherwise a node on the next line
// would be swallowed into it.
func (p *parser) scanSpreadExpr() (string, error) {
	return p.scanExprUntil(true)
}

func (p *parser) scanExprUntil(stopAtNewline bool) (string, error) {
	pos := p.position()
	start := p.pos
	depth := 0

	for !p.eof() {
		ch := p.input[p.pos]
		switch ch {
		case '(', '[', '{':
			depth++
		case ')', ']':
			if depth == 0 {
				return "", p.errorf("unbalanced %q in expression", rune(ch))
			}
			depth--
		case '}':
			if depth == 0 {
				return p.finishExpr(start, pos)
			}
			depth--
		case ',':
			if depth == 0 {
				return p.finishExpr(start, pos)
			}
		case '\n':
			if stopAtNewline && depth == 0 {
				return p.finishExpr(start, pos)
			}
		case '"', '`', '\'':
			if err := p.skipStringFrom(ch); err != nil {
				return "", err
			}
			continue
		case '/':
			if p.skipComment() {
				continue
			}
		}
		p.advance()
	}

	if depth != 0 {
		return "", &ParseError{Pos: pos, Message: "unterminated expression"}
	}
	return p.finishExpr(start, pos)
}

func (p *parser) finishExpr(start int, pos Position) (string, error) {
	expr := strings.TrimSpace(p.input[start:p.pos])
	if expr == "" {
		return "", &ParseError{Pos: pos, Message: "expected expression"}
	}
	return expr, nil
}

// skipStringFrom consumes a string, raw string, or rune literal starting
// at the current position, given its opening quote character.
func (p *parser) skipStringFrom(quote byte) error {
	pos := p.position()
	p.advance() // opening quote

	for !p.eof() {
		ch := p.input[p.pos]
		if ch == quote {
			p.advance()
			return nil
		}
		if ch == '\\' && quote != '`' {
			p.advance()
			if p.eof() {
				break
			}
		}
		p.advance()
	}

	return &ParseError{Pos: pos, Message: "unterminated string literal"}
}

// skipComment consumes a // or /* */ comment at the current position and
// reports whether one was found.
func (p *parser) skipComment() bool {
	if p.peek("//") {
		for !p.eof() && p.input[p.pos] != '\n' {
			p.advance()
		}
		return true
	}
	if p.peek("/*") {
		p.advance()
		p.advance()
		for !p.eof() && !p.peek("*/") {
			p.advance()
		}
		p.consume("*/")
		return true
	}
	return false
}

// parseName parses an identifier or dotted path. Identifiers start with a
// letter or underscore; path segments are separated by single dots.
func (p *parser) parseName() string {
	start := p.pos

	for {
		segStart := p.pos
		if !p.eof() {
			ch, size := utf8.DecodeRuneInString(p.input[p.pos:])
			if unicode.IsLetter(ch) || ch == '_' {
				p.advanceBytes(size)
			}
		}
		if p.pos == segStart {
			// No segment here: either an empty name or a trailing dot.
			return ""
		}
		for !p.eof() {
			ch, size := utf8.DecodeRuneInString(p.input[p.pos:])
			if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
				break
			}
			p.advanceBytes(size)
		}
		if p.eof() || p.input[p.pos] != '.' || p.peek("..") {
			return p.input[start:p.pos]
		}
		p.advance() // single dot, next segment follows
	}
}

// isComponentName reports whether a name refers to a component rather than
// an element: dotted paths and capitalized names are components.
func isComponentName(name string) bool {
	if strings.Contains(name, ".") {
		return true
	}
	first, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(first)
}

// Cursor helpers, shared by all parse functions.

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek(s string) bool {
	if p.pos+len(s) > len(p.input) {
		return false
	}
	return p.input[p.pos:p.pos+len(s)] == s
}

func (p *parser) consume(s string) bool {
	if !p.peek(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		p.advance()
	}
	return true
}

// advanceBytes advances over n bytes, e.g. one multi-byte rune.
func (p *parser) advanceBytes(n int) {
	for i := 0; i < n; i++ {
		p.advance()
	}
}

func (p *parser) advance() {
	if p.pos < len(p.input) {
		if p.input[p.pos] == '\n' {
			p.line++
			p.col = 1
		} else {
			p.col++
		}
		p.pos++
	}
}

// skipTrivia skips whitespace and line comments between constructs.
func (p *parser) skipTrivia() {
	for !p.eof() {
		ch := p.input[p.pos]
		if unicode.IsSpace(rune(ch)) {
			p.advance()
			continue
		}
		if ch == '/' && p.peek("//") {
			for !p.eof() && p.input[p.pos] != '\n' {
				p.advance()
			}
			continue
		}
		return
	}
}

func (p *parser) position() Position {
	return Position{File: p.filename, Line: p.line, Col: p.col}
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Pos: p.position(), Message: fmt.Sprintf(format, args...)}
}
