package rsx

import "fmt"

// ParseError reports malformed rsx source. The parser never returns a
// partial tree alongside one.
type ParseError struct {
	Pos     Position
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}
