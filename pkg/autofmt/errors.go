package autofmt

import (
	"fmt"

	"github.com/flisky/dioxus/pkg/rsx"
)

// UnsupportedError reports a construct the formatter does not handle yet,
// currently the string-named custom attribute kinds. It is distinct from a
// parse failure: the input was well-formed, the renderer just has no rule
// for it.
type UnsupportedError struct {
	Construct string
	Name      string
	Pos       rsx.Position
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: unsupported construct: %s %q", e.Pos, e.Construct, e.Name)
}
