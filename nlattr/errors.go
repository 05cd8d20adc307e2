package nlattr

import (
	"fmt"
	"strings"
)

// SchemaError is returned when a schema description cannot be compiled:
// an unknown symbolic name, a malformed description, or a collection whose
// element codec has no fixed size.
type SchemaError struct {
	Name string // symbolic name involved, if any
	Msg  string
}

func (e *SchemaError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("nlattr: schema error: %s", e.Msg)
	}
	return fmt.Sprintf("nlattr: schema error for %q: %s", e.Name, e.Msg)
}

// InputError is returned when a build call is given a malformed value tree:
// both or neither of the positional/short-name forms, an unknown key, a
// missing required attribute, or a value out of range for its declared
// integer width.
type InputError struct {
	Name string
	Msg  string
}

func (e *InputError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("nlattr: input error: %s", e.Msg)
	}
	return fmt.Sprintf("nlattr: input error for %q: %s", e.Name, e.Msg)
}

// WireError is returned when a byte buffer cannot be parsed as a well-formed
// TLV stream: a truncated header, a bad length field, or an overrun.
type WireError struct {
	Msg string
}

func (e *WireError) Error() string {
	return fmt.Sprintf("nlattr: wire error: %s", e.Msg)
}

// ChildError wraps a failure that occurred while building or parsing one
// named child attribute, together with the kind of codec that failed. When
// a child attribute set itself returns a *ChildError, the enclosing set
// prepends its own child's name to Path instead of nesting a new
// *ChildError, so a deeply nested failure reports the full dotted path of
// symbolic names down to the one that actually failed.
type ChildError struct {
	Path []string // outermost to innermost symbolic name
	Kind string    // kind of the innermost failing codec
	Err  error     // innermost cause
}

func (e *ChildError) Error() string {
	return fmt.Sprintf("nlattr: attribute %s (%s): %v", strings.Join(e.Path, "."), e.Kind, e.Err)
}

func (e *ChildError) Unwrap() error {
	return e.Err
}

// wrapChildError attaches name/kind context to err. If err is already a
// *ChildError (i.e. the failure occurred deeper in a nested attribute set),
// name is prepended to its existing path rather than creating a new layer.
func wrapChildError(name, kind string, err error) error {
	if ce, ok := err.(*ChildError); ok {
		path := make([]string, 0, len(ce.Path)+1)
		path = append(path, name)
		path = append(path, ce.Path...)
		return &ChildError{Path: path, Kind: ce.Kind, Err: ce.Err}
	}
	return &ChildError{Path: []string{name}, Kind: kind, Err: err}
}
