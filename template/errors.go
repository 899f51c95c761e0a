package template

import "errors"

// Resolution failures. Any of these aborts the whole compile; no partial
// statement is ever registered.
var (
	ErrUnknownTable    = errors.New("unknown table")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrAmbiguousColumn = errors.New("ambiguous column")
	ErrMalformedName   = errors.New("malformed qualified name")
)
