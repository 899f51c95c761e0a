package engine

import "errors"

// Session-level failure kinds. Compile-time resolution failures live in the
// template package; rule registration failures in schema.
var (
	ErrNotConnected     = errors.New("not connected")
	ErrNoStatement      = errors.New("no statement prepared")
	ErrCompileRejected  = errors.New("compile rejected")
	ErrBindFailed       = errors.New("bind registration failed")
	ErrExecuteFailed    = errors.New("execute failed")
	ErrFetchFailed      = errors.New("fetch failed")
	ErrFetchSetupFailed = errors.New("fetch setup failed")
)
