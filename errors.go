// File: snowcfg/errors.go
package snowcfg

import "errors"

var (
	// ErrNotFileBacked is returned when DiscoverFromFile is called on a
	// handler that has no file-backed variant. This is a contract violation
	// by the caller, not a data problem.
	ErrNotFileBacked = errors.New("handler is not file-backed")

	// ErrNotEnvBacked is the converse: Discover was called on a handler that
	// only knows how to read files.
	ErrNotEnvBacked = errors.New("handler requires a file path for discovery")

	// ErrConnectionNotConfigured is returned when a requested connection name
	// resolves to zero fields after replacement semantics apply.
	ErrConnectionNotConfigured = errors.New("connection is not configured")

	// ErrUnsupportedKey is returned for key shapes a handler cannot answer.
	ErrUnsupportedKey = errors.New("unsupported key shape")
)
