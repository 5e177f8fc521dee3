package edit

import "errors"

// Sentinel errors.
var (
	ErrTempFile = errors.New("create temporary file")
	ErrEditor   = errors.New("external editor failed")
)
