package bundle

import "errors"

// Error kinds shared by the packages working on bundles. Callers wrap them
// with fmt.Errorf("...: %w", ...) and test with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrFormat     = errors.New("format error")
	ErrIO         = errors.New("io error")
	ErrRemote     = errors.New("remote service failed")
	ErrReadOnly   = errors.New("read-only resource file")
)
