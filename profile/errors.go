package profile

import "errors"

var (
	// ErrMissingDefault is returned (wrapped in a ParseError) when the
	// document does not contain the mandatory "default" profile.
	ErrMissingDefault = errors.New(`document has no "default" profile`)
)

// ParseError reports a profile document that cannot be loaded. It is fatal:
// callers must not proceed with partial configuration.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse profiles: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
