package profile

import (
	_ "embed"
	"fmt"
)

//go:embed profiles.yaml
var builtinDocument []byte

// BuiltinDocument returns the raw shipped profile document.
func BuiltinDocument() []byte {
	out := make([]byte, len(builtinDocument))
	copy(out, builtinDocument)
	return out
}

// Builtin parses the profile document shipped with this module. The shipped
// document is validated by tests, so a parse failure here means a broken
// build.
func Builtin() (*Store, error) {
	store, err := Parse(builtinDocument)
	if err != nil {
		return nil, fmt.Errorf("builtin profiles: %w", err)
	}
	return store, nil
}
