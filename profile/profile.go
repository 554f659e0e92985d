package profile

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Profile maps dot-delimited parameter paths (e.g. "corosync.totem.token")
// to scalar values. Keys are opaque: nothing in this package interprets the
// path segments.
type Profile map[string]Value

// Get looks a parameter up by its full dotted path.
func (p Profile) Get(key string) (Value, bool) {
	v, ok := p[key]
	return v, ok
}

// Clone returns an independent copy of the profile.
func (p Profile) Clone() Profile {
	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge overlays every entry of overlay onto a copy of p, last writer wins
// per key. Keys missing from overlay keep their value from p; keys missing
// from p are inserted. Neither input is modified.
func (p Profile) Merge(overlay Profile) Profile {
	out := p.Clone()
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// Keys returns the parameter paths in sorted order.
func (p Profile) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether two profiles contain exactly the same entries.
func (p Profile) Equal(other Profile) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Encode writes the profile as a flat YAML mapping, keys sorted. The output
// parses back via ParseProfile into an equal profile.
func (p Profile) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return enc.Close()
}

// ParseProfile reads a single flat YAML mapping of parameter paths to scalar
// values, the format produced by Encode.
func ParseProfile(data []byte) (Profile, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Err: err}
	}
	node := documentRoot(&root)
	if node == nil {
		return Profile{}, nil
	}
	p, err := profileFromNode(node)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return p, nil
}
