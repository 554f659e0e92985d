package profile

import (
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Store holds the default parameter profile plus the per-environment
// override profiles parsed from a single document. It is immutable after
// Load and therefore safe for any number of concurrent readers.
type Store struct {
	defaults  Profile
	overrides map[Environment]Profile
}

// LoadFile reads and parses a profile document from disk.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return Parse(data)
}

// Load parses a profile document from r.
func Load(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return Parse(data)
}

// Parse builds a Store from a two-level YAML document: top-level keys name
// profiles ("default" plus recognized environment identifiers), each value
// is a flat mapping of dotted parameter paths to scalars. Comment lines are
// ignored by the YAML parser. Every malformed entry found is reported, not
// just the first.
func Parse(data []byte) (*Store, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Err: err}
	}

	node := documentRoot(&root)
	if node == nil {
		return nil, &ParseError{Err: ErrMissingDefault}
	}
	if node.Kind != yaml.MappingNode {
		return nil, &ParseError{Err: fmt.Errorf("line %d: document must be a mapping of profile names", node.Line)}
	}

	store := &Store{overrides: make(map[Environment]Profile)}
	var errs error
	for i := 0; i+1 < len(node.Content); i += 2 {
		nameNode, bodyNode := node.Content[i], node.Content[i+1]
		name := nameNode.Value
		switch {
		case name == defaultProfileName:
			p, err := profileFromNode(bodyNode)
			errs = multierr.Append(errs, err)
			store.defaults = p
		case IsKnownEnvironment(name):
			p, err := profileFromNode(bodyNode)
			errs = multierr.Append(errs, err)
			store.overrides[Environment(name)] = p
		default:
			errs = multierr.Append(errs, fmt.Errorf("line %d: unknown profile %q", nameNode.Line, name))
		}
	}
	if store.defaults == nil {
		errs = multierr.Append(errs, ErrMissingDefault)
	}
	if errs != nil {
		return nil, &ParseError{Err: errs}
	}
	return store, nil
}

// Default returns a copy of the base profile.
func (s *Store) Default() Profile {
	return s.defaults.Clone()
}

// Resolve returns the merged parameter mapping for the given environment:
// a copy of the default profile with the matching override profile's
// entries written over it, last writer wins per key. An empty or unknown
// environment yields the default profile unchanged. Resolve is pure; the
// store is never modified.
func (s *Store) Resolve(env Environment) Profile {
	override, ok := s.overrides[env]
	if !ok {
		return s.defaults.Clone()
	}
	return s.defaults.Merge(override)
}

// Environments lists the environment identifiers that carry an override
// profile in this document, in sorted order.
func (s *Store) Environments() []Environment {
	envs := make([]Environment, 0, len(s.overrides))
	for env := range s.overrides {
		envs = append(envs, env)
	}
	sort.Slice(envs, func(i, j int) bool { return envs[i] < envs[j] })
	return envs
}

// Encode writes the whole store back as a two-level YAML document, profiles
// and keys sorted.
func (s *Store) Encode(w io.Writer) error {
	doc := make(map[string]Profile, len(s.overrides)+1)
	doc[defaultProfileName] = s.defaults
	for env, p := range s.overrides {
		doc[string(env)] = p
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	return enc.Close()
}

// documentRoot unwraps the document node produced by decoding into a
// yaml.Node. Returns nil for an empty document.
func documentRoot(root *yaml.Node) *yaml.Node {
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		return root.Content[0]
	}
	if root.Kind == 0 {
		return nil
	}
	return root
}

// profileFromNode converts one flat profile mapping, accumulating an error
// per malformed entry.
func profileFromNode(node *yaml.Node) (Profile, error) {
	if node.Kind != yaml.MappingNode {
		return Profile{}, fmt.Errorf("line %d: profile body must be a mapping", node.Line)
	}
	p := make(Profile, len(node.Content)/2)
	var errs error
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		if keyNode.Value == "" {
			errs = multierr.Append(errs, fmt.Errorf("line %d: empty parameter path", keyNode.Line))
			continue
		}
		v, err := valueFromNode(valNode)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", keyNode.Value, err))
			continue
		}
		p[keyNode.Value] = v
	}
	return p, errs
}
