package corosync

import (
	"fmt"
	"strings"
)

// Sections that corosync allows to repeat. They are always represented as
// []Section so that indexed access behaves the same for one entry as for
// many.
var listSections = map[string]struct{}{
	"totem.interface": {},
	"nodelist.node":   {},
}

// normalizeLists wraps every known repeatable section in a list when it was
// parsed as a single occurrence.
func (c *Conf) normalizeLists() {
	for path := range listSections {
		segs := strings.Split(path, ".")
		parent, ok := c.root[segs[0]].(Section)
		if !ok {
			continue
		}
		if single, ok := parent[segs[1]].(Section); ok {
			parent[segs[1]] = []Section{single}
		}
	}
}

// gather returns every node reachable by path, descending into every
// element of repeated sections.
func gather(node any, segs []string) []any {
	if list, ok := node.([]Section); ok {
		var out []any
		for _, sec := range list {
			out = append(out, gather(sec, segs)...)
		}
		return out
	}
	if len(segs) == 0 {
		return []any{node}
	}
	sec, ok := node.(Section)
	if !ok {
		return nil
	}
	child, ok := sec[segs[0]]
	if !ok {
		return nil
	}
	return gather(child, segs[1:])
}

// Get returns the first value found at the dotted path.
func (c *Conf) Get(path string) (string, bool) {
	return c.GetIndex(path, 0)
}

// GetIndex returns the value at the dotted path, selecting the index-th
// match when the path crosses a repeated section.
func (c *Conf) GetIndex(path string, index int) (string, bool) {
	matches := gather(c.root, strings.Split(path, "."))
	if index < 0 || index >= len(matches) {
		return "", false
	}
	v, ok := matches[index].(string)
	return v, ok
}

// GetAll returns every value found at the dotted path across repeated
// sections, e.g. GetAll("nodelist.node.nodeid") yields the id of every
// configured node.
func (c *Conf) GetAll(path string) []string {
	var out []string
	for _, m := range gather(c.root, strings.Split(path, ".")) {
		if v, ok := m.(string); ok {
			out = append(out, v)
		}
	}
	return out
}

// Set writes a value at the dotted path, creating missing sections.
func (c *Conf) Set(path, value string) error {
	return c.SetIndex(path, value, 0)
}

// SetIndex writes a value at the dotted path. For paths crossing a
// repeated section, index selects the entry; index == len appends a new
// entry. Setting index 1 on a known repeatable section that was parsed as
// a single occurrence promotes it to a list first.
func (c *Conf) SetIndex(path, value string, index int) error {
	segs := strings.Split(path, ".")
	if len(segs) == 0 || segs[len(segs)-1] == "" {
		return fmt.Errorf("invalid path %q", path)
	}

	var node Section = c.root
	var walked []string
	for _, seg := range segs[:len(segs)-1] {
		walked = append(walked, seg)
		child, ok := node[seg]
		if !ok {
			next := Section{}
			node[seg] = next
			node = next
			continue
		}
		switch existing := child.(type) {
		case Section:
			if _, repeatable := listSections[strings.Join(walked, ".")]; repeatable && index > 0 {
				if index > 1 {
					return fmt.Errorf("index %d out of range at path %q", index, path)
				}
				next := Section{}
				node[seg] = []Section{existing, next}
				node = next
			} else {
				node = existing
			}
		case []Section:
			switch {
			case index > len(existing):
				return fmt.Errorf("index %d out of range at path %q", index, path)
			case index == len(existing):
				next := Section{}
				node[seg] = append(existing, next)
				node = next
			default:
				node = existing[index]
			}
		default:
			return fmt.Errorf("path %q crosses option %q", path, seg)
		}
	}

	key := segs[len(segs)-1]
	switch node[key].(type) {
	case Section, []Section:
		return fmt.Errorf("path %q names a section, not an option", path)
	}
	node[key] = value
	return nil
}

// Remove deletes the option or repeated-section entry at the dotted path.
// For a repeated section, index selects the entry to drop; for options the
// index must be 0.
func (c *Conf) Remove(path string, index int) error {
	segs := strings.Split(path, ".")
	key := segs[len(segs)-1]

	parents := gather(c.root, segs[:len(segs)-1])
	var parent Section
	for _, p := range parents {
		sec, ok := p.(Section)
		if !ok {
			continue
		}
		if _, ok := sec[key]; ok {
			parent = sec
			break
		}
	}
	if parent == nil {
		return fmt.Errorf("no value at path %q", path)
	}

	switch target := parent[key].(type) {
	case []Section:
		if index < 0 || index >= len(target) {
			return fmt.Errorf("index %d out of range at path %q", index, path)
		}
		parent[key] = append(target[:index:index], target[index+1:]...)
	default:
		if index != 0 {
			return fmt.Errorf("index %d out of range at path %q", index, path)
		}
		delete(parent, key)
	}
	return nil
}
