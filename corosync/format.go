package corosync

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Section holds the parsed body of one corosync.conf section. Values are
// strings for plain options, Section for a nested section, and []Section
// for sections that repeat (nodelist.node, totem.interface).
type Section map[string]any

// ParseError reports a corosync.conf document that cannot be parsed.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("corosync.conf line %d: %s", e.Line, e.Msg)
}

// Parse reads a corosync.conf document. Blank lines and lines whose first
// non-space character is '#' are ignored. Repeated sections with the same
// name are collected into a list; the known repeatable sections are
// normalized to lists even when they occur once.
func Parse(r io.Reader) (*Conf, error) {
	root := Section{}
	stack := []Section{root}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		switch {
		case text == "" || strings.HasPrefix(text, "#"):
			continue
		case strings.HasSuffix(text, "{"):
			name := strings.TrimSpace(strings.TrimSuffix(text, "{"))
			if name == "" || strings.ContainsAny(name, "{}:") {
				return nil, &ParseError{Line: line, Msg: fmt.Sprintf("invalid section header %q", text)}
			}
			child := Section{}
			parent := stack[len(stack)-1]
			switch existing := parent[name].(type) {
			case nil:
				parent[name] = child
			case Section:
				parent[name] = []Section{existing, child}
			case []Section:
				parent[name] = append(existing, child)
			default:
				return nil, &ParseError{Line: line, Msg: fmt.Sprintf("section %q conflicts with an option of the same name", name)}
			}
			stack = append(stack, child)
		case text == "}":
			if len(stack) == 1 {
				return nil, &ParseError{Line: line, Msg: "unbalanced }"}
			}
			stack = stack[:len(stack)-1]
		default:
			key, value, ok := strings.Cut(text, ":")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				return nil, &ParseError{Line: line, Msg: fmt.Sprintf("expected \"key: value\", got %q", text)}
			}
			parent := stack[len(stack)-1]
			switch parent[key].(type) {
			case Section, []Section:
				return nil, &ParseError{Line: line, Msg: fmt.Sprintf("option %q conflicts with a section of the same name", key)}
			}
			parent[key] = strings.TrimSpace(value)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read corosync.conf: %w", err)
	}
	if len(stack) != 1 {
		return nil, &ParseError{Line: line, Msg: "missing } at end of document"}
	}
	c := &Conf{root: root}
	c.normalizeLists()
	return c, nil
}

const indentStep = "    "

// Encode writes the document back in corosync.conf format. Output is
// deterministic: options before subsections, keys sorted, repeated
// sections in list order.
func (c *Conf) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	writeSection(bw, c.root, 0)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write corosync.conf: %w", err)
	}
	return nil
}

func writeSection(w *bufio.Writer, sec Section, depth int) {
	indent := strings.Repeat(indentStep, depth)

	keys := make([]string, 0, len(sec))
	for k := range sec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if v, ok := sec[k].(string); ok {
			fmt.Fprintf(w, "%s%s: %s\n", indent, k, v)
		}
	}
	for _, k := range keys {
		switch v := sec[k].(type) {
		case Section:
			writeSubsection(w, k, v, depth)
		case []Section:
			for _, sub := range v {
				writeSubsection(w, k, sub, depth)
			}
		}
	}
}

func writeSubsection(w *bufio.Writer, name string, sec Section, depth int) {
	indent := strings.Repeat(indentStep, depth)
	fmt.Fprintf(w, "%s%s {\n", indent, name)
	writeSection(w, sec, depth+1)
	fmt.Fprintf(w, "%s}\n", indent)
	if depth == 0 {
		fmt.Fprintln(w)
	}
}
