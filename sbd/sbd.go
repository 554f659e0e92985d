// Package sbd renders the sbd.* parameters of a merged profile into the
// sysconfig fragment the fencing watchdog daemon reads, and parses that
// format back. It carries values through verbatim: in particular the
// msgwait derivation (twice the watchdog timeout) is the bootstrap tool's
// job, not this package's.
package sbd

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/haops/profilestore/profile"
)

// ProfileKeyPrefix marks the profile-store parameters that belong to sbd.
const ProfileKeyPrefix = "sbd."

// SysconfigPath is where the sbd daemon reads its environment file.
const SysconfigPath = "/etc/sysconfig/sbd"

// Render writes every sbd.* parameter of a merged profile as a sysconfig
// line: "sbd.watchdog_timeout" becomes "SBD_WATCHDOG_TIMEOUT=...". Keys
// are emitted in sorted order; parameters without the sbd prefix are
// ignored.
func Render(p profile.Profile) []byte {
	var buf bytes.Buffer
	for _, key := range p.Keys() {
		rest, ok := strings.CutPrefix(key, ProfileKeyPrefix)
		if !ok {
			continue
		}
		v, _ := p.Get(key)
		fmt.Fprintf(&buf, "%s=%s\n", VariableName(rest), v.Text())
	}
	return buf.Bytes()
}

// VariableName maps a parameter name (the part after "sbd.") to the
// daemon's environment variable.
func VariableName(param string) string {
	return "SBD_" + strings.ToUpper(param)
}

// Parse reads a sysconfig fragment back into a variable map. Blank lines
// and '#' comments are ignored; anything else must be NAME=value.
func Parse(data []byte) (map[string]string, error) {
	vars := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		name, value, ok := strings.Cut(text, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("sysconfig line %d: expected NAME=value, got %q", line, text)
		}
		vars[name] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read sysconfig: %w", err)
	}
	return vars, nil
}
