package corosync

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/haops/profilestore/profile"
)

// DefaultPath is where corosync reads its configuration unless overridden.
const DefaultPath = "/etc/corosync/corosync.conf"

// ProfileKeyPrefix marks the profile-store parameters that belong in
// corosync.conf; the remainder of such a key is the dotted path inside the
// document.
const ProfileKeyPrefix = "corosync."

const defaultTemplate = `
totem {
    version: 2
}

quorum {
    provider: corosync_votequorum
}

logging {
    to_logfile: yes
    logfile: /var/log/cluster/corosync.log
    to_syslog: yes
    timestamp: on
}
`

// Conf is a parsed corosync.conf document.
type Conf struct {
	root Section
}

// New returns an empty document.
func New() *Conf {
	return &Conf{root: Section{}}
}

// Default returns the base document a fresh cluster starts from: totem
// version 2, votequorum, and logging to file and syslog.
func Default() *Conf {
	c, err := Parse(strings.NewReader(defaultTemplate))
	if err != nil {
		panic("corosync: invalid built-in template: " + err.Error())
	}
	return c
}

// ParseFile reads and parses a corosync.conf document from disk.
func ParseFile(path string) (*Conf, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corosync.conf: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// WriteFile writes the document with the permissions corosync expects.
func (c *Conf) WriteFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("write corosync.conf: %w", err)
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Apply writes every corosync.* parameter of a merged profile into the
// document at its dotted path, creating sections as needed. Keys without
// the corosync prefix (e.g. sbd.*) are ignored; they belong to other
// consumers.
func (c *Conf) Apply(p profile.Profile) error {
	for _, key := range p.Keys() {
		path, ok := strings.CutPrefix(key, ProfileKeyPrefix)
		if !ok {
			continue
		}
		v, _ := p.Get(key)
		if err := c.Set(path, v.Text()); err != nil {
			return fmt.Errorf("apply %s: %w", key, err)
		}
	}
	return nil
}

// NextNodeID returns the smallest positive node id not present in the
// nodelist.
func (c *Conf) NextNodeID() int {
	var ids []int
	for _, raw := range c.GetAll("nodelist.node.nodeid") {
		if id, err := strconv.Atoi(raw); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 1
	}
	sort.Ints(ids)
	next := 1
	for _, id := range ids {
		if id > next {
			break
		}
		if id == next {
			next++
		}
	}
	return next
}

// AddNode appends a nodelist entry with the given name and one ring
// address per link. Fails when any address is already configured on an
// existing node.
func (c *Conf) AddNode(name string, addrs []string) error {
	if len(addrs) == 0 {
		return fmt.Errorf("node %q needs at least one ring address", name)
	}
	configured := make(map[string]struct{})
	for i := 0; i < maxLinks; i++ {
		for _, addr := range c.GetAll(fmt.Sprintf("nodelist.node.ring%d_addr", i)) {
			configured[addr] = struct{}{}
		}
	}
	for _, addr := range addrs {
		if _, ok := configured[addr]; ok {
			return fmt.Errorf("address %s is already configured", addr)
		}
	}

	index := len(gather(c.root, []string{"nodelist", "node"}))
	for i, addr := range addrs {
		if err := c.SetIndex(fmt.Sprintf("nodelist.node.ring%d_addr", i), addr, index); err != nil {
			return err
		}
	}
	if err := c.SetIndex("nodelist.node.name", name, index); err != nil {
		return err
	}
	return c.SetIndex("nodelist.node.nodeid", strconv.Itoa(c.NextNodeID()), index)
}

// RemoveNode deletes the nodelist entry whose ring0 address matches addr.
func (c *Conf) RemoveNode(addr string) error {
	for i, existing := range c.GetAll("nodelist.node.ring0_addr") {
		if existing == addr {
			return c.Remove("nodelist.node", i)
		}
	}
	return fmt.Errorf("no node with address %s", addr)
}

// maxLinks is the knet link limit.
const maxLinks = 8
