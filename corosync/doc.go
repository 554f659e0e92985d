// Package corosync models corosync.conf documents: parsing the brace
// format, querying and editing values by dotted path, and writing the
// document back out. It is the consumer side of the profile store: merged
// corosync.* parameters from a profile land in a Conf via Apply, and
// Migrate upgrades corosync 2 documents to the corosync 3 layout.
package corosync
