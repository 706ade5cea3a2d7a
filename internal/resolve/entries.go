package resolve

import (
	"maps"
	"path"
	"strings"
)

// Entries is the merged entry map handed to the bundler: entry key (the
// handler base path) to entry value (the relative source file path).
// Keys keep their insertion order; setting an existing key overwrites its
// value in place. Functions sharing a handler file dedup silently.
type Entries struct {
	keys   []string
	values map[string]string
}

// NewEntries returns an empty entry map.
func NewEntries() *Entries {
	return &Entries{values: make(map[string]string)}
}

// Set adds or overwrites an entry. The first insertion fixes the key's
// position.
func (e *Entries) Set(key, value string) {
	if _, exists := e.values[key]; !exists {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// Get returns the value for key.
func (e *Entries) Get(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Len returns the number of entries.
func (e *Entries) Len() int {
	return len(e.keys)
}

// Keys returns the entry keys in insertion order.
func (e *Entries) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Map returns a copy of the entries as a plain map.
func (e *Entries) Map() map[string]string {
	return maps.Clone(e.values)
}

// EqualMap reports whether the entries are structurally equal to a plain
// map, ignoring order.
func (e *Entries) EqualMap(other map[string]string) bool {
	return maps.Equal(e.values, other)
}

// SamePath reports whether two relative paths name the same file,
// tolerating "./" prefixes and redundant separators.
func SamePath(a, b string) bool {
	return path.Clean(strings.TrimPrefix(a, "./")) == path.Clean(strings.TrimPrefix(b, "./"))
}
