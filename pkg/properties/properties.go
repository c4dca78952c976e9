// Package properties implements placeholder resolution for flat key/value
// property sets. Values may reference other properties with ${name} tokens;
// references are substituted recursively, falling back to injected system
// property sources and to a snapshot of the OS environment for names with
// the "env." prefix. Tokens that resolve nowhere are left verbatim.
package properties

import "sort"

// Map is a flat string-to-string property mapping. Resolution mutates it in
// place: each value is overwritten with its resolved form. The map is owned
// by the caller and must not be mutated by anyone else while a resolution
// pass is running.
type Map map[string]string

// Keys returns the keys of the map in sorted order. ResolveAll iterates this
// stable snapshot rather than a live view of the map.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge copies all entries of src into m, overwriting existing keys.
func (m Map) Merge(src Map) {
	for k, v := range src {
		m[k] = v
	}
}
