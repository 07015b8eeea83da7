package document

import "strings"

// SplitPath splits a dot-separated document path into segments.
func SplitPath(path string) []string {
	return strings.Split(path, ".")
}

// Get resolves a dot-separated path against a map node. The second return
// value reports whether the full path exists.
func Get(m Map, path string) (Node, bool) {
	current := Node(m)
	for _, seg := range SplitPath(path) {
		currentMap, ok := current.(Map)
		if !ok {
			return nil, false
		}
		child, ok := currentMap[seg]
		if !ok {
			return nil, false
		}
		current = child
	}
	return current, true
}

// Set writes value at a dot-separated path, creating intermediate maps as
// needed. An intermediate non-map value is replaced by a map.
func Set(m Map, path string, value Node) {
	segs := SplitPath(path)
	current := m
	for _, seg := range segs[:len(segs)-1] {
		child, ok := current[seg].(Map)
		if !ok {
			child = make(Map)
			current[seg] = child
		}
		current = child
	}
	current[segs[len(segs)-1]] = value
}

// Delete removes the value at path. Emptied intermediate maps are kept; only
// the leaf is removed.
func Delete(m Map, path string) {
	segs := SplitPath(path)
	current := m
	for _, seg := range segs[:len(segs)-1] {
		child, ok := current[seg].(Map)
		if !ok {
			return
		}
		current = child
	}
	delete(current, segs[len(segs)-1])
}
