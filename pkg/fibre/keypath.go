package fibre

import (
	"fmt"
	"strings"
)

// Key identifies a child fibre relative to its parent; strings and integers
// are the common cases. The runtime identifies a key by its string form (the
// string itself, String() for a fmt.Stringer, fmt.Sprint otherwise), so two
// keys with the same string form address the same child.
type Key any

// KeyPath is an ordered sequence of keys from the root fibre. It is
// globally unique per fibre and is the stable identity used to detect
// whether a fibre survived across ticks.
type KeyPath struct {
	segments []string
}

// RootKeyPath is the key path of the runtime's root fibre.
var RootKeyPath = KeyPath{}

// Child returns the key path of a child identified by key under this path.
func (p KeyPath) Child(key Key) KeyPath {
	seg := make([]string, len(p.segments)+1)
	copy(seg, p.segments)
	seg[len(p.segments)] = formatKey(key)
	return KeyPath{segments: seg}
}

// String renders the key path as a slash-separated path, e.g. "/list/0/label".
func (p KeyPath) String() string {
	if len(p.segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.segments, "/")
}

// Depth returns the number of segments in the path (0 for the root).
func (p KeyPath) Depth() int { return len(p.segments) }

// Equal reports whether two key paths denote the same fibre.
func (p KeyPath) Equal(o KeyPath) bool {
	if len(p.segments) != len(o.segments) {
		return false
	}
	for i, s := range p.segments {
		if s != o.segments[i] {
			return false
		}
	}
	return true
}

func formatKey(key Key) string {
	if s, ok := key.(string); ok {
		return s
	}
	if s, ok := key.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(key)
}
