// Package slug derives the identifier used to key corporate entities
// across the portfolio registry and the relationship graph.
package slug

import "strings"

// Make returns the canonical slug for a display name: the name lowercased
// with every space replaced by a hyphen. The transform is lossy — two
// distinct names can normalize to the same slug, and callers treat such
// collisions as the same logical entity (last write wins).
func Make(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
