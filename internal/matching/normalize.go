// Package matching provides normalized fuzzy name matching between catalog
// exercise names and the image reference dataset.
package matching

import "strings"

var separatorReplacer = strings.NewReplacer("-", " ", "_", " ")

// NormalizeName produces the canonical comparison key for an exercise name.
// Case is folded, hyphens and underscores become spaces, whitespace runs
// collapse to a single space, and the result is trimmed. Separator
// replacement happens before whitespace collapsing so adjacent separators
// merge ("leg-_press" -> "leg press").
func NormalizeName(name string) string {
	lowered := strings.ToLower(name)
	spaced := separatorReplacer.Replace(lowered)
	return strings.Join(strings.Fields(spaced), " ")
}
