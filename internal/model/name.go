package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NameKey folds a display name into the form used for lookups and
// uniqueness checks: NFKC, trimmed, collapsed spaces, lower case.
func NameKey(name string) string {
	s := norm.NFKC.String(name)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
