package domain

import (
	"regexp"
	"strings"
)

// baseIdentifierPattern matches the leading DO-<digits> portion of an order
// identifier. Sibling lines of one order carry a suffix after the digits
// (e.g. DO-022A, DO-022B).
var baseIdentifierPattern = regexp.MustCompile(`^DO-\d+`)

// NormalizeIdentifier canonicalizes an order identifier for comparison.
// History lookups and candidate lines are always compared on this form;
// nothing else is ever substituted for a missing identifier.
func NormalizeIdentifier(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// BaseOrderIdentifier strips the per-line suffix from an order identifier.
// "DO-022A" -> "DO-022", "DO-12" -> "DO-12". Identifiers without the
// DO-<digits> prefix are their own base, unchanged.
func BaseOrderIdentifier(id string) string {
	id = NormalizeIdentifier(id)
	if base := baseIdentifierPattern.FindString(id); base != "" {
		return base
	}
	return id
}
