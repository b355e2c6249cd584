package helpers

import "strings"

// ContainsFold reports whether substr is within s, ignoring case
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// AnyContainsFold reports whether any of values contains substr, ignoring case
func AnyContainsFold(values []string, substr string) bool {
	for _, v := range values {
		if ContainsFold(v, substr) {
			return true
		}
	}
	return false
}

// SortedPair returns a and b in lexicographic order
func SortedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
