package provider

import (
	"regexp"
	"strings"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsAccountAddress reports whether s is a well-formed 20-byte hex
// account address.
func IsAccountAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// NormalizeAddress lowercases an address for case-insensitive
// matching. Provider storage is not consistent about address casing.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TruncateAddress shortens an address to the 0x1234...abcd display
// form. Non-address strings are returned unchanged.
func TruncateAddress(s string) string {
	if !IsAccountAddress(s) {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}
