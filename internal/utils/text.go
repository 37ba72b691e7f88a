// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// CleanText applies NFC normalization, trims, and collapses internal runs of
// whitespace to a single space.
//
// Example:
//
//	utils.CleanText("  dry   cough\n") // "dry cough"
func CleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
