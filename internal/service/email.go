package service

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeEmail trims surrounding whitespace and case-folds the address so
// "Bob@Example.com " and "bob@example.com" name the same account.
// A Caser holds state, so one is built per call.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
