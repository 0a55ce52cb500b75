package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// TitleCase turns "nimal perera" into "Nimal Perera" for salutations.
func TitleCase(s string) string {
	return titleCaser.String(strings.TrimSpace(s))
}

// NormalizeRegNo upper-cases a registration number and drops whitespace and
// slashes, so "e/19/123" and "E 19 123" compare equal.
func NormalizeRegNo(regNo string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(regNo) {
		if unicode.IsSpace(r) || r == '/' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailsMatch compares two addresses case-insensitively and treats the
// gmail.com and googlemail.com domains as the same mailbox.
func EmailsMatch(a, b string) bool {
	a, b = NormalizeEmail(a), NormalizeEmail(b)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	aUser, aDomain, okA := strings.Cut(a, "@")
	bUser, bDomain, okB := strings.Cut(b, "@")
	if !okA || !okB || aUser != bUser {
		return false
	}
	return isGmailDomain(aDomain) && isGmailDomain(bDomain)
}

func isGmailDomain(d string) bool {
	return d == "gmail.com" || d == "googlemail.com"
}

// FacultyMatches reports whether two faculty names refer to the same faculty,
// accepting either as a case-insensitive substring of the other so that
// "Engineering" matches "Faculty of Engineering".
func FacultyMatches(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// NormalizePosition maps free-form position labels such as "Vice President",
// "vice_president" or "vicePresident" to a compact lower-case key.
func NormalizePosition(p string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(p) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
