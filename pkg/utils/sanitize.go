package utils

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script\s*>`)
	onEventAttrPattern = regexp.MustCompile(`(?i)(<[a-z][^>]*?)\s+on\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
)

// EscapeSQLWildcards escapes LIKE/ILIKE wildcard characters in user input.
func EscapeSQLWildcards(input string) string {
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// SanitizeSearchQuery prepares a search string for partial LIKE matching.
func SanitizeSearchQuery(input string) string {
	input = TruncateString(strings.TrimSpace(input), 100)
	return "%" + EscapeSQLWildcards(input) + "%"
}

// StripScripts drops <script> blocks and inline on* handlers inside tags.
// Everything else, including bare angle brackets, is kept; clients escape on render.
func StripScripts(input string) string {
	input = scriptBlockPattern.ReplaceAllString(input, "")
	for {
		next := onEventAttrPattern.ReplaceAllString(input, "$1")
		if next == input {
			return input
		}
		input = next
	}
}

// CleanMessage trims chat text and removes executable markup.
func CleanMessage(input string) string {
	return strings.TrimSpace(StripScripts(input))
}

func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// NormalizeEmail lowercases and trims.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TruncateString truncates to maxLen runes without splitting a character.
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen])
}
