package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"

	appErrors "brucesays-backend/pkg/errors"
)

const (
	// MinQuoteLength and MaxQuoteLength bound the normalized quote text,
	// counted in runes rather than bytes.
	MinQuoteLength = 5
	MaxQuoteLength = 300
)

// User-facing validation messages.
const (
	lengthMessage    = "Quote length must be between 5 and 300."
	injectionMessage = "Input contains SQL-like content. There is no SQL here."
)

// sqlish matches SQL-shaped content: comment/separator tokens, an upper-case
// DML verb later followed by FROM, UNION SELECT, dangerous verbs, an
// XP_-prefixed token, or the OR 1=1 tautology. Keywords are matched in upper
// case only so ordinary prose ("I will select the best option") passes. This
// is a precision-over-recall heuristic, not a sanitizer; the storage layer
// uses structured writes regardless.
var sqlish = regexp.MustCompile(
	`(?:--|;|/\*|\*/|#)` +
		`|\b(?:SELECT|INSERT|UPDATE|DELETE)\b.*?\bFROM\b` +
		`|\bUNION\s+SELECT\b` +
		`|\b(?:DROP|EXEC|EXECUTE|SLEEP|WAITFOR)\b` +
		`|\bXP_` +
		`|\bOR\s+1\s*=\s*1\b`,
)

// quotePairs are the surrounding quote characters stripped by Normalize.
// Straight quotes pair with themselves, curly quotes with their closers.
var quotePairs = [][2]rune{
	{'"', '"'},
	{'\'', '\''},
	{'“', '”'}, // “ ”
	{'‘', '’'}, // ‘ ’
}

// Normalize trims surrounding whitespace and strips exactly one matching pair
// of surrounding quote characters, then re-trims. It is applied once, never
// recursively, and is idempotent for already-normalized text.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)

	runes := []rune(text)
	if len(runes) >= 2 {
		for _, pair := range quotePairs {
			if runes[0] == pair[0] && runes[len(runes)-1] == pair[1] {
				text = strings.TrimSpace(string(runes[1 : len(runes)-1]))
				break
			}
		}
	}

	return text
}

// ValidateQuote runs the full validation pipeline: normalize, then check
// length bounds and the SQL-shaped pattern. On success it returns the
// normalized text; failures carry a user-facing message.
func ValidateQuote(raw string) (string, error) {
	text := Normalize(raw)

	if n := utf8.RuneCountInString(text); n < MinQuoteLength || n > MaxQuoteLength {
		return "", appErrors.NewValidation(lengthMessage)
	}
	if sqlish.MatchString(text) {
		return "", appErrors.NewValidation(injectionMessage)
	}

	return text, nil
}
