// Package message defines the generated commit message value and the
// convention formatters applied to it.
package message

import (
	"errors"
	"regexp"
	"strings"
)

// ErrBlankTitle is the one hard failure in message construction: every code
// path is expected to guarantee a non-blank title, so hitting this indicates
// an upstream logic bug rather than a runtime condition.
var ErrBlankTitle = errors.New("commit message title must not be blank")

// maxSanitizedTitle caps titles coming out of sanitization, in codepoints.
const maxSanitizedTitle = 200

// Message is an immutable commit message. Operations return new values.
type Message struct {
	Title  string
	Body   string
	Footer string
}

// New validates the title and builds a Message.
func New(title, body, footer string) (Message, error) {
	if strings.TrimSpace(title) == "" {
		return Message{}, ErrBlankTitle
	}
	return Message{Title: title, Body: body, Footer: footer}, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeTitle folds a raw title onto a single line: newlines become spaces,
// whitespace runs collapse, and the result is trimmed and capped at 200
// codepoints.
func SanitizeTitle(raw string) string {
	title := strings.TrimSpace(whitespaceRun.ReplaceAllString(raw, " "))
	runes := []rune(title)
	if len(runes) > maxSanitizedTitle {
		// The cap can land on a space; trim again so sanitizing is idempotent.
		title = strings.TrimSpace(string(runes[:maxSanitizedTitle]))
	}
	return title
}

// Sanitized returns a copy with a single-line title and trimmed body/footer.
func (m Message) Sanitized() Message {
	return Message{
		Title:  SanitizeTitle(m.Title),
		Body:   strings.TrimSpace(m.Body),
		Footer: strings.TrimSpace(m.Footer),
	}
}

// WithTruncatedTitle caps the title at limit codepoints, marking a cut with a
// literal "..." suffix. Slicing is rune-based, so no multi-byte character is
// ever split.
func (m Message) WithTruncatedTitle(limit int) Message {
	runes := []rune(m.Title)
	if limit <= 0 || len(runes) <= limit {
		return m
	}
	truncated := m
	if limit <= 3 {
		truncated.Title = string(runes[:limit])
		return truncated
	}
	truncated.Title = string(runes[:limit-3]) + "..."
	return truncated
}

// TitleOnly strips body and footer, for one-line commit style.
func (m Message) TitleOnly() Message {
	return Message{Title: m.Title}
}

// Format renders the final commit text: title, then body and footer each
// separated by a blank line when present.
func (m Message) Format() string {
	var b strings.Builder
	b.WriteString(m.Title)
	if strings.TrimSpace(m.Body) != "" {
		b.WriteString("\n\n")
		b.WriteString(m.Body)
	}
	if strings.TrimSpace(m.Footer) != "" {
		b.WriteString("\n\n")
		b.WriteString(m.Footer)
	}
	return b.String()
}
