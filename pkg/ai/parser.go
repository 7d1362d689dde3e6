package ai

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/draftcommit/draftcommit/pkg/message"
)

// ErrUnparseableResponse is returned when no parsing strategy extracts a
// usable title from the model output.
var ErrUnparseableResponse = errors.New("could not extract a commit message from the model response")

// jsonMessage mirrors the output format the system prompt requests.
type jsonMessage struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Footer string `json:"footer"`
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

var titleLabel = regexp.MustCompile(`(?i)^(title|subject)\s*:\s*`)

// ParseResponse turns raw model output into a structured message. It tries a
// direct JSON decode, then JSON inside a fenced block or the outermost brace
// pair, then free-text parsing; it fails only on blank input.
func ParseResponse(raw string) (message.Message, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return message.Message{}, ErrUnparseableResponse
	}

	if msg, ok := decodeJSONMessage(trimmed); ok {
		return msg, nil
	}
	if candidate := embeddedJSON(trimmed); candidate != "" {
		if msg, ok := decodeJSONMessage(candidate); ok {
			return msg, nil
		}
	}
	return parseFreeText(trimmed)
}

func decodeJSONMessage(text string) (message.Message, bool) {
	var decoded jsonMessage
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return message.Message{}, false
	}
	title := message.SanitizeTitle(decoded.Title)
	if title == "" {
		return message.Message{}, false
	}
	msg, err := message.New(title, strings.TrimSpace(decoded.Body), strings.TrimSpace(decoded.Footer))
	if err != nil {
		return message.Message{}, false
	}
	return msg, true
}

// embeddedJSON locates JSON inside a fenced code block, or failing that the
// substring between the first { and the last }.
func embeddedJSON(text string) string {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		if candidate := strings.TrimSpace(m[1]); candidate != "" {
			return candidate
		}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return ""
}

// parseFreeText treats the first non-blank line as the title, stripping any
// Title:/Subject: label, and joins the remaining non-blank lines as the body.
func parseFreeText(text string) (message.Message, error) {
	var title string
	var bodyLines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if title == "" {
			title = titleLabel.ReplaceAllString(line, "")
			continue
		}
		bodyLines = append(bodyLines, line)
	}
	title = message.SanitizeTitle(title)
	if title == "" {
		return message.Message{}, ErrUnparseableResponse
	}
	return message.New(title, strings.Join(bodyLines, "\n"), "")
}
