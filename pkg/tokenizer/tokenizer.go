// Package tokenizer wraps tiktoken to give the prompt builder model-accurate
// token counts; everything degrades to the char/4 estimate when an encoding
// is unavailable.
package tokenizer

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/draftcommit/draftcommit/pkg/diff"
)

// CountTokens returns the token count of text for the given model. Unknown
// models fall back to cl100k_base, and a missing encoding falls back to the
// deterministic char/4 estimate.
func CountTokens(text, model string) int {
	if text == "" {
		return 0
	}
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return diff.EstimateTokens(text)
		}
	}
	return len(encoding.Encode(text, nil, nil))
}

// CounterForModel returns a TokenCounter bound to one model, suitable for
// injection into diff truncation and prompt budgeting.
func CounterForModel(model string) diff.TokenCounter {
	if strings.TrimSpace(model) == "" {
		return diff.EstimateTokens
	}
	return func(text string) int {
		return CountTokens(text, model)
	}
}

// ProviderTokenLimit returns a conservative input budget for a provider and
// model, leaving headroom for the response.
func ProviderTokenLimit(provider, model string) int {
	provider = strings.ToLower(provider)
	model = strings.ToLower(model)

	switch provider {
	case "openai":
		if strings.Contains(model, "gpt-3.5-turbo") {
			if strings.Contains(model, "16k") {
				return 12000
			}
			return 3000
		}
		return 100000
	case "ollama":
		// Local models vary widely; stay conservative.
		return 8000
	default:
		return 100000
	}
}
