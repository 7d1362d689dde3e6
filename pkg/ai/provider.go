// Package ai orchestrates LLM-backed commit message generation: prompt
// construction, provider calls, response parsing, and the fallback chain that
// keeps generation from ever failing the commit workflow.
package ai

import "context"

// Provider is a single-shot completion backend. Implementations are injected;
// network, timeout, HTTP-status, and malformed-body conditions all surface as
// a returned error. There are no retries and no streaming.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Name() string
}
