package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/draftcommit/draftcommit/pkg/diff"
	"github.com/draftcommit/draftcommit/pkg/message"
)

// LastResortTitle is the fixed message returned when both the AI path and the
// deterministic fallback are unusable. That path cannot fail.
const LastResortTitle = "Update code"

// Outcome tags which path produced the final message.
type Outcome int

const (
	// OutcomeSuccess means the AI response was used.
	OutcomeSuccess Outcome = iota
	// OutcomeFallback means the deterministic generator was used.
	OutcomeFallback
	// OutcomeLastResort means the fixed message was used.
	OutcomeLastResort
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFallback:
		return "fallback"
	default:
		return "last-resort"
	}
}

// Result carries the generated message plus diagnostics. Reason records why a
// degraded path was taken; it is never surfaced as an error to the caller.
type Result struct {
	Message message.Message
	Outcome Outcome
	Reason  string
}

// FallbackGenerator is the deterministic path invoked when the AI path cannot
// produce a message. *template.Generator satisfies it.
type FallbackGenerator interface {
	Generate(s diff.Summary) (message.Message, error)
}

// Options configures a Generator.
type Options struct {
	Provider   Provider
	Prompts    *PromptBuilder
	Convention message.Convention
	Fallback   FallbackGenerator
	// OneLine strips body and footer after generation.
	OneLine bool
	// MaxTitleLength caps the final title, in codepoints.
	MaxTitleLength int
	Logger         *zap.Logger
}

// Generator runs the AI orchestration state machine. Generate never returns
// an error and never panics: every failure edge routes to the fallback
// generator, and a failing fallback routes to the fixed last-resort message.
type Generator struct {
	provider       Provider
	prompts        *PromptBuilder
	convention     message.Convention
	fallback       FallbackGenerator
	oneLine        bool
	maxTitleLength int
	log            *zap.Logger
}

// NewGenerator wires the orchestrator. A nil logger is replaced with a no-op
// one; a nil prompt builder gets defaults.
func NewGenerator(opts Options) *Generator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Prompts == nil {
		opts.Prompts = NewPromptBuilder(PromptOptions{})
	}
	if opts.MaxTitleLength <= 0 {
		opts.MaxTitleLength = 72
	}
	return &Generator{
		provider:       opts.Provider,
		prompts:        opts.Prompts,
		convention:     opts.Convention,
		fallback:       opts.Fallback,
		oneLine:        opts.OneLine,
		maxTitleLength: opts.MaxTitleLength,
		log:            opts.Logger,
	}
}

// Generate produces a commit message for the summary. An empty changeset goes
// straight to the last resort without touching the provider.
func (g *Generator) Generate(ctx context.Context, s diff.Summary) Result {
	if s.IsEmpty() {
		return g.lastResort("empty changeset")
	}

	raw, err := g.callProvider(ctx, s)
	if err != nil {
		return g.fallBack(s, fmt.Sprintf("provider call failed: %v", err))
	}
	if strings.TrimSpace(raw) == "" {
		return g.fallBack(s, "provider returned a blank response")
	}

	msg, err := ParseResponse(raw)
	if err != nil {
		return g.fallBack(s, fmt.Sprintf("response parsing failed: %v", err))
	}

	// The prompt already asked for the convention, but the model's compliance
	// is untrusted; formatting is applied again here.
	if g.convention != nil {
		msg = g.convention.Format(msg, s.DominantCategory(), diff.DetectScope(s))
	}
	return Result{Message: g.finalize(msg), Outcome: OutcomeSuccess}
}

// callProvider issues the single AI attempt, converting a panic in a provider
// implementation into an error.
func (g *Generator) callProvider(ctx context.Context, s diff.Summary) (raw string, err error) {
	if g.provider == nil {
		return "", fmt.Errorf("no provider configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panicked: %v", r)
		}
	}()
	systemPrompt := g.prompts.BuildSystemPrompt()
	userPrompt := g.prompts.BuildUserPrompt(s)
	return g.provider.Complete(ctx, systemPrompt, userPrompt)
}

// fallBack runs the deterministic generator; if that also fails the last
// resort is returned.
func (g *Generator) fallBack(s diff.Summary, reason string) Result {
	g.log.Warn("falling back to deterministic generation", zap.String("reason", reason))

	msg, err := g.callFallback(s)
	if err != nil {
		return g.lastResort(fmt.Sprintf("%s; fallback failed: %v", reason, err))
	}
	return Result{Message: g.finalize(msg), Outcome: OutcomeFallback, Reason: reason}
}

func (g *Generator) callFallback(s diff.Summary) (msg message.Message, err error) {
	if g.fallback == nil {
		return message.Message{}, fmt.Errorf("no fallback generator configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fallback generator panicked: %v", r)
		}
	}()
	return g.fallback.Generate(s)
}

func (g *Generator) lastResort(reason string) Result {
	g.log.Warn("returning last-resort commit message", zap.String("reason", reason))
	return Result{
		Message: message.Message{Title: LastResortTitle},
		Outcome: OutcomeLastResort,
		Reason:  reason,
	}
}

// finalize sanitizes, truncates, and applies the one-line style. Only this
// path reaches a successful or fallback outcome.
func (g *Generator) finalize(msg message.Message) message.Message {
	msg = msg.Sanitized().WithTruncatedTitle(g.maxTitleLength)
	if msg.Title == "" {
		// Sanitization cannot blank a validated title, but the guarantee that
		// Generate always yields a usable message must hold regardless.
		msg.Title = LastResortTitle
	}
	if g.oneLine {
		msg = msg.TitleOnly()
	}
	return msg
}
