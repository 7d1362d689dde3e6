package ai

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftcommit/draftcommit/pkg/diff"
	"github.com/draftcommit/draftcommit/pkg/message"
	"github.com/draftcommit/draftcommit/pkg/template"
)

// stubProvider returns a canned response, a canned error, or panics.
type stubProvider struct {
	response string
	err      error
	panics   bool
	calls    int
}

func (p *stubProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p.calls++
	if p.panics {
		panic("stub provider exploded")
	}
	return p.response, p.err
}

func (p *stubProvider) Name() string { return "stub" }

// panickingFallback models a broken deterministic generator.
type panickingFallback struct{}

func (panickingFallback) Generate(s diff.Summary) (message.Message, error) {
	panic("fallback exploded")
}

func sampleSummary() diff.Summary {
	return diff.NewSummary([]diff.FileDiff{
		{Path: "modules/auth/Login.kt", Type: diff.Modified, Diff: "+fun login() {}", LinesAdded: 1},
		{Path: "modules/auth/Token.kt", Type: diff.Modified, Diff: "+fun token() {}", LinesAdded: 1},
	})
}

func TestGenerateSuccess(t *testing.T) {
	provider := &stubProvider{response: `{"title": "Add login flow", "body": "Implements the session handshake."}`}
	g := NewGenerator(Options{Provider: provider, Fallback: template.NewGenerator(template.Options{})})

	result := g.Generate(context.Background(), sampleSummary())

	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, "Add login flow", result.Message.Title)
	assert.Equal(t, "Implements the session handshake.", result.Message.Body)
	assert.Empty(t, result.Reason)
	assert.Equal(t, 1, provider.calls)
}

func TestGenerateAppliesConventionToAIOutput(t *testing.T) {
	provider := &stubProvider{response: `{"title": "Add login flow"}`}
	g := NewGenerator(Options{
		Provider:   provider,
		Convention: message.ConventionalCommits{},
		Fallback:   template.NewGenerator(template.Options{}),
	})

	result := g.Generate(context.Background(), sampleSummary())

	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, "feat(auth): add login flow", result.Message.Title)
}

func TestGenerateProviderErrorMatchesFallbackOutput(t *testing.T) {
	fallback := template.NewGenerator(template.Options{Convention: message.ConventionalCommits{}})
	provider := &stubProvider{err: errors.New("connection refused")}
	g := NewGenerator(Options{
		Provider:   provider,
		Convention: message.ConventionalCommits{},
		Fallback:   fallback,
	})

	s := sampleSummary()
	result := g.Generate(context.Background(), s)

	require.Equal(t, OutcomeFallback, result.Outcome)
	assert.Contains(t, result.Reason, "connection refused")

	direct, err := fallback.Generate(s)
	require.NoError(t, err)
	assert.Equal(t, direct.Sanitized().WithTruncatedTitle(72), result.Message)
}

func TestGenerateProviderPanicFallsBack(t *testing.T) {
	g := NewGenerator(Options{
		Provider: &stubProvider{panics: true},
		Fallback: template.NewGenerator(template.Options{}),
	})

	result := g.Generate(context.Background(), sampleSummary())

	assert.Equal(t, OutcomeFallback, result.Outcome)
	assert.Contains(t, result.Reason, "panicked")
	assert.NotEmpty(t, result.Message.Title)
}

func TestGenerateBlankResponseFallsBack(t *testing.T) {
	g := NewGenerator(Options{
		Provider: &stubProvider{response: "   \n  "},
		Fallback: template.NewGenerator(template.Options{}),
	})

	result := g.Generate(context.Background(), sampleSummary())

	assert.Equal(t, OutcomeFallback, result.Outcome)
	assert.Contains(t, result.Reason, "blank")
}

func TestGenerateNoProviderFallsBack(t *testing.T) {
	g := NewGenerator(Options{Fallback: template.NewGenerator(template.Options{})})

	result := g.Generate(context.Background(), sampleSummary())

	assert.Equal(t, OutcomeFallback, result.Outcome)
	assert.NotEmpty(t, result.Message.Title)
}

func TestGenerateFreeTextResponseStillConforms(t *testing.T) {
	// A provider ignoring the JSON contract still yields a convention-shaped
	// title via free-text parsing plus local formatting.
	provider := &stubProvider{response: "not json at all"}
	g := NewGenerator(Options{
		Provider:   provider,
		Convention: message.ConventionalCommits{},
		Fallback:   template.NewGenerator(template.Options{Convention: message.ConventionalCommits{}}),
	})

	result := g.Generate(context.Background(), sampleSummary())

	conforming := regexp.MustCompile(`^(feat|fix|refactor|test|docs|style|build|ci|chore)(\([^)]*\))?: .+`)
	assert.Regexp(t, conforming, result.Message.Title)
}

func TestGenerateEmptyChangesetSkipsProvider(t *testing.T) {
	provider := &stubProvider{response: `{"title": "never used"}`}
	g := NewGenerator(Options{Provider: provider, Fallback: template.NewGenerator(template.Options{})})

	result := g.Generate(context.Background(), diff.Summary{})

	assert.Equal(t, OutcomeLastResort, result.Outcome)
	assert.Equal(t, LastResortTitle, result.Message.Title)
	assert.Zero(t, provider.calls, "an empty changeset must not reach the provider")
}

func TestGenerateFallbackPanicYieldsLastResort(t *testing.T) {
	g := NewGenerator(Options{
		Provider: &stubProvider{err: errors.New("down")},
		Fallback: panickingFallback{},
	})

	result := g.Generate(context.Background(), sampleSummary())

	assert.Equal(t, OutcomeLastResort, result.Outcome)
	assert.Equal(t, LastResortTitle, result.Message.Title)
	assert.Contains(t, result.Reason, "down")
	assert.Contains(t, result.Reason, "panicked")
}

func TestGenerateNoFallbackYieldsLastResort(t *testing.T) {
	g := NewGenerator(Options{Provider: &stubProvider{err: errors.New("down")}})

	result := g.Generate(context.Background(), sampleSummary())

	assert.Equal(t, OutcomeLastResort, result.Outcome)
	assert.Equal(t, LastResortTitle, result.Message.Title)
}

func TestGenerateNeverBlankTitle(t *testing.T) {
	providers := []*stubProvider{
		{response: `{"title": "Add thing"}`},
		{response: "free text title"},
		{response: ""},
		{err: errors.New("boom")},
		{panics: true},
	}
	for _, p := range providers {
		g := NewGenerator(Options{Provider: p, Fallback: template.NewGenerator(template.Options{})})
		result := g.Generate(context.Background(), sampleSummary())
		assert.NotEmpty(t, strings.TrimSpace(result.Message.Title))
	}
}

func TestGenerateOneLineStripsBodyAndFooter(t *testing.T) {
	provider := &stubProvider{response: `{"title": "Add thing", "body": "long body", "footer": "Refs #1"}`}
	g := NewGenerator(Options{
		Provider: provider,
		OneLine:  true,
		Fallback: template.NewGenerator(template.Options{}),
	})

	result := g.Generate(context.Background(), sampleSummary())

	assert.Equal(t, "Add thing", result.Message.Title)
	assert.Empty(t, result.Message.Body)
	assert.Empty(t, result.Message.Footer)
}

func TestGenerateTruncatesLongAITitle(t *testing.T) {
	provider := &stubProvider{response: `{"title": "` + strings.Repeat("Add many things ", 20) + `"}`}
	g := NewGenerator(Options{
		Provider:       provider,
		MaxTitleLength: 50,
		Fallback:       template.NewGenerator(template.Options{}),
	})

	result := g.Generate(context.Background(), sampleSummary())

	assert.Len(t, []rune(result.Message.Title), 50)
	assert.True(t, strings.HasSuffix(result.Message.Title, "..."))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "fallback", OutcomeFallback.String())
	assert.Equal(t, "last-resort", OutcomeLastResort.String())
}
