package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/draftcommit/draftcommit/pkg/diff"
	"github.com/draftcommit/draftcommit/pkg/message"
)

// Default prompt budgets. The three caps are independent: file-list entries,
// diff tokens, and a final hard cap on the whole user prompt.
const (
	DefaultMaxFiles      = 30
	DefaultMaxDiffTokens = 4000
	DefaultMaxTotalChars = 32000

	promptTruncationNotice = "\n... (prompt truncated)"
)

// PromptOptions configures prompt construction. Zero budget values fall back
// to the defaults above.
type PromptOptions struct {
	MaxFiles      int
	MaxDiffTokens int
	MaxTotalChars int

	// OneLine asks the model for a title only.
	OneLine bool
	// Convention supplies a format hint block; nil means no hint.
	Convention message.Convention
	// Language is a target-language hint such as "German"; blank means none.
	Language string
	// CustomInstructions is free user text appended to the system prompt.
	CustomInstructions string
	// TokenCounter measures the diff section; nil means the char/4 estimate.
	TokenCounter diff.TokenCounter
}

// PromptBuilder deterministically converts a change summary into a bounded
// system/user prompt pair. It has no side effects and is safe for concurrent
// use.
type PromptBuilder struct {
	opts PromptOptions
}

// NewPromptBuilder applies defaults and returns a builder.
func NewPromptBuilder(opts PromptOptions) *PromptBuilder {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}
	if opts.MaxDiffTokens <= 0 {
		opts.MaxDiffTokens = DefaultMaxDiffTokens
	}
	if opts.MaxTotalChars <= 0 {
		opts.MaxTotalChars = DefaultMaxTotalChars
	}
	return &PromptBuilder{opts: opts}
}

// BuildSystemPrompt assembles the role statement, output-format contract,
// style rules, and the optional convention, language, and custom sections.
func (b *PromptBuilder) BuildSystemPrompt() string {
	sections := []string{
		"You are an expert developer writing git commit messages from staged changes.",
		`Respond with ONLY a JSON object, no surrounding text or markdown:
{"title": "<commit title>", "body": "<optional body>", "footer": "<optional footer>"}
Omit "body" and "footer" rather than leaving them empty.`,
		`Style rules:
- Use the imperative mood in the title ("Add", not "Added").
- Keep the title at or under 72 characters.
- Do not put file paths in the title.
- The body explains WHY the change was made, not WHAT files changed.`,
	}
	if b.opts.OneLine {
		sections = append(sections, `Produce the title only: no body and no footer.`)
	}
	if b.opts.Convention != nil {
		if hint := strings.TrimSpace(b.opts.Convention.PromptHint()); hint != "" {
			sections = append(sections, hint)
		}
	}
	if lang := strings.TrimSpace(b.opts.Language); lang != "" {
		sections = append(sections, fmt.Sprintf("Write the commit message in %s.", lang))
	}
	if custom := strings.TrimSpace(b.opts.CustomInstructions); custom != "" {
		sections = append(sections, custom)
	}
	return strings.Join(sections, "\n\n")
}

// BuildUserPrompt renders the changeset: a capped file list, true-total
// statistics, the dominant change type, and a token-bounded diff section.
// The result never exceeds MaxTotalChars plus a short truncation notice.
func (b *PromptBuilder) BuildUserPrompt(s diff.Summary) string {
	var sb strings.Builder
	sb.WriteString("Staged changes to describe:\n\n")

	shown := s.Files
	omitted := 0
	if len(shown) > b.opts.MaxFiles {
		omitted = len(shown) - b.opts.MaxFiles
		shown = shown[:b.opts.MaxFiles]
	}
	sb.WriteString(diff.FormatFileList(shown))
	sb.WriteString("\n")
	if omitted > 0 {
		sb.WriteString(fmt.Sprintf("... %d more file(s) omitted\n", omitted))
	}

	// Statistics always report true totals, even when the list above is capped.
	sb.WriteString(fmt.Sprintf(`
Statistics:
Files: %d
Lines added: %d
Lines deleted: %d
New: %d, Modified: %d, Deleted: %d, Moved: %d
`,
		s.TotalFiles(),
		s.TotalLinesAdded(),
		s.TotalLinesDeleted(),
		len(s.NewFiles()),
		len(s.ModifiedFiles()),
		len(s.DeletedFiles()),
		len(s.MovedFiles()),
	))
	sb.WriteString(fmt.Sprintf("\nDominant change type: %s\n", s.DominantCategory().Label()))

	if anyHasDiff(shown) {
		diffSection := diff.TruncateDiffsCounted(shown, b.opts.MaxDiffTokens, b.opts.TokenCounter)
		if diffSection != "" {
			sb.WriteString("\nDiff:\n")
			sb.WriteString(diffSection)
			sb.WriteString("\n")
		}
	}

	prompt := sb.String()
	if len(prompt) > b.opts.MaxTotalChars {
		cut := b.opts.MaxTotalChars
		// Back off to a rune boundary so the cut never emits invalid UTF-8.
		for cut > 0 && !utf8.RuneStart(prompt[cut]) {
			cut--
		}
		prompt = prompt[:cut] + promptTruncationNotice
	}
	return prompt
}

func anyHasDiff(files []diff.FileDiff) bool {
	for _, fd := range files {
		if strings.TrimSpace(fd.Diff) != "" {
			return true
		}
	}
	return false
}
