package message

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/draftcommit/draftcommit/pkg/diff"
)

// Convention post-processes a generated message into a commit-title style.
// Format must be idempotent: re-applying it to an already formatted title is
// a no-op.
type Convention interface {
	Format(m Message, category diff.ChangeCategory, scope string) Message
	PromptHint() string
	DisplayName() string
}

// ConventionFor resolves a configured convention name; unknown names and
// "none" mean free-form.
func ConventionFor(name string) Convention {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gitmoji":
		return Gitmoji{}
	case "conventional", "conventional-commits":
		return ConventionalCommits{}
	default:
		return FreeForm{}
	}
}

// Gitmoji prefixes the title with a category emoji.
type Gitmoji struct{}

var gitmojiByCategory = map[diff.ChangeCategory]string{
	diff.Feature:  "✨",
	diff.Bugfix:   "🐛",
	diff.Refactor: "♻️",
	diff.Test:     "✅",
	diff.Docs:     "📝",
	diff.Style:    "💄",
	diff.Build:    "📦",
	diff.CI:       "👷",
	diff.Chore:    "🔧",
}

// Format prepends the category emoji unless the title already starts with any
// known emoji. An existing wrong emoji is left alone: the upstream generator
// is trusted over the local classification.
func (Gitmoji) Format(m Message, category diff.ChangeCategory, scope string) Message {
	for _, emoji := range gitmojiByCategory {
		if strings.HasPrefix(m.Title, emoji) {
			return m
		}
	}
	emoji, ok := gitmojiByCategory[category]
	if !ok {
		emoji = gitmojiByCategory[diff.Chore]
	}
	m.Title = emoji + " " + m.Title
	return m
}

func (Gitmoji) PromptHint() string {
	return `Start the title with exactly one gitmoji emoji matching the change type:
✨ feature, 🐛 bug fix, ♻️ refactoring, ✅ tests, 📝 docs, 💄 styling, 📦 build, 👷 CI, 🔧 chore.
Example: "✨ Add user session caching".`
}

func (Gitmoji) DisplayName() string { return "Gitmoji" }

// ConventionalCommits formats titles as type(scope): description.
type ConventionalCommits struct{}

var conventionalTitle = regexp.MustCompile(`^(feat|fix|refactor|test|docs|style|build|ci|chore|perf|revert)(\([^)]*\))?!?:\s.+$`)

// loosePrefix matches sloppy type prefixes the model may emit, including
// wrong case, missing space, or a dangling colon.
var loosePrefix = regexp.MustCompile(`(?i)^(feat|feature|fix|bugfix|refactor|test|tests|docs|doc|style|build|ci|chore|perf|revert)(\([^)]*\))?!?\s*:\s*`)

// Format leaves a fully conforming title untouched; otherwise it strips any
// loose type prefix and prepends the canonical one for the category.
func (ConventionalCommits) Format(m Message, category diff.ChangeCategory, scope string) Message {
	if conventionalTitle.MatchString(m.Title) {
		return m
	}
	rest := loosePrefix.ReplaceAllString(m.Title, "")
	rest = lowerFirst(strings.TrimSpace(rest))
	if rest == "" {
		rest = lowerFirst(strings.TrimSpace(m.Title))
	}
	if strings.TrimSpace(scope) != "" {
		m.Title = fmt.Sprintf("%s(%s): %s", category.Label(), scope, rest)
	} else {
		m.Title = fmt.Sprintf("%s: %s", category.Label(), rest)
	}
	return m
}

func (ConventionalCommits) PromptHint() string {
	return `Format the title as a Conventional Commit: type(scope): description.
Allowed types: feat, fix, refactor, test, docs, style, build, ci, chore.
The scope is optional. The description starts lowercase and has no trailing period.
Example: "fix(auth): handle expired session tokens".`
}

func (ConventionalCommits) DisplayName() string { return "Conventional Commits" }

// FreeForm only uppercases the first character; category and scope are
// ignored.
type FreeForm struct{}

func (FreeForm) Format(m Message, category diff.ChangeCategory, scope string) Message {
	m.Title = upperFirst(m.Title)
	return m
}

func (FreeForm) PromptHint() string {
	return `Write a plain imperative title with no prefix, starting with a capital letter.
Example: "Add retry handling to the upload client".`
}

func (FreeForm) DisplayName() string { return "Free-form" }

func lowerFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func upperFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
