package template

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/draftcommit/draftcommit/pkg/diff"
	"github.com/draftcommit/draftcommit/pkg/message"
)

// ErrEmptyChangeset is returned when generation is requested for a changeset
// with no files.
var ErrEmptyChangeset = errors.New("cannot generate a commit message for an empty changeset")

// DefaultTitleTemplate and DefaultBodyTemplate are the documented defaults for
// the deterministic path.
const (
	DefaultTitleTemplate = "{{type}}{{#scope}}({{scope}}){{/scope}}: {{summary}}"
	DefaultBodyTemplate  = "{{files_changed}} file(s) changed, +{{lines_added}}/-{{lines_deleted}} lines\n\n{{body_lines}}"

	// DefaultPlainTitleTemplate is used when the convention carries the type
	// itself (an emoji) or wants no prefix at all.
	DefaultPlainTitleTemplate = "{{summary}}"

	DefaultMaxTitleLength = 72
)

// Options configures a Generator. Zero values fall back to the documented
// defaults; a nil Convention means no convention formatting.
type Options struct {
	TitleTemplate  string
	BodyTemplate   string
	Convention     message.Convention
	MaxTitleLength int
}

// Generator renders commit messages from a change summary without any
// external calls. It is the deterministic generation path and the fallback
// for the AI path.
type Generator struct {
	titleTemplate  string
	bodyTemplate   string
	convention     message.Convention
	maxTitleLength int
}

// NewGenerator builds a Generator, applying defaults for unset options.
func NewGenerator(opts Options) *Generator {
	g := &Generator{
		titleTemplate:  opts.TitleTemplate,
		bodyTemplate:   opts.BodyTemplate,
		convention:     opts.Convention,
		maxTitleLength: opts.MaxTitleLength,
	}
	if g.titleTemplate == "" {
		switch g.convention.(type) {
		case message.Gitmoji, message.FreeForm:
			g.titleTemplate = DefaultPlainTitleTemplate
		default:
			g.titleTemplate = DefaultTitleTemplate
		}
	}
	if g.bodyTemplate == "" {
		g.bodyTemplate = DefaultBodyTemplate
	}
	if g.maxTitleLength <= 0 {
		g.maxTitleLength = DefaultMaxTitleLength
	}
	return g
}

// Generate renders the configured templates against the summary.
func (g *Generator) Generate(s diff.Summary) (message.Message, error) {
	if s.IsEmpty() {
		return message.Message{}, ErrEmptyChangeset
	}
	variables := Variables(s)
	title := Render(g.titleTemplate, variables)
	body := Render(g.bodyTemplate, variables)

	msg, err := message.New(title, body, "")
	if err != nil {
		return message.Message{}, fmt.Errorf("title template produced no text: %w", err)
	}
	if g.convention != nil {
		msg = g.convention.Format(msg, s.DominantCategory(), variables["scope"])
	}
	return msg.WithTruncatedTitle(g.maxTitleLength), nil
}

// Variables builds the documented template variable map for a summary. The
// variable surface is a stable contract:
// type, scope, summary, files, files_changed, lines_added, lines_deleted,
// new_files, modified_files, deleted_files, moved_files, body_lines.
func Variables(s diff.Summary) map[string]string {
	scope := diff.DetectScope(s)
	return map[string]string{
		"type":           s.DominantCategory().Label(),
		"scope":          scope,
		"summary":        summarySentence(s, scope),
		"files":          diff.FormatFileList(s.Files),
		"files_changed":  strconv.Itoa(s.TotalFiles()),
		"lines_added":    strconv.Itoa(s.TotalLinesAdded()),
		"lines_deleted":  strconv.Itoa(s.TotalLinesDeleted()),
		"new_files":      joinFileNames(s.NewFiles()),
		"modified_files": joinFileNames(s.ModifiedFiles()),
		"deleted_files":  joinFileNames(s.DeletedFiles()),
		"moved_files":    joinMovedNames(s.MovedFiles()),
		"body_lines":     bodyLines(s),
	}
}

var categoryVerbs = map[diff.ChangeCategory]string{
	diff.Feature:  "Update",
	diff.Bugfix:   "Fix",
	diff.Refactor: "Refactor",
	diff.Test:     "Update tests for",
	diff.Docs:     "Update docs for",
	diff.Style:    "Restyle",
	diff.Build:    "Update build config for",
	diff.CI:       "Update CI for",
	diff.Chore:    "Update",
}

var categoryHeadings = map[diff.ChangeCategory]string{
	diff.Feature:  "Features",
	diff.Bugfix:   "Bug fixes",
	diff.Refactor: "Refactorings",
	diff.Test:     "Tests",
	diff.Docs:     "Documentation",
	diff.Style:    "Style changes",
	diff.Build:    "Build changes",
	diff.CI:       "CI changes",
	diff.Chore:    "Chores",
}

// summarySentence infers the one-sentence summary, first match wins.
func summarySentence(s diff.Summary, scope string) string {
	topGroup := topSignificant(s, 3)
	switch {
	case s.IsAllNew() && s.TotalFiles() == 1:
		return "Add " + s.Files[0].FileName()
	case s.IsAllNew():
		return "Add " + describeFileGroup(topGroup)
	case s.IsAllDeleted() && s.TotalFiles() == 1:
		return "Remove " + s.Files[0].FileName()
	case s.IsAllDeleted():
		return "Remove " + describeFileGroup(topGroup)
	case s.TotalFiles() == 1:
		return verbFor(s.DominantCategory()) + " " + s.Files[0].FileName()
	case scope != "":
		return verbFor(s.DominantCategory()) + " " + scope
	default:
		return verbFor(s.DominantCategory()) + " " + describeFileGroup(topGroup)
	}
}

func verbFor(c diff.ChangeCategory) string {
	if v, ok := categoryVerbs[c]; ok {
		return v
	}
	return categoryVerbs[diff.Chore]
}

func topSignificant(s diff.Summary, n int) []diff.FileDiff {
	sorted := s.SortedBySignificance()
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// describeFileGroup names a small group of files. The input is the top-3
// significance window, so the trailing count reflects at most two "other"
// files; the true total lives in the files_changed variable.
func describeFileGroup(files []diff.FileDiff) string {
	switch len(files) {
	case 0:
		return "changes"
	case 1:
		return files[0].FileName()
	case 2:
		return files[0].FileName() + " and " + files[1].FileName()
	default:
		return fmt.Sprintf("%s and %d other files", files[0].FileName(), len(files)-1)
	}
}

func joinFileNames(files []diff.FileDiff) string {
	names := make([]string, 0, len(files))
	for _, fd := range files {
		names = append(names, fd.FileName())
	}
	return strings.Join(names, ", ")
}

func joinMovedNames(files []diff.FileDiff) string {
	pairs := make([]string, 0, len(files))
	for _, fd := range files {
		old := fd.OldPath
		if old == "" {
			old = fd.Path
		}
		pairs = append(pairs, fmt.Sprintf("%s → %s", lastName(old), fd.FileName()))
	}
	return strings.Join(pairs, ", ")
}

func lastName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// bodyLines renders the category-grouped breakdown used by the default body
// template.
func bodyLines(s diff.Summary) string {
	var b strings.Builder
	for _, group := range s.GroupByCategory() {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		heading := categoryHeadings[group.Category]
		if heading == "" {
			heading = categoryHeadings[diff.Chore]
		}
		b.WriteString(heading)
		b.WriteString(":\n")
		for _, fd := range group.Files {
			b.WriteString(fmt.Sprintf("- %s (+%d/-%d)", fd.Path, fd.LinesAdded, fd.LinesDeleted))
			if fd.Type.IsRelocation() && fd.OldPath != "" {
				b.WriteString(fmt.Sprintf(" (from %s)", fd.OldPath))
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
