// Package diff turns raw staged file changes into a classified, immutable
// summary that the message generators consume.
package diff

import (
	"sort"
	"strings"
)

// ChangeType describes what happened to a file in the staged changeset.
type ChangeType string

const (
	New      ChangeType = "new"
	Modified ChangeType = "modified"
	Deleted  ChangeType = "deleted"
	Moved    ChangeType = "moved"
	Renamed  ChangeType = "renamed"
)

// IsAddition reports whether the change introduced the file.
func (t ChangeType) IsAddition() bool { return t == New }

// IsRemoval reports whether the change deleted the file.
func (t ChangeType) IsRemoval() bool { return t == Deleted }

// IsRelocation reports whether the file was moved or renamed.
func (t ChangeType) IsRelocation() bool { return t == Moved || t == Renamed }

// IsContentChange reports whether the file content was edited in place.
func (t ChangeType) IsContentChange() bool { return t == Modified }

// Marker returns the single-letter status used in file listings.
func (t ChangeType) Marker() string {
	switch t {
	case New:
		return "A"
	case Deleted:
		return "D"
	case Moved, Renamed:
		return "R"
	default:
		return "M"
	}
}

// ChangeCategory is the semantic class of a change. Lower priority values
// dominate when several categories appear in one changeset.
type ChangeCategory int

const (
	Feature ChangeCategory = iota + 1
	Bugfix
	Refactor
	Test
	Docs
	Style
	Build
	CI
	Chore
)

var categoryLabels = map[ChangeCategory]string{
	Feature:  "feat",
	Bugfix:   "fix",
	Refactor: "refactor",
	Test:     "test",
	Docs:     "docs",
	Style:    "style",
	Build:    "build",
	CI:       "ci",
	Chore:    "chore",
}

var categoryNouns = map[ChangeCategory]string{
	Feature:  "feature",
	Bugfix:   "bug fix",
	Refactor: "refactoring",
	Test:     "test",
	Docs:     "documentation change",
	Style:    "style change",
	Build:    "build change",
	CI:       "CI change",
	Chore:    "chore",
}

// Label returns the lowercase conventional-commit style label.
func (c ChangeCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return categoryLabels[Chore]
}

// Noun returns a human-readable singular name for body headings.
func (c ChangeCategory) Noun() string {
	if n, ok := categoryNouns[c]; ok {
		return n
	}
	return categoryNouns[Chore]
}

// Priority returns the dominance rank; 1 is strongest.
func (c ChangeCategory) Priority() int {
	if c < Feature || c > Chore {
		return int(Chore)
	}
	return int(c)
}

// FileDiff is an immutable description of one changed file. An empty Diff
// means no textual diff is available (binary content or a failed content
// fetch); Binary implies an empty Diff.
type FileDiff struct {
	Path         string
	OldPath      string
	Type         ChangeType
	Extension    string
	Diff         string
	LinesAdded   int
	LinesDeleted int
	Binary       bool
}

// NewFileDiff derives a FileDiff from before/after file content. A nil
// pointer means the side does not exist (or could not be read).
func NewFileDiff(path, oldPath string, changeType ChangeType, before, after *string) FileDiff {
	fd := FileDiff{
		Path:      path,
		Type:      changeType,
		Extension: ExtractExtension(path),
	}
	if changeType.IsRelocation() && oldPath != "" && oldPath != path {
		fd.OldPath = oldPath
	}
	if isBinaryPtr(before) || isBinaryPtr(after) {
		fd.Binary = true
		return fd
	}
	if text, ok := ComputeSimpleDiff(before, after, DefaultContextLines); ok {
		fd.Diff = text
		fd.LinesAdded, fd.LinesDeleted = CountChangedLines(text)
	}
	return fd
}

func isBinaryPtr(content *string) bool {
	return content != nil && IsBinaryContent(*content)
}

// TotalChangedLines is the combined number of added and deleted lines.
func (f FileDiff) TotalChangedLines() int { return f.LinesAdded + f.LinesDeleted }

// FileName returns the last path segment.
func (f FileDiff) FileName() string {
	if i := strings.LastIndex(f.Path, "/"); i >= 0 {
		return f.Path[i+1:]
	}
	return f.Path
}

// Directory returns the path minus the last segment, empty for root files.
func (f FileDiff) Directory() string {
	if i := strings.LastIndex(f.Path, "/"); i >= 0 {
		return f.Path[:i]
	}
	return ""
}

// Summary is the classified snapshot of one staged changeset. Files and
// Categories are parallel: Categories[i] classifies Files[i].
type Summary struct {
	Files      []FileDiff
	Categories []ChangeCategory
}

// NewSummary classifies every file and pairs it with its category.
func NewSummary(files []FileDiff) Summary {
	categories := make([]ChangeCategory, len(files))
	for i, fd := range files {
		categories[i] = Classify(fd)
	}
	return Summary{Files: files, Categories: categories}
}

// IsEmpty reports whether the changeset contains no files.
func (s Summary) IsEmpty() bool { return len(s.Files) == 0 }

// TotalFiles returns the number of changed files.
func (s Summary) TotalFiles() int { return len(s.Files) }

// TotalLinesAdded sums added lines across all files.
func (s Summary) TotalLinesAdded() int {
	total := 0
	for _, fd := range s.Files {
		total += fd.LinesAdded
	}
	return total
}

// TotalLinesDeleted sums deleted lines across all files.
func (s Summary) TotalLinesDeleted() int {
	total := 0
	for _, fd := range s.Files {
		total += fd.LinesDeleted
	}
	return total
}

func (s Summary) filesWhere(keep func(FileDiff) bool) []FileDiff {
	var out []FileDiff
	for _, fd := range s.Files {
		if keep(fd) {
			out = append(out, fd)
		}
	}
	return out
}

// NewFiles returns the files added by this changeset.
func (s Summary) NewFiles() []FileDiff {
	return s.filesWhere(func(fd FileDiff) bool { return fd.Type.IsAddition() })
}

// ModifiedFiles returns the files edited in place.
func (s Summary) ModifiedFiles() []FileDiff {
	return s.filesWhere(func(fd FileDiff) bool { return fd.Type.IsContentChange() })
}

// DeletedFiles returns the files removed by this changeset.
func (s Summary) DeletedFiles() []FileDiff {
	return s.filesWhere(func(fd FileDiff) bool { return fd.Type.IsRemoval() })
}

// MovedFiles returns the files moved or renamed by this changeset.
func (s Summary) MovedFiles() []FileDiff {
	return s.filesWhere(func(fd FileDiff) bool { return fd.Type.IsRelocation() })
}

// IsAllNew reports whether every file in a non-empty changeset is an addition.
func (s Summary) IsAllNew() bool {
	return !s.IsEmpty() && len(s.NewFiles()) == len(s.Files)
}

// IsAllDeleted reports whether every file in a non-empty changeset is a removal.
func (s Summary) IsAllDeleted() bool {
	return !s.IsEmpty() && len(s.DeletedFiles()) == len(s.Files)
}

// CategoryOf returns the classification recorded for the file at index i.
func (s Summary) CategoryOf(i int) ChangeCategory {
	if i < 0 || i >= len(s.Categories) {
		return Chore
	}
	return s.Categories[i]
}

// DominantCategory is the highest-priority category present, Chore when the
// changeset is empty.
func (s Summary) DominantCategory() ChangeCategory {
	dominant := Chore
	first := true
	for _, c := range s.Categories {
		if first || c.Priority() < dominant.Priority() {
			dominant = c
			first = false
		}
	}
	return dominant
}

// GroupByCategory returns the files of each present category, with categories
// ordered by priority.
func (s Summary) GroupByCategory() []CategoryGroup {
	byCategory := make(map[ChangeCategory][]FileDiff)
	for i, fd := range s.Files {
		c := s.Categories[i]
		byCategory[c] = append(byCategory[c], fd)
	}
	groups := make([]CategoryGroup, 0, len(byCategory))
	for c, files := range byCategory {
		groups = append(groups, CategoryGroup{Category: c, Files: files})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Category.Priority() < groups[j].Category.Priority()
	})
	return groups
}

// CategoryGroup pairs a category with the files classified under it.
type CategoryGroup struct {
	Category ChangeCategory
	Files    []FileDiff
}

// GroupByDirectory buckets files by their directory.
func (s Summary) GroupByDirectory() map[string][]FileDiff {
	out := make(map[string][]FileDiff)
	for _, fd := range s.Files {
		out[fd.Directory()] = append(out[fd.Directory()], fd)
	}
	return out
}

// GroupByExtension buckets files by their lowercase extension.
func (s Summary) GroupByExtension() map[string][]FileDiff {
	out := make(map[string][]FileDiff)
	for _, fd := range s.Files {
		out[fd.Extension] = append(out[fd.Extension], fd)
	}
	return out
}

// SortedBySignificance orders files by descending changed-line count, ties
// broken by ascending path.
func (s Summary) SortedBySignificance() []FileDiff {
	sorted := make([]FileDiff, len(s.Files))
	copy(sorted, s.Files)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalChangedLines() != sorted[j].TotalChangedLines() {
			return sorted[i].TotalChangedLines() > sorted[j].TotalChangedLines()
		}
		return sorted[i].Path < sorted[j].Path
	})
	return sorted
}
