package diff

import (
	"fmt"
	"strings"
)

// DefaultContextLines is the number of unchanged lines kept around each
// changed region when computing a simple diff.
const DefaultContextLines = 3

// binarySniffLimit bounds how much of a file is inspected for NUL bytes.
const binarySniffLimit = 8000

// TokenCounter measures prompt text. EstimateTokens is the deterministic
// default; a model-aware counter can be injected instead.
type TokenCounter func(text string) int

// ExtractExtension returns the lowercase extension of the last path segment,
// without the dot. Empty when there is no dot or the dot is the final
// character.
func ExtractExtension(path string) string {
	name := path
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// IsBinaryContent reports whether text looks binary: a NUL character within
// the first 8000 characters.
func IsBinaryContent(text string) bool {
	sniff := text
	if len(sniff) > binarySniffLimit {
		sniff = sniff[:binarySniffLimit]
	}
	return strings.ContainsRune(sniff, '\x00')
}

// CountChangedLines counts added and deleted lines in a unified-style diff.
// The +++/--- header lines do not count.
func CountChangedLines(diffText string) (added, deleted int) {
	if strings.TrimSpace(diffText) == "" {
		return 0, 0
	}
	for _, line := range strings.Split(diffText, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"):
		case strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			deleted++
		}
	}
	return added, deleted
}

// EstimateTokens approximates the token count of text as ceil(len/4).
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

type diffOpKind int

const (
	opEqual diffOpKind = iota
	opAdd
	opRemove
)

type diffOp struct {
	kind diffOpKind
	line string
}

// ComputeSimpleDiff produces a simplified line diff between two versions of a
// file. A nil pointer means that side does not exist. The second return is
// false only when both sides are nil.
//
// The output is meant for LLM consumption, not for patch tools: changed lines
// carry +/- prefixes, unchanged context lines a leading space, and hunks are
// separated by a blank line instead of @@ headers.
func ComputeSimpleDiff(before, after *string, contextLines int) (string, bool) {
	if before == nil && after == nil {
		return "", false
	}
	if before == nil {
		return prefixLines(*after, "+"), true
	}
	if after == nil {
		return prefixLines(*before, "-"), true
	}
	ops := lcsOps(splitLines(*before), splitLines(*after))
	return renderHunks(ops, contextLines), true
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func prefixLines(text, prefix string) string {
	lines := splitLines(text)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = prefix + line
	}
	return strings.Join(out, "\n")
}

// lcsOps computes an edit script via the classic O(m*n) longest-common-
// subsequence table, backtracked into EQUAL/ADD/REMOVE operations.
func lcsOps(before, after []string) []diffOp {
	m, n := len(before), len(after)
	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if before[i] == after[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else if table[i+1][j] >= table[i][j+1] {
				table[i][j] = table[i+1][j]
			} else {
				table[i][j] = table[i][j+1]
			}
		}
	}
	var ops []diffOp
	i, j := 0, 0
	for i < m && j < n {
		switch {
		case before[i] == after[j]:
			ops = append(ops, diffOp{opEqual, before[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			ops = append(ops, diffOp{opRemove, before[i]})
			i++
		default:
			ops = append(ops, diffOp{opAdd, after[j]})
			j++
		}
	}
	for ; i < m; i++ {
		ops = append(ops, diffOp{opRemove, before[i]})
	}
	for ; j < n; j++ {
		ops = append(ops, diffOp{opAdd, after[j]})
	}
	return ops
}

// renderHunks keeps only operations within contextLines of a change and
// separates discontiguous regions with a blank line.
func renderHunks(ops []diffOp, contextLines int) string {
	if contextLines < 0 {
		contextLines = 0
	}
	keep := make([]bool, len(ops))
	for i, op := range ops {
		if op.kind == opEqual {
			continue
		}
		lo := i - contextLines
		if lo < 0 {
			lo = 0
		}
		hi := i + contextLines
		if hi > len(ops)-1 {
			hi = len(ops) - 1
		}
		for k := lo; k <= hi; k++ {
			keep[k] = true
		}
	}

	var b strings.Builder
	inGap := false
	wrote := false
	for i, op := range ops {
		if !keep[i] {
			inGap = wrote
			continue
		}
		if inGap {
			b.WriteString("\n")
			inGap = false
		}
		switch op.kind {
		case opAdd:
			b.WriteString("+")
		case opRemove:
			b.WriteString("-")
		default:
			b.WriteString(" ")
		}
		b.WriteString(op.line)
		b.WriteString("\n")
		wrote = true
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// TruncateDiffs concatenates per-file diff sections, most significant files
// first, within a token budget measured by EstimateTokens.
func TruncateDiffs(diffs []FileDiff, maxTokens int) string {
	return TruncateDiffsCounted(diffs, maxTokens, EstimateTokens)
}

// TruncateDiffsCounted is TruncateDiffs with an injected token counter.
func TruncateDiffsCounted(diffs []FileDiff, maxTokens int, count TokenCounter) string {
	if count == nil {
		count = EstimateTokens
	}
	withText := Summary{Files: diffs}.filesWhere(func(fd FileDiff) bool {
		return strings.TrimSpace(fd.Diff) != ""
	})
	withText = (Summary{Files: withText}).SortedBySignificance()

	var b strings.Builder
	remaining := maxTokens
	for i, fd := range withText {
		header := fmt.Sprintf("--- %s (%s, +%d/-%d) ---\n", fd.Path, fd.Type, fd.LinesAdded, fd.LinesDeleted)
		headerTokens := count(header)
		if headerTokens > remaining {
			b.WriteString(fmt.Sprintf("... and %d more file(s) truncated\n", len(withText)-i))
			break
		}
		remaining -= headerTokens
		b.WriteString(header)

		contentTokens := count(fd.Diff)
		if contentTokens <= remaining {
			b.WriteString(fd.Diff)
			b.WriteString("\n")
			remaining -= contentTokens
			continue
		}
		budget := remaining * 4
		content := fd.Diff
		if budget < len(content) {
			content = content[:budget]
		}
		b.WriteString(content)
		b.WriteString("... (truncated)\n")
		break
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FormatFileList renders one status line per file, using R with the old path
// for relocations.
func FormatFileList(diffs []FileDiff) string {
	lines := make([]string, 0, len(diffs))
	for _, fd := range diffs {
		if fd.Type.IsRelocation() && fd.OldPath != "" {
			lines = append(lines, fmt.Sprintf("R  %s → %s", fd.OldPath, fd.Path))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s  %s", fd.Type.Marker(), fd.Path))
	}
	return strings.Join(lines, "\n")
}
