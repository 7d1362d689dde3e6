// Package template implements safe commit-template interpolation and the
// deterministic template generation path.
//
// The engine supports flat {{name}} placeholders and one level of
// {{#name}}...{{/name}} conditionals over a plain string map. Nothing is
// evaluated: template text can come straight from user settings.
package template

import (
	"regexp"
	"strings"
)

// maxConditionalPasses bounds conditional resolution; nesting of distinct
// keys resolves innermost-first across passes, same-key nesting is not
// supported.
const maxConditionalPasses = 10

var (
	placeholderPattern = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_.]{0,63})\}\}`)
	conditionalOpen    = regexp.MustCompile(`\{\{#([a-zA-Z_][a-zA-Z0-9_.]{0,63})\}\}`)
	newlineRun         = regexp.MustCompile(`\n{3,}`)
)

// Render substitutes variables into template text. Conditional blocks are
// kept only when their variable is present and non-blank; missing
// placeholders render as the empty string; malformed syntax is left verbatim.
func Render(template string, variables map[string]string) string {
	text := template
	for pass := 0; pass < maxConditionalPasses; pass++ {
		next, changed := resolveConditionals(text, variables)
		text = next
		if !changed {
			break
		}
	}
	text = placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-2]
		return variables[name]
	})
	text = newlineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// resolveConditionals resolves every innermost conditional block found in one
// scan. Blocks whose closing tag is missing are left as-is.
func resolveConditionals(text string, variables map[string]string) (string, bool) {
	changed := false
	var b strings.Builder
	rest := text
	for {
		loc := conditionalOpen.FindStringSubmatchIndex(rest)
		if loc == nil {
			b.WriteString(rest)
			break
		}
		name := rest[loc[2]:loc[3]]
		closeTag := "{{/" + name + "}}"
		after := rest[loc[1]:]
		closeAt := strings.Index(after, closeTag)
		if closeAt < 0 {
			// Unbalanced block, keep the opener verbatim.
			b.WriteString(rest[:loc[1]])
			rest = after
			continue
		}
		inner := after[:closeAt]
		if nested := conditionalOpen.FindStringIndex(inner); nested != nil {
			// Inner block first; emit up to it and rescan from there.
			b.WriteString(rest[:loc[1]])
			rest = after
			continue
		}
		b.WriteString(rest[:loc[0]])
		if value, ok := variables[name]; ok && strings.TrimSpace(value) != "" {
			b.WriteString(inner)
		}
		changed = true
		rest = after[closeAt+len(closeTag):]
	}
	return b.String(), changed
}

// ExtractVariableNames lists every variable a template references, through
// either placeholder or conditional syntax.
func ExtractVariableNames(template string) map[string]bool {
	names := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		names[m[1]] = true
	}
	for _, m := range conditionalOpen.FindAllStringSubmatch(template, -1) {
		names[m[1]] = true
	}
	return names
}
