package diff

import (
	"regexp"
	"strings"
)

// Classification is a strict first-match rule chain: path rules, then the
// deleted-file shortcut, then keyword heuristics over added lines, then the
// FEATURE fallback. The tables below are iterated in priority order; there is
// no scoring.

var testPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(^|/)(test|tests|__tests__|spec)(/|$)`),
	regexp.MustCompile(`[^/]*\.test\.[^/]+$`),
	regexp.MustCompile(`[^/]*\.spec\.[^/]+$`),
	regexp.MustCompile(`[^/]+Test\.[^/]+$`),
}

var ciPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(^|/)\.github/workflows(/|$)`),
	regexp.MustCompile(`(^|/)\.github/actions(/|$)`),
	regexp.MustCompile(`(^|/)\.circleci(/|$)`),
	regexp.MustCompile(`(^|/)\.gitlab-ci`),
	regexp.MustCompile(`(?i)(^|/)jenkinsfile`),
	regexp.MustCompile(`(^|/)\.travis\.yml$`),
	regexp.MustCompile(`(^|/)azure-pipelines`),
}

var buildFileNames = map[string]bool{
	"build.gradle":      true,
	"build.gradle.kts":  true,
	"settings.gradle":   true,
	"pom.xml":           true,
	"package.json":      true,
	"package-lock.json": true,
	"yarn.lock":         true,
	"cargo.toml":        true,
	"cargo.lock":        true,
	"go.mod":            true,
	"go.sum":            true,
	"makefile":          true,
	"cmakelists.txt":    true,
	"setup.py":          true,
	"pyproject.toml":    true,
	"build.sbt":         true,
	"gemfile":           true,
	"requirements.txt":  true,
}

var buildPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(^|/)gradle/`),
	regexp.MustCompile(`(^|/)buildSrc/`),
	regexp.MustCompile(`(^|/)build-logic/`),
}

var docExtensions = map[string]bool{
	"md":       true,
	"markdown": true,
	"txt":      true,
	"rst":      true,
	"adoc":     true,
	"asciidoc": true,
}

var docFileNames = map[string]bool{
	"readme":          true,
	"changelog":       true,
	"license":         true,
	"licence":         true,
	"contributing":    true,
	"notice":          true,
	"authors":         true,
	"code_of_conduct": true,
}

var styleExtensions = map[string]bool{
	"css":  true,
	"scss": true,
	"sass": true,
	"less": true,
	"styl": true,
}

var configFileNames = map[string]bool{
	".gitignore":         true,
	".gitattributes":     true,
	".editorconfig":      true,
	".dockerignore":      true,
	".eslintrc":          true,
	".eslintrc.json":     true,
	".prettierrc":        true,
	"tsconfig.json":      true,
	"dockerfile":         true,
	"docker-compose.yml": true,
}

var bugfixKeywords = regexp.MustCompile(`(?i)\b(fix(es|ed)?|bug|npe)\b|null pointer|catch\s.*exception|error handling|off[ -]by[ -]one|race condition`)

var refactorKeywords = regexp.MustCompile(`(?i)\brefactor|\brename\b|\bextract\b|move\s.*(method|function|class)|cleanup|clean up|simplif(y|ied|ies)`)

// Classify maps a single file change to its semantic category.
func Classify(fd FileDiff) ChangeCategory {
	if c, ok := classifyByPath(fd.Path); ok {
		return c
	}
	if fd.Type.IsRemoval() {
		return Chore
	}
	if c, ok := classifyByContent(fd.Diff); ok {
		return c
	}
	return Feature
}

// ClassifyAll classifies each file independently, preserving order.
func ClassifyAll(diffs []FileDiff) []ChangeCategory {
	categories := make([]ChangeCategory, len(diffs))
	for i, fd := range diffs {
		categories[i] = Classify(fd)
	}
	return categories
}

func classifyByPath(path string) (ChangeCategory, bool) {
	for _, p := range testPathPatterns {
		if p.MatchString(path) {
			return Test, true
		}
	}
	for _, p := range ciPathPatterns {
		if p.MatchString(path) {
			return CI, true
		}
	}
	name := strings.ToLower(baseName(path))
	if buildFileNames[name] {
		return Build, true
	}
	for _, p := range buildPathPatterns {
		if p.MatchString(path) {
			return Build, true
		}
	}
	if docExtensions[ExtractExtension(path)] || docFileNames[stripExtension(name)] {
		return Docs, true
	}
	if styleExtensions[ExtractExtension(path)] {
		return Style, true
	}
	if configFileNames[name] {
		return Chore, true
	}
	return Chore, false
}

// classifyByContent scans only added lines, skipping the +++ header.
func classifyByContent(diffText string) (ChangeCategory, bool) {
	if diffText == "" {
		return Chore, false
	}
	for _, line := range strings.Split(diffText, "\n") {
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		if bugfixKeywords.MatchString(line) {
			return Bugfix, true
		}
	}
	for _, line := range strings.Split(diffText, "\n") {
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		if refactorKeywords.MatchString(line) {
			return Refactor, true
		}
	}
	return Chore, false
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func stripExtension(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
