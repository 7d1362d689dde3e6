package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func summaryFor(paths ...string) Summary {
	files := make([]FileDiff, len(paths))
	for i, p := range paths {
		files[i] = FileDiff{Path: p, Type: Modified}
	}
	return NewSummary(files)
}

func TestDetectScopeEmpty(t *testing.T) {
	assert.Empty(t, DetectScope(Summary{}))
}

func TestDetectScopeFromBuildMarker(t *testing.T) {
	s := summaryFor(
		"services/billing/package.json",
		"services/billing/src/index.js",
	)
	assert.Equal(t, "billing", DetectScope(s))
}

func TestDetectScopeBuildMarkerCaseInsensitive(t *testing.T) {
	s := summaryFor("native/engine/CMakeLists.txt")
	assert.Equal(t, "engine", DetectScope(s))
}

func TestDetectScopeMarkerInGenericDirFallsThrough(t *testing.T) {
	// The marker's own parent is generic, so the common-prefix walk decides.
	s := summaryFor(
		"auth/src/package.json",
		"auth/src/login.ts",
	)
	assert.Equal(t, "auth", DetectScope(s))
}

func TestDetectScopeRootMarkerUsesCommonPrefix(t *testing.T) {
	s := summaryFor(
		"go.mod",
		"parser/lexer.go",
	)
	// A root-level marker has no parent and the files share no directory.
	assert.Empty(t, DetectScope(s))
}

func TestDetectScopeFromCommonPackage(t *testing.T) {
	s := summaryFor(
		"modules/auth/Login.kt",
		"modules/auth/Token.kt",
	)
	assert.Equal(t, "auth", DetectScope(s))
}

func TestDetectScopeSkipsGenericSegments(t *testing.T) {
	s := summaryFor(
		"payments/src/main/kotlin/Charge.kt",
		"payments/src/main/kotlin/Refund.kt",
	)
	assert.Equal(t, "payments", DetectScope(s))
}

func TestDetectScopeAllGenericUsesLastSegmentVerbatim(t *testing.T) {
	s := summaryFor(
		"src/main/App.kt",
		"src/main/Util.kt",
	)
	// Every common segment is generic; the raw fallback still names the
	// deepest shared directory.
	assert.Equal(t, "main", DetectScope(s))
}

func TestDetectScopeNoCommonDirectory(t *testing.T) {
	s := summaryFor(
		"alpha/a.go",
		"beta/b.go",
	)
	assert.Empty(t, DetectScope(s))
}

func TestDetectScopeRootFiles(t *testing.T) {
	s := summaryFor("main.go", "util.go")
	assert.Empty(t, DetectScope(s))
}

func TestDetectScopeSingleFile(t *testing.T) {
	s := summaryFor("internal/scheduler/queue.go")
	assert.Equal(t, "scheduler", DetectScope(s))
}

func TestCommonDirSegments(t *testing.T) {
	s := summaryFor(
		"a/b/c/one.go",
		"a/b/d/two.go",
	)
	assert.Equal(t, []string{"a", "b"}, commonDirSegments(s))

	s = summaryFor("a/b/one.go")
	assert.Equal(t, []string{"a", "b"}, commonDirSegments(s))
}
