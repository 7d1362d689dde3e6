package diff

import "strings"

// moduleMarkerNames are build files whose parent directory usually names the
// module a change belongs to.
var moduleMarkerNames = []string{
	"build.gradle",
	"build.gradle.kts",
	"pom.xml",
	"package.json",
	"cargo.toml",
	"go.mod",
	"cmakelists.txt",
	"setup.py",
	"pyproject.toml",
	"build.sbt",
	"gemfile",
}

// genericDirNames are path segments too generic to serve as a scope.
var genericDirNames = map[string]bool{
	"src":       true,
	"main":      true,
	"java":      true,
	"kotlin":    true,
	"scala":     true,
	"go":        true,
	"resources": true,
	"test":      true,
	"tests":     true,
	"lib":       true,
	"libs":      true,
	"app":       true,
	"apps":      true,
	"pkg":       true,
	"cmd":       true,
	"internal":  true,
	"com":       true,
	"org":       true,
	"net":       true,
	"io":        true,
	"dev":       true,
}

// DetectScope infers a short module name from the changed paths. It tries a
// build-marker strategy, then a common-package strategy, then a raw
// common-directory fallback; empty means no scope was found.
func DetectScope(s Summary) string {
	if s.IsEmpty() {
		return ""
	}
	if scope := moduleMarkerScope(s); scope != "" {
		return scope
	}
	if scope := packageScope(s); scope != "" {
		return scope
	}
	return commonDirectoryScope(s)
}

func isModuleMarker(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range moduleMarkerNames {
		if lower == marker {
			return true
		}
	}
	return false
}

// moduleMarkerScope names the scope after the directory holding a touched
// build file, falling back to the deepest non-generic common path segment.
func moduleMarkerScope(s Summary) string {
	for _, fd := range s.Files {
		if !isModuleMarker(fd.FileName()) {
			continue
		}
		parent := lastSegment(fd.Directory())
		if parent != "" && !genericDirNames[strings.ToLower(parent)] {
			return parent
		}
	}
	common := commonDirSegments(s)
	for i := len(common) - 1; i >= 0; i-- {
		if !genericDirNames[strings.ToLower(common[i])] {
			return common[i]
		}
	}
	return ""
}

// packageScope walks the segment-wise common prefix of all directories and
// returns its last non-generic segment.
func packageScope(s Summary) string {
	common := commonDirSegments(s)
	for i := len(common) - 1; i >= 0; i-- {
		if !genericDirNames[strings.ToLower(common[i])] {
			return common[i]
		}
	}
	return ""
}

// commonDirectoryScope returns the final common path segment verbatim.
func commonDirectoryScope(s Summary) string {
	common := commonDirSegments(s)
	if len(common) == 0 {
		return ""
	}
	return common[len(common)-1]
}

// commonDirSegments computes the longest segment-wise common prefix of every
// file's directory, stopping at the first mismatch.
func commonDirSegments(s Summary) []string {
	var common []string
	for i, fd := range s.Files {
		segments := splitSegments(fd.Directory())
		if i == 0 {
			common = segments
			continue
		}
		limit := len(common)
		if len(segments) < limit {
			limit = len(segments)
		}
		matched := 0
		for matched < limit && common[matched] == segments[matched] {
			matched++
		}
		common = common[:matched]
		if len(common) == 0 {
			return nil
		}
	}
	return common
}

func splitSegments(dir string) []string {
	if dir == "" {
		return nil
	}
	return strings.Split(dir, "/")
}

func lastSegment(dir string) string {
	segments := splitSegments(dir)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}
