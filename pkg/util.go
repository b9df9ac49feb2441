package drifty

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindProjectRoot walks up from startDir until a directory containing the
// root marker is found. A relative startDir is taken from the working directory.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path of %s: %w", startDir, err)
	}
	start := dir

	for {
		// .git may be a file in worktrees and submodules
		if _, err := os.Stat(filepath.Join(dir, RootMarker)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w starting from %s", ErrProjectRootNotFound, start)
}

// isGlobPattern reports whether the pattern contains glob metacharacters
func isGlobPattern(pattern string) bool {
	return strings.ContainsAny(pattern, globMetaChars)
}

// isHidden reports whether any segment of path starts with "." other than
// the "." and ".." segments
func isHidden(path string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(segment, ".") && segment != "." && segment != ".." {
			return true
		}
	}
	return false
}

// isPathUnder reports whether childPath is parentPath or lies below it
func isPathUnder(childPath, parentPath string) bool {
	rel, err := filepath.Rel(parentPath, childPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// pathLabel returns the slash-separated form of path relative to base, or
// path itself when it cannot be made relative
func pathLabel(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
