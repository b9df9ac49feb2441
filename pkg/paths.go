package drifty

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PathResolver resolves watch patterns relative to a document
type PathResolver struct {
	docDir      string
	projectRoot string
	hasher      *Hasher
}

// NewPathResolver creates a resolver for the document at docPath, discovering
// the project root from the document's directory
func NewPathResolver(docPath string) (*PathResolver, error) {
	docDir := filepath.Dir(docPath)
	if docDir == "" {
		docDir = "."
	}

	projectRoot, err := FindProjectRoot(docDir)
	if err != nil {
		return nil, err
	}

	return &PathResolver{
		docDir:      docDir,
		projectRoot: projectRoot,
		hasher:      DefaultHasher(),
	}, nil
}

// WithHasher returns a copy of the resolver that hashes with h
func (pr *PathResolver) WithHasher(h *Hasher) *PathResolver {
	clone := *pr
	clone.hasher = h
	return &clone
}

// split returns the base directory and sub-pattern for a watch pattern
func (pr *PathResolver) split(pattern string) (string, string) {
	if stripped, ok := strings.CutPrefix(pattern, RootPrefix); ok {
		return pr.projectRoot, stripped
	}
	return pr.docDir, pattern
}

// Resolve expands a watch pattern into the set of paths it names. A literal
// pattern that does not exist resolves to an empty set, not an error.
func (pr *PathResolver) Resolve(pattern string) (*PathSet, error) {
	base, subPattern := pr.split(pattern)
	fullPattern := filepath.Join(base, subPattern)
	result := NewPathSet()

	if !isGlobPattern(subPattern) {
		if _, err := os.Stat(fullPattern); err == nil {
			result.Add(fullPattern, pathLabel(base, fullPattern))
		} else if !errors.Is(err, os.ErrNotExist) {
			DebugLog(DebugResolve, "stat %s: %v", fullPattern, err)
		}
		VerboseLog(2, "Resolved literal %s to %d path(s)", pattern, result.Len())
		return result, nil
	}

	matches, err := globFiles(fullPattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadPattern, pattern, err)
	}

	for _, match := range matches {
		label := pathLabel(base, match)
		if isHidden(label) {
			DebugLog(DebugResolve, "skipping hidden match %s", match)
			continue
		}
		result.Add(match, label)
	}

	VerboseLog(2, "Resolved glob %s to %d path(s)", pattern, result.Len())
	return result, nil
}

// HashPattern computes the digest for a pattern. A single directory is hashed
// recursively, a single file by content, and several matches as a multi-file
// digest of the files among them.
func (pr *PathResolver) HashPattern(pattern string) (string, error) {
	defer VerboseEnter()()

	paths, err := pr.Resolve(pattern)
	if err != nil {
		return "", err
	}

	if paths.IsEmpty() {
		return "", fmt.Errorf("%w: %s", ErrNoMatch, pattern)
	}

	if paths.Len() == 1 {
		var hash string
		paths.ForEach(func(path, label string, isDir bool) bool {
			if isDir {
				hash, err = pr.hasher.hashDirectoryLabelled(path, label)
			} else {
				hash, err = pr.hasher.HashFile(path)
			}
			return false
		})
		return hash, err
	}

	files := paths.Files()
	if files.IsEmpty() {
		return "", fmt.Errorf("%w: %s", ErrNoMatch, pattern)
	}
	return pr.hasher.hashInputs(files.hashInputs())
}

// globFS is the filesystem the glob engine walks. Directories it cannot read
// are skipped by the engine; they are reported here first.
type globFS struct {
	fsys fs.FS
	base string
}

func (g globFS) Open(name string) (fs.File, error) {
	return g.fsys.Open(name)
}

func (g globFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := fs.ReadDir(g.fsys, name)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		DebugLog(DebugResolve, "skipping unreadable directory %s: %v", filepath.Join(g.base, name), err)
	}
	return entries, err
}

func (g globFS) Stat(name string) (fs.FileInfo, error) {
	info, err := fs.Stat(g.fsys, name)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		DebugLog(DebugResolve, "skipping %s: %v", filepath.Join(g.base, name), err)
	}
	return info, err
}

// globFiles expands a filesystem glob pattern into matching paths joined onto
// the pattern's literal directory prefix
func globFiles(pattern string) ([]string, error) {
	base, sub := doublestar.SplitPattern(filepath.ToSlash(filepath.Clean(pattern)))
	base = filepath.FromSlash(base)

	matches, err := doublestar.Glob(globFS{fsys: os.DirFS(base), base: base}, sub)
	if err != nil {
		return nil, err
	}
	for i, match := range matches {
		matches[i] = filepath.Join(base, filepath.FromSlash(match))
	}
	return matches, nil
}
