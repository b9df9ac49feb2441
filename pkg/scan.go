package drifty

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// ScanOptions controls document discovery
type ScanOptions struct {
	Extensions []string       // Document extensions without the dot, matched case-insensitively
	Ignore     *IgnoreManager // Optional ignore patterns
	Root       string         // Base for ignore matching, usually the project root
}

// DefaultScanOptions returns options for the default document extensions
func DefaultScanOptions() ScanOptions {
	return ScanOptions{Extensions: DefaultExtensions}
}

// ScanOptionsFromConfig builds discovery options for the project at root
func ScanOptionsFromConfig(cfg *Config, root string) (ScanOptions, error) {
	opts := ScanOptions{
		Extensions: cfg.GetScanConfig().Extensions,
		Root:       root,
	}
	if root != "" {
		opts.Ignore = NewIgnoreManager(root)
		if err := opts.Ignore.LoadIgnorePatterns(); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// isDocument reports whether name carries one of the document extensions
func (opts ScanOptions) isDocument(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return false
	}
	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return slices.Contains(extensions, ext)
}

// ignored reports whether path matches an ignore pattern. Paths outside the
// ignore root are matched relative to scanRoot instead.
func (opts ScanOptions) ignored(path, scanRoot string) bool {
	if opts.Ignore == nil {
		return false
	}
	base := scanRoot
	if opts.Root != "" && isPathUnder(path, opts.Root) {
		base = opts.Root
	}
	return opts.Ignore.ShouldIgnore(pathLabel(base, path))
}

// FindDocuments returns the documents named by target in sorted order. A file
// target must carry a document extension. A directory target is walked
// without following hidden entries.
func FindDocuments(target string, opts ScanOptions) ([]string, error) {
	defer VerboseEnter()()

	info, err := os.Stat(target)
	if err != nil {
		return nil, ioError("access", target, err)
	}

	if !info.IsDir() {
		if !opts.isDocument(target) {
			return nil, fmt.Errorf("%w: %s", ErrNotDocument, target)
		}
		return []string{target}, nil
	}

	var documents []string
	pathQueue := []string{target}

	for len(pathQueue) > 0 {
		currentPath := pathQueue[0]
		pathQueue = pathQueue[1:]

		entries, err := os.ReadDir(currentPath)
		if err != nil {
			if currentPath == target {
				return nil, ioError("read directory", currentPath, err)
			}
			VerboseLog(1, "Skipping unreadable directory %s: %v", currentPath, err)
			continue
		}

		var subdirs []string
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}

			fullPath := filepath.Join(currentPath, entry.Name())
			if opts.ignored(fullPath, target) {
				continue
			}

			info, err := os.Stat(fullPath)
			if err != nil {
				DebugLog(DebugScan, "skipping %s: %v", fullPath, err)
				continue
			}

			if info.IsDir() {
				if entry.Type()&os.ModeSymlink != 0 {
					// Directory symlinks are not followed, they can form cycles
					DebugLog(DebugScan, "not following directory symlink %s", fullPath)
					continue
				}
				subdirs = append(subdirs, fullPath)
			} else if info.Mode().IsRegular() && opts.isDocument(entry.Name()) {
				DebugLog(DebugScan, "found document %s", fullPath)
				documents = append(documents, fullPath)
			}
		}
		pathQueue = insertSorted(pathQueue, subdirs)
	}

	sort.Strings(documents)
	VerboseLog(2, "Found %d document(s) below %s", len(documents), target)
	return documents, nil
}

// insertSorted merges newPaths into the sorted slice existing
func insertSorted(existing []string, newPaths []string) []string {
	if len(newPaths) == 0 {
		return existing
	}
	sort.Strings(newPaths)
	if len(existing) == 0 {
		return newPaths
	}

	result := make([]string, 0, len(existing)+len(newPaths))
	i, j := 0, 0
	for i < len(existing) && j < len(newPaths) {
		if existing[i] <= newPaths[j] {
			result = append(result, existing[i])
			i++
		} else {
			result = append(result, newPaths[j])
			j++
		}
	}
	result = append(result, existing[i:]...)
	result = append(result, newPaths[j:]...)
	return result
}
