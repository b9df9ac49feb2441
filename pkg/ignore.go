package drifty

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const ignoreFileHeader = `# drifty ignore patterns
#
# Regular expressions matched against document paths relative to the
# project root, with forward slashes. Matching documents are skipped by
# check, report and validate.
#
# Examples:
# ^vendor/              # Skip vendored documentation
# CHANGELOG\.md$        # Skip generated changelogs

`

// IgnoreManager holds the document ignore patterns of a project
type IgnoreManager struct {
	ignorePath string
	patterns   []*regexp.Regexp
	loaded     bool
}

// NewIgnoreManager creates an ignore manager for the project rooted at projectRoot
func NewIgnoreManager(projectRoot string) *IgnoreManager {
	return &IgnoreManager{
		ignorePath: filepath.Join(projectRoot, DriftyDir, IgnoreFileName),
		patterns:   make([]*regexp.Regexp, 0),
	}
}

// LoadIgnorePatterns loads ignore patterns from the ignore file. A missing
// file means no patterns.
func (im *IgnoreManager) LoadIgnorePatterns() error {
	if im.loaded {
		return nil
	}

	file, err := os.Open(im.ignorePath)
	if os.IsNotExist(err) {
		im.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pattern, err := regexp.Compile(line)
		if err != nil {
			return fmt.Errorf("invalid regex pattern at line %d: %s - %w", lineNum, line, err)
		}

		im.patterns = append(im.patterns, pattern)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ignore file: %w", err)
	}

	VerboseLog(2, "Loaded %d ignore pattern(s) from %s", len(im.patterns), im.ignorePath)
	im.loaded = true
	return nil
}

// ShouldIgnore checks if a root-relative path matches any pattern
func (im *IgnoreManager) ShouldIgnore(relativePath string) bool {
	if !im.loaded {
		if err := im.LoadIgnorePatterns(); err != nil {
			return false
		}
	}

	normalisedPath := filepath.ToSlash(relativePath)

	for _, pattern := range im.patterns {
		if pattern.MatchString(normalisedPath) {
			DebugLog(DebugScan, "%s ignored by %s", normalisedPath, pattern)
			return true
		}
	}

	return false
}

// AddPattern adds a new ignore pattern
func (im *IgnoreManager) AddPattern(patternStr string) error {
	pattern, err := regexp.Compile(patternStr)
	if err != nil {
		return fmt.Errorf("invalid regex pattern: %s - %w", patternStr, err)
	}

	im.patterns = append(im.patterns, pattern)
	return nil
}

// SaveIgnorePatterns writes the current patterns to the ignore file
func (im *IgnoreManager) SaveIgnorePatterns() error {
	if err := os.MkdirAll(filepath.Dir(im.ignorePath), 0755); err != nil {
		return fmt.Errorf("failed to create ignore directory: %w", err)
	}

	var b strings.Builder
	b.WriteString(ignoreFileHeader)
	for _, pattern := range im.patterns {
		b.WriteString(pattern.String())
		b.WriteString("\n")
	}

	return WriteDocument(im.ignorePath, b.String())
}

// GetPatterns returns all loaded patterns
func (im *IgnoreManager) GetPatterns() []*regexp.Regexp {
	if !im.loaded {
		im.LoadIgnorePatterns()
	}
	return im.patterns
}

// HasPatterns returns true if there are any ignore patterns loaded
func (im *IgnoreManager) HasPatterns() bool {
	return len(im.GetPatterns()) > 0
}

// GetIgnoreFilePath returns the path to the ignore file
func (im *IgnoreManager) GetIgnoreFilePath() string {
	return im.ignorePath
}
