package drifty

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDocumentsWalksSorted(t *testing.T) {
	root := newProject(t)
	writeFile(t, root, "README.md", "")
	writeFile(t, root, "docs/b.markdown", "")
	writeFile(t, root, "docs/a.MD", "")
	writeFile(t, root, "docs/deep/c.md", "")
	writeFile(t, root, "docs/notes.txt", "")
	writeFile(t, root, ".github/hidden.md", "")
	writeFile(t, root, "docs/.drafts/draft.md", "")
	writeFile(t, root, "docs/.secret.md", "")

	docs, err := FindDocuments(root, DefaultScanOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "README.md"),
		filepath.Join(root, "docs", "a.MD"),
		filepath.Join(root, "docs", "b.markdown"),
		filepath.Join(root, "docs", "deep", "c.md"),
	}, docs)
}

func TestFindDocumentsSingleFile(t *testing.T) {
	root := newProject(t)
	doc := writeFile(t, root, "guide.md", "")
	other := writeFile(t, root, "main.go", "")

	docs, err := FindDocuments(doc, DefaultScanOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{doc}, docs)

	_, err = FindDocuments(other, DefaultScanOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotDocument))
}

func TestFindDocumentsMissingTarget(t *testing.T) {
	_, err := FindDocuments(filepath.Join(t.TempDir(), "missing"), DefaultScanOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
}

func TestFindDocumentsCustomExtensions(t *testing.T) {
	root := newProject(t)
	writeFile(t, root, "a.md", "")
	mdx := writeFile(t, root, "b.mdx", "")

	docs, err := FindDocuments(root, ScanOptions{Extensions: []string{"mdx"}})
	require.NoError(t, err)
	assert.Equal(t, []string{mdx}, docs)
}

func TestFindDocumentsIgnorePatterns(t *testing.T) {
	root := newProject(t)
	keep := writeFile(t, root, "docs/keep.md", "")
	writeFile(t, root, "vendor/lib/README.md", "")
	writeFile(t, root, "docs/CHANGELOG.md", "")
	writeFile(t, root, DriftyDir+"/ignore", "# comment\n^vendor/\nCHANGELOG\\.md$\n")

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	opts, err := ScanOptionsFromConfig(cfg, root)
	require.NoError(t, err)

	docs, err := FindDocuments(root, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, docs)

	// Ignore patterns stay relative to the project root for sub-targets
	docs, err = FindDocuments(filepath.Join(root, "docs"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, docs)
}

func TestFindDocumentsSkipsDirectorySymlinks(t *testing.T) {
	root := newProject(t)
	doc := writeFile(t, root, "docs/a.md", "")
	require.NoError(t, os.Symlink(filepath.Join(root, "docs"), filepath.Join(root, "docs", "loop")))

	docs, err := FindDocuments(root, DefaultScanOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{doc}, docs)
}

func TestInsertSorted(t *testing.T) {
	got := insertSorted([]string{"a", "d"}, []string{"e", "b", "c"})
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
	assert.Equal(t, []string{"x"}, insertSorted(nil, []string{"x"}))
	assert.Equal(t, []string{"x"}, insertSorted([]string{"x"}, nil))
}
