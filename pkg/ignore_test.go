package drifty

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoreManagerMissingFile(t *testing.T) {
	root := t.TempDir()
	im := NewIgnoreManager(root)

	require.NoError(t, im.LoadIgnorePatterns())
	assert.False(t, im.HasPatterns())
	assert.False(t, im.ShouldIgnore("docs/a.md"))

	_, err := os.Stat(filepath.Join(root, DriftyDir))
	assert.True(t, os.IsNotExist(err), "loading must not create the ignore file")
}

func TestIgnoreManagerPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".drifty/ignore", "# header\n\n^vendor/\n  generated\\.md$  \n")

	im := NewIgnoreManager(root)
	require.NoError(t, im.LoadIgnorePatterns())
	assert.Len(t, im.GetPatterns(), 2)

	assert.True(t, im.ShouldIgnore("vendor/x/README.md"))
	assert.True(t, im.ShouldIgnore(filepath.Join("docs", "generated.md")))
	assert.False(t, im.ShouldIgnore("docs/vendor/README.md"))
	assert.True(t, im.ShouldIgnore("c/generated.md"))
	assert.False(t, im.ShouldIgnore("a.md"))
}

func TestIgnoreManagerInvalidPattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".drifty/ignore", "ok\n(unclosed\n")

	err := NewIgnoreManager(root).LoadIgnorePatterns()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestIgnoreManagerSave(t *testing.T) {
	root := t.TempDir()

	im := NewIgnoreManager(root)
	require.NoError(t, im.AddPattern(`^build/`))
	assert.Error(t, im.AddPattern(`[`))
	require.NoError(t, im.SaveIgnorePatterns())

	reloaded := NewIgnoreManager(root)
	require.NoError(t, reloaded.LoadIgnorePatterns())
	require.Len(t, reloaded.GetPatterns(), 1)
	assert.Equal(t, `^build/`, reloaded.GetPatterns()[0].String())
	assert.Equal(t, filepath.Join(root, DriftyDir, IgnoreFileName), reloaded.GetIgnoreFilePath())
}
