package drifty

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newProject creates a temporary project root holding a .git directory
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, RootMarker), 0755))
	return root
}

// writeFile writes content to root/rel, creating parent directories
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// readFile returns the content of path
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// setPaths returns the paths of ps in iteration order
func setPaths(ps *PathSet) []string {
	var paths []string
	ps.ForEach(func(path, _ string, _ bool) bool {
		paths = append(paths, path)
		return true
	})
	return paths
}

// setDirs returns the paths of ps recorded as directories
func setDirs(ps *PathSet) []string {
	var dirs []string
	ps.ForEach(func(path, _ string, isDir bool) bool {
		if isDir {
			dirs = append(dirs, path)
		}
		return true
	})
	return dirs
}
