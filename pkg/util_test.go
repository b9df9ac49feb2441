package drifty

import (
	"path/filepath"
	"testing"
)

func TestIsPathUnder(t *testing.T) {
	tests := []struct {
		child    string
		parent   string
		expected bool
	}{
		{"/repo", "/repo", true},
		{"/repo/docs/a.md", "/repo", true},
		{"/repo-other/a.md", "/repo", false},
		{"/elsewhere", "/repo", false},
		{"/repo/../x", "/repo", false},
		{"/repo/..data/a.md", "/repo", true},
	}

	for _, tt := range tests {
		child, parent := filepath.FromSlash(tt.child), filepath.FromSlash(tt.parent)
		if got := isPathUnder(child, parent); got != tt.expected {
			t.Errorf("isPathUnder(%q, %q) = %v, expected %v", tt.child, tt.parent, got, tt.expected)
		}
	}
}

func TestPathLabel(t *testing.T) {
	tests := []struct {
		base     string
		path     string
		expected string
	}{
		{"/repo", "/repo/src/a.go", "src/a.go"},
		{"/repo/docs", "/repo/src/a.go", "../src/a.go"},
		{"/repo", "/repo", "."},
		{"docs", "/abs/file", "/abs/file"},
	}

	for _, tt := range tests {
		got := pathLabel(filepath.FromSlash(tt.base), filepath.FromSlash(tt.path))
		if got != tt.expected {
			t.Errorf("pathLabel(%q, %q) = %q, expected %q", tt.base, tt.path, got, tt.expected)
		}
	}
}
