package drifty

import (
	"os"
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// Contexts recorded for each path in a PathSet
const (
	FileContext = "file"
	DirContext  = "dir"
)

// resolvedPath is a single filesystem entry produced by pattern resolution
type resolvedPath struct {
	Path  string // Path as joined from the resolution base
	Label string // Slash-separated path relative to the resolution base
}

// PathSet is a sorted, de-duplicated set of resolved paths. Each path carries
// a context telling whether it named a directory when it was resolved.
type PathSet struct {
	skiplist *zcsl.ZeroCopySkiplist[resolvedPath, string, string]
}

// NewPathSet creates an empty path set
func NewPathSet() *PathSet {
	getKeyFromItem := func(item *resolvedPath) string {
		return item.Path
	}

	getItemSize := func(item *resolvedPath) int {
		return len(item.Path)
	}

	cmpKey := func(a, b string) int {
		return strings.Compare(a, b)
	}

	return &PathSet{
		skiplist: zcsl.MakeZeroCopySkiplist[resolvedPath, string, string](
			16,
			getKeyFromItem,
			getItemSize,
			cmpKey,
		),
	}
}

// Add inserts path, stat'ing it to record whether it is a directory.
// It returns false when the path is already present.
func (ps *PathSet) Add(path, label string) bool {
	if ps.Contains(path) {
		return false
	}
	context := FileContext
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		context = DirContext
	}
	return ps.skiplist.Insert(&resolvedPath{Path: path, Label: label}, context)
}

// Contains reports whether path is in the set
func (ps *PathSet) Contains(path string) bool {
	item, _ := ps.skiplist.Find(path)
	return item != nil
}

// Len returns the number of paths in the set
func (ps *PathSet) Len() int {
	return ps.skiplist.Length()
}

// IsEmpty returns true if the set holds no paths
func (ps *PathSet) IsEmpty() bool {
	return ps.skiplist.IsEmpty()
}

// ForEach iterates through all paths in sorted order with a callback
func (ps *PathSet) ForEach(callback func(path, label string, isDir bool) bool) {
	for current := ps.skiplist.First(); current != nil; current = current.Next() {
		item := current.Item()
		if !callback(item.Path, item.Label, current.Context() == DirContext) {
			break
		}
	}
}

// Files returns the set without its directories
func (ps *PathSet) Files() *PathSet {
	result := NewPathSet()
	for current := ps.skiplist.First(); current != nil; current = current.Next() {
		if current.Context() != DirContext {
			item := *current.Item()
			result.skiplist.Insert(&item, current.Context())
		}
	}
	return result
}

// hashInputs returns the set as labelled digest inputs
func (ps *PathSet) hashInputs() []hashInput {
	inputs := make([]hashInput, 0, ps.Len())
	ps.ForEach(func(path, label string, _ bool) bool {
		inputs = append(inputs, hashInput{Path: path, Label: label})
		return true
	})
	return inputs
}
