package drifty

import (
	"errors"
	"fmt"
	"os"
)

// InitOutcome describes what InitDocument did to a document
type InitOutcome int

const (
	InitAlreadyTracked InitOutcome = iota // Block already held the tracked key
	InitPromoted                          // Tracked key added to an existing block
	InitCreated                           // New block prepended
)

func (o InitOutcome) String() string {
	switch o {
	case InitAlreadyTracked:
		return "already initialised"
	case InitPromoted:
		return "added to existing front matter"
	case InitCreated:
		return "initialised"
	default:
		return fmt.Sprintf("InitOutcome(%d)", int(o))
	}
}

// Runner carries the settings shared by the batch workflows
type Runner struct {
	hasher *Hasher
}

// NewRunner creates a runner hashing with h, or SHA-256 when h is nil
func NewRunner(h *Hasher) *Runner {
	if h == nil {
		h = DefaultHasher()
	}
	return &Runner{hasher: h}
}

// Hasher returns the runner's hasher
func (r *Runner) Hasher() *Hasher {
	return r.hasher
}

// resolver builds a path resolver for the document at docPath
func (r *Runner) resolver(docPath string) (*PathResolver, error) {
	resolver, err := NewPathResolver(docPath)
	if err != nil {
		return nil, err
	}
	return resolver.WithHasher(r.hasher), nil
}

// readBlock reads a document and parses its block
func readBlock(path string) (string, *Block, error) {
	text, err := ReadDocument(path)
	if err != nil {
		return "", nil, err
	}
	block, err := Parse(text)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return text, block, nil
}

// InitDocument makes sure the document at path carries a tracked block
func (r *Runner) InitDocument(path string) (InitOutcome, error) {
	defer VerboseEnter()()

	if _, err := os.Stat(path); err != nil {
		return 0, ioError("access", path, err)
	}

	text, block, err := readBlock(path)
	if err != nil {
		return 0, err
	}

	switch {
	case block != nil && block.HasTrackedBlock():
		return InitAlreadyTracked, nil

	case block != nil:
		promoted, err := PromoteToTracked(text)
		if err != nil {
			return 0, err
		}
		// Write the untouched halves around the inserted key
		insert := len(promoted) - len(text)
		if err := WriteDocument(path, text[:block.CloseStart], promoted[block.CloseStart:block.CloseStart+insert], text[block.CloseStart:]); err != nil {
			return 0, err
		}
		VerboseLog(1, "Promoted front matter in %s", path)
		return InitPromoted, nil

	default:
		if err := WriteDocument(path, emptyBlock(lineEnding(text)), text); err != nil {
			return 0, err
		}
		VerboseLog(1, "Created front matter in %s", path)
		return InitCreated, nil
	}
}

// AddResult describes a newly watched pattern
type AddResult struct {
	Pattern   string
	Hash      string
	FileCount int // Paths the pattern resolved to
}

// AddWatch hashes pattern and records it as the first entry of the
// document's tracked block
func (r *Runner) AddWatch(path, pattern string) (*AddResult, error) {
	defer VerboseEnter()()

	if _, err := os.Stat(path); err != nil {
		return nil, ioError("access", path, err)
	}

	text, block, err := readBlock(path)
	if err != nil {
		return nil, err
	}
	if block == nil || !block.HasTrackedBlock() {
		return nil, fmt.Errorf("%w: %s (run 'drifty init %s' first)", ErrNotInitialised, path, path)
	}
	if _, exists := block.FindEntry(pattern); exists {
		return nil, fmt.Errorf("%w: '%s' in %s", ErrDuplicateEntry, pattern, path)
	}

	resolver, err := r.resolver(path)
	if err != nil {
		return nil, err
	}
	paths, err := resolver.Resolve(pattern)
	if err != nil {
		return nil, err
	}
	if paths.IsEmpty() {
		return nil, fmt.Errorf("%w: '%s'", ErrNoMatch, pattern)
	}

	hash, err := resolver.HashPattern(pattern)
	if err != nil {
		return nil, err
	}

	updated, err := InsertEntry(text, pattern, hash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := WriteDocument(path, updated); err != nil {
		return nil, err
	}

	VerboseLog(1, "Added %s to %s (%d path(s))", pattern, path, paths.Len())
	return &AddResult{Pattern: pattern, Hash: hash, FileCount: paths.Len()}, nil
}

// EntryResult is the evaluated state of one watch entry
type EntryResult struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Status  Status `json:"status" yaml:"status"`
	Stored  string `json:"stored,omitempty" yaml:"stored,omitempty"`
	Current string `json:"current,omitempty" yaml:"current,omitempty"`
}

// DocumentResult holds the entry results of one tracked document
type DocumentResult struct {
	Path    string
	Entries []EntryResult
}

// DocumentWarning records a document that could not be processed
type DocumentWarning struct {
	Path string
	Err  error
}

func (w DocumentWarning) Error() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// Counts tallies entry states over a run
type Counts struct {
	Current int
	Drifted int
	Missing int
	Invalid int
}

// RunResult is the outcome of evaluating a set of documents
type RunResult struct {
	Documents []DocumentResult
	Warnings  []DocumentWarning
}

// Counts returns the number of entries in each state
func (rr *RunResult) Counts() Counts {
	var c Counts
	for _, doc := range rr.Documents {
		for _, entry := range doc.Entries {
			switch entry.Status {
			case StatusCurrent:
				c.Current++
			case StatusDrifted:
				c.Drifted++
			case StatusMissing:
				c.Missing++
			case StatusInvalid:
				c.Invalid++
			}
		}
	}
	return c
}

// HasProblems returns true if any entry drifted or is missing
func (rr *RunResult) HasProblems() bool {
	for _, doc := range rr.Documents {
		for _, entry := range doc.Entries {
			if entry.Status.IsProblem() {
				return true
			}
		}
	}
	return false
}

// Drifted returns an update for every drifted entry, in document order
func (rr *RunResult) Drifted() []Update {
	var updates []Update
	for _, doc := range rr.Documents {
		for _, entry := range doc.Entries {
			if entry.Status == StatusDrifted {
				updates = append(updates, Update{DocPath: doc.Path, Pattern: entry.Pattern, Hash: entry.Current})
			}
		}
	}
	return updates
}

// Evaluate checks every entry of every tracked document in docs. Documents
// without a tracked block are skipped; failing documents become warnings.
func (r *Runner) Evaluate(docs []string) *RunResult {
	defer VerboseEnter()()

	result := &RunResult{}
	for _, docPath := range docs {
		_, block, err := readBlock(docPath)
		if err != nil {
			result.Warnings = append(result.Warnings, DocumentWarning{Path: docPath, Err: err})
			continue
		}
		if block == nil || !block.HasTrackedBlock() {
			DebugLog(DebugScan, "skipping untracked document %s", docPath)
			continue
		}

		resolver, err := r.resolver(docPath)
		if err != nil {
			result.Warnings = append(result.Warnings, DocumentWarning{Path: docPath, Err: err})
			continue
		}

		doc := DocumentResult{Path: docPath, Entries: make([]EntryResult, 0, len(block.Entries))}
		for _, entry := range block.Entries {
			eval := Evaluate(entry, resolver)
			if eval.Err != nil {
				VerboseLog(2, "%s: %s: %v", docPath, entry.Pattern, eval.Err)
			}
			doc.Entries = append(doc.Entries, EntryResult{
				Pattern: entry.Pattern,
				Status:  eval.Status,
				Stored:  entry.HashValue(),
				Current: eval.Current,
			})
		}
		result.Documents = append(result.Documents, doc)
	}

	VerboseLog(1, "Evaluated %d tracked document(s), %d warning(s)", len(result.Documents), len(result.Warnings))
	return result
}

// Update is a new digest to persist for one entry
type Update struct {
	DocPath string
	Pattern string
	Hash    string
}

// ApplyUpdates writes updates back to their documents. Updates are grouped by
// document in first-seen order and applied in sequence, so each document is
// read and written once. It returns the number of entries written.
func ApplyUpdates(updates []Update) (int, error) {
	defer VerboseEnter()()

	var order []string
	grouped := make(map[string][]Update)
	for _, update := range updates {
		if _, seen := grouped[update.DocPath]; !seen {
			order = append(order, update.DocPath)
		}
		grouped[update.DocPath] = append(grouped[update.DocPath], update)
	}

	applied := 0
	for _, docPath := range order {
		text, err := ReadDocument(docPath)
		if err != nil {
			return applied, err
		}

		for _, update := range grouped[docPath] {
			text, err = UpdateEntry(text, update.Pattern, update.Hash)
			if err != nil {
				return applied, fmt.Errorf("%s: %w", docPath, err)
			}
		}

		if err := WriteDocument(docPath, text); err != nil {
			return applied, err
		}
		applied += len(grouped[docPath])
		VerboseLog(1, "Updated %d entr(ies) in %s", len(grouped[docPath]), docPath)
	}
	return applied, nil
}

// ValidationIssue is one problem found by Validate
type ValidationIssue struct {
	Path    string
	Pattern string // Empty for document-level problems
	Message string
}

func (vi ValidationIssue) String() string {
	if vi.Pattern == "" {
		return fmt.Sprintf("%s: %s", vi.Path, vi.Message)
	}
	return fmt.Sprintf("%s: Pattern '%s' %s", vi.Path, vi.Pattern, vi.Message)
}

// ValidationResult is the outcome of validating a set of documents
type ValidationResult struct {
	Checked int // Tracked documents examined
	Issues  []ValidationIssue
}

// Valid returns true if no issues were found
func (vr *ValidationResult) Valid() bool {
	return len(vr.Issues) == 0
}

// Validate checks the tracked blocks of docs without hashing any content.
// Parse failures, resolver failures, missing or malformed hashes and patterns
// that match nothing are reported as issues.
func (r *Runner) Validate(docs []string) *ValidationResult {
	defer VerboseEnter()()

	result := &ValidationResult{}
	for _, docPath := range docs {
		_, block, err := readBlock(docPath)
		if err != nil {
			msg := err.Error()
			if errors.Is(err, ErrParse) {
				msg = "Invalid YAML - " + errors.Unwrap(err).Error()
			}
			result.Issues = append(result.Issues, ValidationIssue{Path: docPath, Message: msg})
			continue
		}
		if block == nil || !block.HasTrackedBlock() {
			continue
		}
		result.Checked++

		resolver, err := r.resolver(docPath)
		if err != nil {
			result.Issues = append(result.Issues, ValidationIssue{Path: docPath, Message: err.Error()})
			continue
		}

		for _, entry := range block.Entries {
			issue := func(msg string) {
				result.Issues = append(result.Issues, ValidationIssue{Path: docPath, Pattern: entry.Pattern, Message: msg})
			}

			if !entry.HasHash() {
				issue("has no hash")
			} else if err := r.hasher.ValidateDigest(entry.HashValue()); err != nil {
				algorithm := r.hasher.Algorithm()
				issue(fmt.Sprintf("has a malformed %s hash (expected %d hex characters): %v", algorithm.Name, algorithm.HexSize(), err))
			}

			paths, err := resolver.Resolve(entry.Pattern)
			switch {
			case err != nil:
				issue(fmt.Sprintf("- %v", err))
			case paths.IsEmpty():
				issue("matches no files")
			}
		}
	}
	return result
}
