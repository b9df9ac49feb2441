package drifty

import (
	"fmt"
)

// Status is the drift state of one watch entry
type Status int

const (
	StatusCurrent Status = iota
	StatusDrifted
	StatusMissing
	StatusInvalid
)

// String returns the upper-case name used in reports
func (s Status) String() string {
	switch s {
	case StatusCurrent:
		return "CURRENT"
	case StatusDrifted:
		return "DRIFTED"
	case StatusMissing:
		return "MISSING"
	case StatusInvalid:
		return "INVALID"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// IsProblem returns true for states that should fail a CI run
func (s Status) IsProblem() bool {
	return s == StatusDrifted || s == StatusMissing
}

// MarshalText renders the status by name for JSON and YAML output
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Evaluation is the outcome of checking one entry. Current holds the live
// digest whenever it could be computed, so a drifted entry can be persisted
// without hashing again.
type Evaluation struct {
	Status  Status
	Current string
	Err     error // Why the entry is missing, when it is
}

// Evaluate classifies entry against the filesystem. The hash-presence check
// runs before resolution, so an un-hashed entry is INVALID even when its
// pattern matches nothing.
func Evaluate(entry WatchEntry, resolver *PathResolver) Evaluation {
	if !entry.HasHash() {
		return Evaluation{Status: StatusInvalid}
	}

	paths, err := resolver.Resolve(entry.Pattern)
	if err != nil {
		return Evaluation{Status: StatusMissing, Err: err}
	}
	if paths.IsEmpty() {
		return Evaluation{Status: StatusMissing, Err: fmt.Errorf("%w: %s", ErrNoMatch, entry.Pattern)}
	}

	current, err := resolver.HashPattern(entry.Pattern)
	if err != nil {
		return Evaluation{Status: StatusMissing, Err: err}
	}

	if current == entry.HashValue() {
		return Evaluation{Status: StatusCurrent, Current: current}
	}
	VerboseLog(2, "Drift in %s: stored %s, current %s", entry.Pattern, entry.HashValue(), current)
	return Evaluation{Status: StatusDrifted, Current: current}
}
