// Package drifty detects documentation drift: Markdown documents record, in
// their YAML front matter, the files they describe together with a content
// digest taken when the document was last checked against them.
//
// # Front Matter
//
// A tracked document starts with a metadata block like:
//
//	---
//	title: Architecture
//	driftwatcher:
//	  - "src/main.go": 9f2c...ab
//	  - "$ROOT/go.mod": 7ab1...0e
//	---
//
// Parse reads the block; InsertEntry, UpdateEntry, AddEmptyBlock and
// PromoteToTracked return a new document text with a targeted splice, so
// comments, quoting and key ordering the author wrote are left untouched.
//
// # Resolution and Hashing
//
// A PathResolver maps a watch pattern to files. Plain patterns are relative
// to the document's directory, patterns starting with $ROOT/ are relative to
// the project root (the nearest ancestor containing .git). Patterns with
// glob metacharacters are expanded, including ** for any depth:
//
//	resolver, err := drifty.NewPathResolver("docs/design.md")
//	hash, err := resolver.HashPattern("../src/**/*.go")
//
// # Checking for Drift
//
// Evaluate classifies one entry:
//
//	eval := drifty.Evaluate(entry, resolver)
//	switch eval.Status {
//	case drifty.StatusDrifted:
//		text, err = drifty.UpdateEntry(text, entry.Pattern, eval.Current)
//	}
//
// Runner, InitDocument, AddWatch and ApplyUpdates wrap these steps for whole
// directory trees and are what the drifty command uses.
package drifty
