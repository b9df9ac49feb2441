package drifty

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// WatchEntry is one tracked pattern and the digest recorded for it
type WatchEntry struct {
	Pattern string
	Hash    *string // nil until the pattern has been hashed
}

// HasHash returns true if a digest has been recorded
func (e WatchEntry) HasHash() bool {
	return e.Hash != nil
}

// HashValue returns the recorded digest, or "" when there is none
func (e WatchEntry) HashValue() string {
	if e.Hash == nil {
		return ""
	}
	return *e.Hash
}

// Block is the parsed metadata block at the top of a document. Offsets index
// into the document text the block was parsed from.
type Block struct {
	Entries    []WatchEntry
	RawBody    string // Text between the delimiter lines, other keys included
	BodyStart  int    // Offset of the first byte after the opening line
	CloseStart int    // Offset of the closing delimiter line
	EndOffset  int    // Offset immediately after the closing delimiter
}

// HasTrackedBlock returns true if the block holds entries or the tracked key,
// so an initialised but empty list still counts as tracked
func (b *Block) HasTrackedBlock() bool {
	return len(b.Entries) > 0 || strings.Contains(b.RawBody, trackedMarker)
}

// FindEntry returns the first entry for pattern
func (b *Block) FindEntry(pattern string) (WatchEntry, bool) {
	for _, entry := range b.Entries {
		if entry.Pattern == pattern {
			return entry, true
		}
	}
	return WatchEntry{}, false
}

// Parse reads the metadata block of a document. It returns nil when the
// document does not start with a block.
func Parse(text string) (*Block, error) {
	defer VerboseEnter()()

	bodyStart, ok := openingLine(text)
	if !ok {
		return nil, nil
	}

	closeStart, closeLen := -1, 0
	for pos := bodyStart; pos < len(text); {
		line, next := lineAt(text, pos)
		if isDelimiter(line) {
			closeStart, closeLen = pos, len(line)
			break
		}
		pos = next
	}
	if closeStart < 0 {
		return nil, ErrMalformedBlock
	}

	// The line break ahead of the closing delimiter belongs to neither side
	rawEnd := closeStart
	if rawEnd > bodyStart {
		rawEnd--
		if rawEnd > bodyStart && text[rawEnd-1] == '\r' {
			rawEnd--
		}
	}
	raw := text[bodyStart:rawEnd]

	entries, err := parseEntries(raw)
	if err != nil {
		return nil, err
	}

	DebugLog(DebugFrontmatter, "parsed block [%d,%d) with %d entries", bodyStart, closeStart, len(entries))
	return &Block{
		Entries:    entries,
		RawBody:    raw,
		BodyStart:  bodyStart,
		CloseStart: closeStart,
		EndOffset:  closeStart + closeLen,
	}, nil
}

// ParseFile reads and parses the metadata block of the document at path
func ParseFile(path string) (*Block, error) {
	text, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return Parse(text)
}

// parseEntries decodes the tracked list out of the block's YAML
func parseEntries(raw string) ([]WatchEntry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML front matter: %v", ErrParse, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := resolveAlias(doc.Content[0])
	if isNullNode(root) {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: front matter is not a mapping", ErrParse)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == TrackedKey {
			return decodeEntries(resolveAlias(root.Content[i+1]))
		}
	}
	return nil, nil
}

// decodeEntries decodes a sequence of single-key mappings
func decodeEntries(list *yaml.Node) ([]WatchEntry, error) {
	if isNullNode(list) {
		return nil, nil
	}
	if list.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: %s must be a list (line %d)", ErrParse, TrackedKey, list.Line)
	}

	entries := make([]WatchEntry, 0, len(list.Content))
	for i, item := range list.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, fmt.Errorf("%w: %s entry %d must map one pattern to its hash (line %d)",
				ErrParse, TrackedKey, i+1, item.Line)
		}

		key, value := item.Content[0], resolveAlias(item.Content[1])
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: %s entry %d has a non-scalar pattern (line %d)", ErrParse, TrackedKey, i+1, key.Line)
		}

		entry := WatchEntry{Pattern: key.Value}
		switch {
		case isNullNode(value):
		case value.Kind == yaml.ScalarNode:
			hash := value.Value
			entry.Hash = &hash
		default:
			return nil, fmt.Errorf("%w: %s entry %q has a non-scalar hash (line %d)", ErrParse, TrackedKey, key.Value, value.Line)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNullNode(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// AddEmptyBlock prepends a block holding only the tracked key
func AddEmptyBlock(text string) string {
	return emptyBlock(lineEnding(text)) + text
}

func emptyBlock(nl string) string {
	return BlockDelimiter + nl + trackedMarker + nl + BlockDelimiter + nl
}

// PromoteToTracked adds the tracked key to a block that lacks it, immediately
// before the closing delimiter. A tracked block is returned unchanged.
func PromoteToTracked(text string) (string, error) {
	block, err := Parse(text)
	if err != nil {
		return "", err
	}
	if block == nil {
		return "", ErrBlockNotFound
	}
	if block.HasTrackedBlock() {
		return text, nil
	}

	DebugLog(DebugFrontmatter, "promoting block, inserting key at %d", block.CloseStart)
	return splice(text, block.CloseStart, block.CloseStart, trackedMarker+lineEnding(text)), nil
}

// InsertEntry adds pattern with hash as the first tracked entry, promoting a
// foreign block first when needed
func InsertEntry(text, pattern, hash string) (string, error) {
	block, err := Parse(text)
	if err != nil {
		return "", err
	}
	if block == nil {
		return "", ErrBlockNotFound
	}

	if !block.HasTrackedBlock() {
		promoted, err := PromoteToTracked(text)
		if err != nil {
			return "", err
		}
		if block, err = Parse(promoted); err != nil {
			return "", err
		}
		text = promoted
	}

	key, ok := findTrackedKey(text, block)
	if !ok {
		return "", fmt.Errorf("%w: %s key not found", ErrBlockNotFound, TrackedKey)
	}

	nl := lineEnding(text)
	entryLine := itemIndent(text, block, key) + "- " + strconv.Quote(pattern) + ": " + hash + nl

	// "driftwatcher: []" and friends become a bare key before a block item can follow
	keyLine := key.line
	if value, comment := splitComment(key.line[len(key.prefix):]); value != "" {
		switch value {
		case "[]", "~", "null", "Null", "NULL":
			keyLine = key.prefix + comment
		default:
			return "", fmt.Errorf("%w: %s uses flow style, cannot insert (line %q)", ErrParse, TrackedKey, key.line)
		}
	}

	DebugLog(DebugFrontmatter, "inserting %q after offset %d", pattern, key.next)
	return text[:key.start] + keyLine + text[key.start+len(key.line):key.next] + entryLine + text[key.next:], nil
}

// UpdateEntry replaces the hash of the first tracked entry for pattern. Only
// the value is rewritten: indentation, key quoting and comments are kept.
func UpdateEntry(text, pattern, newHash string) (string, error) {
	block, err := Parse(text)
	if err != nil {
		return "", err
	}
	if block == nil {
		return "", fmt.Errorf("%w: %s", ErrEntryNotFound, pattern)
	}

	key, ok := findTrackedKey(text, block)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrEntryNotFound, pattern)
	}

	for pos := key.next; pos < block.CloseStart; {
		line, next := lineAt(text, pos)
		trimmed := strings.TrimLeft(line, " \t")

		if isTopLevelKey(line) {
			break
		}

		if rest, ok := strings.CutPrefix(trimmed, "-"); ok {
			if valueStart, ok := matchEntryKey(rest, pattern); ok {
				colonEnd := len(line) - len(rest) + valueStart
				_, comment := splitComment(line[colonEnd:])
				newLine := line[:colonEnd] + " " + newHash + comment

				DebugLog(DebugFrontmatter, "updating %q at offset %d", pattern, pos)
				return splice(text, pos, pos+len(line), newLine), nil
			}
		}
		pos = next
	}

	return "", fmt.Errorf("%w: %s", ErrEntryNotFound, pattern)
}

// trackedKeyLine locates the tracked key's line in a document
type trackedKeyLine struct {
	start  int    // Offset of the line
	next   int    // Offset of the following line
	line   string // Line content without its line break
	prefix string // Key as written, including the colon
}

// findTrackedKey finds the top-level tracked key inside the block
func findTrackedKey(text string, block *Block) (trackedKeyLine, bool) {
	prefixes := []string{trackedMarker, `"` + TrackedKey + `":`, `'` + TrackedKey + `':`}

	for pos := block.BodyStart; pos < block.CloseStart; {
		line, next := lineAt(text, pos)
		for _, prefix := range prefixes {
			rest, ok := strings.CutPrefix(line, prefix)
			if ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
				return trackedKeyLine{start: pos, next: next, line: line, prefix: prefix}, true
			}
		}
		pos = next
	}
	return trackedKeyLine{}, false
}

// itemIndent returns the indentation of the first item in the tracked list,
// defaulting to two spaces for an empty list
func itemIndent(text string, block *Block, key trackedKeyLine) string {
	for pos := key.next; pos < block.CloseStart; {
		line, next := lineAt(text, pos)
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			pos = next
			continue
		}
		if trimmed == "-" || strings.HasPrefix(trimmed, "- ") {
			return line[:len(line)-len(trimmed)]
		}
		break
	}
	return "  "
}

// matchEntryKey matches the text after an item's dash against pattern written
// double-quoted, single-quoted or plain. It returns the offset just past the
// key's colon.
func matchEntryKey(afterDash, pattern string) (int, bool) {
	trimmed := strings.TrimLeft(afterDash, " \t")
	if len(trimmed) == len(afterDash) {
		return 0, false
	}
	offset := len(afterDash) - len(trimmed)

	candidates := []string{
		`"` + pattern + `":`,
		strconv.Quote(pattern) + ":",
		`'` + strings.ReplaceAll(pattern, "'", "''") + `':`,
		pattern + ":",
	}
	for _, candidate := range candidates {
		rest, ok := strings.CutPrefix(trimmed, candidate)
		if ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			return offset + len(candidate), true
		}
	}
	return 0, false
}

// isTopLevelKey reports a line that starts a new top-level mapping key
func isTopLevelKey(line string) bool {
	if line == "" {
		return false
	}
	switch line[0] {
	case ' ', '\t', '-', '#':
		return false
	}
	return true
}

// splitComment splits a line tail into its trimmed value and a trailing
// comment including the whitespace ahead of it
func splitComment(tail string) (string, string) {
	for i := 1; i < len(tail); i++ {
		if tail[i] == '#' && (tail[i-1] == ' ' || tail[i-1] == '\t') {
			start := i - 1
			for start > 0 && (tail[start-1] == ' ' || tail[start-1] == '\t') {
				start--
			}
			return strings.TrimSpace(tail[:start]), tail[start:]
		}
	}
	if strings.HasPrefix(tail, "#") {
		return "", " " + tail
	}
	return strings.TrimSpace(tail), ""
}

// openingLine returns the offset after the opening delimiter line
func openingLine(text string) (int, bool) {
	if !strings.HasPrefix(text, BlockDelimiter) {
		return 0, false
	}
	line, next := lineAt(text, 0)
	if !isDelimiter(line) {
		return 0, false
	}
	return next, true
}

// isDelimiter reports whether line is a block delimiter. Trailing blanks are
// tolerated since editors leave them behind.
func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t") == BlockDelimiter
}

// lineAt returns the line starting at pos without its line break, and the
// offset of the following line
func lineAt(text string, pos int) (string, int) {
	end := strings.IndexByte(text[pos:], '\n')
	if end < 0 {
		return strings.TrimSuffix(text[pos:], "\r"), len(text)
	}
	return strings.TrimSuffix(text[pos:pos+end], "\r"), pos + end + 1
}

// lineEnding returns the line break used by the document's first line
func lineEnding(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx > 0 && text[idx-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// splice replaces text[start:end] with insert
func splice(text string, start, end int, insert string) string {
	var sb strings.Builder
	sb.Grow(len(text) - (end - start) + len(insert))
	sb.WriteString(text[:start])
	sb.WriteString(insert)
	sb.WriteString(text[end:])
	return sb.String()
}
