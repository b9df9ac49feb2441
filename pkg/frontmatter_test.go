package drifty

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyTrackedBlock(t *testing.T) {
	block, err := Parse("---\ndriftwatcher:\n---\n# Doc")
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Empty(t, block.Entries)
	assert.True(t, block.HasTrackedBlock())
	assert.Equal(t, "driftwatcher:", block.RawBody)
}

func TestParseWithEntries(t *testing.T) {
	text := "---\n" +
		"driftwatcher:\n" +
		"  - \"src/main.go\": abc123def456\n" +
		"  - \"lib/**/*.go\": 789xyz\n" +
		"  - 'pending.txt': ~\n" +
		"---\n" +
		"# Doc"

	block, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, block.Entries, 3)

	assert.Equal(t, "src/main.go", block.Entries[0].Pattern)
	assert.Equal(t, "abc123def456", block.Entries[0].HashValue())
	assert.Equal(t, "lib/**/*.go", block.Entries[1].Pattern)
	assert.Equal(t, "789xyz", block.Entries[1].HashValue())
	assert.Equal(t, "pending.txt", block.Entries[2].Pattern)
	assert.False(t, block.Entries[2].HasHash())

	assert.Equal(t, "---", text[block.CloseStart:block.EndOffset])
	assert.Equal(t, "\n# Doc", text[block.EndOffset:])
}

func TestParseNumericHashKeepsText(t *testing.T) {
	block, err := Parse("---\ndriftwatcher:\n  - a.txt: 0123\n---\n")
	require.NoError(t, err)
	require.Len(t, block.Entries, 1)
	assert.Equal(t, "0123", block.Entries[0].HashValue())
}

func TestParseNoBlock(t *testing.T) {
	for _, text := range []string{
		"# Just a doc\nNo front matter here.",
		"",
		"----\ntitle: x\n----\n",
		" ---\ntitle: x\n---\n",
	} {
		block, err := Parse(text)
		assert.NoError(t, err)
		assert.Nil(t, block, "text %q", text)
	}
}

func TestParseDelimiterTrailingBlanks(t *testing.T) {
	text := "--- \ntitle: x\n---\t\nBody"

	block, err := Parse(text)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.False(t, block.HasTrackedBlock())
	assert.Equal(t, "---\t", text[block.CloseStart:block.EndOffset])
	assert.Equal(t, "\nBody", text[block.EndOffset:])

	result, err := InsertEntry(text, "a.txt", "abc")
	require.NoError(t, err)
	assert.Equal(t, "--- \ntitle: x\ndriftwatcher:\n  - \"a.txt\": abc\n---\t\nBody", result)
}

func TestParseWithOtherKeys(t *testing.T) {
	text := "---\ntitle: My Doc\nauthor: Someone\ndriftwatcher:\n  - \"src/main.go\": abc123\n---\n# Content"

	block, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, block.Entries, 1)
	assert.True(t, block.HasTrackedBlock())
}

func TestParseForeignBlock(t *testing.T) {
	block, err := Parse("---\ntitle: Hello\n---\nbody\n")
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.False(t, block.HasTrackedBlock())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"unclosed", "---\ntitle: x\nbody", ErrMalformedBlock},
		{"invalid yaml", "---\ntitle: [unclosed\n---\n", ErrParse},
		{"not a mapping", "---\n- a\n- b\n---\n", ErrParse},
		{"tracked not a list", "---\ndriftwatcher: hello\n---\n", ErrParse},
		{"entry not a mapping", "---\ndriftwatcher:\n  - just-a-string\n---\n", ErrParse},
		{"entry with two keys", "---\ndriftwatcher:\n  - a: x\n    b: y\n---\n", ErrParse},
		{"nested hash", "---\ndriftwatcher:\n  - a:\n      b: c\n---\n", ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.True(t, errors.Is(err, ErrParse))
		})
	}
}

func TestParseCRLF(t *testing.T) {
	text := "---\r\ndriftwatcher:\r\n  - \"a.txt\": abc\r\n---\r\nbody\r\n"
	block, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, block.Entries, 1)
	assert.Equal(t, "abc", block.Entries[0].HashValue())
	assert.Equal(t, "---", text[block.CloseStart:block.EndOffset])
}

func TestAddEmptyBlock(t *testing.T) {
	result := AddEmptyBlock("# My Doc\nSome content.")
	assert.Equal(t, "---\ndriftwatcher:\n---\n# My Doc\nSome content.", result)

	block, err := Parse(result)
	require.NoError(t, err)
	assert.True(t, block.HasTrackedBlock())
}

func TestAddEmptyBlockCRLF(t *testing.T) {
	result := AddEmptyBlock("# Doc\r\nbody\r\n")
	assert.True(t, strings.HasPrefix(result, "---\r\ndriftwatcher:\r\n---\r\n"))
}

func TestPromoteToTracked(t *testing.T) {
	text := "---\ntitle: Hello # greeting\n---\nbody\n"

	promoted, err := PromoteToTracked(text)
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Hello # greeting\ndriftwatcher:\n---\nbody\n", promoted)

	again, err := PromoteToTracked(promoted)
	require.NoError(t, err)
	assert.Equal(t, promoted, again, "promoting a tracked block is a no-op")

	_, err = PromoteToTracked("no block here\n")
	assert.True(t, errors.Is(err, ErrBlockNotFound))
}

func TestPromoteEmptyBlock(t *testing.T) {
	promoted, err := PromoteToTracked("---\n---\nbody")
	require.NoError(t, err)
	assert.Equal(t, "---\ndriftwatcher:\n---\nbody", promoted)
}

func TestInsertEntryIntoEmptyList(t *testing.T) {
	text := "---\ndriftwatcher:\n---\n# Doc"

	result, err := InsertEntry(text, "src/main.go", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "---\ndriftwatcher:\n  - \"src/main.go\": abc123\n---\n# Doc", result)

	block, err := Parse(result)
	require.NoError(t, err)
	require.Len(t, block.Entries, 1)
	assert.Equal(t, "src/main.go", block.Entries[0].Pattern)
	assert.Equal(t, "abc123", block.Entries[0].HashValue())
}

func TestInsertEntryGoesFirst(t *testing.T) {
	text := "---\ntitle: x\ndriftwatcher:\n    - \"old.txt\": 111\nauthor: y\n---\nbody\n"

	result, err := InsertEntry(text, "new.txt", "222")
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: x\ndriftwatcher:\n    - \"new.txt\": 222\n    - \"old.txt\": 111\nauthor: y\n---\nbody\n", result)

	block, err := Parse(result)
	require.NoError(t, err)
	require.Len(t, block.Entries, 2)
	assert.Equal(t, "new.txt", block.Entries[0].Pattern)
	assert.Equal(t, "old.txt", block.Entries[1].Pattern)
}

func TestInsertEntryPromotesForeignBlock(t *testing.T) {
	result, err := InsertEntry("---\ntitle: x\n---\nbody", "a.txt", "abc")
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: x\ndriftwatcher:\n  - \"a.txt\": abc\n---\nbody", result)
}

func TestInsertEntryNormalisesEmptyFlowList(t *testing.T) {
	for _, value := range []string{"[]", "~", "null"} {
		text := "---\ndriftwatcher: " + value + " # none yet\n---\n"
		result, err := InsertEntry(text, "a.txt", "abc")
		require.NoError(t, err, value)
		assert.Equal(t, "---\ndriftwatcher: # none yet\n  - \"a.txt\": abc\n---\n", result, value)

		block, err := Parse(result)
		require.NoError(t, err)
		require.Len(t, block.Entries, 1)
	}
}

func TestInsertEntryRejectsFlowList(t *testing.T) {
	_, err := InsertEntry("---\ndriftwatcher: [{a.txt: abc}]\n---\n", "b.txt", "def")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestInsertEntryNoBlock(t *testing.T) {
	_, err := InsertEntry("# Doc\n", "a.txt", "abc")
	assert.True(t, errors.Is(err, ErrBlockNotFound))
}

func TestInsertEntryQuotesPattern(t *testing.T) {
	result, err := InsertEntry("---\ndriftwatcher:\n---\n", `we"ird: name.txt`, "abc")
	require.NoError(t, err)

	block, err := Parse(result)
	require.NoError(t, err)
	require.Len(t, block.Entries, 1)
	assert.Equal(t, `we"ird: name.txt`, block.Entries[0].Pattern)
}

func TestInsertEntryCRLF(t *testing.T) {
	text := "---\r\ndriftwatcher:\r\n---\r\nbody\r\n"
	result, err := InsertEntry(text, "a.txt", "abc")
	require.NoError(t, err)
	assert.Equal(t, "---\r\ndriftwatcher:\r\n  - \"a.txt\": abc\r\n---\r\nbody\r\n", result)
}

func TestUpdateEntryPreservesEverythingElse(t *testing.T) {
	text := "---\n" +
		"title: Guide\n" +
		"driftwatcher:\n" +
		"  - \"a.txt\": 111 # keep me\n" +
		"  - 'b.txt': 222\n" +
		"  - c.txt: 333\n" +
		"tags: [x, y]\n" +
		"---\n" +
		"Body mentions a.txt: 111\n"

	result, err := UpdateEntry(text, "a.txt", "aaa")
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(text, `"a.txt": 111 # keep me`, `"a.txt": aaa # keep me`, 1), result)

	result, err = UpdateEntry(result, "b.txt", "bbb")
	require.NoError(t, err)
	result, err = UpdateEntry(result, "c.txt", "ccc")
	require.NoError(t, err)

	want := "---\n" +
		"title: Guide\n" +
		"driftwatcher:\n" +
		"  - \"a.txt\": aaa # keep me\n" +
		"  - 'b.txt': bbb\n" +
		"  - c.txt: ccc\n" +
		"tags: [x, y]\n" +
		"---\n" +
		"Body mentions a.txt: 111\n"
	assert.Equal(t, want, result)
}

func TestUpdateEntryNullHash(t *testing.T) {
	text := "---\ndriftwatcher:\n  - \"a.txt\":\n---\n"
	result, err := UpdateEntry(text, "a.txt", "abc")
	require.NoError(t, err)
	assert.Equal(t, "---\ndriftwatcher:\n  - \"a.txt\": abc\n---\n", result)
}

func TestUpdateEntryFirstMatchOnly(t *testing.T) {
	text := "---\ndriftwatcher:\n  - \"a.txt\": 1\n  - \"a.txt\": 2\n---\n"
	result, err := UpdateEntry(text, "a.txt", "9")
	require.NoError(t, err)
	assert.Equal(t, "---\ndriftwatcher:\n  - \"a.txt\": 9\n  - \"a.txt\": 2\n---\n", result)
}

func TestUpdateEntryNotFound(t *testing.T) {
	text := "---\ndriftwatcher:\n  - \"a.txt\": 1\nother:\n  - \"b.txt\": 2\n---\nb.txt: 2\n"

	for _, pattern := range []string{"b.txt", "a.tx", "missing"} {
		result, err := UpdateEntry(text, pattern, "new")
		require.Error(t, err, pattern)
		assert.True(t, errors.Is(err, ErrEntryNotFound))
		assert.Empty(t, result)
	}

	_, err := UpdateEntry("# no block\n", "a.txt", "x")
	assert.True(t, errors.Is(err, ErrEntryNotFound))
}

func TestUpdateEntryCRLF(t *testing.T) {
	text := "---\r\ndriftwatcher:\r\n  - \"a.txt\": 1\r\n---\r\nbody\r\n"
	result, err := UpdateEntry(text, "a.txt", "2")
	require.NoError(t, err)
	assert.Equal(t, "---\r\ndriftwatcher:\r\n  - \"a.txt\": 2\r\n---\r\nbody\r\n", result)
}

func TestSplitComment(t *testing.T) {
	tests := []struct {
		tail, value, comment string
	}{
		{" abc", "abc", ""},
		{" abc # note", "abc", " # note"},
		{" abc#not-a-comment", "abc#not-a-comment", ""},
		{"", "", ""},
		{" # only", "", " # only"},
	}

	for _, tt := range tests {
		value, comment := splitComment(tt.tail)
		assert.Equal(t, tt.value, value, "tail %q", tt.tail)
		assert.Equal(t, tt.comment, comment, "tail %q", tt.tail)
	}
}
