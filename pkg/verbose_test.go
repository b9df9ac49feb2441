package drifty

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetDebugFlags(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		expectedResolve bool
		expectedHash    bool
		expectedScan    bool
	}{
		{
			name:  "empty string",
			input: "",
		},
		{
			name:            "single option",
			input:           "resolve",
			expectedResolve: true,
		},
		{
			name:            "multiple options",
			input:           "resolve,hash,scan",
			expectedResolve: true,
			expectedHash:    true,
			expectedScan:    true,
		},
		{
			name:            "options with values",
			input:           "resolve:true,hash:false,scan:1",
			expectedResolve: true,
			expectedScan:    true,
		},
		{
			name:         "off values",
			input:        "resolve:off,hash:no,scan:0",
			expectedHash: false,
		},
		{
			name:            "whitespace handling",
			input:           " resolve , hash ",
			expectedResolve: true,
			expectedHash:    true,
		},
		{
			name:            "case insensitive",
			input:           "RESOLVE,Hash",
			expectedResolve: true,
			expectedHash:    true,
		},
		{
			name:            "all",
			input:           "all",
			expectedResolve: true,
			expectedHash:    true,
			expectedScan:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetDebugFlags(tt.input)
			defer SetDebugFlags("")

			if got := IsDebugEnabled(DebugResolve); got != tt.expectedResolve {
				t.Errorf("resolve: expected %v, got %v", tt.expectedResolve, got)
			}
			if got := IsDebugEnabled(DebugHash); got != tt.expectedHash {
				t.Errorf("hash: expected %v, got %v", tt.expectedHash, got)
			}
			if got := IsDebugEnabled(DebugScan); got != tt.expectedScan {
				t.Errorf("scan: expected %v, got %v", tt.expectedScan, got)
			}
		})
	}
}

func TestVerboseLogLevels(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(nil)
	defer SetVerboseLevel(0)

	SetVerboseLevel(1)
	VerboseLog(1, "shown %d", 1)
	VerboseLog(2, "hidden %d", 2)

	out := buf.String()
	if !strings.Contains(out, "[VERBOSE-1] shown 1\n") {
		t.Errorf("expected level 1 message, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("level 2 message must not be shown at level 1, got %q", out)
	}
}

func TestVerboseEnterTrace(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(nil)
	defer SetVerboseLevel(0)

	SetVerboseLevel(3)
	func() {
		defer VerboseEnter()()
	}()

	out := buf.String()
	if !strings.Contains(out, "[TRACE] Entering function:") || !strings.Contains(out, "[TRACE] Exiting function:") {
		t.Errorf("expected entry and exit trace, got %q", out)
	}
}

func TestDebugLogAndWarnf(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(nil)

	SetDebugFlags("hash")
	defer SetDebugFlags("")

	DebugLog(DebugHash, "hashed %s", "a.txt")
	DebugLog(DebugResolve, "not shown")
	Warnf("careful with %s", "b.txt")

	out := buf.String()
	if !strings.Contains(out, "[DEBUG-hash] hashed a.txt\n") {
		t.Errorf("expected debug line, got %q", out)
	}
	if strings.Contains(out, "not shown") {
		t.Errorf("disabled debug flag must be silent, got %q", out)
	}
	if !strings.Contains(out, "Warning: careful with b.txt\n") {
		t.Errorf("expected warning, got %q", out)
	}
}
