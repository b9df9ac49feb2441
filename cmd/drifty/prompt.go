package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// isInteractive reports whether stdin is attached to a terminal
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptSelection lists items numbered from 1 and reads the user's choice.
// It returns the selected zero-based indices in ascending order.
func promptSelection(in io.Reader, out io.Writer, prompt string, items []string) ([]int, error) {
	for i, item := range items {
		fmt.Fprintf(out, "  %3d) %s\n", i+1, item)
	}

	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "%s [e.g. 1,3-5; a=all; empty=none]: ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}

		selected, parseErr := parseSelection(strings.TrimSpace(line), len(items))
		if parseErr == nil {
			return selected, nil
		}
		if err == io.EOF {
			return nil, parseErr
		}
		fmt.Fprintln(out, parseErr)
	}
}

// parseSelection parses "1,3-5", "a"/"all" or "" against n items
func parseSelection(input string, n int) ([]int, error) {
	switch strings.ToLower(input) {
	case "":
		return nil, nil
	case "a", "all":
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]bool)
	for _, field := range strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' }) {
		lo, hi, isRange := strings.Cut(field, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid selection: %q", field)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("invalid selection: %q", field)
			}
		}
		if first > last {
			first, last = last, first
		}
		if first < 1 || last > n {
			return nil, fmt.Errorf("selection %q out of range 1-%d", field, n)
		}
		for i := first; i <= last; i++ {
			seen[i-1] = true
		}
	}

	selected := make([]int, 0, len(seen))
	for i := range seen {
		selected = append(selected, i)
	}
	sort.Ints(selected)
	return selected, nil
}
