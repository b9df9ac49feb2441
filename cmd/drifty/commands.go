package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	drifty "github.com/mattkeenan/drifty/pkg"
)

var errUsage = errors.New("usage error")

// app holds what every command needs
type app struct {
	options     *ParsedOptions
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	root        string // Project root of the working directory, "" when there is none
	cfg         *drifty.Config
	runner      *drifty.Runner
	interactive func() bool
}

// newApp loads the configuration of the current project, applies overrides
// and sets up logging
func newApp(options *ParsedOptions, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	drifty.SetLogOutput(stderr)

	root, cfg, err := drifty.OpenProject(".")
	if err != nil && !errors.Is(err, drifty.ErrProjectRootNotFound) {
		return nil, err
	}
	if err := cfg.ApplyOverrides(options.GetStrings("config")); err != nil {
		return nil, err
	}

	verboseConfig := cfg.GetVerboseConfig()
	if options.IsSet("verbose") {
		drifty.SetVerboseLevel(options.GetInt("verbose"))
	} else {
		drifty.SetVerboseLevel(verboseConfig.Level)
	}
	if options.IsSet("debug") {
		drifty.InitDebugFlags(options.GetString("debug"))
	} else {
		drifty.InitDebugFlags(verboseConfig.Debug)
	}
	drifty.LogDebugFlags()

	hasher, err := cfg.Hasher()
	if err != nil {
		return nil, err
	}

	if root != "" {
		drifty.VerboseLog(1, "Project root: %s", root)
	}

	return &app{
		options:     options,
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
		root:        root,
		cfg:         cfg,
		runner:      drifty.NewRunner(hasher),
		interactive: isInteractive,
	}, nil
}

// dispatch runs command with its arguments and returns the exit code
func (a *app) dispatch(command string, args []string) (int, error) {
	switch command {
	case "init":
		return a.cmdInit(args)
	case "add":
		return a.cmdAdd(args)
	case "check":
		return a.cmdCheck(args)
	case "report":
		return a.cmdReport(args)
	case "validate":
		return a.cmdValidate(args)
	case "config":
		return a.cmdConfig(args)
	case "ignore":
		return a.cmdIgnore(args)
	default:
		return 1, fmt.Errorf("%w: unknown command '%s'", errUsage, command)
	}
}

func (a *app) cmdInit(args []string) (int, error) {
	if len(args) != 1 {
		return 1, fmt.Errorf("%w: init requires exactly one document", errUsage)
	}
	doc := args[0]

	outcome, err := a.runner.InitDocument(doc)
	if err != nil {
		return 1, err
	}

	switch outcome {
	case drifty.InitAlreadyTracked:
		fmt.Fprintf(a.stdout, "driftwatcher already initialised in %s\n", doc)
	case drifty.InitPromoted:
		fmt.Fprintf(a.stdout, "Added driftwatcher to existing front matter in %s\n", doc)
	case drifty.InitCreated:
		fmt.Fprintf(a.stdout, "Initialised driftwatcher in %s\n", doc)
	}
	return 0, nil
}

func (a *app) cmdAdd(args []string) (int, error) {
	if len(args) != 2 {
		return 1, fmt.Errorf("%w: add requires a document and a pattern", errUsage)
	}
	doc, pattern := args[0], args[1]

	result, err := a.runner.AddWatch(doc, pattern)
	if err != nil {
		return 1, err
	}

	fmt.Fprintf(a.stdout, "Added '%s' to %s (%d file(s), hash: %s...)\n",
		result.Pattern, doc, result.FileCount, shortHash(result.Hash))
	return 0, nil
}

// findDocuments lists the documents below the optional target argument
func (a *app) findDocuments(args []string) ([]string, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("%w: at most one target may be given", errUsage)
	}
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	opts, err := drifty.ScanOptionsFromConfig(a.cfg, a.root)
	if err != nil {
		return nil, err
	}
	return drifty.FindDocuments(target, opts)
}

func (a *app) cmdCheck(args []string) (int, error) {
	docs, err := a.findDocuments(args)
	if err != nil {
		return 1, err
	}

	result := a.runner.Evaluate(docs)
	for _, doc := range result.Documents {
		for _, entry := range doc.Entries {
			switch entry.Status {
			case drifty.StatusMissing:
				fmt.Fprintf(a.stderr, "MISSING: %s -> %s\n", doc.Path, entry.Pattern)
			case drifty.StatusInvalid:
				fmt.Fprintf(a.stderr, "INVALID: %s -> %s (no hash)\n", doc.Path, entry.Pattern)
			}
		}
	}

	counts := result.Counts()
	fmt.Fprintf(a.stdout, "\nFound %d current, %d drifted, %d missing\n", counts.Current, counts.Drifted, counts.Missing)

	drifted := result.Drifted()
	if len(drifted) == 0 {
		if counts.Current > 0 {
			fmt.Fprintf(a.stdout, "All documentation is up-to-date!\n")
		}
		writeWarnings(result.Warnings)
		return 0, nil
	}

	selected, err := a.selectUpdates(drifted)
	if err != nil {
		return 1, err
	}

	if len(selected) == 0 {
		fmt.Fprintf(a.stdout, "No entries selected.\n")
	} else {
		applied, err := drifty.ApplyUpdates(selected)
		if err != nil {
			return 1, err
		}
		fmt.Fprintf(a.stdout, "Updated %d entries.\n", applied)
	}

	writeWarnings(result.Warnings)
	return 0, nil
}

// selectUpdates decides which drifted entries to accept
func (a *app) selectUpdates(drifted []drifty.Update) ([]drifty.Update, error) {
	items := make([]string, len(drifted))
	for i, update := range drifted {
		items[i] = fmt.Sprintf("%s: %s", update.DocPath, update.Pattern)
	}

	if a.options.GetBool("yes") {
		return drifted, nil
	}

	if !a.interactive() {
		fmt.Fprintf(a.stdout, "\nDrifted entries:\n")
		for _, item := range items {
			fmt.Fprintf(a.stdout, "  %s\n", item)
		}
		fmt.Fprintf(a.stdout, "Not a terminal; run 'drifty check --yes' to accept all.\n")
		return nil, nil
	}

	fmt.Fprintln(a.stdout)
	indices, err := promptSelection(a.stdin, a.stdout, "Select entries to update", items)
	if err != nil {
		return nil, err
	}

	selected := make([]drifty.Update, 0, len(indices))
	for _, idx := range indices {
		selected = append(selected, drifted[idx])
	}
	return selected, nil
}

func (a *app) cmdReport(args []string) (int, error) {
	format := a.cfg.GetOutputConfig().Format
	if a.options.IsSet("format") {
		format = a.options.GetString("format")
	}
	format = strings.ToLower(format)
	if err := drifty.ValidateOutputFormat(format); err != nil {
		return 1, err
	}

	docs, err := a.findDocuments(args)
	if err != nil {
		return 1, err
	}

	result := a.runner.Evaluate(docs)
	writeWarnings(result.Warnings)

	if err := writeReport(a.stdout, result, format); err != nil {
		return 1, err
	}

	if result.HasProblems() {
		return 1, nil
	}
	return 0, nil
}

func (a *app) cmdValidate(args []string) (int, error) {
	docs, err := a.findDocuments(args)
	if err != nil {
		return 1, err
	}

	result := a.runner.Validate(docs)
	for _, issue := range result.Issues {
		fmt.Fprintln(a.stderr, issue.String())
	}

	if !result.Valid() {
		return 1, nil
	}
	if result.Checked == 0 {
		fmt.Fprintf(a.stdout, "No driftwatcher entries found.\n")
		return 0, nil
	}
	fmt.Fprintf(a.stdout, "All driftwatcher entries are valid (%d file(s) checked).\n", result.Checked)
	return 0, nil
}

func (a *app) cmdConfig(args []string) (int, error) {
	if len(args) == 0 {
		writeConfig(a.stdout, a.cfg)
		return 0, nil
	}

	if args[0] != "set" || len(args) != 2 {
		return 1, fmt.Errorf("%w: expected 'config' or 'config set key:value'", errUsage)
	}
	if a.root == "" {
		return 1, fmt.Errorf("%w from the current directory", drifty.ErrProjectRootNotFound)
	}

	// Reload so command-line overrides are not persisted
	cfg, err := drifty.LoadConfig(a.root)
	if err != nil {
		return 1, err
	}
	if err := cfg.Set(args[1]); err != nil {
		return 1, err
	}
	if err := cfg.Save(); err != nil {
		return 1, fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(a.stdout, "Set %s in %s\n", args[1], cfg.Path())
	return 0, nil
}

func (a *app) cmdIgnore(args []string) (int, error) {
	if len(args) != 0 && (args[0] != "add" || len(args) != 2) {
		return 1, fmt.Errorf("%w: expected 'ignore' or 'ignore add <regex>'", errUsage)
	}
	if a.root == "" {
		return 1, fmt.Errorf("%w from the current directory", drifty.ErrProjectRootNotFound)
	}

	ignore := drifty.NewIgnoreManager(a.root)
	if err := ignore.LoadIgnorePatterns(); err != nil {
		return 1, err
	}

	if len(args) == 0 {
		if !ignore.HasPatterns() {
			fmt.Fprintf(a.stdout, "No ignore patterns in %s\n", ignore.GetIgnoreFilePath())
			return 0, nil
		}
		fmt.Fprintf(a.stdout, "Ignore patterns in %s:\n", ignore.GetIgnoreFilePath())
		for _, pattern := range ignore.GetPatterns() {
			fmt.Fprintf(a.stdout, "  %s\n", pattern)
		}
		return 0, nil
	}

	pattern := args[1]
	for _, existing := range ignore.GetPatterns() {
		if existing.String() == pattern {
			fmt.Fprintf(a.stdout, "'%s' is already in %s\n", pattern, ignore.GetIgnoreFilePath())
			return 0, nil
		}
	}
	if err := ignore.AddPattern(pattern); err != nil {
		return 1, err
	}
	if err := ignore.SaveIgnorePatterns(); err != nil {
		return 1, fmt.Errorf("failed to save ignore patterns: %w", err)
	}

	fmt.Fprintf(a.stdout, "Added '%s' to %s\n", pattern, ignore.GetIgnoreFilePath())
	return 0, nil
}

// shortHash returns the first 12 characters of a digest
func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
