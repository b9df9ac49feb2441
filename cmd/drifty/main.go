package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	drifty "github.com/mattkeenan/drifty/pkg"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// defineOptions declares every option the command understands
func defineOptions() *ParsedOptions {
	options := NewParsedOptions()
	options.DefineOption("help", "h", OptionTypeBool, "false", "Show help message")
	options.DefineOption("version", "", OptionTypeBool, "false", "Show version information")
	options.DefineOption("verbose", "v", OptionTypeInt, "0", "Enable verbose output (can be repeated for more verbosity)")
	options.DefineOption("debug", "", OptionTypeString, "", "Comma-separated debug flags (resolve,hash,frontmatter,scan,write,all)")
	options.DefineOption("config", "", OptionTypeList, "", "Override a configuration value for this run (key:value, repeatable)")
	options.DefineOption("yes", "y", OptionTypeBool, "false", "check: accept every drifted entry without prompting")
	options.DefineOption("format", "", OptionTypeString, "", "report: output format (plaintext|json|yaml)")
	return options
}

// run executes the command line and returns the process exit code
func run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	options := defineOptions()
	if err := options.Parse(argv); err != nil {
		fmt.Fprintf(stderr, "drifty: %v\n", err)
		fmt.Fprintf(stderr, "Try 'drifty --help' for more information.\n")
		return 1
	}

	// Handle version first (before help)
	if options.GetBool("version") {
		fmt.Fprintf(stdout, "drifty %s\n", getVersionString())
		return 0
	}

	args := options.GetArgs()
	if options.GetBool("help") || len(args) == 0 {
		showHelp(stdout, options)
		return 0
	}

	if args[0] == "help" {
		if len(args) >= 2 {
			showCommandHelp(stdout, args[1])
		} else {
			showHelp(stdout, options)
		}
		return 0
	}

	a, err := newApp(options, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "drifty: %v\n", err)
		return 1
	}

	code, err := a.dispatch(args[0], args[1:])
	if err != nil {
		fmt.Fprintf(stderr, "drifty: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Try 'drifty help %s' for more information.\n", args[0])
		}
		if code == 0 {
			code = 1
		}
	}
	return code
}

func showHelp(w io.Writer, options *ParsedOptions) {
	fmt.Fprintf(w, "drifty - detect documentation drift from the files it describes\n\n")
	fmt.Fprintf(w, "Usage: drifty [OPTIONS] <command> [args...]\n\n")

	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  init <doc>                Add a driftwatcher block to a Markdown document\n")
	fmt.Fprintf(w, "  add <doc> <pattern>       Watch a file, directory or glob from a document\n")
	fmt.Fprintf(w, "  check [target]            Find drift and choose which hashes to update\n")
	fmt.Fprintf(w, "  report [target]           Report the status of every watch entry\n")
	fmt.Fprintf(w, "  validate [target]         Verify driftwatcher front matter without hashing\n")
	fmt.Fprintf(w, "  config [set key:value]    Show or change the project configuration\n")
	fmt.Fprintf(w, "  ignore [add <regex>]      List or add document ignore patterns\n")
	fmt.Fprintf(w, "  help [command]            Show help for command\n\n")

	fmt.Fprintf(w, "Options:\n")
	options.ShowOptions(w)

	fmt.Fprintf(w, "\nPatterns:\n")
	fmt.Fprintf(w, "  Paths are relative to the document's directory. Prefix with $ROOT/ to\n")
	fmt.Fprintf(w, "  resolve from the project root (the nearest directory holding .git).\n")
	fmt.Fprintf(w, "  Globs support *, ?, [...] and **. Hidden files are never matched.\n\n")

	fmt.Fprintf(w, "Examples:\n")
	fmt.Fprintf(w, "  drifty init docs/api.md\n")
	fmt.Fprintf(w, "  drifty add docs/api.md '../src/api/*.go'\n")
	fmt.Fprintf(w, "  drifty add docs/api.md '$ROOT/schema/'\n")
	fmt.Fprintf(w, "  drifty check\n")
	fmt.Fprintf(w, "  drifty report --format=json docs/\n")
}

func showCommandHelp(w io.Writer, command string) {
	switch command {
	case "init":
		fmt.Fprintf(w, "Usage: drifty init <doc>\n\n")
		fmt.Fprintf(w, "Adds an empty driftwatcher list to the document's YAML front matter,\n")
		fmt.Fprintf(w, "creating the front matter when the document has none.\n")
	case "add":
		fmt.Fprintf(w, "Usage: drifty add <doc> <pattern>\n\n")
		fmt.Fprintf(w, "Hashes what the pattern matches and records it as the first entry.\n")
		fmt.Fprintf(w, "The document must be initialised and the pattern must match something.\n")
	case "check":
		fmt.Fprintf(w, "Usage: drifty check [target] [--yes]\n\n")
		fmt.Fprintf(w, "Evaluates every document below target (default: current directory)\n")
		fmt.Fprintf(w, "and offers the drifted entries for update. Selected entries get their\n")
		fmt.Fprintf(w, "stored hash replaced. Without a terminal nothing is updated unless\n")
		fmt.Fprintf(w, "--yes is given.\n")
	case "report":
		fmt.Fprintf(w, "Usage: drifty report [target] [--format=plaintext|json|yaml]\n\n")
		fmt.Fprintf(w, "Prints the status of every entry. Exits 1 when any entry is DRIFTED\n")
		fmt.Fprintf(w, "or MISSING, which makes it suitable for CI.\n")
	case "validate":
		fmt.Fprintf(w, "Usage: drifty validate [target]\n\n")
		fmt.Fprintf(w, "Checks front matter syntax, hash presence and format, and that every\n")
		fmt.Fprintf(w, "pattern matches. Exits 1 when anything is invalid.\n")
	case "config":
		fmt.Fprintf(w, "Usage: drifty config\n")
		fmt.Fprintf(w, "       drifty config set <key:value>\n\n")
		fmt.Fprintf(w, "Keys: default (sha256|sha384|sha512), format (plaintext|json|yaml),\n")
		fmt.Fprintf(w, "      level (0-3), debug (flags), extensions (md,markdown)\n")
		fmt.Fprintf(w, "Values are stored in %s/%s below the project root.\n", drifty.DriftyDir, drifty.ConfigFileName)
	case "ignore":
		fmt.Fprintf(w, "Usage: drifty ignore\n")
		fmt.Fprintf(w, "       drifty ignore add <regex>\n\n")
		fmt.Fprintf(w, "Lists or adds regular expressions of document paths, relative to the\n")
		fmt.Fprintf(w, "project root, that check, report and validate skip. Patterns live in\n")
		fmt.Fprintf(w, "%s/%s; adding one rewrites the file with the standard header.\n", drifty.DriftyDir, drifty.IgnoreFileName)
	default:
		fmt.Fprintf(w, "Unknown command: %s\n", command)
	}
}
