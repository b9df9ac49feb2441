package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	drifty "github.com/mattkeenan/drifty/pkg"
	"gopkg.in/yaml.v3"
)

// reportMap flattens a run into document path -> pattern -> status name
func reportMap(result *drifty.RunResult) map[string]map[string]string {
	report := make(map[string]map[string]string, len(result.Documents))
	for _, doc := range result.Documents {
		if len(doc.Entries) == 0 {
			continue
		}
		entries := make(map[string]string, len(doc.Entries))
		for _, entry := range doc.Entries {
			entries[entry.Pattern] = entry.Status.String()
		}
		report[doc.Path] = entries
	}
	return report
}

// writeReport renders a run in the requested format
func writeReport(w io.Writer, result *drifty.RunResult, format string) error {
	switch format {
	case "plaintext", "":
		return writePlaintextReport(w, result)
	case "json":
		data, err := json.MarshalIndent(reportMap(result), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(reportMap(result)); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writePlaintextReport(w io.Writer, result *drifty.RunResult) error {
	written := 0
	for _, doc := range result.Documents {
		if len(doc.Entries) == 0 {
			continue
		}
		fmt.Fprintln(w, doc.Path)
		for _, entry := range doc.Entries {
			fmt.Fprintf(w, "  %-8s %s\n", entry.Status, entry.Pattern)
		}
		fmt.Fprintln(w)
		written++
	}
	if written == 0 {
		fmt.Fprintln(w, "No driftwatcher entries found.")
	}
	return nil
}

// writeWarnings lists documents that could not be processed
func writeWarnings(warnings []drifty.DocumentWarning) {
	for _, warning := range warnings {
		drifty.Warnf("%s: %v", warning.Path, warning.Err)
	}
}

// writeConfig renders the effective configuration in ini layout
func writeConfig(w io.Writer, cfg *drifty.Config) {
	all := cfg.GetAllConfig()
	fmt.Fprintf(w, "[filehash]\n")
	fmt.Fprintf(w, "default = %s\n\n", all.Hash.Default)
	fmt.Fprintf(w, "[output]\n")
	fmt.Fprintf(w, "format = %s\n\n", all.Output.Format)
	fmt.Fprintf(w, "[verbose]\n")
	fmt.Fprintf(w, "level = %d\n", all.Verbose.Level)
	fmt.Fprintf(w, "debug = %s\n\n", all.Verbose.Debug)
	fmt.Fprintf(w, "[scan]\n")
	fmt.Fprintf(w, "extensions = %s\n", strings.Join(all.Scan.Extensions, ","))
}
