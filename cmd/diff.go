package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// RunDiff compares the iptables renderings of two rule files.
func RunDiff(w io.Writer, fromFile, toFile string) error {
	from, err := renderLines(fromFile)
	if err != nil {
		return err
	}
	to, err := renderLines(toFile)
	if err != nil {
		return err
	}

	if from == to {
		Printer.Fprintf(w, "No changes detected.\n")
		return nil
	}

	Printer.Fprintf(w, "Rules differ:\n")
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Errorf("failed to diff: %w", err)
	}
	fmt.Fprint(w, text)

	return ErrRulesDiffer
}

// renderLines renders every rule of a file as "name: flags" lines.
func renderLines(configFile string) (string, error) {
	ws, err := load(configFile)
	if err != nil {
		return "", fmt.Errorf("%s: %w", configFile, err)
	}
	defer ws.Close()

	rules, err := ws.rules("")
	if err != nil {
		return "", fmt.Errorf("%s: %w", configFile, err)
	}

	var sb strings.Builder
	if err := writeRendered(&sb, rules, FormatIPTables, nil); err != nil {
		return "", err
	}
	return sb.String(), nil
}
