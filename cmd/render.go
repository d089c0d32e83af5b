package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v2"

	"grimm.is/fwrule/internal/render"
	"grimm.is/fwrule/internal/rule"
	"grimm.is/fwrule/internal/validation"
)

// Output formats accepted by render.
const (
	FormatDict     = "dict"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatIPTables = "iptables"
	FormatList     = "list"
	FormatNFT      = "nft"
)

// Formats lists the output formats in help order.
var Formats = []string{FormatIPTables, FormatDict, FormatJSON, FormatYAML, FormatList, FormatNFT}

// RenderOptions controls RunRender.
type RenderOptions struct {
	ConfigFile  string
	Rule        string // only this rule; empty renders all
	Format      string
	MetricsFile string
}

// renderedRule is the structured form used for json and yaml output.
type renderedRule struct {
	Name string         `json:"name" yaml:"name"`
	Rule map[string]any `json:"rule" yaml:"rule"`
}

// RunRender exports the rules of a file in the requested format.
func RunRender(w io.Writer, opts RenderOptions) error {
	if err := validation.ValidateAllowlist(opts.Format, Formats); err != nil {
		return fmt.Errorf("format: %w", err)
	}

	ws, err := load(opts.ConfigFile)
	if err != nil {
		return err
	}
	defer ws.Close()
	rules, err := ws.rules(opts.Rule)
	if err != nil {
		return err
	}

	if err := writeRendered(w, rules, opts.Format, ws.sys); err != nil {
		return err
	}
	return writeMetrics(opts.MetricsFile)
}

func rendererFor(format string, protocols render.ProtocolNumberer) rule.Renderer {
	switch format {
	case FormatIPTables:
		return render.IPTables()
	case FormatList:
		return render.List()
	case FormatNFT:
		return render.NFT(protocols)
	default:
		return render.Dictionary()
	}
}

func writeRendered(w io.Writer, rules []namedRule, format string, protocols render.ProtocolNumberer) error {
	renderer := rendererFor(format, protocols)

	var structured []renderedRule
	for _, nr := range rules {
		out, err := nr.rule.Export(renderer)
		if err != nil {
			return fmt.Errorf("rule %q: %w", nr.name, err)
		}

		switch format {
		case FormatIPTables:
			fmt.Fprintf(w, "%s: %s\n", nr.name, out.Text)
		case FormatDict:
			fmt.Fprintf(w, "%s: %v\n", nr.name, out.Map)
		case FormatJSON, FormatYAML:
			structured = append(structured, renderedRule{Name: nr.name, Rule: out.Map})
		case FormatList:
			b, err := json.Marshal(flatten(out.Sequence))
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s: %s\n", nr.name, b)
		case FormatNFT:
			fmt.Fprintf(w, "%s:\n", nr.name)
			for _, e := range flatten(out.Sequence) {
				fmt.Fprintf(w, "\t%s %+v\n", strings.TrimPrefix(fmt.Sprintf("%T", e), "*expr."), e)
			}
		}
	}

	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(structured, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", b)
	case FormatYAML:
		b, err := yaml.Marshal(structured)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(b))
	}
	return nil
}

// flatten joins the per-module groups of a sequence export.
func flatten(seq []any) []any {
	var flat []any
	for _, group := range seq {
		if g, ok := group.([]any); ok {
			flat = append(flat, g...)
		}
	}
	return flat
}
