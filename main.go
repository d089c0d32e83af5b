package main

import (
	"errors"
	"flag"
	"os"
	"strings"

	"grimm.is/fwrule/cmd"
	"grimm.is/fwrule/internal/brand"
	"grimm.is/fwrule/internal/i18n"
)

var printer = i18n.NewCLIPrinter()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "render":
		renderFlags := flag.NewFlagSet("render", flag.ExitOnError)
		configFile := renderFlags.String("config", brand.DefaultConfigPath(), "Rule file")
		renderFlags.StringVar(configFile, "c", brand.DefaultConfigPath(), "Rule file (short)")

		format := renderFlags.String("format", cmd.FormatIPTables, "Output format: "+strings.Join(cmd.Formats, ", "))
		renderFlags.StringVar(format, "f", cmd.FormatIPTables, "Output format (short)")

		ruleName := renderFlags.String("rule", "", "Only render this rule")
		renderFlags.StringVar(ruleName, "r", "", "Only render this rule (short)")

		metricsFile := renderFlags.String("metrics", "", "Write metrics to this file (textfile collector format)")
		renderFlags.Parse(os.Args[2:])

		err := cmd.RunRender(os.Stdout, cmd.RenderOptions{
			ConfigFile:  *configFile,
			Rule:        *ruleName,
			Format:      *format,
			MetricsFile: *metricsFile,
		})
		if err != nil {
			printer.Fprintf(os.Stderr, "Render failed: %v\n", err)
			os.Exit(1)
		}

	case "check":
		checkFlags := flag.NewFlagSet("check", flag.ExitOnError)
		verbose := checkFlags.Bool("verbose", false, "Show each valid rule in iptables form")
		checkFlags.BoolVar(verbose, "v", false, "Verbose output (short)")
		metricsFile := checkFlags.String("metrics", "", "Write metrics to this file (textfile collector format)")
		checkFlags.Parse(os.Args[2:])

		configFile := brand.DefaultConfigPath()
		if len(checkFlags.Args()) > 0 {
			configFile = checkFlags.Arg(0)
		}

		if err := cmd.RunCheck(os.Stdout, configFile, *verbose, *metricsFile); err != nil {
			printer.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}

	case "diff":
		if len(os.Args) < 4 {
			printer.Println("Usage: " + brand.BinaryName + " diff <old-rule-file> <new-rule-file>")
			os.Exit(1)
		}
		if err := cmd.RunDiff(os.Stdout, os.Args[2], os.Args[3]); err != nil {
			if !errors.Is(err, cmd.ErrRulesDiffer) {
				printer.Fprintf(os.Stderr, "%v\n", err)
			}
			// exit status 1 on differences, like diff(1)
			os.Exit(1)
		}

	case "fmt":
		fmtFlags := flag.NewFlagSet("fmt", flag.ExitOnError)
		write := fmtFlags.Bool("w", false, "Write result to the file instead of stdout")
		fmtFlags.Parse(os.Args[2:])

		configFile := brand.DefaultConfigPath()
		if len(fmtFlags.Args()) > 0 {
			configFile = fmtFlags.Arg(0)
		}

		if err := cmd.RunFmt(os.Stdout, configFile, *write); err != nil {
			printer.Fprintf(os.Stderr, "Format failed: %v\n", err)
			os.Exit(1)
		}

	case "version":
		printer.Printf("%s version %s (commit %s)\n", brand.Name, brand.Version, brand.GitCommit)
		printer.Printf("Build: %s\n", brand.BuildTime)

	case "help", "-h", "--help":
		printUsage()

	default:
		printer.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printer.Printf(`%s - %s

Usage:
  %s <command> [options]

Commands:
  render    Render rules
            Options: --config (-c) <file>, --format (-f) <%s>,
                     --rule (-r) <name>, --metrics <file>
  check     Build every rule against the live system and report problems
            Options: --verbose (-v), --metrics <file>; argument: <rule-file>
  diff      Compare the iptables renderings of two rule files
  fmt       Format a rule file
            Options: -w (rewrite in place)
  version   Show version information

Default rule file: %s
`, brand.Name, brand.Description, brand.BinaryName, strings.Join(cmd.Formats, "|"), brand.DefaultConfigPath())
}
