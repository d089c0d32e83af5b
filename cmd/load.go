package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"grimm.is/fwrule/internal/config"
	"grimm.is/fwrule/internal/i18n"
	"grimm.is/fwrule/internal/logging"
	"grimm.is/fwrule/internal/metrics"
	"grimm.is/fwrule/internal/rule"
	"grimm.is/fwrule/internal/validation"
)

// Printer prints user-facing messages in the user's locale.
var Printer = i18n.NewCLIPrinter()

var (
	// ErrInvalidRules is returned when at least one rule fails to build.
	ErrInvalidRules = errors.New("invalid rules")
	// ErrRulesDiffer is returned by diff when the renderings differ.
	ErrRulesDiffer = errors.New("rules differ")
	// ErrUnknownRule is returned when a named rule is not in the file.
	ErrUnknownRule = errors.New("unknown rule")
)

// workspace is a loaded rule file plus the live system it validates against.
// Close it when done.
type workspace struct {
	cfg    *config.Config
	sys    *validation.System
	logs   logging.Config
	syslog *logging.SyslogWriter
}

// namedRule is a built rule with its block name.
type namedRule struct {
	name string
	rule *rule.Rule
}

// load reads and statically validates configFile, applies its logging block
// and opens the system sources it names.
func load(configFile string) (*workspace, error) {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); errs.HasErrors() {
		return nil, fmt.Errorf("configuration invalid: %w", errs)
	}

	lc, err := cfg.LoggerConfig()
	if err != nil {
		return nil, err
	}
	lc.Output = os.Stderr
	ws := &workspace{cfg: cfg, logs: lc}
	if sc, ok := cfg.SyslogConfig(); ok {
		sw, err := logging.NewSyslogWriter(sc)
		if err != nil {
			return nil, err
		}
		ws.syslog = sw
		lc.Output = io.MultiWriter(os.Stderr, sw)
	}
	logging.SetDefault(logging.New(lc))

	opts, err := cfg.SystemOptions()
	if err != nil {
		ws.Close()
		return nil, err
	}
	ws.sys, err = validation.NewSystem(opts)
	if err != nil {
		ws.Close()
		return nil, fmt.Errorf("failed to open system sources: %w", err)
	}

	logging.WithComponent("cmd").Debug("workspace loaded",
		"config", configFile,
		"interface_source", opts.InterfaceSource,
		"rules", len(cfg.Rules))
	return ws, nil
}

// Close detaches and closes the syslog writer, if any. Logging continues on
// stderr.
func (ws *workspace) Close() error {
	if ws.syslog == nil {
		return nil
	}
	logging.SetDefault(logging.New(ws.logs))
	err := ws.syslog.Close()
	ws.syslog = nil
	return err
}

// rules builds every rule, or only the one called only when it is set.
func (ws *workspace) rules(only string) ([]namedRule, error) {
	blocks := ws.cfg.Rules
	if only != "" {
		rc, ok := ws.cfg.Rule(only)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRule, only)
		}
		blocks = []config.RuleConfig{*rc}
	}

	var (
		built    []namedRule
		problems []error
	)
	for i := range blocks {
		r, err := blocks[i].Build(ws.sys)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		built = append(built, namedRule{name: blocks[i].Name, rule: r})
	}
	if err := errors.Join(problems...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}
	return built, nil
}

// writeMetrics dumps collected metrics to path, if set.
func writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := metrics.WriteTextfile(path); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
