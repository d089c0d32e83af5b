package config

import (
	"errors"
	"fmt"
	"time"

	"grimm.is/fwrule/internal/logging"
	"grimm.is/fwrule/internal/rule"
	"grimm.is/fwrule/internal/validation"
)

// CurrentSchemaVersion is the rule-file schema understood by this build.
const CurrentSchemaVersion = "1"

// Config is the top-level rule file.
type Config struct {
	SchemaVersion string         `hcl:"schema_version,optional" json:"schema_version,omitempty"`
	System        *SystemConfig  `hcl:"system,block" json:"system,omitempty"`
	Logging       *LoggingConfig `hcl:"logging,block" json:"logging,omitempty"`
	Rules         []RuleConfig   `hcl:"rule,block" json:"rules"`
}

// SystemConfig selects where live system state is read from.
type SystemConfig struct {
	ProtocolsFile   string `hcl:"protocols_file,optional" json:"protocols_file,omitempty"`
	InterfacesFile  string `hcl:"interfaces_file,optional" json:"interfaces_file,omitempty"`
	InterfaceSource string `hcl:"interface_source,optional" json:"interface_source,omitempty"` // procfs (default) or netlink
	DNSServer       string `hcl:"dns_server,optional" json:"dns_server,omitempty"`             // host[:port]; empty uses the system resolver
	DNSTimeout      string `hcl:"dns_timeout,optional" json:"dns_timeout,omitempty"`           // e.g. "2s"
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string        `hcl:"level,optional" json:"level,omitempty"`
	JSON   bool          `hcl:"json,optional" json:"json,omitempty"`
	Syslog *SyslogConfig `hcl:"syslog,block" json:"syslog,omitempty"`
}

// SyslogConfig additionally sends logs to a remote syslog server.
type SyslogConfig struct {
	Host     string `hcl:"host" json:"host"`
	Port     int    `hcl:"port,optional" json:"port,omitempty"`
	Protocol string `hcl:"protocol,optional" json:"protocol,omitempty"` // udp (default) or tcp
	Tag      string `hcl:"tag,optional" json:"tag,omitempty"`
	Facility int    `hcl:"facility,optional" json:"facility,omitempty"`
}

// RuleConfig is one rule block.
type RuleConfig struct {
	Name            string   `hcl:"name,label" json:"name"`
	Protocol        string   `hcl:"protocol,optional" json:"protocol,omitempty"`
	Source          []string `hcl:"source,optional" json:"source,omitempty"`
	Destination     []string `hcl:"destination,optional" json:"destination,omitempty"`
	InputInterface  string   `hcl:"input_interface,optional" json:"input_interface,omitempty"`
	OutputInterface string   `hcl:"output_interface,optional" json:"output_interface,omitempty"`
	Invert          []string `hcl:"invert,optional" json:"invert,omitempty"` // criteria to negate, by name
	Action          string   `hcl:"action,optional" json:"action,omitempty"` // accept (default), drop, return, goto
	Target          string   `hcl:"target,optional" json:"target,omitempty"` // goto chain
	Return          *bool    `hcl:"return,optional" json:"return,omitempty"` // goto: push a return frame (default true)
}

// Rule returns the rule block with the given name.
func (c *Config) Rule(name string) (*RuleConfig, bool) {
	for i := range c.Rules {
		if c.Rules[i].Name == name {
			return &c.Rules[i], true
		}
	}
	return nil, false
}

// SystemOptions converts the system block into validation options. Unset
// fields keep their defaults.
func (c *Config) SystemOptions() (validation.Options, error) {
	opts := validation.DefaultOptions()
	if c.System == nil {
		return opts, nil
	}

	s := c.System
	if s.ProtocolsFile != "" {
		opts.ProtocolsFile = s.ProtocolsFile
	}
	if s.InterfacesFile != "" {
		opts.InterfacesFile = s.InterfacesFile
	}
	if s.InterfaceSource != "" {
		opts.InterfaceSource = s.InterfaceSource
	}
	opts.DNSServer = s.DNSServer
	if s.DNSTimeout != "" {
		d, err := time.ParseDuration(s.DNSTimeout)
		if err != nil {
			return opts, fmt.Errorf("system.dns_timeout: %w", err)
		}
		opts.DNSTimeout = d
	}
	return opts, nil
}

// LoggerConfig converts the logging block into a logger configuration.
func (c *Config) LoggerConfig() (logging.Config, error) {
	cfg := logging.DefaultConfig()
	if c.Logging == nil {
		return cfg, nil
	}
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return cfg, fmt.Errorf("logging.level: %w", err)
	}
	cfg.Level = level
	cfg.JSON = c.Logging.JSON
	return cfg, nil
}

// SyslogConfig returns the remote syslog settings, if a syslog block is
// present.
func (c *Config) SyslogConfig() (logging.SyslogConfig, bool) {
	if c.Logging == nil || c.Logging.Syslog == nil {
		return logging.SyslogConfig{}, false
	}
	s := c.Logging.Syslog
	sc := logging.DefaultSyslogConfig()
	sc.Host = s.Host
	if s.Port != 0 {
		sc.Port = s.Port
	}
	if s.Protocol != "" {
		sc.Protocol = s.Protocol
	}
	if s.Tag != "" {
		sc.Tag = s.Tag
	}
	if s.Facility != 0 {
		sc.Facility = s.Facility
	}
	return sc, true
}

// ParsedAction returns the rule's action.
func (rc *RuleConfig) ParsedAction() (rule.Action, error) {
	a, err := rule.ParseAction(rc.Action, rule.Chain(rc.Target))
	if err != nil {
		return nil, err
	}
	if g, ok := a.(rule.GoTo); ok && rc.Return != nil {
		g.NeedReturn = *rc.Return
		return g, nil
	}
	return a, nil
}

// Build creates the rule against sys. Every rejected value and unknown
// invert name is reported; the rule is only returned if there are none.
func (rc *RuleConfig) Build(sys rule.System) (*rule.Rule, error) {
	r := rule.New(sys)
	var problems []error

	set := func(kind rule.Kind, values ...string) {
		for _, v := range values {
			res, err := r.Modules.Set(kind, v)
			if err != nil {
				problems = append(problems, err)
				continue
			}
			if res != rule.NoError {
				problems = append(problems, fmt.Errorf("%s %q: %w", kind, v, res.Err()))
			}
		}
	}

	if rc.Protocol != "" {
		set(rule.KindProtocol, rc.Protocol)
	}
	set(rule.KindSource, rc.Source...)
	set(rule.KindDestination, rc.Destination...)
	if rc.InputInterface != "" {
		set(rule.KindInputInterface, rc.InputInterface)
	}
	if rc.OutputInterface != "" {
		set(rule.KindOutputInterface, rc.OutputInterface)
	}

	for _, name := range rc.Invert {
		kind, err := rule.ParseKind(name)
		if err != nil {
			problems = append(problems, fmt.Errorf("invert: %w", err))
			continue
		}
		if err := r.Modules.Invert(kind, true); err != nil {
			problems = append(problems, err)
		}
	}

	action, err := rc.ParsedAction()
	if err != nil {
		problems = append(problems, err)
	} else {
		r.Action = action
	}

	if err := errors.Join(problems...); err != nil {
		return nil, fmt.Errorf("rule %q: %w", rc.Name, err)
	}
	return r, nil
}
