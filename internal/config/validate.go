package config

import (
	"fmt"
	"strings"
	"time"

	"grimm.is/fwrule/internal/logging"
	"grimm.is/fwrule/internal/rule"
	"grimm.is/fwrule/internal/validation"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validate checks the configuration statically, without consulting the
// live system.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if c.SchemaVersion != "" && c.SchemaVersion != CurrentSchemaVersion {
		errs = append(errs, ValidationError{
			Field:   "schema_version",
			Message: fmt.Sprintf("unsupported version %q (supported: %s)", c.SchemaVersion, CurrentSchemaVersion),
		})
	}

	errs = append(errs, c.validateSystem()...)
	errs = append(errs, c.validateLogging()...)

	seen := make(map[string]bool, len(c.Rules))
	for i := range c.Rules {
		rc := &c.Rules[i]
		if seen[rc.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("rule.%s", rc.Name),
				Message: "duplicate rule name",
			})
		}
		seen[rc.Name] = true
		errs = append(errs, rc.validate()...)
	}

	if len(errs) > 0 {
		logging.WithComponent("config").Debug("config validation failed", "errors", len(errs))
	}
	return errs
}

func (c *Config) validateSystem() ValidationErrors {
	if c.System == nil {
		return nil
	}
	var errs ValidationErrors
	s := c.System

	if s.InterfaceSource != "" {
		if err := validation.ValidateAllowlist(s.InterfaceSource, []string{validation.InterfaceSourceProcfs, validation.InterfaceSourceNetlink}); err != nil {
			errs = append(errs, ValidationError{Field: "system.interface_source", Message: err.Error()})
		}
	}
	if s.DNSTimeout != "" {
		d, err := time.ParseDuration(s.DNSTimeout)
		if err != nil {
			errs = append(errs, ValidationError{Field: "system.dns_timeout", Message: err.Error()})
		} else if d <= 0 {
			errs = append(errs, ValidationError{Field: "system.dns_timeout", Message: "must be positive"})
		}
	}
	return errs
}

func (c *Config) validateLogging() ValidationErrors {
	if c.Logging == nil {
		return nil
	}
	var errs ValidationErrors
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, ValidationError{Field: "logging.level", Message: err.Error()})
	}

	if s := c.Logging.Syslog; s != nil {
		if s.Host == "" {
			errs = append(errs, ValidationError{Field: "logging.syslog.host", Message: "host is required"})
		}
		if s.Port < 0 || s.Port > 65535 {
			errs = append(errs, ValidationError{Field: "logging.syslog.port", Message: fmt.Sprintf("invalid port %d", s.Port)})
		}
		if s.Protocol != "" {
			if err := validation.ValidateAllowlist(s.Protocol, []string{"udp", "tcp"}); err != nil {
				errs = append(errs, ValidationError{Field: "logging.syslog.protocol", Message: err.Error()})
			}
		}
		if s.Facility < 0 || s.Facility > 23 {
			errs = append(errs, ValidationError{Field: "logging.syslog.facility", Message: fmt.Sprintf("invalid facility %d", s.Facility)})
		}
	}
	return errs
}

func (rc *RuleConfig) validate() ValidationErrors {
	var errs ValidationErrors
	field := func(name string) string {
		return fmt.Sprintf("rule.%s.%s", rc.Name, name)
	}

	if err := validation.ValidateIdentifier(rc.Name); err != nil {
		errs = append(errs, ValidationError{Field: fmt.Sprintf("rule.%s", rc.Name), Message: err.Error()})
	}

	ifaces := []struct{ name, value string }{
		{"input_interface", rc.InputInterface},
		{"output_interface", rc.OutputInterface},
	}
	for _, iface := range ifaces {
		if iface.value == "" {
			continue
		}
		if err := validation.ValidateInterfaceName(iface.value); err != nil {
			errs = append(errs, ValidationError{Field: field(iface.name), Message: err.Error()})
		}
	}

	for _, name := range rc.Invert {
		if _, err := rule.ParseKind(name); err != nil {
			errs = append(errs, ValidationError{Field: field("invert"), Message: err.Error()})
		}
	}

	if _, err := rc.ParsedAction(); err != nil {
		errs = append(errs, ValidationError{Field: field("action"), Message: err.Error()})
	} else if rc.Target != "" {
		if err := validation.ValidateIdentifier(rc.Target); err != nil {
			errs = append(errs, ValidationError{Field: field("target"), Message: err.Error()})
		}
	}

	return errs
}
