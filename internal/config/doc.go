// Package config handles HCL rule-file parsing and validation.
//
// # Overview
//
// fwrule reads its rules and runtime settings from an HCL file. Values may
// reference the process environment through the env object:
//
//	schema_version = "1"
//
//	system {
//	    protocols_file   = "/etc/protocols"
//	    interface_source = "netlink"
//	    dns_server       = env.FWRULE_DNS
//	    dns_timeout      = "1s"
//	}
//
//	logging {
//	    level = "debug"
//	}
//
//	rule "drop_bogons" {
//	    source = ["10.0.0.0/8", "192.168.0.0/16"]
//	    input_interface = "eth+"
//	    invert = ["input_interface"]
//	    action = "drop"
//	}
//
//	rule "to_services" {
//	    protocol = "tcp"
//	    action   = "goto"
//	    target   = "SERVICES"
//	    return   = false
//	}
//
// # Key Types
//
//   - [Config]: the decoded file
//   - [RuleConfig]: one rule block; [RuleConfig.Build] turns it into a rule.Rule
//   - [ValidationErrors]: static problems found by [Config.Validate]
//
// Static validation only checks syntax. Whether a protocol, interface or host
// exists is decided by the rule modules at build time, against the live
// system.
package config
