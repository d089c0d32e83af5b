package validation

import (
	"strings"
	"testing"
)

func TestValidateInterfaceName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		// Happy paths
		{"simple", "eth0", false},
		{"with dash", "eth-0", false},
		{"with underscore", "eth_0", false},
		{"with dot (vlan)", "eth0.100", false},
		{"max length", "eth0123456789ab", false}, // 15 chars
		{"wildcard", "eth+", false},
		{"max length wildcard", "eth0123456789ab+", false},

		// Sad paths
		{"empty", "", true},
		{"too long", "eth01234567890123", true}, // 17 chars
		{"space", "eth 0", true},
		{"wildcard only", "+", true},
		{"wildcard in middle", "et+h", true},
		{"semicolon injection", "eth0;rm", true},
		{"pipe injection", "eth0|cat", true},
		{"dollar sign", "eth0$USER", true},
		{"backtick", "eth0`whoami`", true},
		{"newline", "eth0\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInterfaceName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInterfaceName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		// Happy paths
		{"simple", "ssh-in", false},
		{"chain", "LOG_AND_DROP", false},
		{"alphanumeric", "rule123", false},

		// Sad paths
		{"empty", "", true},
		{"space", "my rule", true},
		{"dot", "my.rule", true},
		{"semicolon", "rule;drop", true},
		{"long", strings.Repeat("a", 256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAllowlist(t *testing.T) {
	allowed := []string{"procfs", "netlink"}

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"in list", "procfs", false},
		{"in list 2", "netlink", false},
		{"not in list", "sysfs", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAllowlist(tt.value, allowed)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAllowlist(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}
