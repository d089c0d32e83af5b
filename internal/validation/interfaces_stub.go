//go:build !linux
// +build !linux

package validation

import (
	"fmt"
	"runtime"
)

// ErrNotSupported is returned by the netlink source off Linux.
var ErrNotSupported = fmt.Errorf("netlink interface listing not supported on %s", runtime.GOOS)

// NetlinkInterfaces is unavailable on this platform.
type NetlinkInterfaces struct{}

// NewNetlinkInterfaces always fails on this platform.
func NewNetlinkInterfaces(_ any) (*NetlinkInterfaces, error) {
	return nil, ErrNotSupported
}

// Interfaces always fails on this platform.
func (n *NetlinkInterfaces) Interfaces() ([]string, error) {
	return nil, ErrNotSupported
}
