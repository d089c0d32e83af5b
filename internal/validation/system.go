package validation

import (
	"context"
	"fmt"
	"time"

	"grimm.is/fwrule/internal/rule"
)

// DefaultDNSTimeout bounds a single host lookup.
const DefaultDNSTimeout = 2 * time.Second

var _ rule.System = (*System)(nil)

// Options selects the backing sources of a System.
type Options struct {
	ProtocolsFile   string
	InterfacesFile  string
	InterfaceSource string // procfs or netlink
	DNSServer       string // empty for the system resolver
	DNSTimeout      time.Duration
}

// DefaultOptions returns the stock Linux sources.
func DefaultOptions() Options {
	return Options{
		ProtocolsFile:   DefaultProtocolsFile,
		InterfacesFile:  DefaultInterfacesFile,
		InterfaceSource: InterfaceSourceProcfs,
		DNSTimeout:      DefaultDNSTimeout,
	}
}

// System is the live-state backend that rule modules validate against.
type System struct {
	protocols  *ProtocolTable
	interfaces InterfaceSource
	resolver   HostResolver
	timeout    time.Duration
}

// NewSystem builds a System from opts.
func NewSystem(opts Options) (*System, error) {
	if opts.InterfaceSource == "" {
		opts.InterfaceSource = InterfaceSourceProcfs
	}
	if err := ValidateAllowlist(opts.InterfaceSource, []string{InterfaceSourceProcfs, InterfaceSourceNetlink}); err != nil {
		return nil, fmt.Errorf("interface source: %w", err)
	}
	if opts.DNSTimeout <= 0 {
		opts.DNSTimeout = DefaultDNSTimeout
	}

	var interfaces InterfaceSource
	if opts.InterfaceSource == InterfaceSourceNetlink {
		nl, err := NewNetlinkInterfaces(nil)
		if err != nil {
			return nil, err
		}
		interfaces = nl
	} else {
		interfaces = NewProcNetDev(opts.InterfacesFile)
	}

	var resolver HostResolver = NewSystemResolver()
	if opts.DNSServer != "" {
		resolver = NewDNSResolver(opts.DNSServer, opts.DNSTimeout)
	}

	return NewSystemWith(NewProtocolTable(opts.ProtocolsFile), interfaces, resolver, opts.DNSTimeout), nil
}

// NewSystemWith assembles a System from explicit sources.
func NewSystemWith(protocols *ProtocolTable, interfaces InterfaceSource, resolver HostResolver, timeout time.Duration) *System {
	if timeout <= 0 {
		timeout = DefaultDNSTimeout
	}
	return &System{
		protocols:  protocols,
		interfaces: interfaces,
		resolver:   resolver,
		timeout:    timeout,
	}
}

// Protocols returns the protocol names from the protocol table.
func (s *System) Protocols() ([]string, error) {
	return s.protocols.Names()
}

// ProtocolNumber returns the IP protocol number for name.
func (s *System) ProtocolNumber(name string) (uint8, error) {
	return s.protocols.Number(name)
}

// Interfaces returns the live interface names.
func (s *System) Interfaces() ([]string, error) {
	return s.interfaces.Interfaces()
}

// LookupHost resolves host, bounded by the configured timeout.
func (s *System) LookupHost(host string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.resolver.LookupHost(ctx, host)
}
