package validation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"

	"grimm.is/fwrule/internal/metrics"
)

var (
	// ErrHostNotFound is returned when a name resolves to no IPv4 address.
	ErrHostNotFound = errors.New("host not found")
	// ErrNotIPv4 is returned for IPv6 address literals.
	ErrNotIPv4 = errors.New("not an IPv4 address")
)

// HostResolver performs forward IPv4 lookups. Only success or failure
// matters; resolved addresses are discarded.
type HostResolver interface {
	LookupHost(ctx context.Context, host string) error
}

// SystemResolver resolves through the host's configured resolver.
type SystemResolver struct {
	resolver *net.Resolver
}

// NewSystemResolver creates a resolver using net.DefaultResolver.
func NewSystemResolver() *SystemResolver {
	return &SystemResolver{resolver: net.DefaultResolver}
}

func (r *SystemResolver) LookupHost(ctx context.Context, host string) (err error) {
	start := time.Now()
	defer func() { metrics.Get().ObserveLookup("system", start, err) }()

	if addr, perr := netip.ParseAddr(host); perr == nil {
		if !addr.Is4() {
			return fmt.Errorf("%w: %s", ErrNotIPv4, host)
		}
		return nil
	}

	addrs, err := r.resolver.LookupNetIP(ctx, "ip4", host)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", host, err)
	}
	for _, addr := range addrs {
		if addr.Unmap().Is4() {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrHostNotFound, host)
}

// DNSResolver queries a specific DNS server for A records.
type DNSResolver struct {
	server string
	client *dns.Client
}

// NewDNSResolver creates a resolver querying server over UDP. Port 53 is
// assumed when server has no port.
func NewDNSResolver(server string, timeout time.Duration) *DNSResolver {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	c := new(dns.Client)
	c.Timeout = timeout
	return &DNSResolver{server: server, client: c}
}

func (r *DNSResolver) LookupHost(ctx context.Context, host string) (err error) {
	start := time.Now()
	defer func() { metrics.Get().ObserveLookup("dns", start, err) }()

	// IPv4 literals resolve to themselves, as with the system resolver.
	if addr, perr := netip.ParseAddr(host); perr == nil {
		if !addr.Is4() {
			return fmt.Errorf("%w: %s", ErrNotIPv4, host)
		}
		return nil
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), dns.TypeA)
	m.RecursionDesired = true

	in, _, err := r.client.ExchangeContext(ctx, m, r.server)
	if err != nil {
		return fmt.Errorf("resolve %s via %s: %w", host, r.server, err)
	}
	if in.Rcode != dns.RcodeSuccess {
		return fmt.Errorf("%w: %s (%s)", ErrHostNotFound, host, dns.RcodeToString[in.Rcode])
	}
	for _, rr := range in.Answer {
		if _, ok := rr.(*dns.A); ok {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrHostNotFound, host)
}
