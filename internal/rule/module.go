package rule

import (
	"fmt"
	"net"
	"net/netip"
	"slices"
	"strconv"
	"strings"

	"grimm.is/fwrule/internal/logging"
	"grimm.is/fwrule/internal/metrics"
)

const (
	// protocolAny is accepted by Protocol regardless of the protocol table.
	protocolAny = "any"
	// interfaceWildcard marks an interface name as a prefix match.
	interfaceWildcard = "+"
)

// Module is a self-validating container of values for one match criterion.
//
// Items are only committed after CheckValue succeeds. Scalar kinds (Protocol,
// InputInterface, OutputInterface) keep only the most recent value.
type Module struct {
	kind   Kind
	sys    System
	items  []string
	invert bool
	err    ModuleError
}

// NewModule creates a module of the given kind and adds each value in order.
// LastError reflects the outcome of the last value only.
func NewModule(kind Kind, sys System, values ...string) (*Module, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	m := &Module{kind: kind, sys: sys}
	for _, v := range values {
		m.err = m.Add(v)
	}
	return m, nil
}

func mustModule(kind Kind, sys System, values []string) *Module {
	m, err := NewModule(kind, sys, values...)
	if err != nil {
		panic(err)
	}
	return m
}

// NewProtocol creates a Protocol module.
func NewProtocol(sys System, values ...string) *Module {
	return mustModule(KindProtocol, sys, values)
}

// NewSource creates a Source module.
func NewSource(sys System, values ...string) *Module {
	return mustModule(KindSource, sys, values)
}

// NewDestination creates a Destination module.
func NewDestination(sys System, values ...string) *Module {
	return mustModule(KindDestination, sys, values)
}

// NewInputInterface creates an InputInterface module.
func NewInputInterface(sys System, values ...string) *Module {
	return mustModule(KindInputInterface, sys, values)
}

// NewOutputInterface creates an OutputInterface module.
func NewOutputInterface(sys System, values ...string) *Module {
	return mustModule(KindOutputInterface, sys, values)
}

// Kind returns the module kind.
func (m *Module) Kind() Kind {
	return m.kind
}

// Add validates value and, on success, commits it.
func (m *Module) Add(value string) ModuleError {
	m.err = m.CheckValue(value)
	metrics.Get().ModuleWrites.WithLabelValues(m.kind.String(), m.err.String()).Inc()
	if m.err != NoError {
		return m.err
	}

	if m.kind.Scalar() {
		m.items = []string{value}
	} else {
		m.items = append(m.items, value)
	}
	return NoError
}

// CheckValue validates value without committing it. Only the error slot
// is updated.
func (m *Module) CheckValue(value string) ModuleError {
	m.err = m.check(value)
	return m.err
}

func (m *Module) check(value string) ModuleError {
	if strings.TrimSpace(value) == "" {
		return EmptyValue
	}

	var ok bool
	switch m.kind.family() {
	case familyProtocol:
		ok = m.protocolExists(value)
	case familyHostNetwork:
		ok = isIPv4Interface(value) || (!isIPv6Literal(value) && m.hostResolves(value))
	case familyInterface:
		ok = m.interfaceExists(value)
	default:
		ok = true
	}
	if !ok {
		return InvalidValue
	}
	return NoError
}

func (m *Module) protocolExists(value string) bool {
	proto := strings.ToLower(strings.TrimSpace(value))
	if proto == protocolAny {
		return true
	}
	if m.sys == nil {
		return false
	}
	names, err := m.sys.Protocols()
	if err != nil {
		logging.WithComponent("rule").Debug("protocol lookup failed", "value", value, "error", err)
		return false
	}
	return slices.Contains(names, proto)
}

func (m *Module) interfaceExists(value string) bool {
	if m.sys == nil {
		return false
	}
	names, err := m.sys.Interfaces()
	if err != nil {
		logging.WithComponent("rule").Debug("interface lookup failed", "value", value, "error", err)
		return false
	}

	name, wildcard := strings.CutSuffix(value, interfaceWildcard)
	for _, n := range names {
		if n == name || (wildcard && strings.HasPrefix(n, name)) {
			return true
		}
	}
	return false
}

func (m *Module) hostResolves(value string) bool {
	if m.sys == nil {
		return false
	}
	if err := m.sys.LookupHost(value); err != nil {
		logging.WithComponent("rule").Debug("host lookup failed", "value", value, "error", err)
		return false
	}
	return true
}

// isIPv6Literal reports whether value is an IPv6 address or network. Host
// names never contain a colon, so these are not passed to the resolver.
func isIPv6Literal(value string) bool {
	return strings.Contains(value, ":")
}

// isIPv4Interface accepts an IPv4 address optionally followed by a prefix
// length, a netmask or a hostmask: 10.0.0.1, 10.0.0.1/24,
// 10.0.0.1/255.255.255.0, 10.0.0.1/0.0.0.255.
func isIPv4Interface(value string) bool {
	host, suffix, hasSuffix := strings.Cut(value, "/")
	addr, err := netip.ParseAddr(host)
	if err != nil || !addr.Is4() {
		return false
	}
	if !hasSuffix {
		return true
	}

	if bits, err := strconv.Atoi(suffix); err == nil && suffix[0] != '+' && suffix[0] != '-' {
		return bits >= 0 && bits <= 32
	}

	mask, err := netip.ParseAddr(suffix)
	if err != nil || !mask.Is4() {
		return false
	}
	b := mask.As4()
	if _, size := net.IPMask(b[:]).Size(); size != 0 {
		return true
	}
	// hostmask: the inverse of a netmask
	for i := range b {
		b[i] = ^b[i]
	}
	_, size := net.IPMask(b[:]).Size()
	return size != 0
}

// Items returns the accepted raw values in insertion order.
func (m *Module) Items() []string {
	return slices.Clone(m.items)
}

// Value returns the deduplicated, sorted projection of Items.
func (m *Module) Value() Value {
	return canonical(m.items)
}

// Inverted reports whether the criterion is negated.
func (m *Module) Inverted() bool {
	return m.invert
}

// SetInverted negates (or un-negates) the criterion.
func (m *Module) SetInverted(invert bool) {
	m.invert = invert
}

// LastError returns the outcome of the most recent Add or CheckValue.
func (m *Module) LastError() ModuleError {
	return m.err
}

// Payload returns the export payload of the module.
func (m *Module) Payload() Payload {
	return Payload{
		m.kind.String(): Attributes{
			AttrInvert: m.invert,
			AttrItems:  m.Value().Any(),
		},
	}
}

// Export renders the module through r.
func (m *Module) Export(r Renderer) (Output, error) {
	return r.Render(m.Payload())
}

func (m *Module) String() string {
	if len(m.items) == 0 {
		return ""
	}
	return strings.Join(m.items, ",")
}
