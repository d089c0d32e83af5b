//go:build linux
// +build linux

package render

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/google/nftables/expr"
	"golang.org/x/sys/unix"

	"grimm.is/fwrule/internal/rule"
)

const (
	// IPv4 header offsets (RFC 791)
	ipv4SrcOffset = 12
	ipv4DstOffset = 16
	ipv4AddrLen   = 4

	// ifnameLen is IFNAMSIZ.
	ifnameLen = 16
)

// NFT returns a renderer producing nftables expressions ([]expr.Any as a
// sequence) ready to be placed in an nftables.Rule. Protocol names are
// resolved to numbers through protocols.
//
// Only what fits in a single rule without sets is supported: one address
// per Source/Destination module, and IPv4 literals only.
func NFT(protocols ProtocolNumberer) rule.Renderer {
	return rule.RendererFunc(func(p rule.Payload) (rule.Output, error) {
		var seq []any
		for _, key := range sortedKeys(p) {
			exprs, err := nftExprs(protocols, key, p[key])
			if err != nil {
				return rule.Output{}, err
			}
			for _, e := range exprs {
				seq = append(seq, e)
			}
		}
		return rule.SequenceOutput(seq), nil
	})
}

func nftExprs(protocols ProtocolNumberer, key string, attrs rule.Attributes) ([]expr.Any, error) {
	op := expr.CmpOpEq
	if inverted(attrs) {
		op = expr.CmpOpNeq
	}

	switch key {
	case rule.KindProtocol.String():
		return protocolMatch(protocols, items(attrs), op)
	case rule.KindSource.String():
		return addressMatch(items(attrs), ipv4SrcOffset, op)
	case rule.KindDestination.String():
		return addressMatch(items(attrs), ipv4DstOffset, op)
	case rule.KindInputInterface.String():
		return ifaceMatch(items(attrs), expr.MetaKeyIIFNAME, op), nil
	case rule.KindOutputInterface.String():
		return ifaceMatch(items(attrs), expr.MetaKeyOIFNAME, op), nil
	case rule.Accept{}.Name():
		return []expr.Any{&expr.Verdict{Kind: expr.VerdictAccept}}, nil
	case rule.Drop{}.Name():
		return []expr.Any{&expr.Verdict{Kind: expr.VerdictDrop}}, nil
	case rule.Return{}.Name():
		return []expr.Any{&expr.Verdict{Kind: expr.VerdictReturn}}, nil
	case rule.GoTo{}.Name():
		target, needReturn, err := gotoTarget(attrs)
		if err != nil {
			return nil, err
		}
		kind := expr.VerdictGoto
		if needReturn {
			kind = expr.VerdictJump
		}
		return []expr.Any{&expr.Verdict{Kind: kind, Chain: target}}, nil
	default:
		return nil, unknownKey(key)
	}
}

func protocolMatch(protocols ProtocolNumberer, vals []string, op expr.CmpOp) ([]expr.Any, error) {
	if len(vals) == 0 {
		return nil, nil
	}
	if strings.EqualFold(vals[0], "any") {
		// "not any" matches nothing, which has no single expression
		if op == expr.CmpOpNeq {
			return nil, fmt.Errorf("%w: inverted protocol any", ErrNotExpressible)
		}
		return nil, nil
	}
	if protocols == nil {
		return nil, fmt.Errorf("%w: no protocol table for %q", ErrNotExpressible, vals[0])
	}
	num, err := protocols.ProtocolNumber(vals[0])
	if err != nil {
		return nil, err
	}
	return []expr.Any{
		&expr.Meta{Key: expr.MetaKeyL4PROTO, Register: 1},
		&expr.Cmp{Op: op, Register: 1, Data: []byte{num}},
	}, nil
}

func addressMatch(vals []string, offset uint32, op expr.CmpOp) ([]expr.Any, error) {
	switch len(vals) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, fmt.Errorf("%w: %d addresses need a set", ErrNotExpressible, len(vals))
	}

	addr, mask, err := parseIPv4Match(vals[0])
	if err != nil {
		return nil, err
	}

	exprs := []expr.Any{
		// restrict to IPv4 so the rule is safe in an inet table
		&expr.Meta{Key: expr.MetaKeyNFPROTO, Register: 1},
		&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: []byte{unix.NFPROTO_IPV4}},
		&expr.Payload{
			DestRegister: 1,
			Base:         expr.PayloadBaseNetworkHeader,
			Offset:       offset,
			Len:          ipv4AddrLen,
		},
	}
	if ones, bits := mask.Size(); ones < bits {
		exprs = append(exprs, &expr.Bitwise{
			SourceRegister: 1,
			DestRegister:   1,
			Len:            ipv4AddrLen,
			Mask:           mask,
			Xor:            make([]byte, ipv4AddrLen),
		})
	}

	a := addr.As4()
	return append(exprs, &expr.Cmp{
		Op:       op,
		Register: 1,
		Data:     net.IP(a[:]).Mask(mask).To4(),
	}), nil
}

// parseIPv4Match splits "addr[/prefix|/netmask|/hostmask]" into an address
// and a netmask.
func parseIPv4Match(value string) (netip.Addr, net.IPMask, error) {
	host, suffix, hasSuffix := strings.Cut(value, "/")
	addr, err := netip.ParseAddr(host)
	if err != nil || !addr.Is4() {
		return netip.Addr{}, nil, fmt.Errorf("%w: %q is not an IPv4 address", ErrNotExpressible, value)
	}
	if !hasSuffix {
		return addr, net.CIDRMask(32, 32), nil
	}

	if bits, err := strconv.Atoi(suffix); err == nil {
		if bits < 0 || bits > 32 {
			return netip.Addr{}, nil, fmt.Errorf("invalid prefix length in %q", value)
		}
		return addr, net.CIDRMask(bits, 32), nil
	}

	m, err := netip.ParseAddr(suffix)
	if err != nil || !m.Is4() {
		return netip.Addr{}, nil, fmt.Errorf("invalid mask in %q", value)
	}
	b := m.As4()
	if _, size := net.IPMask(b[:]).Size(); size != 0 {
		return addr, net.IPMask(b[:]), nil
	}
	for i := range b {
		b[i] = ^b[i]
	}
	if _, size := net.IPMask(b[:]).Size(); size != 0 {
		return addr, net.IPMask(b[:]), nil
	}
	return netip.Addr{}, nil, fmt.Errorf("invalid mask in %q", value)
}

// ifaceMatch compares the interface name. A trailing "+" becomes a prefix
// comparison, as in iptables.
func ifaceMatch(vals []string, key expr.MetaKey, op expr.CmpOp) []expr.Any {
	if len(vals) == 0 {
		return nil
	}
	data := pad(vals[0])
	if name, ok := strings.CutSuffix(vals[0], "+"); ok {
		data = []byte(name)
	}
	return []expr.Any{
		&expr.Meta{Key: key, Register: 1},
		&expr.Cmp{Op: op, Register: 1, Data: data},
	}
}

func pad(s string) []byte {
	b := make([]byte, ifnameLen)
	copy(b, s)
	return b
}
