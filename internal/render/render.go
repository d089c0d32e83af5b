// Package render provides the renderers a rule.Rule can be exported through.
//
//   - [Dictionary]: map pass-through of the export payload
//   - [IPTables]: iptables-style flag string ("! -s 10.0.0.0/8 -J DROP")
//   - [List]: argv-style token sequence
//   - [NFT]: nftables expression sequence, for netlink-level consumers
package render

import (
	"errors"
	"fmt"
	"sort"

	"grimm.is/fwrule/internal/rule"
)

// ErrNotExpressible is returned when a payload has no equivalent in the
// target format.
var ErrNotExpressible = errors.New("not expressible")

// ProtocolNumberer maps protocol names to IP protocol numbers.
type ProtocolNumberer interface {
	ProtocolNumber(name string) (uint8, error)
}

var flags = map[string]string{
	rule.KindProtocol.String():        "p",
	rule.KindSource.String():          "s",
	rule.KindDestination.String():     "d",
	rule.KindInputInterface.String():  "i",
	rule.KindOutputInterface.String(): "o",
}

// sortedKeys returns payload keys in a stable order.
func sortedKeys(p rule.Payload) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// items normalizes the "items" attribute ("" | string | []string) to a slice.
func items(attrs rule.Attributes) []string {
	switch v := attrs[rule.AttrItems].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	default:
		return nil
	}
}

func inverted(attrs rule.Attributes) bool {
	b, _ := attrs[rule.AttrInvert].(bool)
	return b
}

// gotoTarget reads the target chain and return flag of a GoTo payload.
func gotoTarget(attrs rule.Attributes) (string, bool, error) {
	target, _ := attrs[rule.AttrValue].(string)
	if target == "" {
		return "", false, fmt.Errorf("GoTo without target chain")
	}
	needReturn, ok := attrs[rule.AttrReturn].(bool)
	if !ok {
		needReturn = true
	}
	return target, needReturn, nil
}

func unknownKey(key string) error {
	return fmt.Errorf("%w: %q", rule.ErrUnknownRenderKey, key)
}
