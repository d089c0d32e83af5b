package rule

import (
	"fmt"
	"strings"
)

// Kind identifies a module type. A registry holds at most one module per Kind.
type Kind int

const (
	KindProtocol Kind = iota + 1
	KindSource
	KindDestination
	KindInputInterface
	KindOutputInterface
)

// family groups kinds that share validation rules.
type family int

const (
	familyProtocol family = iota + 1
	familyHostNetwork
	familyInterface
)

var kindNames = map[Kind]string{
	KindProtocol:        "Protocol",
	KindSource:          "Source",
	KindDestination:     "Destination",
	KindInputInterface:  "InputInterface",
	KindOutputInterface: "OutputInterface",
}

// Config-style aliases accepted by ParseKind.
var kindAliases = map[string]Kind{
	"protocol":         KindProtocol,
	"source":           KindSource,
	"destination":      KindDestination,
	"input_interface":  KindInputInterface,
	"output_interface": KindOutputInterface,
}

// Kinds returns all module kinds in their canonical order.
func Kinds() []Kind {
	return []Kind{KindProtocol, KindSource, KindDestination, KindInputInterface, KindOutputInterface}
}

// String returns the export key of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k names a module kind.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Scalar reports whether modules of this kind hold a single value.
// Writes to a scalar module replace the value instead of appending.
func (k Kind) Scalar() bool {
	f := k.family()
	return f == familyProtocol || f == familyInterface
}

func (k Kind) family() family {
	switch k {
	case KindProtocol:
		return familyProtocol
	case KindSource, KindDestination:
		return familyHostNetwork
	case KindInputInterface, KindOutputInterface:
		return familyInterface
	default:
		return 0
	}
}

// ParseKind resolves a kind from its export name ("InputInterface") or its
// config name ("input_interface").
func ParseKind(name string) (Kind, error) {
	name = strings.TrimSpace(name)
	if k, ok := kindAliases[strings.ToLower(name)]; ok {
		return k, nil
	}
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, name)
}
