package rule

import (
	"slices"
	"strings"
)

// Value is the canonical projection of a module's items: deduplicated and
// sorted ascending. It distinguishes "no value", "scalar value" and
// "multi value".
type Value struct {
	items []string
}

func canonical(items []string) Value {
	out := slices.Clone(items)
	slices.Sort(out)
	return Value{items: slices.Compact(out)}
}

// IsEmpty reports whether the module holds no value.
func (v Value) IsEmpty() bool {
	return len(v.items) == 0
}

// IsScalar reports whether exactly one distinct value is held.
func (v Value) IsScalar() bool {
	return len(v.items) == 1
}

// Scalar returns the single value, or "" when the value is empty or multi.
func (v Value) Scalar() string {
	if len(v.items) == 1 {
		return v.items[0]
	}
	return ""
}

// List returns a copy of every distinct value in sorted order.
func (v Value) List() []string {
	return slices.Clone(v.items)
}

// Any returns "" when empty, the bare string when scalar, and a []string
// otherwise. This is the form placed in export payloads.
func (v Value) Any() any {
	switch len(v.items) {
	case 0:
		return ""
	case 1:
		return v.items[0]
	default:
		return v.List()
	}
}

func (v Value) String() string {
	return strings.Join(v.items, ",")
}
