package rule

import (
	"fmt"
	"strings"
)

// Action is the terminal disposition of a rule.
type Action interface {
	Exporter
	// Name returns the canonical name of the disposition, which is also its
	// export key.
	Name() string
}

// Chain identifies a named group of rules. It is only ever referenced.
type Chain string

func (c Chain) String() string {
	return string(c)
}

// Accept lets the packet through.
type Accept struct{}

// Drop silently discards the packet.
type Drop struct{}

// Return resumes processing in the calling chain.
type Return struct{}

// GoTo continues processing in Target. When NeedReturn is set a return frame
// is pushed first, so a Return in Target comes back to the calling chain.
type GoTo struct {
	Target     Chain
	NeedReturn bool
}

// NewGoTo creates a GoTo that returns to the calling chain.
func NewGoTo(target Chain) GoTo {
	return GoTo{Target: target, NeedReturn: true}
}

func (Accept) Name() string { return "Accept" }
func (Drop) Name() string   { return "Drop" }
func (Return) Name() string { return "Return" }
func (GoTo) Name() string   { return "GoTo" }

func (a Accept) Export(r Renderer) (Output, error) { return r.Render(Payload{a.Name(): Attributes{}}) }
func (a Drop) Export(r Renderer) (Output, error)   { return r.Render(Payload{a.Name(): Attributes{}}) }
func (a Return) Export(r Renderer) (Output, error) { return r.Render(Payload{a.Name(): Attributes{}}) }

func (a GoTo) Export(r Renderer) (Output, error) {
	return r.Render(Payload{a.Name(): Attributes{
		AttrReturn: a.NeedReturn,
		AttrValue:  a.Target.String(),
	}})
}

// ParseAction builds an action from its name. target is only used by GoTo
// (also accepted as "jump").
func ParseAction(name string, target Chain) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "accept":
		return Accept{}, nil
	case "drop":
		return Drop{}, nil
	case "return":
		return Return{}, nil
	case "goto", "jump":
		if target == "" {
			return nil, fmt.Errorf("action %q requires a target chain", name)
		}
		return NewGoTo(target), nil
	default:
		return nil, fmt.Errorf("unknown action %q", name)
	}
}
