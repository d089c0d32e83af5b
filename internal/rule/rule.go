package rule

import (
	"fmt"
	"strings"

	"grimm.is/fwrule/internal/metrics"
)

// Rule is a set of criteria plus one action. A nil Modules has no criteria
// and a nil Action accepts.
type Rule struct {
	Modules *Registry
	Action  Action
}

// New creates a rule with no criteria and an Accept action.
func New(sys System) *Rule {
	return &Rule{
		Modules: NewRegistry(sys),
		Action:  Accept{},
	}
}

// Export renders the rule through r. The renderer is first called with an
// empty payload to discover its output shape; the per-module renders are then
// assembled according to that shape.
func (r *Rule) Export(renderer Renderer) (Output, error) {
	probe, err := renderer.Render(Payload{})
	if err != nil {
		return Output{}, fmt.Errorf("probe renderer: %w", err)
	}

	var out Output
	switch probe.Shape {
	case ShapeMap:
		out, err = r.exportMap(renderer)
	case ShapeSequence:
		out, err = r.exportSequence(renderer)
	case ShapeText:
		out, err = r.exportText(renderer)
	default:
		err = fmt.Errorf("%w: %s", ErrUnrenderableShape, probe.Shape)
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.Get().Exports.WithLabelValues(probe.Shape.String(), result).Inc()

	if err != nil {
		return Output{}, err
	}
	return out, nil
}

func (r *Rule) modules() *Registry {
	if r.Modules == nil {
		r.Modules = &Registry{}
	}
	return r.Modules
}

func (r *Rule) action() Action {
	if r.Action == nil {
		return Accept{}
	}
	return r.Action
}

// exportMap merges every render into a single map; the action is merged last.
func (r *Rule) exportMap(renderer Renderer) (Output, error) {
	merged := make(map[string]any)
	for _, m := range r.modules().Items() {
		o, err := renderAs(renderer, m.Payload(), ShapeMap)
		if err != nil {
			return Output{}, fmt.Errorf("render %s: %w", m.Kind(), err)
		}
		for k, v := range o.Map {
			merged[k] = v
		}
	}

	o, err := r.renderAction(renderer, ShapeMap)
	if err != nil {
		return Output{}, err
	}
	for k, v := range o.Map {
		merged[k] = v
	}
	return MapOutput(merged), nil
}

// exportSequence yields one element per module in registry order, then the
// action.
func (r *Rule) exportSequence(renderer Renderer) (Output, error) {
	seq := make([]any, 0, r.modules().Len()+1)
	for _, m := range r.modules().Items() {
		o, err := renderAs(renderer, m.Payload(), ShapeSequence)
		if err != nil {
			return Output{}, fmt.Errorf("render %s: %w", m.Kind(), err)
		}
		seq = append(seq, o.Sequence)
	}

	o, err := r.renderAction(renderer, ShapeSequence)
	if err != nil {
		return Output{}, err
	}
	return SequenceOutput(append(seq, o.Sequence)), nil
}

// exportText joins the renders of modules holding a value, then appends the
// action. Modules with an empty value are skipped.
func (r *Rule) exportText(renderer Renderer) (Output, error) {
	var parts []string
	for _, m := range r.modules().Items() {
		if m.Value().IsEmpty() {
			continue
		}
		o, err := renderAs(renderer, m.Payload(), ShapeText)
		if err != nil {
			return Output{}, fmt.Errorf("render %s: %w", m.Kind(), err)
		}
		parts = append(parts, o.Text)
	}

	o, err := r.renderAction(renderer, ShapeText)
	if err != nil {
		return Output{}, err
	}
	return TextOutput(strings.TrimSpace(strings.Join(parts, " ") + " " + o.Text)), nil
}

func (r *Rule) renderAction(renderer Renderer, shape Shape) (Output, error) {
	a := r.action()
	o, err := a.Export(renderer)
	if err != nil {
		return Output{}, fmt.Errorf("render %s: %w", a.Name(), err)
	}
	if o.Shape != shape {
		return Output{}, fmt.Errorf("render %s: %w: probed %s, got %s", a.Name(), ErrUnrenderableShape, shape, o.Shape)
	}
	return o, nil
}
