package rule

import "fmt"

// Attribute keys used in export payloads.
const (
	AttrInvert = "invert"
	AttrItems  = "items"
	AttrReturn = "return"
	AttrValue  = "value"
)

// Attributes holds the exported fields of one module or action.
type Attributes map[string]any

// Payload is what a module or action hands to a renderer: a single entry
// keyed by the module kind or action name. The empty payload is used to
// probe a renderer's output shape.
type Payload map[string]Attributes

// Shape is the kind of output a renderer produces.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeMap
	ShapeSequence
	ShapeText
)

func (s Shape) String() string {
	switch s {
	case ShapeMap:
		return "map"
	case ShapeSequence:
		return "sequence"
	case ShapeText:
		return "text"
	default:
		return "none"
	}
}

// Output is the closed union of renderer results. Only the field matching
// Shape is meaningful.
type Output struct {
	Shape    Shape
	Map      map[string]any
	Sequence []any
	Text     string
}

// MapOutput wraps m as a map-shaped result.
func MapOutput(m map[string]any) Output {
	if m == nil {
		m = map[string]any{}
	}
	return Output{Shape: ShapeMap, Map: m}
}

// SequenceOutput wraps s as a sequence-shaped result.
func SequenceOutput(s []any) Output {
	return Output{Shape: ShapeSequence, Sequence: s}
}

// TextOutput wraps s as a text-shaped result.
func TextOutput(s string) Output {
	return Output{Shape: ShapeText, Text: s}
}

// Renderer converts a payload into one output shape. Renderers must be pure
// and shape-stable: the shape returned for the empty payload is the shape
// returned for every payload.
type Renderer interface {
	Render(p Payload) (Output, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(p Payload) (Output, error)

// Render calls f(p).
func (f RendererFunc) Render(p Payload) (Output, error) {
	return f(p)
}

// Exporter is anything that can render itself through a Renderer.
type Exporter interface {
	Export(r Renderer) (Output, error)
}

func renderAs(r Renderer, p Payload, want Shape) (Output, error) {
	out, err := r.Render(p)
	if err != nil {
		return Output{}, err
	}
	if out.Shape != want {
		return Output{}, fmt.Errorf("%w: probed %s, got %s", ErrUnrenderableShape, want, out.Shape)
	}
	return out, nil
}
