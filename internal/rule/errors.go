package rule

import "errors"

// ModuleError is the outcome of validating a candidate value.
// It is returned as a value from Add and CheckValue, never raised.
type ModuleError int

const (
	NoError ModuleError = iota
	EmptyValue
	InvalidValue
)

var (
	ErrEmptyValue        = errors.New("empty value")
	ErrInvalidValue      = errors.New("invalid value")
	ErrUnsupportedKind   = errors.New("unsupported module kind")
	ErrUnrenderableShape = errors.New("renderer output has no renderable shape")
	ErrUnknownRenderKey  = errors.New("unknown render key")
)

func (e ModuleError) String() string {
	switch e {
	case NoError:
		return "ok"
	case EmptyValue:
		return "empty"
	case InvalidValue:
		return "invalid"
	default:
		return "unknown"
	}
}

// Err converts the outcome into an error, nil for NoError.
func (e ModuleError) Err() error {
	switch e {
	case NoError:
		return nil
	case EmptyValue:
		return ErrEmptyValue
	default:
		return ErrInvalidValue
	}
}
