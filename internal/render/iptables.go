package render

import (
	"strings"

	"grimm.is/fwrule/internal/rule"
)

// IPTables returns a renderer producing iptables-style flags:
//
//	Source 10.0.0.1/24, inverted  →  ! -s 10.0.0.1/24
//	Drop                          →  -J DROP
//	GoTo LOGGING (return)         →  -J LOGGING
//	GoTo TRAP (no return)         →  -G TRAP
//
// Modules without items render as nothing. Unknown keys are an error.
func IPTables() rule.Renderer {
	return rule.RendererFunc(func(p rule.Payload) (rule.Output, error) {
		var parts []string
		for _, key := range sortedKeys(p) {
			args, err := argv(key, p[key])
			if err != nil {
				return rule.Output{}, err
			}
			if len(args) > 0 {
				parts = append(parts, strings.Join(args, " "))
			}
		}
		return rule.TextOutput(strings.Join(parts, " ")), nil
	})
}

// argv renders one payload entry as command-line tokens.
func argv(key string, attrs rule.Attributes) ([]string, error) {
	if flag, ok := flags[key]; ok {
		vals := items(attrs)
		if len(vals) == 0 {
			return nil, nil
		}
		var args []string
		if inverted(attrs) {
			args = append(args, "!")
		}
		return append(args, "-"+flag, strings.Join(vals, ",")), nil
	}

	switch key {
	case rule.Accept{}.Name(), rule.Drop{}.Name(), rule.Return{}.Name():
		return []string{"-J", strings.ToUpper(key)}, nil
	case rule.GoTo{}.Name():
		target, needReturn, err := gotoTarget(attrs)
		if err != nil {
			return nil, err
		}
		// -J pushes a return frame, -G does not
		if needReturn {
			return []string{"-J", target}, nil
		}
		return []string{"-G", target}, nil
	default:
		return nil, unknownKey(key)
	}
}
