package render

import "grimm.is/fwrule/internal/rule"

// List returns a renderer producing the same tokens as IPTables, unjoined.
// A rule exported through it yields one token list per module, e.g.
// [[-p tcp] [! -s 10.0.0.0/8] [-J DROP]].
func List() rule.Renderer {
	return rule.RendererFunc(func(p rule.Payload) (rule.Output, error) {
		var seq []any
		for _, key := range sortedKeys(p) {
			args, err := argv(key, p[key])
			if err != nil {
				return rule.Output{}, err
			}
			for _, a := range args {
				seq = append(seq, a)
			}
		}
		return rule.SequenceOutput(seq), nil
	})
}
