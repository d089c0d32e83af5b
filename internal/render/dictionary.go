package render

import "grimm.is/fwrule/internal/rule"

// Dictionary returns the identity renderer: the payload comes back as a map,
// with each entry's attributes as a nested map.
func Dictionary() rule.Renderer {
	return rule.RendererFunc(func(p rule.Payload) (rule.Output, error) {
		m := make(map[string]any, len(p))
		for k, attrs := range p {
			inner := make(map[string]any, len(attrs))
			for ak, av := range attrs {
				inner[ak] = av
			}
			m[k] = inner
		}
		return rule.MapOutput(m), nil
	})
}
