//go:build !linux
// +build !linux

package render

import (
	"fmt"

	"grimm.is/fwrule/internal/rule"
)

// NFT is only available on Linux.
func NFT(ProtocolNumberer) rule.Renderer {
	return rule.RendererFunc(func(rule.Payload) (rule.Output, error) {
		return rule.Output{}, fmt.Errorf("%w: nftables requires linux", ErrNotExpressible)
	})
}
