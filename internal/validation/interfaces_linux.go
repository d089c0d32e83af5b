//go:build linux
// +build linux

package validation

import (
	"fmt"
	"time"

	"github.com/vishvananda/netlink"

	"grimm.is/fwrule/internal/metrics"
)

// LinkLister abstracts netlink link enumeration for testing.
type LinkLister interface {
	LinkList() ([]netlink.Link, error)
}

// RealLinkLister lists links through the kernel netlink socket.
type RealLinkLister struct{}

func (RealLinkLister) LinkList() ([]netlink.Link, error) {
	return netlink.LinkList()
}

// NetlinkInterfaces lists interface names over netlink instead of procfs.
type NetlinkInterfaces struct {
	lister LinkLister
}

// NewNetlinkInterfaces creates a netlink-backed source. A nil lister uses
// RealLinkLister.
func NewNetlinkInterfaces(lister LinkLister) (*NetlinkInterfaces, error) {
	if lister == nil {
		lister = RealLinkLister{}
	}
	return &NetlinkInterfaces{lister: lister}, nil
}

// Interfaces returns the names of all links.
func (n *NetlinkInterfaces) Interfaces() (names []string, err error) {
	start := time.Now()
	defer func() { metrics.Get().ObserveLookup(InterfaceSourceNetlink, start, err) }()

	links, err := n.lister.LinkList()
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	names = make([]string, 0, len(links))
	for _, l := range links {
		if attrs := l.Attrs(); attrs != nil && attrs.Name != "" {
			names = append(names, attrs.Name)
		}
	}
	return names, nil
}
