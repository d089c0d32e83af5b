package validation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"grimm.is/fwrule/internal/metrics"
)

// DefaultInterfacesFile is the kernel interface statistics table.
const DefaultInterfacesFile = "/proc/net/dev"

// Interface sources selectable from config.
const (
	InterfaceSourceProcfs  = "procfs"
	InterfaceSourceNetlink = "netlink"
)

// netDevHeaderLines is the number of header lines in /proc/net/dev.
const netDevHeaderLines = 2

// InterfaceSource lists the network interfaces currently present.
type InterfaceSource interface {
	Interfaces() ([]string, error)
}

// ProcNetDev reads interface names from a /proc/net/dev style table.
type ProcNetDev struct {
	Path string
}

// NewProcNetDev creates a source backed by path, or DefaultInterfacesFile
// when path is empty.
func NewProcNetDev(path string) *ProcNetDev {
	if path == "" {
		path = DefaultInterfacesFile
	}
	return &ProcNetDev{Path: path}
}

// Interfaces reads and parses the table.
func (p *ProcNetDev) Interfaces() (names []string, err error) {
	start := time.Now()
	defer func() { metrics.Get().ObserveLookup(InterfaceSourceProcfs, start, err) }()

	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("open interface table: %w", err)
	}
	defer f.Close()

	return ParseNetDev(f)
}

// ParseNetDev parses /proc/net/dev content: the two header lines are skipped
// and each remaining line's first token, up to its colon, is an interface name.
func ParseNetDev(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for line := 0; scanner.Scan(); line++ {
		if line < netDevHeaderLines {
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		// Large counters can abut the colon ("eth0:123456"), so cut there
		// rather than trimming a trailing character.
		name, _, _ := strings.Cut(fields[0], ":")
		if name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read interface table: %w", err)
	}
	return names, nil
}
