package validation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"grimm.is/fwrule/internal/metrics"
)

// DefaultProtocolsFile is the system protocol database.
const DefaultProtocolsFile = "/etc/protocols"

// ErrUnknownProtocol is returned when a protocol name is not in the table.
var ErrUnknownProtocol = errors.New("unknown protocol")

// ProtocolEntry is one usable line of the protocol database.
type ProtocolEntry struct {
	Name    string
	Number  uint8
	Aliases []string
}

// ProtocolTable reads protocol names from a protocols(5) file.
// The file is re-read on every lookup so the table reflects live state.
type ProtocolTable struct {
	Path string
}

// NewProtocolTable creates a table backed by path, or DefaultProtocolsFile
// when path is empty.
func NewProtocolTable(path string) *ProtocolTable {
	if path == "" {
		path = DefaultProtocolsFile
	}
	return &ProtocolTable{Path: path}
}

// Entries reads and parses the table.
func (t *ProtocolTable) Entries() (entries []ProtocolEntry, err error) {
	start := time.Now()
	defer func() { metrics.Get().ObserveLookup("protocols", start, err) }()

	f, err := os.Open(t.Path)
	if err != nil {
		return nil, fmt.Errorf("open protocol table: %w", err)
	}
	defer f.Close()

	return ParseProtocols(f)
}

// Names returns the lowercase protocol names in file order.
func (t *ProtocolTable) Names() ([]string, error) {
	entries, err := t.Entries()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

// Number returns the IP protocol number for name (or one of its aliases).
func (t *ProtocolTable) Number(name string) (uint8, error) {
	entries, err := t.Entries()
	if err != nil {
		return 0, err
	}
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range entries {
		if e.Name == name {
			return e.Number, nil
		}
		for _, a := range e.Aliases {
			if strings.ToLower(a) == name {
				return e.Number, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownProtocol, name)
}

// ParseProtocols parses protocols(5) content. Blank lines, comment lines and
// lines mentioning ipv6 (in any case) are skipped. Names are lowercased.
func ParseProtocols(r io.Reader) ([]ProtocolEntry, error) {
	var entries []ProtocolEntry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.Contains(strings.ToLower(line), "ipv6") {
			continue
		}
		fields := strings.Fields(line)
		if strings.HasPrefix(fields[0], "#") {
			continue
		}

		entry := ProtocolEntry{Name: strings.ToLower(fields[0])}
		if len(fields) > 1 {
			if n, err := strconv.ParseUint(fields[1], 10, 8); err == nil {
				entry.Number = uint8(n)
			}
		}
		if len(fields) > 2 {
			for _, alias := range fields[2:] {
				if strings.HasPrefix(alias, "#") {
					break
				}
				entry.Aliases = append(entry.Aliases, alias)
			}
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read protocol table: %w", err)
	}
	return entries, nil
}
