package rule

// System exposes the live system state that criteria are validated against.
// Implementations perform blocking I/O; any error is treated by modules as
// "value did not validate".
type System interface {
	// Protocols returns the lowercase protocol names from the protocol database.
	Protocols() ([]string, error)
	// Interfaces returns the names of the network interfaces currently present.
	Interfaces() ([]string, error)
	// LookupHost returns nil if host resolves to at least one address.
	LookupHost(host string) error
}
