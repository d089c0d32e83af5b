package logging

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	defaultSyslogPort = 514
	defaultSyslogTag  = "fwrule"
	syslogDialTimeout = 5 * time.Second

	// severity used for every message (RFC 5424 "informational")
	syslogSeverity = 6
)

// SyslogConfig holds remote syslog server configuration.
type SyslogConfig struct {
	Host     string // Remote syslog server hostname or IP
	Port     int    // default 514
	Protocol string // udp (default) or tcp
	Tag      string // default fwrule
	Facility int    // default 1 (user)
}

// DefaultSyslogConfig returns the defaults applied to unset fields.
func DefaultSyslogConfig() SyslogConfig {
	return SyslogConfig{
		Port:     defaultSyslogPort,
		Protocol: "udp",
		Tag:      defaultSyslogTag,
		Facility: 1, // LOG_USER
	}
}

// SyslogWriter implements io.Writer and sends each write to a remote syslog
// server as one RFC 3164 message.
type SyslogWriter struct {
	mu       sync.Mutex
	conn     net.Conn
	config   SyslogConfig
	hostname string
}

// NewSyslogWriter connects to the configured server.
func NewSyslogWriter(cfg SyslogConfig) (*SyslogWriter, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("syslog host is required")
	}
	def := DefaultSyslogConfig()
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.Protocol == "" {
		cfg.Protocol = def.Protocol
	}
	if cfg.Tag == "" {
		cfg.Tag = def.Tag
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = defaultSyslogTag
	}

	w := &SyslogWriter{config: cfg, hostname: hostname}
	if err := w.dial(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *SyslogWriter) addr() string {
	return net.JoinHostPort(w.config.Host, strconv.Itoa(w.config.Port))
}

func (w *SyslogWriter) dial() error {
	conn, err := net.DialTimeout(w.config.Protocol, w.addr(), syslogDialTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to syslog server %s: %w", w.addr(), err)
	}
	w.conn = conn
	return nil
}

// Write sends p as "<priority>timestamp hostname tag: message".
func (w *SyslogWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		return 0, fmt.Errorf("syslog connection closed")
	}

	priority := w.config.Facility*8 + syslogSeverity
	msg := fmt.Sprintf("<%d>%s %s %s: %s", priority, time.Now().Format(time.Stamp), w.hostname, w.config.Tag, p)

	if _, err := w.conn.Write([]byte(msg)); err != nil {
		// the next write goes to a fresh connection
		w.conn.Close()
		if derr := w.dial(); derr != nil {
			w.conn = nil
		}
		return 0, err
	}
	return len(p), nil
}

// Close closes the syslog connection.
func (w *SyslogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn != nil {
		err := w.conn.Close()
		w.conn = nil
		return err
	}
	return nil
}
