package rule

import (
	"errors"

	"github.com/stretchr/testify/mock"
)

// fakeSystem is a fixed snapshot of system state.
type fakeSystem struct {
	protocols  []string
	interfaces []string
	hosts      map[string]bool
	err        error
}

func newFakeSystem() *fakeSystem {
	return &fakeSystem{
		protocols:  []string{"ip", "icmp", "tcp", "udp"},
		interfaces: []string{"lo", "eth0", "eth1", "wlan0"},
		hosts:      map[string]bool{"router.lan": true, "nas.lan": true},
	}
}

func (s *fakeSystem) Protocols() ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.protocols, nil
}

func (s *fakeSystem) Interfaces() ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.interfaces, nil
}

func (s *fakeSystem) LookupHost(host string) error {
	if s.err != nil {
		return s.err
	}
	if !s.hosts[host] {
		return errors.New("no such host")
	}
	return nil
}

// MockSystem is a mock implementation of the System interface.
type MockSystem struct {
	mock.Mock
}

func (m *MockSystem) Protocols() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSystem) Interfaces() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSystem) LookupHost(host string) error {
	args := m.Called(host)
	return args.Error(0)
}
