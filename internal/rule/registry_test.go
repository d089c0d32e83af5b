package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SetCreatesOnce(t *testing.T) {
	reg := NewRegistry(newFakeSystem())

	res, err := reg.Set(KindSource, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, NoError, res)

	res, err = reg.Set(KindSource, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, NoError, res)

	assert.Equal(t, 1, reg.Len())
	m, ok := reg.Get(KindSource)
	require.True(t, ok)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, m.Items())
}

func TestRegistry_ScalarKindReplaces(t *testing.T) {
	reg := NewRegistry(newFakeSystem())
	reg.Set(KindProtocol, "tcp")
	reg.Set(KindProtocol, "udp")

	m, ok := reg.Get(KindProtocol)
	require.True(t, ok)
	assert.Equal(t, []string{"udp"}, m.Items())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_PropagatesResult(t *testing.T) {
	reg := NewRegistry(newFakeSystem())

	res, err := reg.Set(KindProtocol, "bogus123")
	require.NoError(t, err)
	assert.Equal(t, InvalidValue, res)

	res, err = reg.Set(KindInputInterface, " ")
	require.NoError(t, err)
	assert.Equal(t, EmptyValue, res)

	// Failed writes still leave the (empty) instance registered.
	assert.Equal(t, 2, reg.Len())
	m, _ := reg.Get(KindProtocol)
	assert.Empty(t, m.Items())
}

func TestRegistry_UnsupportedKind(t *testing.T) {
	reg := NewRegistry(newFakeSystem())

	_, err := reg.Set(Kind(0), "tcp")
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	err = reg.Invert(Kind(99), true)
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	assert.Zero(t, reg.Len())
}

func TestRegistry_GetMissing(t *testing.T) {
	reg := NewRegistry(newFakeSystem())
	m, ok := reg.Get(KindDestination)
	assert.False(t, ok)
	assert.Nil(t, m)
}

func TestRegistry_FirstSeenOrder(t *testing.T) {
	reg := NewRegistry(newFakeSystem())
	reg.Set(KindOutputInterface, "eth1")
	reg.Set(KindProtocol, "tcp")
	reg.Set(KindSource, "10.0.0.1")
	reg.Set(KindOutputInterface, "eth0")

	var kinds []Kind
	for _, m := range reg.Items() {
		kinds = append(kinds, m.Kind())
	}
	assert.Equal(t, []Kind{KindOutputInterface, KindProtocol, KindSource}, kinds)
}

func TestRegistry_Invert(t *testing.T) {
	reg := NewRegistry(newFakeSystem())
	reg.Set(KindSource, "10.0.0.0/8")
	require.NoError(t, reg.Invert(KindSource, true))

	m, _ := reg.Get(KindSource)
	assert.True(t, m.Inverted())
	assert.Equal(t, 1, reg.Len())
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"Protocol", KindProtocol, false},
		{"protocol", KindProtocol, false},
		{"source", KindSource, false},
		{"Destination", KindDestination, false},
		{"input_interface", KindInputInterface, false},
		{"OutputInterface", KindOutputInterface, false},
		{" output_interface ", KindOutputInterface, false},
		{"Accept", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind(t *testing.T) {
	assert.True(t, KindProtocol.Scalar())
	assert.True(t, KindInputInterface.Scalar())
	assert.True(t, KindOutputInterface.Scalar())
	assert.False(t, KindSource.Scalar())
	assert.False(t, KindDestination.Scalar())

	assert.False(t, Kind(0).Valid())
	assert.Equal(t, "Kind(7)", Kind(7).String())
	assert.Len(t, Kinds(), 5)
}

func TestRegistry_ZeroValue(t *testing.T) {
	var reg Registry

	_, ok := reg.Get(KindSource)
	assert.False(t, ok)
	assert.Empty(t, reg.Items())

	res, err := reg.Set(KindSource, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, NoError, res)

	// without a System only literals validate
	res, err = reg.Set(KindDestination, "router.lan")
	require.NoError(t, err)
	assert.Equal(t, InvalidValue, res)

	require.NoError(t, reg.Invert(KindSource, true))
	m, ok := reg.Get(KindSource)
	require.True(t, ok)
	assert.True(t, m.Inverted())
	assert.Equal(t, 2, reg.Len())
}
