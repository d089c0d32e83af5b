package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Singleton(t *testing.T) {
	a := Get()
	b := Get()
	require.NotNil(t, a)
	assert.Same(t, a, b)
}

func TestObserveLookup(t *testing.T) {
	r := NewRegistry(prometheus.NewRegistry())

	r.ObserveLookup("protocols", time.Now(), nil)
	r.ObserveLookup("protocols", time.Now(), errors.New("no such file"))
	r.ObserveLookup("dns", time.Now(), nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.LookupErrors.WithLabelValues("protocols")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.LookupErrors.WithLabelValues("dns")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.LookupDuration))
}

func TestModuleWrites(t *testing.T) {
	r := NewRegistry(prometheus.NewRegistry())

	r.ModuleWrites.WithLabelValues("Source", "ok").Inc()
	r.ModuleWrites.WithLabelValues("Source", "ok").Inc()
	r.ModuleWrites.WithLabelValues("Source", "invalid").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ModuleWrites.WithLabelValues("Source", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ModuleWrites.WithLabelValues("Source", "invalid")))
}

func TestWriteTextfile(t *testing.T) {
	Get().ModuleWrites.WithLabelValues("Source", "ok").Inc()

	path := filepath.Join(t.TempDir(), "fwrule.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fwrule_module_writes_total{kind="Source",result="ok"}`)
}
