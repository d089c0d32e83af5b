package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelDebug,
		Output: &buf,
		JSON:   true,
	})
	require.NotNil(t, logger)

	t.Run("Levels", func(t *testing.T) {
		for _, log := range []func(string, ...any){logger.Debug, logger.Info, logger.Warn, logger.Error} {
			buf.Reset()
			log("some msg")
			assert.Contains(t, buf.String(), "some msg")
		}
	})

	t.Run("DynamicLevel", func(t *testing.T) {
		logger.SetLevel(LevelError)
		assert.Equal(t, LevelError, logger.GetLevel())

		buf.Reset()
		logger.Info("should not appear")
		assert.Zero(t, buf.Len(), "logged info message when level was Error")

		logger.SetLevel(LevelDebug)
	})

	t.Run("WithComponent", func(t *testing.T) {
		buf.Reset()
		logger.WithComponent("validation").Info("msg")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "validation", entry["component"])
	})

	t.Run("WithFields", func(t *testing.T) {
		buf.Reset()
		logger.WithFields(map[string]any{"kind": "Source"}).Info("msg")
		assert.Contains(t, buf.String(), `"kind":"Source"`)
	})
}

func TestConsoleHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Output: &buf})

	logger.WithComponent("Rule").Info("export failed", "shape", "text", "reason", "bad key")
	line := buf.String()

	assert.Contains(t, line, "fwrule[")
	assert.Contains(t, line, "[info] rule: export failed")
	assert.Contains(t, line, "shape=text")
	assert.Contains(t, line, `reason="bad key"`)
	assert.True(t, strings.HasSuffix(line, "\n"))

	buf.Reset()
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	l := Default()
	require.NotNil(t, l)

	var buf bytes.Buffer
	SetDefault(New(Config{Level: LevelDebug, Output: &buf}))
	defer SetDefault(l)

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	WithComponent("x").Info("scoped")

	out := buf.String()
	for _, want := range []string{"[debug] d", "[info] i", "[warn] w", "[error] e", "x: scoped"} {
		assert.Contains(t, out, want)
	}
}
