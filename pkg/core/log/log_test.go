package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	logger = nil
	once = sync.Once{}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":  slog.LevelDebug,
		" INFO ": slog.LevelInfo,
		"warn":   slog.LevelWarn,
		"Error":  slog.LevelError,
		"":       slog.LevelWarn,
		"bogus":  slog.LevelWarn,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestSetupWritesJSON(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var buf bytes.Buffer
	Setup("DEBUG", &buf)
	WithComponent("jobs").Debug("job reaped", "pid", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "job reaped", entry["msg"])
	assert.Equal(t, "jobs", entry["component"])
	assert.EqualValues(t, 42, entry["pid"])
}

func TestSetupOnce(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var first, second bytes.Buffer
	Setup("WARN", &first)
	Setup("DEBUG", &second)
	Get().Warn("kept")
	Get().Debug("dropped")

	assert.Contains(t, first.String(), "kept")
	assert.NotContains(t, first.String(), "dropped")
	assert.Empty(t, second.String())
}

func TestSetSessionTagsComponents(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var buf bytes.Buffer
	Setup("INFO", &buf)
	SetSession("abc")
	WithComponent("launch").Info("started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["session"])
	assert.Equal(t, "launch", entry["component"])
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	l := Component(slog.New(slog.NewJSONHandler(&buf, nil)), "jobs")
	l.Info("reaped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "jobs", entry["component"])
}
