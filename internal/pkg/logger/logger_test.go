package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	cfg := FromSettings("WARN", "json")
	cfg.Output = &buf
	lgr := Configure(cfg)

	lgr.Info().Msg("hidden")
	storeLogger := Component("store")
	storeLogger.Warn().Str("key", "portalNotices").Msg("visible")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "store", entry["component"])
	assert.Equal(t, "portalNotices", entry["key"])
}

func TestFromSettings(t *testing.T) {
	assert.True(t, FromSettings("info", "TEXT").Pretty)
	assert.False(t, FromSettings("info", "json").Pretty)
	assert.Equal(t, DebugLevel, FromSettings("Debug", "json").Level)
	assert.Equal(t, zerolog.InfoLevel, parseLevel("unknown"))
}
