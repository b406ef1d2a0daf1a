package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/baderkha/trip-etl/pkg/etl/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, Level(config.LevelDebug))
	assert.Equal(t, zerolog.InfoLevel, Level(config.LevelInfo))
	assert.Equal(t, zerolog.WarnLevel, Level(config.LevelWarning))
	assert.Equal(t, zerolog.ErrorLevel, Level(config.LevelError))
	assert.Equal(t, zerolog.FatalLevel, Level(config.LevelCritical))
	assert.Equal(t, zerolog.InfoLevel, Level("")) // unknown falls back
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, config.LevelWarning)

	log.Info().Msg("quiet")
	assert.Empty(t, buf.String())

	log.Warn().Msg("loud")
	assert.Contains(t, buf.String(), "loud")
	assert.Contains(t, buf.String(), "WRN")
}

func TestNewJSONComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(NewJSON(&buf, config.LevelDebug), "storage")
	log.Debug().Int("bytes", 12).Msg("read")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "storage", line["component"])
	assert.Equal(t, "etl_pipeline", line["logger"])
	assert.Equal(t, "read", line["message"])
	assert.Equal(t, float64(12), line["bytes"])
	assert.Contains(t, line, "time")
}
