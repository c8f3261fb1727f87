package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docflow/internal/logger"
)

func TestSetup_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger.Setup(logger.Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	l := logger.WithComponent("recurring")
	l.Info().Str("config_id", "abc").Msg("processed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "recurring", entry["component"])
	assert.Equal(t, "abc", entry["config_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestSetup_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger.Setup(logger.Config{Level: "warn", Format: "json", Output: &buf})
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetup_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger.Setup(logger.Config{Level: "loud", Format: "json", Output: &buf})

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
