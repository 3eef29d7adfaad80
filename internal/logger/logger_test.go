package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")

	log, closer, err := Setup(path, "debug")
	require.NoError(t, err)
	log.Debug().Str("session_id", "abc").Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "abc", line["session_id"])
}

func TestSetupFiltersByLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")

	log, closer, err := Setup(path, "warn")
	require.NoError(t, err)
	log.Info().Msg("dropped")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestSetupRejectsBadLevel(t *testing.T) {
	_, _, err := Setup("-", "loud")
	assert.Error(t, err)
}
