package logutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagHook struct{}

func (tagHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("tag", "hooked")
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nest.log")

	logger, closer, err := New("info", path, tagHook{})
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Msg("first")
	closer()

	logger, closer, err = New("info", path)
	require.NoError(t, err)
	logger.Info().Msg("second")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.NotContains(t, content, "hidden")
	assert.Contains(t, content, `"message":"first"`)
	assert.Contains(t, content, `"tag":"hooked"`)
	assert.Contains(t, content, `"message":"second"`, "existing log files are appended to")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("loud", "")
	assert.Error(t, err)
}
