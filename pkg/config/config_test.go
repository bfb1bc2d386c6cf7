package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// El nivel de log sale de LOG_LEVEL, con info como valor por defecto.
func TestLoad_NivelDeLogDesdeEntorno(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.App.LogLevel)

	t.Setenv("LOG_LEVEL", "debug")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}
