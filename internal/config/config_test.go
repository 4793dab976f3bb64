package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.TTL)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.yaml")
	content := `
addr: ":9090"
log_level: debug
shutdown_timeout: 2s
sessions:
  ttl: 10m
  sweep_interval: 30s
  max_sessions: 5
telemetry:
  otlp_enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Sessions.TTL)
	assert.Equal(t, 30*time.Second, cfg.Sessions.SweepInterval)
	assert.Equal(t, 5, cfg.Sessions.MaxSessions)
	assert.True(t, cfg.Telemetry.OTLPEnabled)
	assert.Equal(t, "go-chi-keypad", cfg.ServiceName)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\n"), 0o600))

	t.Setenv(EnvAddr, ":7000")
	t.Setenv(EnvSessionTTL, "90s")
	t.Setenv(EnvMaxSessions, "0")
	t.Setenv(EnvServiceName, "keypad-test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 90*time.Second, cfg.Sessions.TTL)
	assert.Equal(t, 0, cfg.Sessions.MaxSessions)
	assert.Equal(t, "keypad-test", cfg.ServiceName)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "log level", key: EnvLogLevel, val: "verbose"},
		{name: "duration syntax", key: EnvSessionTTL, val: "soon"},
		{name: "zero shutdown timeout", key: EnvShutdownTimeout, val: "0s"},
		{name: "negative limit", key: EnvMaxSessions, val: "-1"},
		{name: "bool syntax", key: EnvOTLPEnabled, val: "maybe"},
		{name: "empty addr", key: EnvAddr, val: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load("")
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}
