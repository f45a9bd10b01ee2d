package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.True(t, cfg.Ledger.Balanced)
	assert.Equal(t, 15, cfg.ETA.PrepMinutes)
	assert.Equal(t, 2, cfg.ETA.Districts["asa norte"])
	assert.Equal(t, "none", cfg.Events.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "pizzaria.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":8080"
ledger:
  balanced: false
eta:
  prep_minutes: 20
  districts:
    centro: 1
events:
  driver: kafka
  kafka:
    brokers: ["kafka:9092"]
    topic: orders
`), 0o600))
	t.Setenv("PIZZARIA_LOG_LEVEL", "debug")
	t.Setenv("PIZZARIA_HTTP_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.False(t, cfg.Ledger.Balanced)
	assert.Equal(t, 20, cfg.ETA.PrepMinutes)
	assert.Equal(t, 1, cfg.ETA.Districts["centro"])
	assert.Equal(t, "kafka", cfg.Events.Driver)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Events.Kafka.Brokers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	base, err := Load("")
	require.NoError(t, err)

	bad := base
	bad.Events.Driver = "rabbit"
	assert.ErrorContains(t, bad.Validate(), "events.driver")

	bad = base
	bad.Tracing.Probability = 2
	assert.ErrorContains(t, bad.Validate(), "probability")

	bad = base
	bad.Events.Driver = "redis"
	bad.Events.Redis.Channel = ""
	assert.Error(t, bad.Validate())

	bad = base
	bad.HTTP.Addr = ""
	assert.Error(t, bad.Validate())
}
