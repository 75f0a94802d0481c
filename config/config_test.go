package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "promos", cfg.RedisStream)
	assert.Equal(t, 10, cfg.RedisStreamCount)
	assert.Equal(t, 500, cfg.RedisStreamMaxLength)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
	assert.Equal(t, "url_templates.json", cfg.TemplatePath)
	assert.NotEmpty(t, cfg.BybitEarnURL)
	assert.NotEmpty(t, cfg.OkxBoostURL)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("POLL_INTERVAL_SECONDS", "60")
	t.Setenv("GATE_PROMO_URL", "https://example.test/gate")

	cfg := LoadConfig()
	assert.Equal(t, "redis:6380", cfg.RedisAddr)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, "https://example.test/gate", cfg.GatePromoURL)
}

func TestValidate(t *testing.T) {
	cfg := LoadConfig()
	assert.NoError(t, cfg.Validate())

	noRedis := cfg
	noRedis.RedisAddr = ""
	assert.Error(t, noRedis.Validate())

	badCount := cfg
	badCount.RedisStreamCount = 0
	assert.Error(t, badCount.Validate())

	badInterval := cfg
	badInterval.PollInterval = 0
	assert.Error(t, badInterval.Validate())
}
