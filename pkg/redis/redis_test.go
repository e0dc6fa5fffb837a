package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Alijeyrad/scheduleease/config"
)

func TestFromCentralConfigDefaults(t *testing.T) {
	cfg := FromCentralConfig(config.RedisConfig{Addr: "cache:6379", DB: 2})

	assert.Equal(t, "cache:6379", cfg.Addr)
	assert.Equal(t, 2, cfg.DB)
	assert.Equal(t, DefaultConfig().PoolSize, cfg.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)

	cfg = FromCentralConfig(config.RedisConfig{Addr: "cache:6379", PoolSize: 32, WriteTimeoutSeconds: 8})
	assert.Equal(t, 32, cfg.PoolSize)
	assert.Equal(t, 8*time.Second, cfg.WriteTimeout)
}

func TestOptions(t *testing.T) {
	opts := Options(Config{Addr: "a:1", PoolSize: 7, ReadTimeout: 9 * time.Second})
	assert.Equal(t, "a:1", opts.Addr)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, 9*time.Second, opts.ReadTimeout)
	assert.Zero(t, opts.WriteTimeout)
}

func TestNewRedisRequiresAddr(t *testing.T) {
	_, err := NewRedis(t.Context(), Config{})
	assert.EqualError(t, err, "redis addr is empty")
}
