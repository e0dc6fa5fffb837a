package redis

import (
	"time"

	"github.com/Alijeyrad/scheduleease/config"
)

// Config is the resolved connection setting for the shared Redis client that
// backs the rate limiter storage and the login lockout counters.
type Config struct {
	Addr     string
	DB       int
	Username string
	Password string

	PoolSize     int
	MinIdleConns int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// FromCentralConfig keeps the defaults for every unset pool or timeout knob.
func FromCentralConfig(c config.RedisConfig) Config {
	d := DefaultConfig()
	return Config{
		Addr:         c.Addr,
		DB:           c.DB,
		Username:     c.Username,
		Password:     c.Password,
		PoolSize:     orInt(c.PoolSize, d.PoolSize),
		MinIdleConns: orInt(c.MinIdleConns, d.MinIdleConns),
		DialTimeout:  orSeconds(c.DialTimeoutSeconds, d.DialTimeout),
		ReadTimeout:  orSeconds(c.ReadTimeoutSeconds, d.ReadTimeout),
		WriteTimeout: orSeconds(c.WriteTimeoutSeconds, d.WriteTimeout),
	}
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orSeconds(v int, def time.Duration) time.Duration {
	if v > 0 {
		return time.Duration(v) * time.Second
	}
	return def
}
