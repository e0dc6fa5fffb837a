package database

import (
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/Alijeyrad/scheduleease/config"
)

// Config is the resolved Postgres setting for one database: the appointment
// store or the casbin policy store.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	AutoMigrate bool
	// SafeMode keeps columns and indexes that are no longer in the schema.
	SafeMode bool

	EnableLogging      bool
	SlowQueryThreshold time.Duration
}

// DSN renders a postgres:// URL so that credentials with spaces or quotes
// survive lib/pq parsing.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.DBName,
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
}

// withDB returns a copy pointed at another database on the same server.
func (c Config) withDB(name string) Config {
	c.DBName = name
	return c
}

func FromCentralConfig(c config.DatabaseConfig) Config {
	out := Config{
		Host:               c.Host,
		Port:               c.Port,
		User:               c.User,
		Password:           c.Password,
		DBName:             c.DBName,
		SSLMode:            c.SSLMode,
		MaxOpenConns:       c.Pool.MaxOpenConns,
		MaxIdleConns:       c.Pool.MaxIdleConns,
		ConnMaxLifetime:    5 * time.Minute,
		AutoMigrate:        c.Migrations.AutoMigrate,
		SafeMode:           c.Migrations.SafeMode,
		EnableLogging:      c.Logging.Enabled,
		SlowQueryThreshold: time.Duration(c.Logging.SlowQueryThresholdMs) * time.Millisecond,
	}
	if out.Port == 0 {
		out.Port = 5432
	}
	if out.Host == "" {
		out.Host = "localhost"
	}
	if c.Pool.ConnMaxLifetimeMin > 0 {
		out.ConnMaxLifetime = time.Duration(c.Pool.ConnMaxLifetimeMin) * time.Minute
	}
	return out
}

// NewDSN is used for the casbin adapter, which opens its own pool.
func NewDSN(c config.DatabaseConfig) string {
	return FromCentralConfig(c).DSN()
}
