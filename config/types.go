package config

import (
	"errors"
	"fmt"
	"time"
)

type Config struct {
	Database       DatabaseConfig      `mapstructure:"database"`
	CasbinDatabase DatabaseConfig      `mapstructure:"casbin_database"`
	Redis          RedisConfig         `mapstructure:"redis"`
	Server         ServerConfig        `mapstructure:"server"`
	Appointment    AppointmentConfig   `mapstructure:"appointment"`
	Keycloak       KeycloakConfig      `mapstructure:"keycloak"`
	Authorization  AuthorizationConfig `mapstructure:"authorization"`
	Email          EmailConfig         `mapstructure:"email"`
	SMS            SMSConfig           `mapstructure:"sms"`
	Storage        StorageConfig       `mapstructure:"storage"`
	S3             S3Config            `mapstructure:"s3"`
	Nats           NatsConfig          `mapstructure:"nats"`
	Observability  ObservabilityConfig `mapstructure:"observability"`
	Logging        LoggingConfig       `mapstructure:"logging"`
}

type NatsConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

type DatabaseConfig struct {
	Host       string                  `mapstructure:"host"`
	Port       int                     `mapstructure:"port"`
	User       string                  `mapstructure:"user"`
	Password   string                  `mapstructure:"password"`
	DBName     string                  `mapstructure:"dbname"`
	SSLMode    string                  `mapstructure:"sslmode"`
	Pool       DatabasePoolConfig      `mapstructure:"pool"`
	Migrations DatabaseMigrationConfig `mapstructure:"migrations"`
	Logging    DatabaseLoggingConfig   `mapstructure:"logging"`
}

type DatabasePoolConfig struct {
	MaxOpenConns       int `mapstructure:"max_open_conns"`
	MaxIdleConns       int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int `mapstructure:"conn_max_lifetime_minutes"`
}

type DatabaseMigrationConfig struct {
	AutoMigrate bool `mapstructure:"auto_migrate"`
	SafeMode    bool `mapstructure:"safe_mode"`
}

type DatabaseLoggingConfig struct {
	Enabled              bool `mapstructure:"enabled"`
	SlowQueryThresholdMs int  `mapstructure:"slow_query_threshold_ms"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerWindow int  `mapstructure:"requests_per_window"`
	WindowSeconds     int  `mapstructure:"window_seconds"`
}

type ServerConfig struct {
	Port           int             `mapstructure:"port"`
	TimeoutSeconds int             `mapstructure:"timeout_seconds"`
	Environment    string          `mapstructure:"environment"`
	Domain         string          `mapstructure:"domain"`
	BodyLimitBytes int             `mapstructure:"body_limit_bytes"`
	Databases      []string        `mapstructure:"databases"`
	CORS           CORSConfig      `mapstructure:"cors"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAgeSeconds    int      `mapstructure:"max_age_seconds"`
}

// AppointmentConfig holds the scheduling policy knobs.
type AppointmentConfig struct {
	MinDurationMinutes int    `mapstructure:"min_duration_minutes"`
	MaxDurationMinutes int    `mapstructure:"max_duration_minutes"`
	Timezone           string `mapstructure:"timezone"`
	DefaultPhoneRegion string `mapstructure:"default_phone_region"`
	MaxAttachmentBytes int64  `mapstructure:"max_attachment_bytes"`
	DefaultListLimit   int    `mapstructure:"default_list_limit"`
	MaxListLimit       int    `mapstructure:"max_list_limit"`
}

type KeycloakConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	Realm        string `mapstructure:"realm"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	// PublicKey is the realm RS256 key, either PEM or the bare base64 DER
	// string shown in the Keycloak admin console. Empty means JWKS.
	PublicKey              string  `mapstructure:"public_key"`
	Issuer                 string  `mapstructure:"issuer"`
	RedirectURI            string  `mapstructure:"redirect_uri"`
	TimeoutSeconds         int     `mapstructure:"timeout_seconds"`
	JWKSTTLMinutes         int     `mapstructure:"jwks_ttl_minutes"`
	AdminRequestsPerSecond float64 `mapstructure:"admin_requests_per_second"`
}

type AuthorizationConfig struct {
	CasbinModelPath  string `mapstructure:"casbin_model_path"`
	EnableAudit      bool   `mapstructure:"enable_audit"`
	SuperadminBypass bool   `mapstructure:"superadmin_bypass"`
	// WatchPolicies reloads policies when another instance changes them.
	WatchPolicies bool   `mapstructure:"watch_policies"`
	PolicyChannel string `mapstructure:"policy_channel"`
}

type EmailConfig struct {
	Enabled bool       `mapstructure:"enabled"`
	From    string     `mapstructure:"from"`
	AppName string     `mapstructure:"app_name"`
	SMTP    SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	UseTLS         bool   `mapstructure:"use_tls"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type SMSConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	SMSIR   SMSIRConfig `mapstructure:"smsir"`
}

type SMSIRConfig struct {
	APIKey     string `mapstructure:"api_key"`
	SecretKey  string `mapstructure:"secret_key"`
	TemplateID string `mapstructure:"template_id"`
}

type StorageConfig struct {
	Driver string             `mapstructure:"driver"` // local, s3
	Local  LocalStorageConfig `mapstructure:"local"`
}

type LocalStorageConfig struct {
	Dir string `mapstructure:"dir"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/app.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	Username string `mapstructure:"username"` // for Grafana Cloud basic auth
	Password string `mapstructure:"password"`
}

func (c *Config) Validate() error {
	var errs []error

	a := c.Appointment
	if a.MinDurationMinutes < 0 {
		errs = append(errs, errors.New("appointment.min_duration_minutes must not be negative"))
	}
	if a.MaxDurationMinutes > 0 && a.MaxDurationMinutes < a.MinDurationMinutes {
		errs = append(errs, fmt.Errorf("appointment.max_duration_minutes (%d) is below min_duration_minutes (%d)",
			a.MaxDurationMinutes, a.MinDurationMinutes))
	}
	if a.Timezone != "" {
		if _, err := time.LoadLocation(a.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("appointment.timezone: %w", err))
		}
	}

	switch c.Storage.Driver {
	case "", "local":
	case "s3":
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3.bucket is required when storage.driver is s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver))
	}

	if c.Keycloak.BaseURL != "" && c.Keycloak.Realm == "" {
		errs = append(errs, errors.New("keycloak.realm is required when keycloak.base_url is set"))
	}

	return errors.Join(errs...)
}

// Location returns the time zone used for day-based listing defaults.
func (a AppointmentConfig) Location() *time.Location {
	if a.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
