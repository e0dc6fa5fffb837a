package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Alijeyrad/scheduleease/pkg/constants"
)

// ReadConfig loads config.yaml from configPath, layering SCHEDULEEASE_*
// environment variables and an optional .env file on top.
func ReadConfig(configPath string) (*Config, error) {
	// .env is optional; real environment variables always win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	// e.g. SCHEDULEEASE_DATABASE_HOST overrides database.host
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Without a file the process must be configured through the environment.
		if os.Getenv(constants.EnvPrefix+"_DATABASE_HOST") == "" {
			return nil, fmt.Errorf("config file not found in %q and %s_DATABASE_HOST is not set", configPath, constants.EnvPrefix)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults registers every key viper should know about so that
// AutomaticEnv can resolve them even when config.yaml omits the section.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.body_limit_bytes", 6*1024*1024)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.migrations.safe_mode", true)

	v.SetDefault("appointment.min_duration_minutes", 15)
	v.SetDefault("appointment.max_duration_minutes", 240)
	v.SetDefault("appointment.timezone", "UTC")
	v.SetDefault("appointment.default_phone_region", "US")
	v.SetDefault("appointment.max_attachment_bytes", 5242880)
	v.SetDefault("appointment.default_list_limit", 50)
	v.SetDefault("appointment.max_list_limit", 200)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.dir", "data/appointment-attachment")

	v.SetDefault("keycloak.timeout_seconds", 10)
	v.SetDefault("keycloak.jwks_ttl_minutes", 5)
	v.SetDefault("keycloak.admin_requests_per_second", 5)

	v.SetDefault("nats.url", "nats://127.0.0.1:4222")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output.stdout", true)

	v.SetDefault("observability.service_name", constants.AppName)
}
