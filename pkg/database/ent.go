package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	"github.com/Alijeyrad/scheduleease/config"
	appschema "github.com/Alijeyrad/scheduleease/internal/schema"
)

// NewDriver opens the application database and wraps it in an ent SQL driver.
func NewDriver(ctx context.Context, cfg config.DatabaseConfig) (*entsql.Driver, error) {
	db, err := openSQLDB(ctx, FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}

	return entsql.OpenDB(dialect.Postgres, db), nil
}

// MigrateOptions translates the migration settings into ent migrate options.
// Safe mode never drops columns or indexes.
func MigrateOptions(cfg Config) []schema.MigrateOption {
	opts := []schema.MigrateOption{schema.WithForeignKeys(true)}
	if !cfg.SafeMode {
		opts = append(opts, schema.WithDropColumn(true), schema.WithDropIndex(true))
	}
	return opts
}

// Migrate creates or alters the appointment tables.
func Migrate(ctx context.Context, drv dialect.Driver, cfg Config) error {
	m, err := schema.NewMigrate(drv, MigrateOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := m.Create(ctx, appschema.Tables...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
