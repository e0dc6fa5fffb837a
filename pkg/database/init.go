package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Alijeyrad/scheduleease/config"
)

// InitializeDatabases creates every database listed under server.databases
// that does not exist yet, connecting through the "postgres" maintenance
// database with the application credentials.
func InitializeDatabases(ctx context.Context, cfg *config.Config) ([]string, error) {
	if len(cfg.Server.Databases) == 0 {
		return nil, errors.New("server.databases is empty")
	}

	db, err := openSQLDB(ctx, FromCentralConfig(cfg.Database).withDB("postgres"))
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var created []string
	for _, name := range cfg.Server.Databases {
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, name,
		).Scan(&exists)
		if err != nil {
			return created, fmt.Errorf("lookup database %q: %w", name, err)
		}
		if exists {
			continue
		}
		if _, err := db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
			return created, fmt.Errorf("create database %q: %w", name, err)
		}
		created = append(created, name)
	}
	return created, nil
}
