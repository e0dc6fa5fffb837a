package authorize

import (
	"context"
	"fmt"
	"log/slog"

	psqlwatcher "github.com/IguteChung/casbin-psql-watcher"
	casbin "github.com/casbin/casbin/v2"
	entadapter "github.com/casbin/ent-adapter"
)

// NewEnforcer creates a Casbin SyncedEnforcer whose policies are persisted in
// PostgreSQL through the ent adapter.
func NewEnforcer(cfg Config, dsn string) (*casbin.SyncedEnforcer, error) {
	m, err := LoadModel(cfg.CasbinModelPath)
	if err != nil {
		return nil, err
	}

	a, err := entadapter.NewAdapter("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("casbin ent adapter: %w", err)
	}

	e, err := casbin.NewSyncedEnforcer(m, a)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}

	e.EnableAutoSave(true)
	e.EnableEnforce(true)
	return e, nil
}

// NewMemoryEnforcer creates an enforcer with no persistence. Policies must be
// seeded after construction.
func NewMemoryEnforcer(cfg Config) (*casbin.SyncedEnforcer, error) {
	m, err := LoadModel(cfg.CasbinModelPath)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}
	e.EnableEnforce(true)
	return e, nil
}

// DefaultPolicyChannel is the Postgres NOTIFY channel shared by all API
// instances.
const DefaultPolicyChannel = "casbin_policy_update"

// WatchPolicies keeps e in sync with policy writes made by other instances:
// local writes are announced on channel and every notification triggers a
// full reload. The returned func closes the LISTEN connection.
func WatchPolicies(ctx context.Context, e *casbin.SyncedEnforcer, dsn, channel string) (func(), error) {
	if channel == "" {
		channel = DefaultPolicyChannel
	}
	w, err := psqlwatcher.NewWatcherWithConnString(ctx, dsn, psqlwatcher.Option{Channel: channel})
	if err != nil {
		return nil, fmt.Errorf("casbin policy watcher: %w", err)
	}

	err = w.SetUpdateCallback(func(msg string) {
		slog.Debug("casbin policy change received", "channel", channel, "message", msg)
		if err := e.LoadPolicy(); err != nil {
			slog.Error("casbin policy reload failed", "error", err)
		}
	})
	if err == nil {
		err = e.SetWatcher(w)
	}
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("casbin policy watcher: %w", err)
	}
	return func() { w.Close() }, nil
}
