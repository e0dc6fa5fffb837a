package authorize

import (
	"context"
	"log/slog"
	"time"

	casbin "github.com/casbin/casbin/v2"
)

// AuditedAuthorization logs every decision and policy change of the wrapped
// IAuthorization. Denials are logged at warn, errors at error, grants at debug.
type AuditedAuthorization struct {
	inner  IAuthorization
	logger *slog.Logger
}

func NewAuditedAuthorization(inner IAuthorization, logger *slog.Logger) IAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditedAuthorization{inner: inner, logger: logger.With(slog.String("component", "authz"))}
}

func (a *AuditedAuthorization) Enforce(ctx context.Context, roles []string, object Resource, action Action) (bool, error) {
	start := time.Now()
	allowed, err := a.inner.Enforce(ctx, roles, object, action)

	level := slog.LevelDebug
	attrs := []slog.Attr{
		slog.Any("roles", roles),
		slog.String("permission", string(object)+":"+string(action)),
		slog.Bool("allowed", allowed),
		slog.Duration("took", time.Since(start)),
	}
	switch {
	case err != nil:
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", err.Error()))
	case !allowed:
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(ctx, level, "authorization decision", attrs...)

	return allowed, err
}

func (a *AuditedAuthorization) MustEnforce(ctx context.Context, roles []string, object Resource, action Action) error {
	return mustEnforce(ctx, a, roles, object, action)
}

func (a *AuditedAuthorization) AddPermission(ctx context.Context, p PermissionPolicy) (bool, error) {
	added, err := a.inner.AddPermission(ctx, p)
	a.policyChanged(ctx, "policy added", added, err, policyAttr(p))
	return added, err
}

func (a *AuditedAuthorization) RemovePermission(ctx context.Context, p PermissionPolicy) (bool, error) {
	removed, err := a.inner.RemovePermission(ctx, p)
	a.policyChanged(ctx, "policy removed", removed, err, policyAttr(p))
	return removed, err
}

func (a *AuditedAuthorization) AddInheritance(ctx context.Context, in Inheritance) (bool, error) {
	added, err := a.inner.AddInheritance(ctx, in)
	a.policyChanged(ctx, "inheritance added", added, err,
		slog.Group("inheritance", slog.String("child", string(in.Child)), slog.String("parent", string(in.Parent))))
	return added, err
}

func (a *AuditedAuthorization) Raw() *casbin.SyncedEnforcer { return a.inner.Raw() }

// policyChanged stays quiet for no-op writes of policies that already exist.
func (a *AuditedAuthorization) policyChanged(ctx context.Context, msg string, changed bool, err error, attr slog.Attr) {
	switch {
	case err != nil:
		a.logger.LogAttrs(ctx, slog.LevelError, msg, attr, slog.String("error", err.Error()))
	case changed:
		a.logger.LogAttrs(ctx, slog.LevelInfo, msg, attr)
	}
}

func policyAttr(p PermissionPolicy) slog.Attr {
	return slog.Group("policy",
		slog.String("role", string(p.Subject)),
		slog.String("resource", string(p.Object)),
		slog.String("action", string(p.Action)),
		slog.String("effect", string(p.Effect)),
	)
}
