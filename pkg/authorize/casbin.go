package authorize

import (
	"context"
	"errors"
	"fmt"
	"slices"

	casbin "github.com/casbin/casbin/v2"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidArgs = errors.New("invalid authorization arguments")
)

// IAuthorization is the only thing services/middleware should depend on.
type IAuthorization interface {
	// Enforce answers: "Does any of roles allow action on object?"
	Enforce(ctx context.Context, roles []string, object Resource, action Action) (bool, error)

	// MustEnforce is convenience for services: return ErrForbidden if not allowed.
	MustEnforce(ctx context.Context, roles []string, object Resource, action Action) error

	// Permission management (policies): p, role, object, action, eft
	AddPermission(ctx context.Context, p PermissionPolicy) (bool, error)
	RemovePermission(ctx context.Context, p PermissionPolicy) (bool, error)

	// Role inheritance (grouping policies): g, child, parent
	AddInheritance(ctx context.Context, in Inheritance) (bool, error)

	Raw() *casbin.SyncedEnforcer
}

// Authorization is a thin typed wrapper around casbin.SyncedEnforcer.
type Authorization struct {
	enforcer       *casbin.SyncedEnforcer
	superAdminRole Role
}

// NewAuthorization wraps an already-configured Enforcer
func NewAuthorization(e *casbin.SyncedEnforcer, cfg Config) (*Authorization, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: enforcer is nil", ErrInvalidArgs)
	}

	a := &Authorization{enforcer: e}
	if cfg.SuperadminBypass {
		a.superAdminRole = RoleAdmin
	}
	return a, nil
}

func (a *Authorization) Raw() *casbin.SyncedEnforcer { return a.enforcer }

func (a *Authorization) Enforce(ctx context.Context, roles []string, object Resource, action Action) (bool, error) {
	_ = ctx // reserved for tracing/logging later

	if object == "" {
		return false, fmt.Errorf("%w: object is empty", ErrInvalidArgs)
	}
	if action == "" {
		return false, fmt.Errorf("%w: action is empty", ErrInvalidArgs)
	}

	// Guardrails: ensure you're only using known constants
	if _, ok := KnownResources[object]; !ok {
		return false, fmt.Errorf("%w: unknown resource: %q", ErrInvalidArgs, object)
	}
	if _, ok := KnownActions[action]; !ok {
		return false, fmt.Errorf("%w: unknown action: %q", ErrInvalidArgs, action)
	}

	if a.superAdminRole != "" && slices.Contains(roles, string(a.superAdminRole)) {
		return true, nil
	}

	subjects := append([]string{string(RoleAuthenticated)}, roles...)
	for _, sub := range subjects {
		if sub == "" {
			continue
		}
		allowed, err := a.enforcer.Enforce(sub, string(object), string(action))
		if err != nil {
			return false, err
		}
		if allowed {
			return true, nil
		}
	}
	return false, nil
}

func (a *Authorization) MustEnforce(ctx context.Context, roles []string, object Resource, action Action) error {
	return mustEnforce(ctx, a, roles, object, action)
}

func mustEnforce(ctx context.Context, e interface {
	Enforce(context.Context, []string, Resource, Action) (bool, error)
}, roles []string, object Resource, action Action) error {
	ok, err := e.Enforce(ctx, roles, object, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// ---- Permissions (p rules) ----

func validatePolicy(p PermissionPolicy) error {
	if p.Subject == "" || p.Object == "" || p.Action == "" || p.Effect == "" {
		return fmt.Errorf("%w: empty permission fields", ErrInvalidArgs)
	}
	if _, ok := KnownRoles[p.Subject]; !ok {
		return fmt.Errorf("%w: unknown role: %q", ErrInvalidArgs, p.Subject)
	}
	if _, ok := KnownResources[p.Object]; !ok && p.Object != WildcardResource {
		return fmt.Errorf("%w: unknown resource: %q", ErrInvalidArgs, p.Object)
	}
	if _, ok := KnownActions[p.Action]; !ok && p.Action != WildcardAction {
		return fmt.Errorf("%w: unknown action: %q", ErrInvalidArgs, p.Action)
	}
	if p.Effect != EffectAllow && p.Effect != EffectDeny {
		return fmt.Errorf("%w: invalid effect: %q", ErrInvalidArgs, p.Effect)
	}
	return nil
}

func (a *Authorization) AddPermission(ctx context.Context, p PermissionPolicy) (bool, error) {
	_ = ctx
	if err := validatePolicy(p); err != nil {
		return false, err
	}
	return a.enforcer.AddPolicy(string(p.Subject), string(p.Object), string(p.Action), string(p.Effect))
}

func (a *Authorization) RemovePermission(ctx context.Context, p PermissionPolicy) (bool, error) {
	_ = ctx
	if err := validatePolicy(p); err != nil {
		return false, err
	}
	return a.enforcer.RemovePolicy(string(p.Subject), string(p.Object), string(p.Action), string(p.Effect))
}

// ---- Grouping (roles) ----

func (a *Authorization) AddInheritance(ctx context.Context, in Inheritance) (bool, error) {
	_ = ctx
	for _, r := range []Role{in.Child, in.Parent} {
		if _, ok := KnownRoles[r]; !ok {
			return false, fmt.Errorf("%w: unknown role: %q", ErrInvalidArgs, r)
		}
	}
	if in.Child == in.Parent {
		return false, fmt.Errorf("%w: role cannot inherit itself", ErrInvalidArgs)
	}
	return a.enforcer.AddGroupingPolicy(string(in.Child), string(in.Parent))
}
