package authorize

import "github.com/Alijeyrad/scheduleease/config"

// Config holds configuration for the authorization system
type Config struct {
	// CasbinModelPath is the path to a Casbin model file. Empty selects
	// DefaultModel.
	CasbinModelPath string

	// EnableAudit enables audit logging for all authorization decisions
	EnableAudit bool

	// SuperadminBypass lets RoleAdmin skip policy evaluation
	SuperadminBypass bool

	// WatchPolicies subscribes to PolicyChannel through Postgres LISTEN.
	WatchPolicies bool
	PolicyChannel string
}

// DefaultConfig returns sensible defaults for authorization configuration
func DefaultConfig() Config {
	return Config{
		EnableAudit:      true,
		SuperadminBypass: true,
	}
}

// FromCentralConfig converts central config.AuthorizationConfig to package Config
func FromCentralConfig(c config.AuthorizationConfig) Config {
	return Config{
		CasbinModelPath:  c.CasbinModelPath,
		EnableAudit:      c.EnableAudit,
		SuperadminBypass: c.SuperadminBypass,
		WatchPolicies:    c.WatchPolicies,
		PolicyChannel:    c.PolicyChannel,
	}
}
