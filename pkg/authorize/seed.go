package authorize

import (
	"context"
	"log/slog"
)

// DefaultPolicies is the baseline permission set. Ownership checks for the
// user role happen in the appointment service.
var DefaultPolicies = []PermissionPolicy{
	// Admin: god mode
	{RoleAdmin, WildcardResource, WildcardAction, EffectAllow},

	// Any verified caller can look at appointments
	{RoleAuthenticated, ResourceAppointment, ActionRead, EffectAllow},
	{RoleAuthenticated, ResourceAppointment, ActionList, EffectAllow},

	// Participants may annotate their own appointments
	{RoleUser, ResourceNote, ActionCreate, EffectAllow},
	{RoleUser, ResourceAttachment, ActionCreate, EffectAllow},

	// Creator: full appointment lifecycle
	{RoleCreator, ResourceAppointment, ActionCreate, EffectAllow},
	{RoleCreator, ResourceAppointment, ActionUpdate, EffectAllow},
	{RoleCreator, ResourceAttachment, ActionCreate, EffectAllow},
	{RoleCreator, ResourceNote, ActionCreate, EffectAllow},
	{RoleCreator, ResourceParticipant, ActionCreate, EffectAllow},
	{RoleCreator, ResourceParticipant, ActionDelete, EffectAllow},

	// Manager: creator plus account administration
	{RoleManager, ResourceUser, ActionUpdate, EffectAllow},
}

var DefaultInheritance = []Inheritance{
	{Child: RoleManager, Parent: RoleCreator},
	{Child: RoleAdmin, Parent: RoleManager},
}

// SeedDefaultPolicies sets up the baseline RBAC policies for the system.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	for _, p := range DefaultPolicies {
		added, err := auth.AddPermission(ctx, p)
		if err != nil {
			logger.Error("failed to add policy", "policy", p, "error", err)
			return err
		}
		if added {
			logger.Debug("added policy", "role", p.Subject, "resource", p.Object, "action", p.Action)
		}
	}

	for _, in := range DefaultInheritance {
		if _, err := auth.AddInheritance(ctx, in); err != nil {
			logger.Error("failed to add role inheritance", "child", in.Child, "parent", in.Parent, "error", err)
			return err
		}
	}

	logger.Info("seeded default RBAC policies", "count", len(DefaultPolicies), "inheritance", len(DefaultInheritance))
	return nil
}
