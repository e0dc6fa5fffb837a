package authorize

type Action string
type Resource string
type Role string
type PolicyEffect string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	ResourceAppointment Resource = "appointment"
	ResourceAttachment  Resource = "attachment"
	ResourceNote        Resource = "note"
	ResourceParticipant Resource = "participant"
	ResourceUser        Resource = "user"

	WildcardResource Resource = "*"
)

var KnownResources = map[Resource]struct{}{
	ResourceAppointment: {}, ResourceAttachment: {}, ResourceNote: {},
	ResourceParticipant: {}, ResourceUser: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// Roles are Keycloak realm roles. Every verified caller additionally holds
// RoleAuthenticated.

const (
	RoleAuthenticated Role = "authenticated"
	RoleUser          Role = "user"
	RoleCreator       Role = "creator"
	RoleManager       Role = "manager"
	RoleAdmin         Role = "admin"
)

var KnownRoles = map[Role]struct{}{
	RoleAuthenticated: {}, RoleUser: {}, RoleCreator: {}, RoleManager: {}, RoleAdmin: {},
}

// ----------------------------
// Effects
// ----------------------------

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// PermissionPolicy is one p line: p, role, resource, action, effect.
type PermissionPolicy struct {
	Subject Role
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}

// Inheritance is one g line: child inherits every permission of parent.
type Inheritance struct {
	Child  Role
	Parent Role
}
