package model

import "strings"

// Actor is the authenticated identity performing an operation.
type Actor struct {
	Subject     string
	DisplayName string
	Roles       []string
	// Token is the raw bearer token, forwarded only to identity-provider calls.
	Token string
}

// IsUserRole reports whether the actor holds a plain "user" realm role.
// Such actors only ever see appointments they created.
func (a Actor) IsUserRole() bool {
	for _, r := range a.Roles {
		if strings.Contains(r, "user") {
			return true
		}
	}
	return false
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
