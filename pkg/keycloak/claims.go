package keycloak

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type roleSet struct {
	Roles []string `json:"roles"`
}

// Claims is the subset of a Keycloak access token the service relies on.
type Claims struct {
	jwt.RegisteredClaims
	PreferredUsername string  `json:"preferred_username"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	RealmAccess       roleSet `json:"realm_access"`
}

// UserID is the token subject, the Keycloak user id.
func (c *Claims) UserID() string { return c.Subject }

func (c *Claims) Roles() []string { return c.RealmAccess.Roles }

// DisplayName prefers the username, then the full name, then the subject.
func (c *Claims) DisplayName() string {
	for _, s := range []string{c.PreferredUsername, c.Name, c.Subject} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func (c *Claims) IsExpired() bool {
	return c.ExpiresAt != nil && time.Now().After(c.ExpiresAt.Time)
}
