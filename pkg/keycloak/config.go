package keycloak

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Alijeyrad/scheduleease/config"
)

// Config holds the realm coordinates and client credentials.
type Config struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// PublicKey is the realm RS256 key (PEM or bare base64 DER). When empty
	// keys are fetched from the realm JWKS endpoint.
	PublicKey string
	Issuer    string

	Timeout                time.Duration
	JWKSTTL                time.Duration
	AdminRequestsPerSecond float64
}

// DefaultConfig returns sensible defaults for the Keycloak client
func DefaultConfig() Config {
	return Config{
		Timeout:                10 * time.Second,
		JWKSTTL:                15 * time.Minute,
		AdminRequestsPerSecond: 5,
	}
}

// FromCentralConfig converts central config.KeycloakConfig to package Config
func FromCentralConfig(c config.KeycloakConfig) Config {
	out := DefaultConfig()
	out.BaseURL = strings.TrimRight(c.BaseURL, "/")
	out.Realm = c.Realm
	out.ClientID = c.ClientID
	out.ClientSecret = c.ClientSecret
	out.RedirectURI = c.RedirectURI
	out.PublicKey = c.PublicKey
	out.Issuer = c.Issuer
	if c.TimeoutSeconds > 0 {
		out.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.JWKSTTLMinutes > 0 {
		out.JWKSTTL = time.Duration(c.JWKSTTLMinutes) * time.Minute
	}
	if c.AdminRequestsPerSecond > 0 {
		out.AdminRequestsPerSecond = c.AdminRequestsPerSecond
	}
	return out
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("keycloak: base url is required")
	}
	if c.Realm == "" {
		return fmt.Errorf("keycloak: realm is required")
	}
	return nil
}

// RealmURL is {base}/realms/{realm}; it doubles as the default token issuer.
func (c Config) RealmURL() string {
	return c.BaseURL + "/realms/" + url.PathEscape(c.Realm)
}

func (c Config) TokenURL() string { return c.RealmURL() + "/protocol/openid-connect/token" }

func (c Config) CertsURL() string { return c.RealmURL() + "/protocol/openid-connect/certs" }

func (c Config) ExecuteActionsEmailURL(userID string) string {
	return fmt.Sprintf("%s/admin/realms/%s/users/%s/execute-actions-email",
		c.BaseURL, url.PathEscape(c.Realm), url.PathEscape(userID))
}

func (c Config) issuer() string {
	if c.Issuer != "" {
		return c.Issuer
	}
	return c.RealmURL()
}
