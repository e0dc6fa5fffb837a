package keycloak

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks RS256 access tokens issued by the realm, either against a
// configured public key or against the realm JWKS.
type Verifier struct {
	issuer string
	static *rsa.PublicKey
	jwks   *jwksCache
}

func NewVerifier(cfg Config, httpc *http.Client) (*Verifier, error) {
	v := &Verifier{issuer: cfg.issuer()}

	if strings.TrimSpace(cfg.PublicKey) != "" {
		key, err := ParsePublicKey(cfg.PublicKey)
		if err != nil {
			return nil, err
		}
		v.static = key
		return v, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: cfg.Timeout}
	}
	v.jwks = &jwksCache{url: cfg.CertsURL(), ttl: cfg.JWKSTTL, http: httpc}
	return v, nil
}

// Verify parses raw and validates its signature, issuer and expiry.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if v.static != nil {
			return v.static, nil
		}
		kid, _ := t.Header["kid"].(string)
		return v.jwks.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken{Err: errors.New("token has no subject")}
	}
	return claims, nil
}

// ParsePublicKey accepts a PEM block or the bare base64 DER key shown in the
// Keycloak admin console.
func ParsePublicKey(s string) (*rsa.PublicKey, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-----BEGIN") {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("keycloak: parse public key: %w", err)
		}
		return key, nil
	}

	der, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("keycloak: decode public key: %w", err)
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("keycloak: parse public key: %w", err)
	}
	key, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("keycloak: public key is %T, want RSA", pub)
	}
	return key, nil
}

// ---------------------------------------------------------------------------
// JWKS
// ---------------------------------------------------------------------------

// minRefresh bounds how often an unknown kid can force a refetch.
const minRefresh = 30 * time.Second

type jwksCache struct {
	url  string
	ttl  time.Duration
	http *http.Client

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (c *jwksCache) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	age := time.Since(c.fetchedAt)
	if k, ok := c.keys[kid]; ok && age < c.ttl {
		return k, nil
	}
	if c.keys == nil || age >= c.ttl || age >= minRefresh {
		if err := c.refresh(ctx); err != nil {
			return nil, err
		}
	}
	if k, ok := c.keys[kid]; ok {
		return k, nil
	}
	if kid == "" && len(c.keys) == 1 {
		for _, k := range c.keys {
			return k, nil
		}
	}
	return nil, fmt.Errorf("keycloak: unknown signing key %q", kid)
}

func (c *jwksCache) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return upstreamError(fmt.Errorf("jwks: unexpected status %d", resp.StatusCode))
	}

	var doc struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return upstreamError(fmt.Errorf("jwks: decode: %w", err))
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		pub, err := k.rsa()
		if err != nil {
			return upstreamError(err)
		}
		keys[k.Kid] = pub
	}

	c.keys = keys
	c.fetchedAt = time.Now()
	return nil
}

func (k jwk) rsa() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("jwks: key %q modulus: %w", k.Kid, err)
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("jwks: key %q exponent: %w", k.Kid, err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}, nil
}
