package reqctx

import "context"

// AuthClaims is what the HTTP layer needs from a verified bearer token.
type AuthClaims interface {
	// UserID returns the token subject.
	UserID() string

	// Roles returns the realm roles granted to the subject.
	Roles() []string

	// DisplayName returns a human readable name for audit records.
	DisplayName() string

	// IsExpired returns true if the token has expired.
	IsExpired() bool
}

// WithClaims stores authentication claims and the raw bearer token in the
// context. The token is forwarded on calls made on the caller's behalf.
func WithClaims(ctx context.Context, claims AuthClaims, bearer string) context.Context {
	ctx = context.WithValue(ctx, keyClaims, claims)
	return context.WithValue(ctx, keyBearer, bearer)
}

// ClaimsFromContext retrieves authentication claims from the context.
// Returns nil if not set or if the request is not authenticated.
func ClaimsFromContext(ctx context.Context) AuthClaims {
	claims, _ := ctx.Value(keyClaims).(AuthClaims)
	return claims
}

// BearerFromContext returns the raw access token of the caller.
func BearerFromContext(ctx context.Context) string {
	s, _ := ctx.Value(keyBearer).(string)
	return s
}

// IsAuthenticated returns true if valid claims exist in the context.
func IsAuthenticated(ctx context.Context) bool {
	claims := ClaimsFromContext(ctx)
	return claims != nil && !claims.IsExpired()
}

// UserIDFromContext extracts the user ID from claims.
func UserIDFromContext(ctx context.Context) (string, bool) {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return "", false
	}
	return claims.UserID(), true
}
