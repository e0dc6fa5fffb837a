package reqctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClaims struct {
	id      string
	expired bool
}

func (f fakeClaims) UserID() string      { return f.id }
func (f fakeClaims) Roles() []string     { return []string{"user"} }
func (f fakeClaims) DisplayName() string { return "Fake" }
func (f fakeClaims) IsExpired() bool     { return f.expired }

func TestClaims(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ClaimsFromContext(ctx))
	assert.False(t, IsAuthenticated(ctx))
	_, ok := UserIDFromContext(ctx)
	assert.False(t, ok)

	ctx = WithClaims(ctx, fakeClaims{id: "u1"}, "raw-token")
	assert.True(t, IsAuthenticated(ctx))
	assert.Equal(t, "raw-token", BearerFromContext(ctx))
	id, ok := UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", id)

	expired := WithClaims(context.Background(), fakeClaims{id: "u1", expired: true}, "")
	assert.False(t, IsAuthenticated(expired))
}

func TestRequestMeta(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RequestIDFromContext(ctx))
	assert.Equal(t, "", ClientIPFromContext(ctx))
	_, ok := RequestMetaFromContext(WithRequestMeta(ctx, nil))
	assert.False(t, ok)

	ctx = WithRequestMeta(ctx, &RequestMeta{RequestID: "r-1", ClientIP: "10.0.0.7", RequestedAt: time.Now()})
	assert.Equal(t, "r-1", RequestIDFromContext(ctx))
	assert.Equal(t, "10.0.0.7", ClientIPFromContext(ctx))
}
