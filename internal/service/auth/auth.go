package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/scheduleease/pkg/keycloak"
)

const (
	maxLoginAttempts = 5
	accountLockMins  = 15
)

// redisKeyLoginAttempts returns the Redis key counting failed logins for username.
func redisKeyLoginAttempts(username string) string {
	return "login:attempts:" + strings.ToLower(username)
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenIssuer is satisfied by *keycloak.Client.
type TokenIssuer interface {
	PasswordToken(ctx context.Context, username, password string) (*keycloak.Token, error)
}

// AttemptStore counts failed logins per username.
type AttemptStore interface {
	Attempts(ctx context.Context, key string) (int, error)
	Fail(ctx context.Context, key string, ttl time.Duration) error
	Reset(ctx context.Context, key string) error
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Token(ctx context.Context, req TokenRequest) (*keycloak.Token, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type Authenticator struct {
	idp      TokenIssuer
	attempts AttemptStore
	logger   *slog.Logger
}

var _ Service = (*Authenticator)(nil)

// New builds the token exchange service. attempts may be nil, which disables
// the failed login lockout.
func New(idp TokenIssuer, attempts AttemptStore, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{idp: idp, attempts: attempts, logger: logger}
}

// Token exchanges username and password for Keycloak tokens. Repeated
// credential failures lock the username out for accountLockMins.
func (s *Authenticator) Token(ctx context.Context, req TokenRequest) (*keycloak.Token, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	key := redisKeyLoginAttempts(req.Username)
	if s.attempts != nil {
		n, err := s.attempts.Attempts(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "login attempt lookup failed", slog.String("op", "Token"), slog.Any("error", err))
		} else if n >= maxLoginAttempts {
			return nil, ErrAccountLocked
		}
	}

	tok, err := s.idp.PasswordToken(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, keycloak.ErrUnauthorized) && s.attempts != nil {
			if ferr := s.attempts.Fail(ctx, key, accountLockMins*time.Minute); ferr != nil {
				s.logger.WarnContext(ctx, "record failed login", slog.String("op", "Token"), slog.Any("error", ferr))
			}
		}
		s.logger.ErrorContext(ctx, "token exchange failed",
			slog.String("op", "Token"),
			slog.String("username", req.Username),
			slog.Any("error", err))
		return nil, err
	}

	if s.attempts != nil {
		if err := s.attempts.Reset(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "reset login attempts", slog.String("op", "Token"), slog.Any("error", err))
		}
	}
	return tok, nil
}

// ---------------------------------------------------------------------------
// Redis attempt store
// ---------------------------------------------------------------------------

type RedisAttempts struct {
	rdb *redis.Client
}

func NewRedisAttempts(rdb *redis.Client) *RedisAttempts {
	return &RedisAttempts{rdb: rdb}
}

func (r *RedisAttempts) Attempts(ctx context.Context, key string) (int, error) {
	n, err := r.rdb.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Fail increments the counter; the window starts at the first failure.
func (r *RedisAttempts) Fail(ctx context.Context, key string, ttl time.Duration) error {
	pipe := r.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisAttempts) Reset(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}
