package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	slogmulti "github.com/samber/slog-multi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/scheduleease/config"
	"github.com/Alijeyrad/scheduleease/pkg/reqctx"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestFanoutRespectsLevels(t *testing.T) {
	var debug, warn bytes.Buffer
	h := newContextHandler(slogmulti.Fanout(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	))
	logger := slog.New(h).With("component", "test")

	logger.Debug("noisy")
	logger.Warn("careful")

	assert.Contains(t, debug.String(), "noisy")
	assert.Contains(t, debug.String(), "careful")
	assert.NotContains(t, warn.String(), "noisy")
	assert.Contains(t, warn.String(), "component=test")
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestLokiHandlerPushes(t *testing.T) {
	pushed := make(chan *http.Request, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		pushed <- r
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	h, stop, err := newLokiHandler(config.LokiConfig{
		Enabled:  true,
		Endpoint: srv.URL + "/",
		Username: "u",
		Password: "p",
	}, slog.LevelInfo)
	require.NoError(t, err)

	slog.New(h).Info("booked", "appointment_id", "a-1")
	stop()

	select {
	case r := <-pushed:
		assert.Equal(t, lokiPushPath, r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "u", user)
		assert.Equal(t, "p", pass)
	case <-time.After(5 * time.Second):
		t.Fatal("no push reached loki")
	}
}

func TestNewSkipsBrokenLoki(t *testing.T) {
	var cfg config.Config
	cfg.Logging.Output.Loki = config.LokiConfig{Enabled: true, Endpoint: "://bad"}

	logger, flush := New(&cfg)
	defer flush()
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

type stubClaims struct{}

func (stubClaims) UserID() string      { return "u-1" }
func (stubClaims) Roles() []string     { return nil }
func (stubClaims) DisplayName() string { return "" }
func (stubClaims) IsExpired() bool     { return false }

func TestContextHandlerAddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newContextHandler(slog.NewJSONHandler(&buf, nil))).With("component", "test")

	ctx := reqctx.WithRequestMeta(context.Background(), &reqctx.RequestMeta{RequestID: "req-1"})
	ctx = reqctx.WithClaims(ctx, stubClaims{}, "token")
	logger.InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "u-1", rec["user_id"])
	assert.Equal(t, "test", rec["component"])
	assert.NotContains(t, rec, "trace_id")

	buf.Reset()
	logger.Info("bare")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.NotContains(t, buf.String(), "request_id")
}

func TestNewFallsBackToStdout(t *testing.T) {
	var cfg config.Config
	cfg.Logging.Level = "debug"
	logger, flush := New(&cfg)
	defer flush()
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
