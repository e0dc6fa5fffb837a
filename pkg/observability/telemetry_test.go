package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/scheduleease/config"
)

func TestFromCentralConfig(t *testing.T) {
	var c config.Config
	c.Server.Environment = "production"
	c.Observability.Tracing.Enabled = true
	c.Observability.Tracing.SamplingRate = 0.25

	cfg := FromCentralConfig(&c)
	assert.Equal(t, "scheduleease", cfg.ServiceName)
	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.TracingEnabled)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 0.25, cfg.SamplingRate)
}

func TestInitTelemetryHonoursSignalFlags(t *testing.T) {
	p, err := InitTelemetry(context.Background(), Config{ServiceName: "test", TracingEnabled: true})
	require.NoError(t, err)
	assert.NotNil(t, p.TracerProvider)
	assert.Nil(t, p.MeterProvider)
	assert.NoError(t, p.Shutdown(context.Background()))
}
