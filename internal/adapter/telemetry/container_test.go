package telemetry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userprofiles/pkg/config"
)

func TestNewContainer_WithoutExporters(t *testing.T) {
	cfg := &config.Config{
		AppEnv:         "test",
		ServiceName:    "userprofiles-test",
		ServiceVersion: "0.0.0",
	}

	container, err := NewContainer(context.Background(), cfg, slog.Default())
	require.NoError(t, err)

	assert.Nil(t, container.MetricsServer)
	assert.NotNil(t, container.AppMetrics)

	families, err := container.PrometheusRegistry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.NoError(t, container.Shutdown(context.Background()))
}
