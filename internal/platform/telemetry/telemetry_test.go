package telemetry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/starmarket-sakvta/starmarket.api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetup_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	shutdown, err := Setup(context.Background(), logger,
		config.ApplicationConfig{Name: "market-api", Env: "test"},
		config.TelemetryConfig{Enabled: false},
	)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestSetup_Enabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	shutdown, err := Setup(context.Background(), logger,
		config.ApplicationConfig{Name: "market-api", Env: "test"},
		config.TelemetryConfig{Enabled: true, OTLPEndpoint: "127.0.0.1:1", ServiceVersion: "test"},
	)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	_, span := otel.Tracer("test").Start(context.Background(), "span")
	span.End()
	assert.True(t, span.SpanContext().IsValid())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Nothing listens on the endpoint, so only the call itself is exercised
	_ = shutdown(ctx)
}
