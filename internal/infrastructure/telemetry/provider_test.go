package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-core/internal/infrastructure/telemetry"
)

func TestSetup_NoopSinEndpoint(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), "inventory-core", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, shutdown(ctx))
}

func TestSetup_CreaProviderConEndpoint(t *testing.T) {
	// dirección no enrutable: no se exporta nada
	shutdown, err := telemetry.Setup(context.Background(), "inventory-core", "http://192.0.2.1:4318")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
