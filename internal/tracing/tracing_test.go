package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProvider_DisabledIsNoOpAndNeverErrors(t *testing.T) {
	p, err := NewProvider(false)
	require.NoError(t, err)
	require.False(t, p.Enabled())

	_, span := p.StartEventSpan(context.Background(), "tea.KeyMsg")
	span.End()

	_, routeSpan := p.StartRouteSpan(context.Background())
	SetRouteLength(routeSpan, 8)
	routeSpan.End()

	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_EnabledBuildsStdoutExporter(t *testing.T) {
	p, err := NewProvider(true)
	require.NoError(t, err)
	require.True(t, p.Enabled())
	require.NotNil(t, p.Tracer())
	require.NoError(t, p.Shutdown(context.Background()))
}
