package ioc

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsSnapshot(t *testing.T) {
	ctx := context.Background()

	c := newTestContainer(t)
	tok := NewToken("svc")
	require.NoError(t, c.RegisterInstance(tok, 1))

	_, err := c.Resolve(ctx, tok)
	require.NoError(t, err)
	_, err = c.Resolve(ctx, NewToken("ghost"))
	require.Error(t, err)

	snap := c.Metrics()
	assert.Equal(t, uint64(1), snap.TotalRegistrations)
	assert.Equal(t, uint64(1), snap.TotalResolutions)
	assert.Equal(t, uint64(1), snap.ErrorCount)
}

func TestPrometheusCollectors(t *testing.T) {
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	c := New(WithMetricsRegisterer(reg), WithLogger(zap.NewNop()))
	t.Cleanup(func() { _ = c.Dispose() })

	tok := NewToken("svc")
	require.NoError(t, c.RegisterInstance(tok, 1))
	_, err := c.Resolve(ctx, tok)
	require.NoError(t, err)
	_, err = c.Resolve(ctx, NewToken("ghost"))
	require.Error(t, err)

	dispose, err := c.CreateScope("req")
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.prom.registrations))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.prom.resolutions))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.prom.errors))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.prom.activeScopes))

	require.NoError(t, dispose())
	assert.Equal(t, float64(0), testutil.ToFloat64(c.metrics.prom.activeScopes))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)
}

func TestMetricsWithoutRegisterer(t *testing.T) {
	c := newTestContainer(t)
	require.Nil(t, c.metrics.prom)
	require.NoError(t, c.RegisterInstance(NewToken("svc"), 1))
	assert.Equal(t, uint64(1), c.Metrics().TotalRegistrations)
}
