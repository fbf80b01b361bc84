package processor

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noay-network/marketplace-processor/internal/payload"
	"github.com/noay-network/marketplace-processor/internal/state/memory"
)

func TestMetricsObserveOutcomes(t *testing.T) {
	metrics := NewMetrics("marketplace")
	proc := New(memory.New(),
		WithLogger(zap.NewNop()),
		WithMetrics(metrics))

	ctx := context.Background()
	require.NoError(t, proc.Apply(ctx, aliceKey, payload.CreateAccount{Label: "Alice"}))

	err := proc.Apply(ctx, aliceKey, payload.CreateAccount{Label: "Alice again"})
	require.True(t, IsInvalidTransaction(err))

	applied := testutil.ToFloat64(metrics.applied.WithLabelValues("create_account"))
	rejected := testutil.ToFloat64(metrics.rejected.WithLabelValues("create_account"))

	assert.Equal(t, 1.0, applied)
	assert.Equal(t, 1.0, rejected)
}

func TestMetricsFaultPath(t *testing.T) {
	metrics := NewMetrics("marketplace")
	proc := New(&faultyContext{err: assert.AnError}, WithMetrics(metrics))

	err := proc.Apply(context.Background(), aliceKey, payload.CreateAccount{})
	require.Error(t, err)
	require.False(t, IsInvalidTransaction(err))

	faults := testutil.ToFloat64(metrics.faults.WithLabelValues("create_account"))
	assert.Equal(t, 1.0, faults)
}

func TestNilMetricsAreSafe(t *testing.T) {
	proc := New(memory.New())
	require.NoError(t, proc.Apply(context.Background(), aliceKey, payload.CreateAccount{}))
}

type faultyContext struct {
	err error
}

func (c *faultyContext) GetState(context.Context, []string) (map[string][]byte, error) {
	return nil, c.err
}

func (c *faultyContext) SetState(context.Context, map[string][]byte) ([]string, error) {
	return nil, c.err
}
