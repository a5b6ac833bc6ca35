package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_AllVariablesNonNil(t *testing.T) {
	t.Parallel()

	vars := []struct {
		name string
		val  any
	}{
		{"EventsHandled", EventsHandled},
		{"BackfillWindows", BackfillWindows},
		{"WorkerRestarts", WorkerRestarts},
		{"Watermark", Watermark},
		{"ChainHead", ChainHead},
		{"RPCRequests", RPCRequests},
		{"ReconciliationEnqueued", ReconciliationEnqueued},
		{"ReconciliationReplayed", ReconciliationReplayed},
		{"EnrichmentResults", EnrichmentResults},
		{"EnrichmentLatency", EnrichmentLatency},
	}

	for _, v := range vars {
		assert.NotNilf(t, v.val, "%s should not be nil", v.name)
	}
}

func TestMetrics_CounterIncrement(t *testing.T) {
	t.Parallel()

	c := EventsHandled.WithLabelValues("test-chain", "transfer", "ok")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))

	assert.NotPanics(t, func() { BackfillWindows.WithLabelValues("test-chain", "transfer").Inc() })
	assert.NotPanics(t, func() { WorkerRestarts.WithLabelValues("test-chain", "transfer").Inc() })
	assert.NotPanics(t, func() { RPCRequests.WithLabelValues("test-chain", "eth_getLogs", "ok").Inc() })
	assert.NotPanics(t, func() { ReconciliationEnqueued.WithLabelValues("order_update").Inc() })
	assert.NotPanics(t, func() { ReconciliationReplayed.WithLabelValues("order_update", "applied").Inc() })
	assert.NotPanics(t, func() { EnrichmentResults.WithLabelValues("token", "ok").Inc() })
}

func TestMetrics_GaugeAndHistogram(t *testing.T) {
	t.Parallel()

	ChainHead.WithLabelValues("test-gauge").Set(42)
	assert.Equal(t, float64(42), testutil.ToFloat64(ChainHead.WithLabelValues("test-gauge")))

	assert.NotPanics(t, func() { Watermark.WithLabelValues("test-chain", "0x0", "transfer").Set(7) })
	assert.NotPanics(t, func() { EnrichmentLatency.WithLabelValues("token").Observe(1.5) })
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
