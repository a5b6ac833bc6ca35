package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/logger"
)

// Sync engine counters and gauges, partitioned by chain.

var (
	// Workers
	EventsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chain_sync",
		Subsystem: "worker",
		Name:      "events_handled_total",
		Help:      "Total logs handled, by outcome (ok, dropped, failed, skipped)",
	}, []string{"chain", "event_kind", "outcome"})

	BackfillWindows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chain_sync",
		Subsystem: "worker",
		Name:      "backfill_windows_total",
		Help:      "Total backfill windows fetched",
	}, []string{"chain", "event_kind"})

	WorkerRestarts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chain_sync",
		Subsystem: "worker",
		Name:      "restarts_total",
		Help:      "Total worker restarts after a failed run",
	}, []string{"chain", "event_kind"})

	Watermark = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "chain_sync",
		Subsystem: "worker",
		Name:      "watermark",
		Help:      "Last handled block per chain, contract and event kind",
	}, []string{"chain", "contract", "event_kind"})

	// Chain client
	ChainHead = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "chain_sync",
		Subsystem: "rpc",
		Name:      "chain_head",
		Help:      "Latest block number observed per chain",
	}, []string{"chain"})

	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chain_sync",
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "Total RPC requests, by method and result",
	}, []string{"chain", "method", "result"})

	// Reconciliation
	ReconciliationEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chain_sync",
		Subsystem: "reconciliation",
		Name:      "enqueued_total",
		Help:      "Total mutations deferred because their entity did not exist yet",
	}, []string{"kind"})

	ReconciliationReplayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chain_sync",
		Subsystem: "reconciliation",
		Name:      "replayed_total",
		Help:      "Total reconciliation replays, by result (applied, deferred, failed)",
	}, []string{"kind", "result"})

	// Metadata enrichment
	EnrichmentResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chain_sync",
		Subsystem: "enricher",
		Name:      "results_total",
		Help:      "Total metadata fetches, by entity and result",
	}, []string{"entity", "result"})

	EnrichmentLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chain_sync",
		Subsystem: "enricher",
		Name:      "fetch_duration_seconds",
		Help:      "Metadata fetch duration",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"entity"})
)

// Serve exposes the default registry on /metrics until ctx is done
func Serve(ctx context.Context, listen string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoCtx(ctx, "Metrics endpoint listening", zap.String("listen", listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
