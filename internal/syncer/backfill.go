package syncer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/metrics"
)

// Window is an inclusive block range fetched in one request
type Window struct {
	From uint64
	To   uint64
}

// NeedsBackfill reports whether the gap between the watermark and the chain head
// is wide enough to be scanned in windows before going live
func NeedsBackfill(watermark, current, step uint64) bool {
	return current > watermark && current-watermark > step+1
}

// Windows partitions [watermark, current] into consecutive windows of step blocks.
// The watermark block is scanned again: a run may have stopped between two logs of it,
// and logs already recorded are skipped by the event log.
// The last window ends at current.
func Windows(watermark, current, step uint64) []Window {
	if step == 0 || current < watermark {
		return nil
	}
	var windows []Window
	for from := watermark; from <= current; from += step {
		to := from + step - 1
		if to > current || to < from {
			to = current
		}
		windows = append(windows, Window{From: from, To: to})
		if to == current {
			break
		}
	}
	return windows
}

// backfill scans the logs from the watermark block up to current and returns the first block of the live phase.
// A failing window aborts the run: the watermark has not passed it, so the restarted run scans it again.
func (w *worker) backfill(ctx context.Context, watermark, current uint64) (uint64, error) {
	if !NeedsBackfill(watermark, current, w.config.Step) {
		logger.InfoCtx(ctx, "Close to chain head, skipping backfill",
			append(w.fields(), zap.Uint64("watermark", watermark), zap.Uint64("current", current))...)
		return watermark, nil
	}

	windows := Windows(watermark, current, w.config.Step)
	logger.InfoCtx(ctx, "Starting backfill",
		append(w.fields(),
			zap.Uint64("from", watermark),
			zap.Uint64("to", current),
			zap.Int("windows", len(windows)))...)

	for i, window := range windows {
		if i > 0 {
			if err := w.sleep(ctx, w.config.StepInterval); err != nil {
				return 0, err
			}
		}

		logs, err := w.client.GetPastLogs(ctx, w.tuple.Contract, w.handler.Topic(), window.From, window.To)
		if err != nil {
			return 0, fmt.Errorf("failed to fetch window %d-%d: %w", window.From, window.To, err)
		}
		metrics.BackfillWindows.WithLabelValues(w.tuple.Chain.String(), string(w.tuple.Kind)).Inc()

		for _, log := range logs {
			if err := w.dispatch(ctx, log); err != nil {
				return 0, err
			}
		}

		logger.DebugCtx(ctx, "Backfill window done",
			append(w.fields(),
				zap.Uint64("from", window.From),
				zap.Uint64("to", window.To),
				zap.Int("logs", len(logs)))...)
	}

	logger.InfoCtx(ctx, "Backfill finished", append(w.fields(), zap.Uint64("current", current))...)
	return current + 1, nil
}
