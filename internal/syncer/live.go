package syncer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/providers/ethereum"
)

// live follows the subscription from the given block.
// A dropped subscription is reopened from the stored watermark block, never below from.
func (w *worker) live(ctx context.Context, from uint64) error {
	next := from
	for {
		logger.InfoCtx(ctx, "Subscribing to logs", append(w.fields(), zap.Uint64("from", next))...)

		sub, err := w.client.Subscribe(ctx, w.tuple.Contract, w.handler.Topic(), next)
		if err == nil {
			err = w.consume(ctx, sub)
			sub.Unsubscribe()
		} else {
			err = fmt.Errorf("%w: %v", domain.ErrSubscriptionFailed, err)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !errors.Is(err, domain.ErrSubscriptionFailed) {
			return err
		}

		logger.WarnCtx(ctx, "Subscription dropped, resubscribing", append(w.fields(), zap.Error(err))...)
		if err := w.sleep(ctx, w.config.ResubscribeDelay); err != nil {
			return err
		}

		watermark, err := w.watermark(ctx)
		if err != nil {
			return err
		}
		next = max(watermark, from)
	}
}

// consume dispatches delivered logs until the subscription fails or a log cannot be handled.
// Subscription failures wrap domain.ErrSubscriptionFailed.
func (w *worker) consume(ctx context.Context, sub ethereum.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			if err == nil {
				err = errors.New("subscription closed")
			}
			if errors.Is(err, domain.ErrSubscriptionFailed) {
				return err
			}
			return fmt.Errorf("%w: %v", domain.ErrSubscriptionFailed, err)
		case log, ok := <-sub.Logs():
			if !ok {
				return fmt.Errorf("%w: log channel closed", domain.ErrSubscriptionFailed)
			}
			if err := w.dispatch(ctx, log); err != nil {
				return err
			}
		}
	}
}
