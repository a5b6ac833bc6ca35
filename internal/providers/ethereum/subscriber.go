package ethereum

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
)

// Subscription delivers logs in ascending (block, log index) order until it fails or is closed
type Subscription interface {
	// Logs returns the channel of delivered logs
	Logs() <-chan types.Log
	// Err returns a channel receiving at most one error, after which no log is delivered
	Err() <-chan error
	// Unsubscribe stops the subscription and waits for its goroutine to exit
	Unsubscribe()
}

const (
	pushBufferSize      = 256
	defaultPollInterval = 5 * time.Second
)

type logSubscription struct {
	logs   chan types.Log
	errs   chan error
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *logSubscription) Logs() <-chan types.Log { return s.logs }

func (s *logSubscription) Err() <-chan error { return s.errs }

func (s *logSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Subscribe opens a push subscription, then catches up from fromBlock with
// eth_getLogs before forwarding pushed logs above the caught-up height.
// Endpoints without subscription support are polled instead.
func (c *chainClient) Subscribe(ctx context.Context, contract common.Address, topic common.Hash, fromBlock uint64) (Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	s := &logSubscription{
		logs:   make(chan types.Log),
		errs:   make(chan error, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	query := ethereum.FilterQuery{
		Addresses: []common.Address{contract},
		Topics:    [][]common.Hash{{topic}},
	}

	pushed := make(chan types.Log, pushBufferSize)
	sub, err := c.client.SubscribeFilterLogs(subCtx, query, pushed)
	c.observe("eth_subscribe", err)
	if err != nil {
		if !IsNotificationsUnsupported(err) {
			cancel()
			return nil, fmt.Errorf("%w: %v", domain.ErrSubscriptionFailed, err)
		}
		logger.InfoCtx(ctx, "Endpoint has no subscriptions, polling for logs",
			zap.String("chain", c.chain.String()),
			zap.String("contract", contract.Hex()))
		go c.poll(subCtx, s, contract, topic, fromBlock)
		return s, nil
	}

	go c.forward(subCtx, s, sub, pushed, contract, topic, fromBlock)
	return s, nil
}

// forward drives a push subscription
func (c *chainClient) forward(ctx context.Context, s *logSubscription, sub ethereum.Subscription, pushed <-chan types.Log, contract common.Address, topic common.Hash, fromBlock uint64) {
	defer close(s.done)
	defer sub.Unsubscribe()

	head, err := c.blockNumber(ctx)
	if err != nil {
		s.fail(err)
		return
	}

	// Pushed logs at or below head are covered by the catch-up
	if fromBlock <= head {
		logs, err := c.GetPastLogs(ctx, contract, topic, fromBlock, head)
		if err != nil {
			s.fail(err)
			return
		}
		for _, l := range logs {
			if !s.send(ctx, l) {
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-sub.Err():
			if err == nil {
				err = fmt.Errorf("subscription closed")
			}
			s.fail(fmt.Errorf("%w: %v", domain.ErrSubscriptionFailed, err))
			return
		case l := <-pushed:
			if l.Removed {
				logger.WarnCtx(ctx, "Skipping removed log",
					zap.String("chain", c.chain.String()),
					zap.Uint64("block", l.BlockNumber),
					zap.String("tx_hash", l.TxHash.Hex()))
				continue
			}
			if l.BlockNumber <= head || l.BlockNumber < fromBlock {
				continue
			}
			if !s.send(ctx, l) {
				return
			}
		}
	}
}

// poll emulates a subscription with eth_getLogs on endpoints without push support
func (c *chainClient) poll(ctx context.Context, s *logSubscription, contract common.Address, topic common.Hash, fromBlock uint64) {
	defer close(s.done)

	interval := c.config.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	next := fromBlock
	for {
		head, err := c.blockNumber(ctx)
		if err != nil {
			s.fail(err)
			return
		}

		if next <= head {
			logs, err := c.GetPastLogs(ctx, contract, topic, next, head)
			if err != nil {
				s.fail(err)
				return
			}
			for _, l := range logs {
				if !s.send(ctx, l) {
					return
				}
			}
			next = head + 1
		}

		select {
		case <-ctx.Done():
			return
		case <-c.clock.After(interval):
		}
	}
}

func (s *logSubscription) send(ctx context.Context, l types.Log) bool {
	select {
	case <-ctx.Done():
		return false
	case s.logs <- l:
		return true
	}
}

func (s *logSubscription) fail(err error) {
	select {
	case s.errs <- err:
	default:
	}
}
