package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/block"
	"github.com/feral-file/ff-chain-sync/internal/contracts"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/metrics"
)

// Client is the chain access used by the sync engine.
// One Client is shared by every worker of a chain and is safe for concurrent use.
//
//go:generate mockgen -source=client.go -destination=../../mocks/chain_client.go -package=mocks -mock_names=Client=MockChainClient
type Client interface {
	// CurrentHeight returns the current chain height
	CurrentHeight(ctx context.Context) (uint64, error)

	// GetPastLogs returns the logs of one event emitted by contract within [fromBlock, toBlock],
	// in ascending (block, log index) order
	GetPastLogs(ctx context.Context, contract common.Address, topic common.Hash, fromBlock, toBlock uint64) ([]types.Log, error)

	// Subscribe streams the logs of one event emitted by contract starting at fromBlock
	Subscribe(ctx context.Context, contract common.Address, topic common.Hash, fromBlock uint64) (Subscription, error)

	// BatchCall sends the requests as one JSON-RPC batch
	BatchCall(ctx context.Context, batch []rpc.BatchElem) error

	// FetchLogContext reads the block timestamp, the transaction gas fee and
	// the results of the given contract calls in one batch
	FetchLogContext(ctx context.Context, log types.Log, calls ...contracts.CallMsg) (*LogContext, error)

	// Close closes the connection
	Close()
}

// Config holds the configuration of a chain client
type Config struct {
	Chain           domain.Chain
	RateLimit       float64 // requests per second, 0 disables limiting
	Burst           int
	HeadTTL         time.Duration
	HeadStaleWindow time.Duration
	// PollInterval paces the polling fallback used when the endpoint has no subscriptions
	PollInterval time.Duration
}

// CallResult is the outcome of one contract call of a batch.
// A reverted call carries its error without failing the batch.
type CallResult struct {
	Data []byte
	Err  error
}

// LogContext is the chain data read alongside a log
type LogContext struct {
	Timestamp time.Time
	GasFee    *big.Int
	Calls     []CallResult
}

type chainClient struct {
	chain   domain.Chain
	client  adapter.EthClient
	clock   adapter.Clock
	head    block.HeadProvider
	limiter *rate.Limiter
	config  Config
}

// NewClient creates a chain client over an EVM connection
func NewClient(cfg Config, client adapter.EthClient, clock adapter.Clock) Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &chainClient{
		chain:   cfg.Chain,
		client:  client,
		clock:   clock,
		limiter: rate.NewLimiter(limit, burst),
		config:  cfg,
	}
	c.head = block.NewHeadProvider(&headFetcher{client: c}, block.Config{
		Chain:       cfg.Chain,
		TTL:         cfg.HeadTTL,
		StaleWindow: cfg.HeadStaleWindow,
	}, clock)

	return c
}

// wait blocks until the chain rate limiter admits one request
func (c *chainClient) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

func (c *chainClient) observe(method string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.RPCRequests.WithLabelValues(c.chain.String(), method, result).Inc()
}

// CurrentHeight returns the current chain height, cached for a short TTL
func (c *chainClient) CurrentHeight(ctx context.Context) (uint64, error) {
	return c.head.CurrentHeight(ctx)
}

// blockNumber reads the chain head without the cache
func (c *chainClient) blockNumber(ctx context.Context) (uint64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	number, err := c.client.BlockNumber(ctx)
	c.observe("eth_blockNumber", err)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return number, nil
}

// GetPastLogs returns the logs of one event within [fromBlock, toBlock]
func (c *chainClient) GetPastLogs(ctx context.Context, contract common.Address, topic common.Hash, fromBlock, toBlock uint64) ([]types.Log, error) {
	if fromBlock > toBlock {
		return nil, nil
	}

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{contract},
		Topics:    [][]common.Hash{{topic}},
	}

	logs, err := c.getLogsWithRetry(ctx, query, toBlock-fromBlock+1)
	if err != nil {
		return nil, fmt.Errorf("failed to get logs for range %d-%d: %w", fromBlock, toBlock, err)
	}

	kept := logs[:0]
	for _, l := range logs {
		if l.Removed {
			continue
		}
		kept = append(kept, l)
	}
	sortLogs(kept)

	return kept, nil
}

// getLogsWithRetry processes the entire range from query.FromBlock to query.ToBlock in chunks,
// halving the chunk whenever the node refuses a range for returning too many results
func (c *chainClient) getLogsWithRetry(ctx context.Context, query ethereum.FilterQuery, stepSize uint64) ([]types.Log, error) {
	currentStepSize := stepSize

	var allLogs []types.Log
	currentFrom := new(big.Int).Set(query.FromBlock)

	for currentFrom.Cmp(query.ToBlock) <= 0 {
		currentTo := new(big.Int).Add(currentFrom, new(big.Int).SetUint64(currentStepSize-1))
		if currentTo.Cmp(query.ToBlock) > 0 {
			currentTo.Set(query.ToBlock)
		}

		queryCopy := query
		queryCopy.FromBlock = new(big.Int).Set(currentFrom)
		queryCopy.ToBlock = new(big.Int).Set(currentTo)

		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		logs, err := c.client.FilterLogs(ctx, queryCopy)
		c.observe("eth_getLogs", err)
		if err == nil {
			allLogs = append(allLogs, logs...)
			currentFrom.SetUint64(currentTo.Uint64() + 1)
			continue
		}

		if !isTooManyResultsError(err) || currentStepSize == 1 {
			return nil, err
		}

		currentStepSize = currentStepSize / 2

		logger.WarnCtx(ctx, "Too many results, reducing step size",
			zap.String("chain", c.chain.String()),
			zap.Uint64("oldStepSize", currentStepSize*2),
			zap.Uint64("newStepSize", currentStepSize),
			zap.Uint64("fromBlock", currentFrom.Uint64()),
			zap.Uint64("toBlock", currentTo.Uint64()))
	}

	return allLogs, nil
}

// isTooManyResultsError checks if the error is related to too many results
func isTooManyResultsError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "query returned more than 10000 results") ||
		strings.Contains(errStr, "query timeout exceeded") ||
		strings.Contains(errStr, "too many results") ||
		strings.Contains(errStr, "exceeded maximum") ||
		strings.Contains(errStr, "block range is too large")
}

func sortLogs(logs []types.Log) {
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})
}

// BatchCall sends the requests as one JSON-RPC batch
func (c *chainClient) BatchCall(ctx context.Context, batch []rpc.BatchElem) error {
	if len(batch) == 0 {
		return nil
	}
	if err := c.wait(ctx); err != nil {
		return err
	}
	err := c.client.BatchCallContext(ctx, batch)
	c.observe("batch", err)
	return err
}

// rpcBlock is the part of eth_getBlockByNumber the handlers read
type rpcBlock struct {
	Number    *hexutil.Big   `json:"number"`
	Timestamp hexutil.Uint64 `json:"timestamp"`
}

// rpcReceipt is the part of eth_getTransactionReceipt the handlers read
type rpcReceipt struct {
	GasUsed           hexutil.Uint64 `json:"gasUsed"`
	EffectiveGasPrice *hexutil.Big   `json:"effectiveGasPrice"`
}

// FetchLogContext reads the block, the receipt and the contract calls of a log in one batch
func (c *chainClient) FetchLogContext(ctx context.Context, log types.Log, calls ...contracts.CallMsg) (*LogContext, error) {
	var blk *rpcBlock
	var receipt *rpcReceipt
	results := make([]hexutil.Bytes, len(calls))

	batch := make([]rpc.BatchElem, 0, 2+len(calls))
	batch = append(batch,
		rpc.BatchElem{
			Method: "eth_getBlockByNumber",
			Args:   []interface{}{hexutil.EncodeUint64(log.BlockNumber), false},
			Result: &blk,
		},
		rpc.BatchElem{
			Method: "eth_getTransactionReceipt",
			Args:   []interface{}{log.TxHash},
			Result: &receipt,
		},
	)
	for i, call := range calls {
		batch = append(batch, rpc.BatchElem{
			Method: "eth_call",
			Args:   []interface{}{call, "latest"},
			Result: &results[i],
		})
	}

	if err := c.BatchCall(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to batch read block %d: %w", log.BlockNumber, err)
	}

	if batch[0].Error != nil {
		return nil, fmt.Errorf("failed to get block %d: %w", log.BlockNumber, batch[0].Error)
	}
	if blk == nil {
		return nil, fmt.Errorf("block %d not found", log.BlockNumber)
	}
	if batch[1].Error != nil {
		return nil, fmt.Errorf("failed to get receipt %s: %w", log.TxHash.Hex(), batch[1].Error)
	}

	lc := &LogContext{
		Timestamp: c.clock.Unix(int64(blk.Timestamp), 0), //nolint:gosec,G115
		GasFee:    gasFee(receipt),
		Calls:     make([]CallResult, len(calls)),
	}
	for i := range calls {
		elem := batch[2+i]
		if elem.Error != nil {
			lc.Calls[i] = CallResult{Err: elem.Error}
			continue
		}
		lc.Calls[i] = CallResult{Data: results[i]}
	}

	return lc, nil
}

// gasFee returns gas used times the effective gas price.
// Nodes that do not report an effective price yield the gas used alone.
func gasFee(receipt *rpcReceipt) *big.Int {
	if receipt == nil {
		return new(big.Int)
	}
	used := new(big.Int).SetUint64(uint64(receipt.GasUsed))
	if receipt.EffectiveGasPrice == nil {
		return used
	}
	return used.Mul(used, receipt.EffectiveGasPrice.ToInt())
}

// Close closes the connection
func (c *chainClient) Close() {
	if c.client == nil {
		return
	}
	c.client.Close()
	logger.Info("Chain connection closed", zap.String("chain", c.chain.String()))
}

// headFetcher implements block.HeadFetcher over the rate-limited client
type headFetcher struct {
	client *chainClient
}

// FetchLatestBlock fetches the latest block number from the chain
func (f *headFetcher) FetchLatestBlock(ctx context.Context) (uint64, error) {
	return f.client.blockNumber(ctx)
}

// IsNotificationsUnsupported reports whether the endpoint cannot push logs
func IsNotificationsUnsupported(err error) bool {
	return errors.Is(err, rpc.ErrNotificationsUnsupported)
}
