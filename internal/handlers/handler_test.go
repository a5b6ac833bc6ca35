package handlers_test

import (
	"context"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/canonical"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/handlers"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/mocks"
	"github.com/feral-file/ff-chain-sync/internal/providers/ethereum"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var (
	sticker    = common.HexToAddress("0x020c7303664bc88ae92cE3D380BF361E03B78B81")
	pasar      = common.HexToAddress("0x02E8AD0687D583e2F6A7e5b82144025f30e26aA0")
	register   = common.HexToAddress("0x3d0AD66765C319c2A1c6330C1d815608543dcc19")
	collection = common.HexToAddress("0x9d0C4e5c6E8b7d8A34a1e2b3C4d5E6f708192a3B")
	seller     = common.HexToAddress("0x1111111111111111111111111111111111111111")
	buyer      = common.HexToAddress("0x2222222222222222222222222222222222222222")

	blockTime = time.Unix(1700000000, 0)
)

type testHandlerMocks struct {
	ctrl      *gomock.Controller
	client    *mocks.MockChainClient
	canonical *mocks.MockCanonicalAdapter
	publisher *mocks.MockPublisher
	fetcher   *mocks.MockMetadataFetcher
	starter   *mocks.MockCollectionStarter
	deps      handlers.Deps
}

func setupTest(t *testing.T, chain domain.Chain) *testHandlerMocks {
	ctrl := gomock.NewController(t)
	tm := &testHandlerMocks{
		ctrl:      ctrl,
		client:    mocks.NewMockChainClient(ctrl),
		canonical: mocks.NewMockCanonicalAdapter(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
		fetcher:   mocks.NewMockMetadataFetcher(ctrl),
		starter:   mocks.NewMockCollectionStarter(ctrl),
	}
	tm.deps = handlers.Deps{
		Chain: chain,
		Contracts: handlers.Contracts{
			Sticker:  sticker,
			Pasar:    pasar,
			Register: register,
		},
		Client:         tm.client,
		Canonical:      tm.canonical,
		Publisher:      tm.publisher,
		Fetcher:        tm.fetcher,
		JSON:           adapter.NewJSON(),
		ProfileTimeout: time.Second,
	}
	return tm
}

// expectTx runs the transaction body against the same mock and records the event
func (tm *testHandlerMocks) expectTx(recorded bool) {
	tm.canonical.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(canonical.Adapter) error) error {
			return fn(tm.canonical)
		})
	tm.canonical.EXPECT().RecordEvent(gomock.Any(), gomock.Any()).Return(recorded, nil)
}

func (tm *testHandlerMocks) expectLogContext(log types.Log, calls ...ethereum.CallResult) {
	tm.client.EXPECT().
		FetchLogContext(gomock.Any(), log, gomock.Any()).
		Return(&ethereum.LogContext{
			Timestamp: blockTime,
			GasFee:    big.NewInt(21000),
			Calls:     calls,
		}, nil)
}

func addressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func intTopic(n int64) common.Hash {
	return common.BigToHash(big.NewInt(n))
}

// newLog builds a log of the named event with the given indexed topics and packed data
func newLog(t *testing.T, contractABI abi.ABI, event string, address common.Address, block uint64, topics []common.Hash, data ...interface{}) types.Log {
	t.Helper()
	ev, ok := contractABI.Events[event]
	require.True(t, ok)
	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	require.NoError(t, err)

	return types.Log{
		Address:     address,
		Topics:      append([]common.Hash{ev.ID}, topics...),
		Data:        packed,
		BlockNumber: block,
		TxHash:      common.BigToHash(new(big.Int).SetUint64(block)),
		Index:       1,
	}
}

func packOutput(t *testing.T, contractABI abi.ABI, method string, value interface{}) ethereum.CallResult {
	t.Helper()
	data, err := contractABI.Methods[method].Outputs.Pack(value)
	require.NoError(t, err)
	return ethereum.CallResult{Data: data}
}

var errReverted = errors.New("execution reverted")
