package block_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-chain-sync/internal/block"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/mocks"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testHeadProviderMocks contains all the mocks needed for testing the head provider
type testHeadProviderMocks struct {
	ctrl     *gomock.Controller
	fetcher  *mocks.MockHeadFetcher
	clock    *mocks.MockClock
	provider block.HeadProvider
}

func setupTest(t *testing.T) *testHeadProviderMocks {
	ctrl := gomock.NewController(t)

	mockFetcher := mocks.NewMockHeadFetcher(ctrl)
	mockClock := mocks.NewMockClock(ctrl)

	provider := block.NewHeadProvider(mockFetcher, block.Config{
		Chain:       domain.ChainElastos,
		TTL:         10 * time.Second,
		StaleWindow: 2 * time.Minute,
	}, mockClock)

	return &testHeadProviderMocks{
		ctrl:     ctrl,
		fetcher:  mockFetcher,
		clock:    mockClock,
		provider: provider,
	}
}

func tearDownTest(tm *testHeadProviderMocks) {
	tm.ctrl.Finish()
}

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestHeadProvider_CurrentHeight_FirstFetch(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()

	tm.clock.EXPECT().Now().Return(t0)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil)

	height, err := tm.provider.CurrentHeight(ctx)

	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), height)
}

func TestHeadProvider_CurrentHeight_UsesCache_WithinTTL(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()

	tm.clock.EXPECT().Now().Return(t0)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil)

	_, err := tm.provider.CurrentHeight(ctx)
	assert.NoError(t, err)

	tm.clock.EXPECT().Now().Return(t0.Add(5 * time.Second))

	height, err := tm.provider.CurrentHeight(ctx)

	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), height)
}

func TestHeadProvider_CurrentHeight_RefreshesCache_AfterTTL(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()

	tm.clock.EXPECT().Now().Return(t0)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil)
	_, err := tm.provider.CurrentHeight(ctx)
	assert.NoError(t, err)

	tm.clock.EXPECT().Now().Return(t0.Add(15 * time.Second))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1100), nil)

	height, err := tm.provider.CurrentHeight(ctx)

	assert.NoError(t, err)
	assert.Equal(t, uint64(1100), height)
}

func TestHeadProvider_CurrentHeight_NeverMovesBackwards(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()

	tm.clock.EXPECT().Now().Return(t0)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil)
	_, err := tm.provider.CurrentHeight(ctx)
	assert.NoError(t, err)

	// A lagging node answers with an older head
	tm.clock.EXPECT().Now().Return(t0.Add(15 * time.Second))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(990), nil)

	height, err := tm.provider.CurrentHeight(ctx)

	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), height)
}

func TestHeadProvider_CurrentHeight_UsesStaleCacheOnError_WithinStaleWindow(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()

	tm.clock.EXPECT().Now().Return(t0)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil)
	_, err := tm.provider.CurrentHeight(ctx)
	assert.NoError(t, err)

	tm.clock.EXPECT().Now().Return(t0.Add(30 * time.Second))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(0), errors.New("network error"))

	height, err := tm.provider.CurrentHeight(ctx)

	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), height)
}

func TestHeadProvider_CurrentHeight_ReturnsError_WhenNoCache_AndFetchFails(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()

	tm.clock.EXPECT().Now().Return(t0)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(0), errors.New("network error"))

	height, err := tm.provider.CurrentHeight(ctx)

	assert.Error(t, err)
	assert.Equal(t, uint64(0), height)
	assert.Contains(t, err.Error(), "failed to fetch latest block and no valid cache available")
}

func TestHeadProvider_CurrentHeight_ReturnsError_BeyondStaleWindow(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()

	tm.clock.EXPECT().Now().Return(t0)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil)
	_, err := tm.provider.CurrentHeight(ctx)
	assert.NoError(t, err)

	tm.clock.EXPECT().Now().Return(t0.Add(5 * time.Minute))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(0), errors.New("network error"))

	height, err := tm.provider.CurrentHeight(ctx)

	assert.Error(t, err)
	assert.Equal(t, uint64(0), height)
}

func TestHeadProvider_ConcurrentAccess(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()

	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil).MinTimes(1).MaxTimes(10)
	tm.clock.EXPECT().Now().Return(t0).AnyTimes()

	done := make(chan bool, 10)
	for range 10 {
		go func() {
			height, err := tm.provider.CurrentHeight(ctx)
			assert.NoError(t, err)
			assert.Equal(t, uint64(1000), height)
			done <- true
		}()
	}

	for range 10 {
		<-done
	}
}
