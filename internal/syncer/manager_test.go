package syncer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-chain-sync/internal/config"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/handlers"
	"github.com/feral-file/ff-chain-sync/internal/mocks"
	"github.com/feral-file/ff-chain-sync/internal/store/schema"
	"github.com/feral-file/ff-chain-sync/internal/syncer"
)

var collection = common.HexToAddress("0x9d3E9A5D5d4Ee5bC5bEb9B1B4A3a6f6cE4C2F3e1")

func chainConfig() config.ChainConfig {
	return config.ChainConfig{
		Enabled:        true,
		Step:           20000,
		CollectionStep: 100000,
		Contracts: config.ContractsConfig{
			Sticker:  config.ContractConfig{Address: sticker.Hex(), DeployHeight: 7744408},
			Pasar:    config.ContractConfig{Address: pasar.Hex(), DeployHeight: 7744408},
			Register: config.ContractConfig{Address: register.Hex(), DeployHeight: 9090468},
		},
	}
}

func chainDeps(chain domain.Chain, cfg config.ChainConfig, client *mocks.MockChainClient) handlers.Deps {
	return handlers.Deps{
		Chain:     chain,
		Contracts: syncer.ContractsOf(cfg),
		Client:    client,
	}
}

func countByContract(tuples []syncer.Tuple) map[common.Address]int {
	counts := make(map[common.Address]int)
	for _, tuple := range tuples {
		counts[tuple.Contract]++
	}
	return counts
}

func TestRegistry_RegisterChain(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := chainConfig()
	registry := syncer.NewRegistry()

	entries, err := registry.RegisterChain(chainDeps(domain.ChainElastos, cfg, mocks.NewMockChainClient(ctrl)), cfg, mocks.NewMockCollectionStarter(ctrl))
	require.NoError(t, err)
	assert.Len(t, entries, 11)
	assert.Len(t, registry.Entries(), 11)

	h, ok := registry.Get(syncer.Tuple{Chain: domain.ChainElastos, Contract: pasar, Kind: domain.EventKindOrderForAuction})
	require.True(t, ok)
	assert.Equal(t, domain.EventKindOrderForAuction, h.Kind())
	assert.Equal(t, pasar, h.Contract())

	for _, entry := range entries {
		switch entry.Tuple.Contract {
		case sticker:
			assert.Equal(t, domain.ContractSticker, entry.ContractKind)
		case pasar:
			assert.Equal(t, domain.ContractPasar, entry.ContractKind)
		case register:
			assert.Equal(t, domain.ContractRegister, entry.ContractKind)
		default:
			t.Fatalf("unexpected contract %s", entry.Tuple.Contract.Hex())
		}
	}
}

func TestRegistry_LegacyMarketplaceHasNoAuctions(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := chainConfig()
	cfg.Contracts.Register = config.ContractConfig{}
	registry := syncer.NewRegistry()

	entries, err := registry.RegisterChain(chainDeps(domain.ChainLegacy, cfg, mocks.NewMockChainClient(ctrl)), cfg, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	_, ok := registry.Get(syncer.Tuple{Chain: domain.ChainLegacy, Contract: pasar, Kind: domain.EventKindOrderForAuction})
	assert.False(t, ok)
	_, ok = registry.Get(syncer.Tuple{Chain: domain.ChainLegacy, Contract: pasar, Kind: domain.EventKindOrderFilled})
	assert.True(t, ok)
}

func TestRegistry_ConfiguredEventsOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := chainConfig()
	cfg.Contracts.Pasar.Events = []domain.EventKind{domain.EventKindOrderFilled}
	registry := syncer.NewRegistry()

	entries, err := registry.RegisterChain(chainDeps(domain.ChainElastos, cfg, mocks.NewMockChainClient(ctrl)), cfg, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mocks.NewMockHandler(ctrl)
	h.EXPECT().Contract().Return(sticker).AnyTimes()
	h.EXPECT().Kind().Return(domain.EventKindTransfer).AnyTimes()

	registry := syncer.NewRegistry()
	_, err := registry.Register(domain.ChainElastos, domain.ContractSticker, h)
	require.NoError(t, err)

	_, err = registry.Register(domain.ChainElastos, domain.ContractSticker, h)
	assert.Error(t, err)

	// the same contract on another chain is a different tuple
	_, err = registry.Register(domain.ChainEthereum, domain.ContractSticker, h)
	assert.NoError(t, err)
}

func TestContractsOf(t *testing.T) {
	cfg := chainConfig()
	cfg.Contracts.Register = config.ContractConfig{}

	contracts := syncer.ContractsOf(cfg)
	assert.Equal(t, sticker, contracts.Sticker)
	assert.Equal(t, pasar, contracts.Pasar)
	assert.Equal(t, common.Address{}, contracts.Register)
	assert.True(t, contracts.IsBaseCollection(sticker))
	assert.False(t, contracts.IsBaseCollection(collection))
}

func newManager(t *testing.T) (*syncer.Manager, *mocks.MockStore, *mocks.MockChainClient) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	client := mocks.NewMockChainClient(ctrl)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().After(gomock.Any()).DoAndReturn(elapsed).AnyTimes()

	m := syncer.NewManager(st, clock, syncer.Config{
		StepInterval:       time.Second,
		WorkerRestartDelay: time.Second,
		ResubscribeDelay:   time.Second,
	})
	return m, st, client
}

func TestManager_AddChain(t *testing.T) {
	m, _, client := newManager(t)
	cfg := chainConfig()

	require.NoError(t, m.AddChain(chainDeps(domain.ChainElastos, cfg, client), cfg))

	counts := countByContract(m.Tuples())
	assert.Equal(t, 1, counts[sticker])
	assert.Equal(t, 7, counts[pasar])
	assert.Equal(t, 3, counts[register])

	err := m.AddChain(chainDeps(domain.ChainElastos, cfg, client), cfg)
	assert.Error(t, err)
}

func TestManager_StartCollection(t *testing.T) {
	m, _, client := newManager(t)
	cfg := chainConfig()
	require.NoError(t, m.AddChain(chainDeps(domain.ChainElastos, cfg, client), cfg))
	ctx := context.Background()

	m.StartCollection(ctx, domain.ChainElastos, collection, true)
	// registered twice, followed once
	m.StartCollection(ctx, domain.ChainElastos, collection, true)
	// the base collection already has its worker
	m.StartCollection(ctx, domain.ChainElastos, sticker, false)
	// no worker on chains that are not managed
	m.StartCollection(ctx, domain.ChainFusion, collection, false)

	tuples := m.Tuples()
	assert.Len(t, tuples, 12)
	assert.Contains(t, tuples, syncer.Tuple{Chain: domain.ChainElastos, Contract: collection, Kind: domain.EventKindTransfer})
	assert.NotContains(t, tuples, syncer.Tuple{Chain: domain.ChainFusion, Contract: collection, Kind: domain.EventKindTransfer})

	_, ok := m.Registry().Get(syncer.Tuple{Chain: domain.ChainElastos, Contract: collection, Kind: domain.EventKindTransfer})
	assert.True(t, ok)
}

func TestManager_RunFollowsStoredCollections(t *testing.T) {
	m, st, client := newManager(t)
	cfg := chainConfig()
	require.NoError(t, m.AddChain(chainDeps(domain.ChainElastos, cfg, client), cfg))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st.EXPECT().ListCollections(gomock.Any(), domain.ChainElastos).Return([]schema.Collection{
		{Chain: domain.ChainElastos, Token: collection.Hex(), Is721: false},
		{Chain: domain.ChainElastos, Token: sticker.Hex()},
	}, nil)
	// workers see the cancelled context on their first store read
	st.EXPECT().GetWatermark(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(uint64(0), false, context.Canceled).AnyTimes()

	require.NoError(t, m.Run(ctx))
	assert.Contains(t, m.Tuples(), syncer.Tuple{Chain: domain.ChainElastos, Contract: collection, Kind: domain.EventKindTransfer})
	assert.Len(t, m.Tuples(), 12)
}

func TestManager_RunFailsWhenCollectionsCannotBeListed(t *testing.T) {
	m, st, client := newManager(t)
	cfg := chainConfig()
	require.NoError(t, m.AddChain(chainDeps(domain.ChainElastos, cfg, client), cfg))

	st.EXPECT().ListCollections(gomock.Any(), domain.ChainElastos).Return(nil, errors.New("relation does not exist"))

	err := m.Run(context.Background())
	assert.Error(t, err)
}

func TestManager_RestartsFailedWorkers(t *testing.T) {
	m, st, client := newManager(t)
	cfg := chainConfig()
	cfg.Contracts.Pasar = config.ContractConfig{}
	cfg.Contracts.Register = config.ContractConfig{}
	require.NoError(t, m.AddChain(chainDeps(domain.ChainElastos, cfg, client), cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st.EXPECT().ListCollections(gomock.Any(), domain.ChainElastos).Return(nil, nil)

	runs := 0
	st.EXPECT().GetWatermark(gomock.Any(), domain.ChainElastos, sticker.Hex(), domain.EventKindTransfer).
		DoAndReturn(func(ctx context.Context, chain domain.Chain, contract string, kind domain.EventKind) (uint64, bool, error) {
			runs++
			if runs == 3 {
				cancel()
			}
			return 0, false, errors.New("too many connections")
		}).Times(3)

	require.NoError(t, m.Run(ctx))
	assert.Equal(t, 3, runs)
}
