package syncer

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/config"
	"github.com/feral-file/ff-chain-sync/internal/contracts"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/handlers"
	"github.com/feral-file/ff-chain-sync/internal/logger"
)

// Tuple identifies the stream of one event kind emitted by one contract of a chain
type Tuple struct {
	Chain    domain.Chain
	Contract common.Address
	Kind     domain.EventKind
}

func (t Tuple) String() string {
	return fmt.Sprintf("%s/%s/%s", t.Chain, t.Contract.Hex(), t.Kind)
}

// Entry is a registered handler with the role of the contract it watches
type Entry struct {
	Tuple        Tuple
	ContractKind domain.ContractKind
	Handler      handlers.Handler
}

// Registry maps every watched tuple to its handler.
// It is filled once at startup and extended only by collection bootstrap.
type Registry struct {
	entries map[Tuple]Entry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Tuple]Entry)}
}

// Register adds a handler; a tuple can only be registered once
func (r *Registry) Register(chain domain.Chain, contractKind domain.ContractKind, h handlers.Handler) (Entry, error) {
	tuple := Tuple{Chain: chain, Contract: h.Contract(), Kind: h.Kind()}
	if _, ok := r.entries[tuple]; ok {
		return Entry{}, fmt.Errorf("handler for %s already registered", tuple)
	}
	entry := Entry{Tuple: tuple, ContractKind: contractKind, Handler: h}
	r.entries[tuple] = entry
	return entry, nil
}

// Get returns the handler of a tuple
func (r *Registry) Get(tuple Tuple) (handlers.Handler, bool) {
	entry, ok := r.entries[tuple]
	return entry.Handler, ok
}

// Entries returns the registered entries in a stable order
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Tuple.String() < entries[j].Tuple.String()
	})
	return entries
}

// ContractsOf returns the fixed contract addresses of a chain
func ContractsOf(cfg config.ChainConfig) handlers.Contracts {
	var c handlers.Contracts
	if cfg.Contracts.Sticker.Configured() {
		c.Sticker = common.HexToAddress(cfg.Contracts.Sticker.Address)
	}
	if cfg.Contracts.Pasar.Configured() {
		c.Pasar = common.HexToAddress(cfg.Contracts.Pasar.Address)
	}
	if cfg.Contracts.Register.Configured() {
		c.Register = common.HexToAddress(cfg.Contracts.Register.Address)
	}
	return c
}

// RegisterChain registers the handlers of every event watched on the fixed contracts of a chain.
// Kinds the deployed contract does not emit, such as auctions on the legacy marketplace, are skipped.
func (r *Registry) RegisterChain(deps handlers.Deps, cfg config.ChainConfig, starter handlers.CollectionStarter) ([]Entry, error) {
	var entries []Entry

	for _, contractKind := range []domain.ContractKind{domain.ContractSticker, domain.ContractPasar, domain.ContractRegister} {
		contract, ok := cfg.Contracts.Get(contractKind)
		if !ok {
			continue
		}

		contractABI, err := contracts.ForContract(deps.Chain, contractKind, false)
		if err != nil {
			return nil, err
		}

		for _, kind := range contract.WatchedEvents(contractKind) {
			name, err := contracts.EventName(kind, false)
			if err != nil {
				return nil, err
			}
			if _, ok := contractABI.Events[name]; !ok {
				logger.Debug("Contract does not emit event, skipping",
					zap.String("chain", deps.Chain.String()),
					zap.String("contract", string(contractKind)),
					zap.String("event_kind", string(kind)))
				continue
			}

			h, err := newHandler(deps, contractKind, kind, starter)
			if err != nil {
				return nil, fmt.Errorf("failed to create %s handler: %w", kind, err)
			}
			entry, err := r.Register(deps.Chain, contractKind, h)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

func newHandler(deps handlers.Deps, contractKind domain.ContractKind, kind domain.EventKind, starter handlers.CollectionStarter) (handlers.Handler, error) {
	switch contractKind {
	case domain.ContractSticker:
		return handlers.NewTransferHandler(deps)
	case domain.ContractPasar:
		return handlers.NewOrderHandler(deps, kind)
	case domain.ContractRegister:
		return handlers.NewCollectionHandler(deps, kind, starter)
	default:
		return nil, fmt.Errorf("no handler for %s contracts", contractKind)
	}
}
