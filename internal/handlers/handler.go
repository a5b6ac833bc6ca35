package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/canonical"
	"github.com/feral-file/ff-chain-sync/internal/contracts"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/messaging"
	"github.com/feral-file/ff-chain-sync/internal/metadata"
	"github.com/feral-file/ff-chain-sync/internal/providers/ethereum"
	"github.com/feral-file/ff-chain-sync/internal/store"
)

//go:generate mockgen -source=handler.go -destination=../mocks/handler.go -package=mocks -mock_names=Handler=MockHandler,CollectionStarter=MockCollectionStarter

// Handler turns the logs of one (chain, contract, event kind) into an event log entry
// and a canonical entity mutation. Handle is safe to call again for a log it already handled.
type Handler interface {
	// Kind returns the event kind handled
	Kind() domain.EventKind
	// Contract returns the address of the emitting contract
	Contract() common.Address
	// Topic returns the event signature hash the handler subscribes to
	Topic() common.Hash
	// Handle processes one log. Errors wrapping domain.ErrMalformedEvent mean the log can never be handled.
	Handle(ctx context.Context, log types.Log) error
}

// CollectionStarter starts the transfer listener of a user-registered collection
type CollectionStarter interface {
	StartCollection(ctx context.Context, chain domain.Chain, token common.Address, is721 bool)
}

// Contracts holds the fixed marketplace contracts of a chain
type Contracts struct {
	Sticker  common.Address
	Pasar    common.Address
	Register common.Address
}

var legacySticker = common.HexToAddress(domain.LEGACY_STICKER_ADDRESS)

// IsBaseCollection reports whether the token is a collection synced by the fixed contract workers,
// either the chain's own sticker contract or the legacy one
func (c Contracts) IsBaseCollection(token common.Address) bool {
	return token == c.Sticker || token == legacySticker
}

// Deps holds the collaborators shared by the handlers of a chain
type Deps struct {
	Chain     domain.Chain
	Contracts Contracts
	Client    ethereum.Client
	Canonical canonical.Adapter
	Publisher messaging.Publisher
	Fetcher   metadata.Fetcher
	JSON      adapter.JSON
	// ProfileTimeout bounds the best-effort off-chain profile fetches
	ProfileTimeout time.Duration
}

// base carries what every handler needs to decode and record a log
type base struct {
	deps     Deps
	kind     domain.EventKind
	contract common.Address
	abi      abi.ABI
	event    string
}

func newBase(deps Deps, kind domain.EventKind, contract common.Address, contractABI abi.ABI, erc721 bool) (base, error) {
	event, err := contracts.EventName(kind, erc721)
	if err != nil {
		return base{}, err
	}
	if _, ok := contractABI.Events[event]; !ok {
		return base{}, fmt.Errorf("contract %s does not emit %s", contract.Hex(), event)
	}
	return base{
		deps:     deps,
		kind:     kind,
		contract: contract,
		abi:      contractABI,
		event:    event,
	}, nil
}

func (b *base) Kind() domain.EventKind {
	return b.kind
}

func (b *base) Contract() common.Address {
	return b.contract
}

func (b *base) Topic() common.Hash {
	return b.abi.Events[b.event].ID
}

func (b *base) decode(log types.Log) (contracts.Args, error) {
	return contracts.Decode(b.abi, b.event, log)
}

func (b *base) chainEvent(log types.Log, args contracts.Args, lc *ethereum.LogContext) domain.ChainEvent {
	return domain.ChainEvent{
		Chain:       b.deps.Chain,
		Contract:    log.Address.Hex(),
		EventKind:   b.kind,
		BlockNumber: log.BlockNumber,
		LogIndex:    log.Index,
		TxHash:      log.TxHash.Hex(),
		Timestamp:   lc.Timestamp,
		GasFee:      lc.GasFee.String(),
		Fields:      args.Fields(),
	}
}

// commit records the event and applies the mutation in one transaction, then publishes the event.
// A log already in the event log was fully applied with it, so the mutation is not repeated.
// It returns false for such a redelivered log.
func (b *base) commit(ctx context.Context, event domain.ChainEvent, apply func(tx canonical.Adapter) (canonical.Outcome, error)) (bool, error) {
	var (
		recorded bool
		outcome  canonical.Outcome
	)

	err := b.deps.Canonical.WithTx(ctx, func(tx canonical.Adapter) error {
		var err error
		recorded, err = tx.RecordEvent(ctx, event)
		if err != nil {
			return fmt.Errorf("failed to record event: %w", err)
		}
		if !recorded {
			return nil
		}
		outcome, err = apply(tx)
		return err
	})
	if err != nil {
		return false, err
	}

	if !recorded {
		logger.DebugCtx(ctx, "Event already handled",
			zap.String("chain", event.Chain.String()),
			zap.String("event_kind", string(event.EventKind)),
			zap.String("tx_hash", event.TxHash),
			zap.Uint("log_index", event.LogIndex))
		return false, nil
	}

	logger.DebugCtx(ctx, "Event handled",
		zap.String("chain", event.Chain.String()),
		zap.String("event_kind", string(event.EventKind)),
		zap.Uint64("block", event.BlockNumber),
		zap.String("tx_hash", event.TxHash),
		zap.String("outcome", string(outcome)))

	b.publish(ctx, event)
	return true, nil
}

// publish forwards a committed event to the broker. Failures are logged only:
// the event log is the source of truth and consumers can backfill from it.
func (b *base) publish(ctx context.Context, event domain.ChainEvent) {
	if b.deps.Publisher == nil {
		return
	}
	if err := b.deps.Publisher.PublishEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish event",
			zap.Error(err),
			zap.String("chain", event.Chain.String()),
			zap.String("event_kind", string(event.EventKind)),
			zap.String("tx_hash", event.TxHash))
	}
}

// fetchProfile reads the off-chain profile behind a seller or buyer URI.
// It never fails: a missing or unreachable profile yields nil.
func (b *base) fetchProfile(ctx context.Context, profileURI string) *profileSnapshot {
	if profileURI == "" || b.deps.Fetcher == nil {
		return nil
	}

	if b.deps.ProfileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.deps.ProfileTimeout)
		defer cancel()
	}

	doc, err := b.deps.Fetcher.Fetch(ctx, profileURI)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to fetch profile", zap.Error(err), zap.String("uri", profileURI))
		return nil
	}

	return &profileSnapshot{
		profile: metadata.NormalizeProfile(doc),
		raw:     doc.Canonical,
	}
}

// profileSnapshot is a fetched profile with its canonical JSON, stored on the order
type profileSnapshot struct {
	profile *metadata.Profile
	raw     []byte
}

// upsertProfile stores the profile of address when it is bound to a DID
func upsertProfile(ctx context.Context, tx canonical.Adapter, address string, snapshot *profileSnapshot) error {
	if snapshot == nil || !snapshot.profile.HasDID() || domain.IsBurnAddress(address) {
		return nil
	}
	p := snapshot.profile
	err := tx.UpsertUserProfile(ctx, store.UserProfileInput{
		Address:     domain.NormalizeAddress(address),
		DID:         p.DID,
		Name:        p.Name,
		Description: p.Description,
		Avatar:      p.Avatar,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}
	return nil
}
