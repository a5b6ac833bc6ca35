package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/canonical"
	"github.com/feral-file/ff-chain-sync/internal/contracts"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/providers/ethereum"
	"github.com/feral-file/ff-chain-sync/internal/store"
	ptypes "github.com/feral-file/ff-chain-sync/internal/types"
)

// pasarURIPrefix marks collection URIs whose document is resolved by the enricher
const pasarURIPrefix = "pasar:"

// collectionHandler handles one event kind of the collection registry
type collectionHandler struct {
	base
	starter CollectionStarter
}

// NewCollectionHandler creates the handler of one registry event kind.
// The starter is notified when a new non-base collection is registered.
func NewCollectionHandler(deps Deps, kind domain.EventKind, starter CollectionStarter) (Handler, error) {
	switch kind {
	case domain.EventKindTokenRegistered, domain.EventKindTokenRoyaltyChanged, domain.EventKindTokenInfoUpdated:
	default:
		return nil, fmt.Errorf("%s is not a registry event", kind)
	}
	b, err := newBase(deps, kind, deps.Contracts.Register, contracts.Register, false)
	if err != nil {
		return nil, err
	}
	return &collectionHandler{base: b, starter: starter}, nil
}

func (h *collectionHandler) Handle(ctx context.Context, log types.Log) error {
	args, err := h.decode(log)
	if err != nil {
		return err
	}
	token, err := args.Address("_token")
	if err != nil {
		return err
	}

	switch h.kind {
	case domain.EventKindTokenRegistered:
		return h.handleRegistered(ctx, log, args, token)
	case domain.EventKindTokenRoyaltyChanged:
		return h.handleRoyaltyChanged(ctx, log, args, token)
	default:
		return h.handleInfoUpdated(ctx, log, args, token)
	}
}

func (h *collectionHandler) handleRegistered(ctx context.Context, log types.Log, args contracts.Args, token common.Address) error {
	owner, err := args.Address("_owner")
	if err != nil {
		return err
	}
	name, err := args.String("_name")
	if err != nil {
		return err
	}
	uri, err := args.String("_uri")
	if err != nil {
		return err
	}

	supportsCall, err := contracts.SupportsERC721(token)
	if err != nil {
		return err
	}
	symbolCall, err := contracts.Symbol(token)
	if err != nil {
		return err
	}

	lc, err := h.deps.Client.FetchLogContext(ctx, log, supportsCall, symbolCall)
	if err != nil {
		return err
	}

	input := store.UpsertCollectionInput{
		Chain:           h.deps.Chain,
		Token:           token.Hex(),
		Owner:           owner.Hex(),
		Name:            name,
		Symbol:          h.readSymbol(ctx, token, lc.Calls[1]),
		URI:             uri,
		Is721:           h.readIs721(ctx, token, lc.Calls[0]),
		BlockNumber:     log.BlockNumber,
		MetadataPending: strings.HasPrefix(uri, pasarURIPrefix),
	}

	var outcome canonical.Outcome
	recorded, err := h.commit(ctx, h.chainEvent(log, args, lc), func(tx canonical.Adapter) (canonical.Outcome, error) {
		o, err := tx.UpsertCollection(ctx, input)
		outcome = o
		return o, err
	})
	if err != nil {
		return err
	}

	if recorded && outcome == canonical.OutcomeApplied && !h.deps.Contracts.IsBaseCollection(token) && h.starter != nil {
		h.starter.StartCollection(ctx, h.deps.Chain, token, input.Is721)
	}
	return nil
}

// readIs721 treats a collection that cannot answer ERC-165 as ERC-1155
func (h *collectionHandler) readIs721(ctx context.Context, token common.Address, call ethereum.CallResult) bool {
	err := call.Err
	if err == nil {
		var supported bool
		supported, err = contracts.UnpackSupportsInterface(call.Data)
		if err == nil {
			return supported
		}
	}
	logger.WarnCtx(ctx, "Failed to read supportsInterface, assuming ERC-1155",
		zap.Error(err),
		zap.String("chain", h.deps.Chain.String()),
		zap.String("token", token.Hex()))
	return false
}

func (h *collectionHandler) readSymbol(ctx context.Context, token common.Address, call ethereum.CallResult) string {
	err := call.Err
	if err == nil {
		var symbol string
		symbol, err = contracts.UnpackSymbol(call.Data)
		if err == nil {
			return symbol
		}
	}
	logger.WarnCtx(ctx, "Failed to read symbol",
		zap.Error(err),
		zap.String("chain", h.deps.Chain.String()),
		zap.String("token", token.Hex()))
	return ""
}

func (h *collectionHandler) handleRoyaltyChanged(ctx context.Context, log types.Log, args contracts.Args, token common.Address) error {
	owners, err := args.Addresses("_royaltyOwners")
	if err != nil {
		return err
	}
	rates, err := args.BigInts("_royaltyRates")
	if err != nil {
		return err
	}
	if len(owners) != len(rates) {
		return fmt.Errorf("%w: %d royalty owners for %d rates", domain.ErrMalformedEvent, len(owners), len(rates))
	}

	lc, err := h.deps.Client.FetchLogContext(ctx, log)
	if err != nil {
		return err
	}

	input := store.UpdateCollectionInput{
		Chain:         h.deps.Chain,
		Token:         token.Hex(),
		BlockNumber:   log.BlockNumber,
		RoyaltyOwners: make([]string, len(owners)),
		RoyaltyFees:   make([]string, len(rates)),
	}
	for i := range owners {
		input.RoyaltyOwners[i] = owners[i].Hex()
		input.RoyaltyFees[i] = rates[i].String()
	}

	_, err = h.commit(ctx, h.chainEvent(log, args, lc), func(tx canonical.Adapter) (canonical.Outcome, error) {
		return tx.UpdateCollection(ctx, input)
	})
	return err
}

func (h *collectionHandler) handleInfoUpdated(ctx context.Context, log types.Log, args contracts.Args, token common.Address) error {
	name, err := args.String("_name")
	if err != nil {
		return err
	}
	uri, err := args.String("_uri")
	if err != nil {
		return err
	}

	lc, err := h.deps.Client.FetchLogContext(ctx, log)
	if err != nil {
		return err
	}

	input := store.UpdateCollectionInput{
		Chain:           h.deps.Chain,
		Token:           token.Hex(),
		BlockNumber:     log.BlockNumber,
		Name:            ptypes.StringPtr(name),
		URI:             ptypes.StringPtr(uri),
		MetadataPending: ptypes.BoolPtr(strings.HasPrefix(uri, pasarURIPrefix)),
	}

	_, err = h.commit(ctx, h.chainEvent(log, args, lc), func(tx canonical.Adapter) (canonical.Outcome, error) {
		return tx.UpdateCollection(ctx, input)
	})
	return err
}
