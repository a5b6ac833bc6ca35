package handlers

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/canonical"
	"github.com/feral-file/ff-chain-sync/internal/contracts"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/providers/ethereum"
	"github.com/feral-file/ff-chain-sync/internal/store"
)

// transferHandler handles the transfers of the base sticker collection and of user-registered collections.
// A transfer from the burn address mints the token; any other transfer moves its owner,
// except deposits into the marketplace contract which only escrow the token for an order.
type transferHandler struct {
	base
	erc721 bool
}

// NewTransferHandler creates the transfer handler of the base sticker collection
func NewTransferHandler(deps Deps) (Handler, error) {
	b, err := newBase(deps, domain.EventKindTransfer, deps.Contracts.Sticker, contracts.Sticker, false)
	if err != nil {
		return nil, err
	}
	return &transferHandler{base: b}, nil
}

// NewCollectionTransferHandler creates the transfer handler of a user-registered collection
func NewCollectionTransferHandler(deps Deps, token common.Address, erc721 bool) (Handler, error) {
	contractABI := contracts.ERC1155
	if erc721 {
		contractABI = contracts.ERC721
	}
	b, err := newBase(deps, domain.EventKindTransfer, token, contractABI, erc721)
	if err != nil {
		return nil, err
	}
	return &transferHandler{base: b, erc721: erc721}, nil
}

type transfer struct {
	from    common.Address
	to      common.Address
	tokenID *big.Int
	value   *big.Int
}

func (h *transferHandler) parse(args contracts.Args) (*transfer, error) {
	from, err := args.Address("_from")
	if err != nil {
		return nil, err
	}
	to, err := args.Address("_to")
	if err != nil {
		return nil, err
	}

	if h.erc721 {
		tokenID, err := args.BigInt("_tokenId")
		if err != nil {
			return nil, err
		}
		return &transfer{from: from, to: to, tokenID: tokenID, value: big.NewInt(1)}, nil
	}

	tokenID, err := args.BigInt("_id")
	if err != nil {
		return nil, err
	}
	value, err := args.BigInt("_value")
	if err != nil {
		return nil, err
	}
	return &transfer{from: from, to: to, tokenID: tokenID, value: value}, nil
}

func (h *transferHandler) isSticker() bool {
	return h.contract == h.deps.Contracts.Sticker
}

// mintCall returns the contract read describing a freshly minted token
func (h *transferHandler) mintCall(tokenID *big.Int) (contracts.CallMsg, error) {
	if h.isSticker() {
		return contracts.GetTokenInfo(h.contract, tokenID)
	}
	return contracts.GetTokenURI(h.erc721, h.contract, tokenID)
}

func (h *transferHandler) Handle(ctx context.Context, log types.Log) error {
	args, err := h.decode(log)
	if err != nil {
		return err
	}
	t, err := h.parse(args)
	if err != nil {
		return err
	}

	mint := domain.IsBurnAddress(t.from.Hex())
	escrow := t.to == h.deps.Contracts.Pasar

	var calls []contracts.CallMsg
	if mint {
		call, err := h.mintCall(t.tokenID)
		if err != nil {
			return err
		}
		calls = append(calls, call)
	}

	lc, err := h.deps.Client.FetchLogContext(ctx, log, calls...)
	if err != nil {
		return err
	}

	event := h.chainEvent(log, args, lc)
	uniqueKey := domain.TokenUniqueKey(h.deps.Chain, h.contract.Hex(), t.tokenID.String())

	_, err = h.commit(ctx, event, func(tx canonical.Adapter) (canonical.Outcome, error) {
		if mint {
			input, err := h.mintInput(ctx, tx, t, uniqueKey, log, lc.Calls[0])
			if err != nil {
				return "", err
			}
			input.MintTime = lc.Timestamp
			return tx.CreateToken(ctx, input)
		}

		if escrow {
			return canonical.OutcomeSkipped, nil
		}

		return tx.UpdateTokenOwner(ctx, store.UpdateTokenOwnerInput{
			UniqueKey:   uniqueKey,
			Owner:       t.to.Hex(),
			BlockNumber: log.BlockNumber,
		})
	})
	return err
}

// mintInput builds the token from the contract read issued with the log context.
// A reverted or undecodable read leaves the token without a URI rather than failing the event.
func (h *transferHandler) mintInput(ctx context.Context, tx canonical.Adapter, t *transfer, uniqueKey string, log types.Log, call ethereum.CallResult) (store.CreateTokenInput, error) {
	input := store.CreateTokenInput{
		UniqueKey:   uniqueKey,
		Chain:       h.deps.Chain,
		Contract:    h.contract.Hex(),
		TokenID:     t.tokenID.String(),
		Supply:      t.value.String(),
		Owner:       t.to.Hex(),
		BlockNumber: log.BlockNumber,
	}

	unreadable := func(err error) (store.CreateTokenInput, error) {
		logger.WarnCtx(ctx, "Failed to read token, minting without token info",
			zap.Error(err),
			zap.String("chain", h.deps.Chain.String()),
			zap.String("unique_key", uniqueKey))
		return input, nil
	}
	if call.Err != nil {
		return unreadable(call.Err)
	}

	if h.isSticker() {
		info, err := contracts.UnpackTokenInfo(call.Data)
		if err != nil {
			return unreadable(err)
		}
		index := info.TokenIndex.String()
		input.TokenIndex = &index
		input.Supply = info.TokenSupply.String()
		input.RoyaltyOwner = info.RoyaltyOwner.Hex()
		input.RoyaltyFee = info.RoyaltyFee.String()
		input.TokenURI = info.TokenUri
		input.MetadataPending = info.TokenUri != ""
		return input, nil
	}

	tokenURI, err := contracts.UnpackTokenURI(h.erc721, call.Data)
	if err != nil {
		return unreadable(err)
	}
	input.TokenURI = tokenURI
	input.MetadataPending = tokenURI != ""

	collection, err := tx.GetCollection(ctx, h.deps.Chain, h.contract.Hex())
	if err != nil {
		return input, fmt.Errorf("failed to get collection %s: %w", h.contract.Hex(), err)
	}
	if collection != nil && len(collection.RoyaltyOwners) > 0 {
		input.RoyaltyOwner = collection.RoyaltyOwners[0]
		if len(collection.RoyaltyFees) > 0 {
			input.RoyaltyFee = collection.RoyaltyFees[0]
		}
	}

	return input, nil
}
