package handlers

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/feral-file/ff-chain-sync/internal/canonical"
	"github.com/feral-file/ff-chain-sync/internal/contracts"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/providers/ethereum"
	"github.com/feral-file/ff-chain-sync/internal/store"
	ptypes "github.com/feral-file/ff-chain-sync/internal/types"
)

// orderHandler handles one event kind of the marketplace contract.
// Listings are created from the order as read from the contract; later events
// update it under the block and state guards of the canonical store.
type orderHandler struct {
	base
	legacy bool
}

// NewOrderHandler creates the handler of one marketplace event kind
func NewOrderHandler(deps Deps, kind domain.EventKind) (Handler, error) {
	if !kind.IsOrderEvent() {
		return nil, fmt.Errorf("%s is not an order event", kind)
	}
	contractABI, err := contracts.ForContract(deps.Chain, domain.ContractPasar, false)
	if err != nil {
		return nil, err
	}
	b, err := newBase(deps, kind, deps.Contracts.Pasar, contractABI, false)
	if err != nil {
		return nil, err
	}
	return &orderHandler{base: b, legacy: deps.Chain.IsLegacy()}, nil
}

// readsOrder reports whether the event kind needs the order as stored by the contract
func (h *orderHandler) readsOrder() bool {
	switch h.kind {
	case domain.EventKindOrderForSale,
		domain.EventKindOrderForAuction,
		domain.EventKindOrderBid,
		domain.EventKindOrderFilled:
		return true
	default:
		return false
	}
}

func (h *orderHandler) Handle(ctx context.Context, log types.Log) error {
	args, err := h.decode(log)
	if err != nil {
		return err
	}
	orderID, err := args.BigInt("_orderId")
	if err != nil {
		return err
	}

	var calls []contracts.CallMsg
	if h.readsOrder() {
		call, err := contracts.GetOrderByID(h.legacy, h.contract, orderID)
		if err != nil {
			return err
		}
		calls = append(calls, call)
	}

	lc, err := h.deps.Client.FetchLogContext(ctx, log, calls...)
	if err != nil {
		return err
	}

	var order *contracts.OrderInfo
	if h.readsOrder() {
		order, err = h.unpackOrder(orderID, lc.Calls[0])
		if err != nil {
			return err
		}
	}

	event := h.chainEvent(log, args, lc)
	id := orderID.String()

	var apply func(tx canonical.Adapter) (canonical.Outcome, error)
	switch h.kind {
	case domain.EventKindOrderForSale, domain.EventKindOrderForAuction:
		input, err := h.createInput(args, order, log, id)
		if err != nil {
			return err
		}
		seller := h.fetchProfile(ctx, order.SellerUri)
		if seller != nil {
			input.SellerProfile = seller.raw
		}
		apply = func(tx canonical.Adapter) (canonical.Outcome, error) {
			outcome, err := tx.CreateOrder(ctx, input)
			if err != nil {
				return "", err
			}
			return outcome, upsertProfile(ctx, tx, input.SellerAddr, seller)
		}

	case domain.EventKindOrderFilled:
		input, err := h.filledInput(args, order, log, lc, id)
		if err != nil {
			return err
		}
		buyer := h.fetchProfile(ctx, order.BuyerUri)
		if buyer != nil {
			input.BuyerProfile = buyer.raw
		}
		apply = func(tx canonical.Adapter) (canonical.Outcome, error) {
			outcome, err := tx.UpdateOrder(ctx, input)
			if err != nil {
				return "", err
			}
			return outcome, upsertProfile(ctx, tx, ptypes.SafeString(input.BuyerAddr), buyer)
		}

	default:
		input, err := h.updateInput(args, order, log, lc, id)
		if err != nil {
			return err
		}
		apply = func(tx canonical.Adapter) (canonical.Outcome, error) {
			return tx.UpdateOrder(ctx, input)
		}
	}

	_, err = h.commit(ctx, event, apply)
	return err
}

// unpackOrder decodes the getOrderById read. A failed call is transient and retried
// with the log; a result that does not decode never will.
func (h *orderHandler) unpackOrder(orderID *big.Int, call ethereum.CallResult) (*contracts.OrderInfo, error) {
	if call.Err != nil {
		return nil, fmt.Errorf("failed to read order %s: %w", orderID, call.Err)
	}
	order, err := contracts.UnpackOrder(h.legacy, call.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: order %s: %v", domain.ErrMalformedEvent, orderID, err)
	}
	return order, nil
}

// baseToken returns the collection of the order. Legacy orders only list sticker tokens.
func (h *orderHandler) baseToken(order *contracts.OrderInfo) common.Address {
	if h.legacy || order.BaseToken == (common.Address{}) {
		return h.deps.Contracts.Sticker
	}
	return order.BaseToken
}

func (h *orderHandler) createInput(args contracts.Args, order *contracts.OrderInfo, log types.Log, id string) (store.CreateOrderInput, error) {
	baseToken := h.baseToken(order)
	tokenID := ptypes.BigString(order.TokenId)

	input := store.CreateOrderInput{
		Chain:        h.deps.Chain,
		OrderID:      id,
		UniqueKey:    domain.TokenUniqueKey(h.deps.Chain, baseToken.Hex(), tokenID),
		BaseToken:    baseToken.Hex(),
		QuoteToken:   order.QuoteToken.Hex(),
		TokenID:      tokenID,
		Amount:       ptypes.BigString(order.Amount),
		OrderType:    domain.OrderType(ptypes.BigInt64(order.OrderType)),
		OrderState:   domain.OrderState(ptypes.BigInt64(order.OrderState)),
		Price:        ptypes.BigString(order.Price),
		ReservePrice: ptypes.BigString(order.ReservePrice),
		BuyoutPrice:  ptypes.BigString(order.BuyoutPrice),
		StartTime:    ptypes.BigInt64(order.StartTime),
		EndTime:      ptypes.BigInt64(order.EndTime),
		SellerAddr:   order.SellerAddr.Hex(),
		SellerURI:    order.SellerUri,
		BuyerAddr:    order.BuyerAddr.Hex(),
		BuyerURI:     order.BuyerUri,
		Bids:         ptypes.BigInt64(order.Bids),
		LastBid:      ptypes.BigString(order.LastBid),
		LastBidder:   order.LastBidder.Hex(),
		Filled:       ptypes.BigString(order.Filled),
		RoyaltyOwner: order.RoyaltyOwner.Hex(),
		RoyaltyFee:   ptypes.BigString(order.RoyaltyFee),
		PlatformAddr: order.PlatformAddr.Hex(),
		PlatformFee:  ptypes.BigString(order.PlatformFee),
		IsBlindBox:   order.IsBlindBox,
		CreateTime:   ptypes.BigInt64(order.CreateTime),
		UpdateTime:   ptypes.BigInt64(order.UpdateTime),
		BlockNumber:  log.BlockNumber,
	}

	if h.kind == domain.EventKindOrderForAuction {
		minPrice, err := args.BigInt("_minPrice")
		if err != nil {
			return input, err
		}
		input.MinPrice = minPrice.String()
	}

	return input, nil
}

func (h *orderHandler) filledInput(args contracts.Args, order *contracts.OrderInfo, log types.Log, lc *ethereum.LogContext, id string) (store.UpdateOrderInput, error) {
	royaltyArg := "_royaltyFee"
	if h.legacy {
		royaltyArg = "_royalty"
	}
	royaltyFee, err := args.BigInt(royaltyArg)
	if err != nil {
		return store.UpdateOrderInput{}, err
	}

	state := domain.OrderStateFilled
	updateTime := ptypes.BigInt64(order.UpdateTime)
	if updateTime == 0 {
		updateTime = lc.Timestamp.Unix()
	}

	return store.UpdateOrderInput{
		Chain:       h.deps.Chain,
		OrderID:     id,
		BlockNumber: log.BlockNumber,
		State:       &state,
		BuyerAddr:   ptypes.StringPtr(order.BuyerAddr.Hex()),
		BuyerURI:    ptypes.StringPtr(order.BuyerUri),
		Filled:      ptypes.BigStringPtr(order.Filled),
		RoyaltyFee:  ptypes.StringPtr(royaltyFee.String()),
		PlatformFee: ptypes.BigStringPtr(order.PlatformFee),
		UpdateTime:  ptypes.Int64Ptr(updateTime),
	}, nil
}

func (h *orderHandler) updateInput(args contracts.Args, order *contracts.OrderInfo, log types.Log, lc *ethereum.LogContext, id string) (store.UpdateOrderInput, error) {
	input := store.UpdateOrderInput{
		Chain:       h.deps.Chain,
		OrderID:     id,
		BlockNumber: log.BlockNumber,
		UpdateTime:  ptypes.Int64Ptr(lc.Timestamp.Unix()),
	}

	switch h.kind {
	case domain.EventKindOrderBid:
		input.Bids = ptypes.Int64Ptr(ptypes.BigInt64(order.Bids))
		input.LastBid = ptypes.BigStringPtr(order.LastBid)
		input.LastBidder = ptypes.StringPtr(order.LastBidder.Hex())
		if updateTime := ptypes.BigInt64(order.UpdateTime); updateTime > 0 {
			input.UpdateTime = ptypes.Int64Ptr(updateTime)
		}

	case domain.EventKindOrderPriceChanged:
		price, err := args.BigInt("_newPrice")
		if err != nil {
			return input, err
		}
		input.Price = ptypes.StringPtr(price.String())
		if h.legacy {
			break
		}
		reserve, err := args.BigInt("_newReservePrice")
		if err != nil {
			return input, err
		}
		buyout, err := args.BigInt("_newBuyoutPrice")
		if err != nil {
			return input, err
		}
		quote, err := args.Address("_newQuoteToken")
		if err != nil {
			return input, err
		}
		input.ReservePrice = ptypes.StringPtr(reserve.String())
		input.BuyoutPrice = ptypes.StringPtr(buyout.String())
		input.QuoteToken = ptypes.StringPtr(quote.Hex())

	case domain.EventKindOrderCanceled:
		state := domain.OrderStateCancelled
		input.State = &state

	case domain.EventKindOrderTakenDown:
		state := domain.OrderStateTakenDown
		input.State = &state

	default:
		return input, fmt.Errorf("unexpected order event %s", h.kind)
	}

	return input, nil
}
