// Package contracts holds the ABIs of the marketplace contracts and the helpers
// to decode their logs and to encode the contract reads issued by the handlers.
package contracts

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/feral-file/ff-chain-sync/internal/domain"
)

var (
	Sticker  = mustParse(StickerABI)
	Pasar    = mustParse(PasarABI)
	PasarV1  = mustParse(PasarV1ABI)
	Register = mustParse(RegisterABI)
	ERC721   = mustParse(ERC721ABI)
	ERC1155  = mustParse(ERC1155ABI)
)

func mustParse(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid abi: %v", err))
	}
	return parsed
}

// Solidity event names
const (
	EventTransfer            = "Transfer"
	EventTransferSingle      = "TransferSingle"
	EventOrderForSale        = "OrderForSale"
	EventOrderForAuction     = "OrderForAuction"
	EventOrderBid            = "OrderBid"
	EventOrderPriceChanged   = "OrderPriceChanged"
	EventOrderFilled         = "OrderFilled"
	EventOrderCanceled       = "OrderCanceled"
	EventOrderTakenDown      = "OrderTakenDown"
	EventTokenRegistered     = "TokenRegistered"
	EventTokenRoyaltyChanged = "TokenRoyaltyChanged"
	EventTokenInfoUpdated    = "TokenInfoUpdated"
)

var eventNames = map[domain.EventKind]string{
	domain.EventKindOrderForSale:        EventOrderForSale,
	domain.EventKindOrderForAuction:     EventOrderForAuction,
	domain.EventKindOrderBid:            EventOrderBid,
	domain.EventKindOrderPriceChanged:   EventOrderPriceChanged,
	domain.EventKindOrderFilled:         EventOrderFilled,
	domain.EventKindOrderCanceled:       EventOrderCanceled,
	domain.EventKindOrderTakenDown:      EventOrderTakenDown,
	domain.EventKindTokenRegistered:     EventTokenRegistered,
	domain.EventKindTokenRoyaltyChanged: EventTokenRoyaltyChanged,
	domain.EventKindTokenInfoUpdated:    EventTokenInfoUpdated,
}

// EventName returns the Solidity event name of an event kind.
// Transfers are ERC-1155 TransferSingle unless the contract is an ERC-721.
func EventName(kind domain.EventKind, erc721 bool) (string, error) {
	if kind == domain.EventKindTransfer {
		if erc721 {
			return EventTransfer, nil
		}
		return EventTransferSingle, nil
	}
	name, ok := eventNames[kind]
	if !ok {
		return "", fmt.Errorf("unknown event kind %q", kind)
	}
	return name, nil
}

// ForContract returns the ABI of a watched contract
func ForContract(chain domain.Chain, contract domain.ContractKind, erc721 bool) (abi.ABI, error) {
	switch contract {
	case domain.ContractSticker:
		return Sticker, nil
	case domain.ContractPasar:
		if chain.IsLegacy() {
			return PasarV1, nil
		}
		return Pasar, nil
	case domain.ContractRegister:
		return Register, nil
	case domain.ContractCollection:
		if erc721 {
			return ERC721, nil
		}
		return ERC1155, nil
	default:
		return abi.ABI{}, fmt.Errorf("unknown contract kind %q", contract)
	}
}
