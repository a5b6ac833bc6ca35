package domain

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents a marketplace deployment network
type Chain string

const (
	ChainElastos  Chain = "ela"
	ChainEthereum Chain = "eth"
	ChainFusion   Chain = "fsn"
	// ChainLegacy is the first marketplace deployment on Elastos, whose tokens are keyed by token id alone
	ChainLegacy Chain = "v1"
)

// Chains lists every supported chain
var Chains = []Chain{ChainElastos, ChainEthereum, ChainFusion, ChainLegacy}

// IsValidChain checks if a chain is valid
func IsValidChain(chain Chain) bool {
	for _, c := range Chains {
		if c == chain {
			return true
		}
	}
	return false
}

// IsLegacy reports whether the chain uses the legacy token key shape
func (c Chain) IsLegacy() bool {
	return c == ChainLegacy
}

func (c Chain) String() string {
	return string(c)
}

// ContractKind identifies the role of a watched contract
type ContractKind string

const (
	// ContractSticker is the base ERC-1155 collection of the marketplace
	ContractSticker ContractKind = "sticker"
	// ContractPasar is the marketplace contract
	ContractPasar ContractKind = "pasar"
	// ContractRegister is the collection registry contract
	ContractRegister ContractKind = "register"
	// ContractCollection is a user-registered collection contract
	ContractCollection ContractKind = "collection"
)

// EventKind represents the type of a contract event handled by the sync engine
type EventKind string

const (
	EventKindTransfer            EventKind = "transfer"
	EventKindOrderForSale        EventKind = "order_for_sale"
	EventKindOrderForAuction     EventKind = "order_for_auction"
	EventKindOrderBid            EventKind = "order_bid"
	EventKindOrderPriceChanged   EventKind = "order_price_changed"
	EventKindOrderFilled         EventKind = "order_filled"
	EventKindOrderCanceled       EventKind = "order_canceled"
	EventKindOrderTakenDown      EventKind = "order_taken_down"
	EventKindTokenRegistered     EventKind = "token_registered"
	EventKindTokenRoyaltyChanged EventKind = "token_royalty_changed"
	EventKindTokenInfoUpdated    EventKind = "token_info_updated"
)

// ContractEventKinds lists the event kinds emitted by each fixed contract
var ContractEventKinds = map[ContractKind][]EventKind{
	ContractSticker: {EventKindTransfer},
	ContractPasar: {
		EventKindOrderForSale,
		EventKindOrderForAuction,
		EventKindOrderBid,
		EventKindOrderPriceChanged,
		EventKindOrderFilled,
		EventKindOrderCanceled,
		EventKindOrderTakenDown,
	},
	ContractRegister: {
		EventKindTokenRegistered,
		EventKindTokenRoyaltyChanged,
		EventKindTokenInfoUpdated,
	},
	ContractCollection: {EventKindTransfer},
}

// IsOrderEvent reports whether the event kind belongs to the order lifecycle
func (k EventKind) IsOrderEvent() bool {
	return strings.HasPrefix(string(k), "order_")
}

// OrderType represents the listing type of an order
type OrderType int

const (
	OrderTypeSale    OrderType = 1
	OrderTypeAuction OrderType = 2
)

// OrderState represents the lifecycle state of an order
type OrderState int

const (
	OrderStateCreated   OrderState = 1
	OrderStateFilled    OrderState = 2
	OrderStateCancelled OrderState = 3
	OrderStateTakenDown OrderState = 4
)

// IsTerminal reports whether no further transition is allowed from the state
func (s OrderState) IsTerminal() bool {
	return s == OrderStateFilled || s == OrderStateCancelled || s == OrderStateTakenDown
}

func (s OrderState) String() string {
	switch s {
	case OrderStateCreated:
		return "created"
	case OrderStateFilled:
		return "filled"
	case OrderStateCancelled:
		return "cancelled"
	case OrderStateTakenDown:
		return "taken_down"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ChainEvent represents a normalized contract event
// This is the record persisted to the event log and published to NATS
type ChainEvent struct {
	Chain       Chain          `json:"chain"`        // e.g., "ela", "eth"
	Contract    string         `json:"contract"`     // emitting contract address
	EventKind   EventKind      `json:"event_kind"`   // e.g., "transfer", "order_bid"
	BlockNumber uint64         `json:"block_number"` // block number
	LogIndex    uint           `json:"log_index"`    // log index within the block
	TxHash      string         `json:"tx_hash"`      // transaction hash
	Timestamp   time.Time      `json:"timestamp"`    // block timestamp
	GasFee      string         `json:"gas_fee"`      // gas used * effective gas price, in wei
	Fields      map[string]any `json:"fields"`       // decoded event arguments
}

// Valid checks the identity fields of the event
func (e *ChainEvent) Valid() bool {
	if !IsValidChain(e.Chain) {
		return false
	}
	if !common.IsHexAddress(e.Contract) {
		return false
	}
	if e.EventKind == "" || e.TxHash == "" {
		return false
	}
	return true
}

// TokenUniqueKey builds the identity of a token.
// Tokens on the legacy chain are keyed by token id alone.
func TokenUniqueKey(chain Chain, contract string, tokenID string) string {
	if chain.IsLegacy() {
		return tokenID
	}
	return fmt.Sprintf("%s-%s-%s", chain, NormalizeAddress(contract), tokenID)
}

// IsBurnAddress checks whether an address is the burn (zero) address
func IsBurnAddress(address string) bool {
	return address == "" || NormalizeAddress(address) == BURN_ADDRESS
}

// SameAddress compares two EVM addresses regardless of checksum casing
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// NormalizeAddresses normalizes a list of addresses to their checksum form
func NormalizeAddresses(addresses []string) []string {
	for i, address := range addresses {
		addresses[i] = NormalizeAddress(address)
	}
	return addresses
}

// NormalizeAddress normalizes an address to its checksum form
func NormalizeAddress(address string) string {
	if strings.HasPrefix(address, "0x") {
		return common.HexToAddress(address).String()
	}
	return address
}

// TokenIDHex renders a decimal token id as a 0x-prefixed hex string
func TokenIDHex(tokenID string) string {
	if !validTokenNumber(tokenID) || tokenID == "" {
		return ""
	}
	n, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return ""
	}
	return "0x" + n.Text(16)
}

// validTokenNumber checks if a token number is valid
func validTokenNumber(tokenNumber string) bool {
	return tokenNumberRegex.MatchString(tokenNumber)
}

var tokenNumberRegex = regexp.MustCompile(`^[0-9]*$`)
