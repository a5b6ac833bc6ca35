package contracts

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/feral-file/ff-chain-sync/internal/domain"
)

// OrderInfo is the order returned by getOrderById.
// Field names follow the ABI tuple so the decoded value converts directly.
type OrderInfo struct {
	OrderId      *big.Int
	OrderType    *big.Int
	OrderState   *big.Int
	BaseToken    common.Address
	TokenId      *big.Int
	Amount       *big.Int
	QuoteToken   common.Address
	Price        *big.Int
	ReservePrice *big.Int
	BuyoutPrice  *big.Int
	StartTime    *big.Int
	EndTime      *big.Int
	SellerAddr   common.Address
	BuyerAddr    common.Address
	Bids         *big.Int
	LastBidder   common.Address
	LastBid      *big.Int
	Filled       *big.Int
	RoyaltyOwner common.Address
	RoyaltyFee   *big.Int
	SellerUri    string
	BuyerUri     string
	PlatformAddr common.Address
	PlatformFee  *big.Int
	IsBlindBox   bool
	CreateTime   *big.Int
	UpdateTime   *big.Int
}

// orderInfoV1 is the order returned by the legacy marketplace
type orderInfoV1 struct {
	OrderId      *big.Int
	OrderType    *big.Int
	OrderState   *big.Int
	TokenId      *big.Int
	Amount       *big.Int
	Price        *big.Int
	EndTime      *big.Int
	SellerAddr   common.Address
	BuyerAddr    common.Address
	Bids         *big.Int
	LastBidder   common.Address
	LastBid      *big.Int
	Filled       *big.Int
	RoyaltyOwner common.Address
	RoyaltyFee   *big.Int
	CreateTime   *big.Int
	UpdateTime   *big.Int
}

func (o orderInfoV1) toOrderInfo() *OrderInfo {
	zero := func() *big.Int { return new(big.Int) }
	return &OrderInfo{
		OrderId:      o.OrderId,
		OrderType:    o.OrderType,
		OrderState:   o.OrderState,
		TokenId:      o.TokenId,
		Amount:       o.Amount,
		Price:        o.Price,
		ReservePrice: zero(),
		BuyoutPrice:  zero(),
		StartTime:    zero(),
		EndTime:      o.EndTime,
		SellerAddr:   o.SellerAddr,
		BuyerAddr:    o.BuyerAddr,
		Bids:         o.Bids,
		LastBidder:   o.LastBidder,
		LastBid:      o.LastBid,
		Filled:       o.Filled,
		RoyaltyOwner: o.RoyaltyOwner,
		RoyaltyFee:   o.RoyaltyFee,
		PlatformFee:  zero(),
		CreateTime:   o.CreateTime,
		UpdateTime:   o.UpdateTime,
	}
}

// TokenInfo is the token returned by the sticker contract's tokenInfo
type TokenInfo struct {
	TokenId      *big.Int
	TokenIndex   *big.Int
	TokenSupply  *big.Int
	TokenUri     string
	RoyaltyOwner common.Address
	RoyaltyFee   *big.Int
	CreateTime   *big.Int
	UpdateTime   *big.Int
}

// CallMsg is the eth_call request object
type CallMsg struct {
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

func pack(contract abi.ABI, to common.Address, method string, args ...interface{}) (CallMsg, error) {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return CallMsg{}, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return CallMsg{To: to, Data: data}, nil
}

func unpackSingle(contract abi.ABI, method string, data []byte) (interface{}, error) {
	out, err := contract.Unpack(method, data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("failed to unpack %s: %d outputs", method, len(out))
	}
	return out[0], nil
}

// GetOrderByID builds the getOrderById read
func GetOrderByID(legacy bool, pasar common.Address, orderID *big.Int) (CallMsg, error) {
	if legacy {
		return pack(PasarV1, pasar, "getOrderById", orderID)
	}
	return pack(Pasar, pasar, "getOrderById", orderID)
}

// UnpackOrder decodes the getOrderById result
func UnpackOrder(legacy bool, data []byte) (order *OrderInfo, err error) {
	contract := Pasar
	if legacy {
		contract = PasarV1
	}
	out, err := unpackSingle(contract, "getOrderById", data)
	if err != nil {
		return nil, err
	}

	// ConvertType panics when the tuple does not match the struct
	defer func() {
		if r := recover(); r != nil {
			order, err = nil, fmt.Errorf("failed to convert getOrderById result: %v", r)
		}
	}()

	if legacy {
		v1 := *abi.ConvertType(out, new(orderInfoV1)).(*orderInfoV1)
		return v1.toOrderInfo(), nil
	}
	return abi.ConvertType(out, new(OrderInfo)).(*OrderInfo), nil
}

// GetTokenInfo builds the sticker tokenInfo read
func GetTokenInfo(sticker common.Address, tokenID *big.Int) (CallMsg, error) {
	return pack(Sticker, sticker, "tokenInfo", tokenID)
}

// UnpackTokenInfo decodes the tokenInfo result
func UnpackTokenInfo(data []byte) (info *TokenInfo, err error) {
	out, err := unpackSingle(Sticker, "tokenInfo", data)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			info, err = nil, fmt.Errorf("failed to convert tokenInfo result: %v", r)
		}
	}()

	return abi.ConvertType(out, new(TokenInfo)).(*TokenInfo), nil
}

// GetTokenURI builds the tokenURI (ERC-721) or uri (ERC-1155) read
func GetTokenURI(erc721 bool, token common.Address, tokenID *big.Int) (CallMsg, error) {
	if erc721 {
		return pack(ERC721, token, "tokenURI", tokenID)
	}
	return pack(ERC1155, token, "uri", tokenID)
}

// UnpackTokenURI decodes the tokenURI or uri result
func UnpackTokenURI(erc721 bool, data []byte) (string, error) {
	contract, method := ERC1155, "uri"
	if erc721 {
		contract, method = ERC721, "tokenURI"
	}
	return unpackString(contract, method, data)
}

// SupportsERC721 builds the ERC-165 supportsInterface(0x80ac58cd) read
func SupportsERC721(token common.Address) (CallMsg, error) {
	var id [4]byte
	copy(id[:], hexutil.MustDecode(domain.ERC721_INTERFACE_ID))
	return pack(ERC721, token, "supportsInterface", id)
}

// UnpackSupportsInterface decodes the supportsInterface result
func UnpackSupportsInterface(data []byte) (bool, error) {
	out, err := unpackSingle(ERC721, "supportsInterface", data)
	if err != nil {
		return false, err
	}
	supported, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("unexpected supportsInterface result %T", out)
	}
	return supported, nil
}

// Symbol builds the symbol() read
func Symbol(token common.Address) (CallMsg, error) {
	return pack(ERC721, token, "symbol")
}

// UnpackSymbol decodes the symbol result
func UnpackSymbol(data []byte) (string, error) {
	return unpackString(ERC721, "symbol", data)
}

func unpackString(contract abi.ABI, method string, data []byte) (string, error) {
	out, err := unpackSingle(contract, method, data)
	if err != nil {
		return "", err
	}
	s, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("unexpected %s result %T", method, out)
	}
	return s, nil
}
