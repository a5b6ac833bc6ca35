package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/store/schema"
)

const (
	testSticker  = "0x020c7303664bc88ae92cE3D380BF361E03B78B81"
	testPasar    = "0x02E8AD0687D583e2F6A7e5b82144025f30e26aA0"
	testRegister = "0x3d0AD66765C319c2A1c6330C1d815608543dcc19"
	testOwner    = "0x1234567890123456789012345678901234567890"
	testBuyer    = "0xaBcDEF1234567890aBcDEF1234567890aBcDEF12"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func buildTestEvent(kind domain.EventKind, contract string, block uint64, logIndex uint) domain.ChainEvent {
	return domain.ChainEvent{
		Chain:       domain.ChainElastos,
		Contract:    contract,
		EventKind:   kind,
		BlockNumber: block,
		LogIndex:    logIndex,
		TxHash:      fmt.Sprintf("0xtx%d%d", block, logIndex),
		Timestamp:   time.Unix(1700000000, 0).UTC(),
		GasFee:      "21000000000000",
		Fields:      map[string]any{"block": block},
	}
}

func buildTestToken(tokenID string, owner string, block uint64) CreateTokenInput {
	return CreateTokenInput{
		UniqueKey:       domain.TokenUniqueKey(domain.ChainElastos, testSticker, tokenID),
		Chain:           domain.ChainElastos,
		Contract:        testSticker,
		TokenID:         tokenID,
		Supply:          "1",
		Owner:           owner,
		RoyaltyOwner:    owner,
		RoyaltyFee:      "100000",
		TokenURI:        "feeds:json:QmTokenCID",
		BlockNumber:     block,
		MintTime:        time.Unix(1700000000, 0).UTC(),
		MetadataPending: true,
	}
}

func buildTestOrder(orderID string, block uint64) CreateOrderInput {
	return CreateOrderInput{
		Chain:       domain.ChainElastos,
		OrderID:     orderID,
		UniqueKey:   domain.TokenUniqueKey(domain.ChainElastos, testSticker, "42"),
		BaseToken:   testSticker,
		QuoteToken:  domain.BURN_ADDRESS,
		TokenID:     "42",
		Amount:      "1",
		OrderType:   domain.OrderTypeSale,
		OrderState:  domain.OrderStateCreated,
		Price:       "1000000000000000000",
		SellerAddr:  testOwner,
		SellerURI:   "feeds:json:QmSellerCID",
		CreateTime:  1700000000,
		UpdateTime:  1700000000,
		BlockNumber: block,
	}
}

func buildTestCollection(token string, block uint64) UpsertCollectionInput {
	return UpsertCollectionInput{
		Chain:       domain.ChainElastos,
		Token:       token,
		Owner:       testOwner,
		Name:        "Genesis",
		Symbol:      "GEN",
		URI:         "pasar:json:QmCollectionCID",
		Is721:       true,
		BlockNumber: block,
	}
}

func stateRef(s domain.OrderState) *domain.OrderState {
	return &s
}

func stringPtr(s string) *string {
	return &s
}

// =============================================================================
// Test: Event log and watermark
// =============================================================================

func testInsertChainEvent(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("insert new event", func(t *testing.T) {
		inserted, err := store.InsertChainEvent(ctx, buildTestEvent(domain.EventKindTransfer, testSticker, 100, 0))
		require.NoError(t, err)
		assert.True(t, inserted)
	})

	t.Run("redelivered event is ignored", func(t *testing.T) {
		event := buildTestEvent(domain.EventKindTransfer, testSticker, 101, 3)

		inserted, err := store.InsertChainEvent(ctx, event)
		require.NoError(t, err)
		assert.True(t, inserted)

		inserted, err = store.InsertChainEvent(ctx, event)
		require.NoError(t, err)
		assert.False(t, inserted)
	})

	t.Run("same log under lowercase contract is the same event", func(t *testing.T) {
		event := buildTestEvent(domain.EventKindTransfer, testSticker, 102, 0)
		inserted, err := store.InsertChainEvent(ctx, event)
		require.NoError(t, err)
		assert.True(t, inserted)

		event.Contract = "0x020c7303664bc88ae92ce3d380bf361e03b78b81"
		inserted, err = store.InsertChainEvent(ctx, event)
		require.NoError(t, err)
		assert.False(t, inserted)
	})

	t.Run("empty gas fee is stored as zero", func(t *testing.T) {
		event := buildTestEvent(domain.EventKindOrderBid, testPasar, 103, 0)
		event.GasFee = ""
		inserted, err := store.InsertChainEvent(ctx, event)
		require.NoError(t, err)
		assert.True(t, inserted)
	})
}

func testGetWatermark(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("no events yields no watermark", func(t *testing.T) {
		height, found, err := store.GetWatermark(ctx, domain.ChainElastos, testRegister, domain.EventKindTokenRegistered)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, uint64(0), height)
	})

	t.Run("watermark is the highest stored block", func(t *testing.T) {
		for _, block := range []uint64{500, 700, 600} {
			_, err := store.InsertChainEvent(ctx, buildTestEvent(domain.EventKindOrderForSale, testPasar, block, 0))
			require.NoError(t, err)
		}

		height, found, err := store.GetWatermark(ctx, domain.ChainElastos, testPasar, domain.EventKindOrderForSale)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, uint64(700), height)
	})

	t.Run("watermarks are tracked per event kind", func(t *testing.T) {
		_, err := store.InsertChainEvent(ctx, buildTestEvent(domain.EventKindOrderFilled, testPasar, 900, 1))
		require.NoError(t, err)

		height, found, err := store.GetWatermark(ctx, domain.ChainElastos, testPasar, domain.EventKindOrderFilled)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, uint64(900), height)

		height, _, err = store.GetWatermark(ctx, domain.ChainElastos, testPasar, domain.EventKindOrderForSale)
		require.NoError(t, err)
		assert.Equal(t, uint64(700), height)
	})
}

// =============================================================================
// Test: Tokens
// =============================================================================

func testCreateToken(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create new token", func(t *testing.T) {
		input := buildTestToken("42", testOwner, 100)
		created, err := store.CreateToken(ctx, input)
		require.NoError(t, err)
		assert.True(t, created)

		token, err := store.GetTokenByUniqueKey(ctx, input.UniqueKey)
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, testOwner, token.Owner)
		assert.Equal(t, uint64(100), token.OwnerBlock)
		assert.Equal(t, uint64(100), token.MintBlock)
		assert.Equal(t, "0x2a", token.TokenIDHex)
		assert.True(t, token.MetadataPending)
		assert.Equal(t, 0, token.RetryCount)
	})

	t.Run("replayed mint keeps the first row", func(t *testing.T) {
		input := buildTestToken("43", testOwner, 100)
		_, err := store.CreateToken(ctx, input)
		require.NoError(t, err)

		replay := input
		replay.Owner = testBuyer
		created, err := store.CreateToken(ctx, replay)
		require.NoError(t, err)
		assert.False(t, created)

		token, err := store.GetTokenByUniqueKey(ctx, input.UniqueKey)
		require.NoError(t, err)
		assert.Equal(t, testOwner, token.Owner)
	})

	t.Run("missing token returns nil", func(t *testing.T) {
		token, err := store.GetTokenByUniqueKey(ctx, "ela-0x0000000000000000000000000000000000000001-1")
		require.NoError(t, err)
		assert.Nil(t, token)
	})
}

func testUpdateTokenOwner(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("newer transfer updates the owner", func(t *testing.T) {
		input := buildTestToken("1", testOwner, 100)
		_, err := store.CreateToken(ctx, input)
		require.NoError(t, err)

		applied, err := store.UpdateTokenOwner(ctx, UpdateTokenOwnerInput{
			UniqueKey:   input.UniqueKey,
			Owner:       testBuyer,
			BlockNumber: 200,
		})
		require.NoError(t, err)
		assert.True(t, applied)

		token, err := store.GetTokenByUniqueKey(ctx, input.UniqueKey)
		require.NoError(t, err)
		assert.Equal(t, testBuyer, token.Owner)
		assert.Equal(t, uint64(200), token.OwnerBlock)
	})

	t.Run("older transfer never overwrites a newer owner", func(t *testing.T) {
		input := buildTestToken("2", testOwner, 100)
		_, err := store.CreateToken(ctx, input)
		require.NoError(t, err)

		_, err = store.UpdateTokenOwner(ctx, UpdateTokenOwnerInput{UniqueKey: input.UniqueKey, Owner: testBuyer, BlockNumber: 300})
		require.NoError(t, err)

		applied, err := store.UpdateTokenOwner(ctx, UpdateTokenOwnerInput{UniqueKey: input.UniqueKey, Owner: testOwner, BlockNumber: 250})
		require.NoError(t, err)
		assert.False(t, applied)

		token, err := store.GetTokenByUniqueKey(ctx, input.UniqueKey)
		require.NoError(t, err)
		assert.Equal(t, testBuyer, token.Owner)
		assert.Equal(t, uint64(300), token.OwnerBlock)
	})

	t.Run("missing token returns not found", func(t *testing.T) {
		applied, err := store.UpdateTokenOwner(ctx, UpdateTokenOwnerInput{
			UniqueKey:   "ela-" + testSticker + "-999",
			Owner:       testBuyer,
			BlockNumber: 10,
		})
		assert.ErrorIs(t, err, domain.ErrTokenNotFound)
		assert.False(t, applied)
	})
}

func testTokenEnrichmentQueue(t *testing.T, store Store) {
	ctx := context.Background()

	pending := buildTestToken("10", testOwner, 100)
	parked := buildTestToken("11", testOwner, 100)
	done := buildTestToken("12", testOwner, 100)
	for _, input := range []CreateTokenInput{pending, parked, done} {
		_, err := store.CreateToken(ctx, input)
		require.NoError(t, err)
	}

	for i := 0; i < domain.MAX_METADATA_RETRIES; i++ {
		require.NoError(t, store.IncrementTokenRetry(ctx, parked.UniqueKey, "gateway timeout"))
	}
	require.NoError(t, store.SetTokenMetadata(ctx, TokenMetadataInput{
		UniqueKey: done.UniqueKey,
		Name:      stringPtr("Sunset"),
		Image:     stringPtr("feeds:image:QmImage"),
		Metadata:  datatypes.JSON(`{"name":"Sunset"}`),
		Hash:      "abc123",
	}))

	t.Run("tokens at the retry cap are excluded", func(t *testing.T) {
		tokens, err := store.GetPendingTokens(ctx, 100, domain.MAX_METADATA_RETRIES)
		require.NoError(t, err)

		keys := make([]string, 0, len(tokens))
		for _, token := range tokens {
			keys = append(keys, token.UniqueKey)
		}
		assert.Contains(t, keys, pending.UniqueKey)
		assert.NotContains(t, keys, parked.UniqueKey)
		assert.NotContains(t, keys, done.UniqueKey)
	})

	t.Run("metadata clears the pending flag", func(t *testing.T) {
		token, err := store.GetTokenByUniqueKey(ctx, done.UniqueKey)
		require.NoError(t, err)
		assert.False(t, token.MetadataPending)
		require.NotNil(t, token.Name)
		assert.Equal(t, "Sunset", *token.Name)
		require.NotNil(t, token.MetadataHash)
		assert.Equal(t, "abc123", *token.MetadataHash)
	})

	t.Run("retry records the last error", func(t *testing.T) {
		token, err := store.GetTokenByUniqueKey(ctx, parked.UniqueKey)
		require.NoError(t, err)
		assert.Equal(t, domain.MAX_METADATA_RETRIES, token.RetryCount)
		require.NotNil(t, token.LastError)
		assert.Equal(t, "gateway timeout", *token.LastError)
	})

	t.Run("reset re-admits parked tokens", func(t *testing.T) {
		key := parked.UniqueKey
		count, err := store.ResetTokenRetries(ctx, ResetRetriesFilter{UniqueKey: &key})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		tokens, err := store.GetPendingTokens(ctx, 100, domain.MAX_METADATA_RETRIES)
		require.NoError(t, err)
		keys := make([]string, 0, len(tokens))
		for _, token := range tokens {
			keys = append(keys, token.UniqueKey)
		}
		assert.Contains(t, keys, parked.UniqueKey)
	})

	t.Run("reset by chain ignores other chains", func(t *testing.T) {
		require.NoError(t, store.IncrementTokenRetry(ctx, pending.UniqueKey, "boom"))

		chain := domain.ChainEthereum
		count, err := store.ResetTokenRetries(ctx, ResetRetriesFilter{Chain: &chain})
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

// =============================================================================
// Test: Orders
// =============================================================================

func testCreateOrder(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create new order", func(t *testing.T) {
		created, err := store.CreateOrder(ctx, buildTestOrder("1", 100))
		require.NoError(t, err)
		assert.True(t, created)

		order, err := store.GetOrder(ctx, domain.ChainElastos, "1")
		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, domain.OrderStateCreated, order.OrderState)
		assert.Equal(t, uint64(100), order.LastEventBlock)
		assert.Equal(t, "0x2a", order.TokenIDHex)
	})

	t.Run("replayed creation keeps the first row", func(t *testing.T) {
		_, err := store.CreateOrder(ctx, buildTestOrder("2", 100))
		require.NoError(t, err)

		replay := buildTestOrder("2", 100)
		replay.Price = "1"
		created, err := store.CreateOrder(ctx, replay)
		require.NoError(t, err)
		assert.False(t, created)

		order, err := store.GetOrder(ctx, domain.ChainElastos, "2")
		require.NoError(t, err)
		assert.Equal(t, "1000000000000000000", order.Price)
	})

	t.Run("same order id on another chain is a different order", func(t *testing.T) {
		input := buildTestOrder("1", 100)
		input.Chain = domain.ChainEthereum
		created, err := store.CreateOrder(ctx, input)
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("missing order returns nil", func(t *testing.T) {
		order, err := store.GetOrder(ctx, domain.ChainElastos, "404")
		require.NoError(t, err)
		assert.Nil(t, order)
	})
}

func testUpdateOrder(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("bid updates bid fields", func(t *testing.T) {
		_, err := store.CreateOrder(ctx, buildTestOrder("10", 100))
		require.NoError(t, err)

		bids := int64(1)
		applied, err := store.UpdateOrder(ctx, UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "10",
			BlockNumber: 110,
			Bids:        &bids,
			LastBid:     stringPtr("5"),
			LastBidder:  stringPtr(testBuyer),
		})
		require.NoError(t, err)
		assert.True(t, applied)

		order, err := store.GetOrder(ctx, domain.ChainElastos, "10")
		require.NoError(t, err)
		assert.Equal(t, int64(1), order.Bids)
		assert.Equal(t, "5", order.LastBid)
		assert.Equal(t, testBuyer, order.LastBidder)
		assert.Equal(t, uint64(110), order.LastEventBlock)
		assert.Equal(t, domain.OrderStateCreated, order.OrderState)
	})

	t.Run("terminal state is never left", func(t *testing.T) {
		_, err := store.CreateOrder(ctx, buildTestOrder("11", 100))
		require.NoError(t, err)

		applied, err := store.UpdateOrder(ctx, UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "11",
			BlockNumber: 120,
			State:       stateRef(domain.OrderStateFilled),
			BuyerAddr:   stringPtr(testBuyer),
		})
		require.NoError(t, err)
		assert.True(t, applied)

		applied, err = store.UpdateOrder(ctx, UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "11",
			BlockNumber: 130,
			State:       stateRef(domain.OrderStateCancelled),
		})
		require.NoError(t, err)
		assert.False(t, applied)

		// The same terminal state may be re-applied
		applied, err = store.UpdateOrder(ctx, UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "11",
			BlockNumber: 140,
			State:       stateRef(domain.OrderStateFilled),
		})
		require.NoError(t, err)
		assert.True(t, applied)

		order, err := store.GetOrder(ctx, domain.ChainElastos, "11")
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStateFilled, order.OrderState)
		assert.Equal(t, testBuyer, order.BuyerAddr)
	})

	t.Run("older event never overwrites a newer one", func(t *testing.T) {
		_, err := store.CreateOrder(ctx, buildTestOrder("12", 100))
		require.NoError(t, err)

		_, err = store.UpdateOrder(ctx, UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "12",
			BlockNumber: 200,
			Price:       stringPtr("300"),
		})
		require.NoError(t, err)

		applied, err := store.UpdateOrder(ctx, UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "12",
			BlockNumber: 150,
			Price:       stringPtr("150"),
		})
		require.NoError(t, err)
		assert.False(t, applied)

		order, err := store.GetOrder(ctx, domain.ChainElastos, "12")
		require.NoError(t, err)
		assert.Equal(t, "300", order.Price)
		assert.Equal(t, uint64(200), order.LastEventBlock)
	})

	t.Run("older bid lands after a newer fill", func(t *testing.T) {
		_, err := store.CreateOrder(ctx, buildTestOrder("13", 100))
		require.NoError(t, err)

		applied, err := store.UpdateOrder(ctx, UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "13",
			BlockNumber: 110,
			State:       stateRef(domain.OrderStateFilled),
			BuyerAddr:   stringPtr(testBuyer),
			Filled:      stringPtr("1200"),
		})
		require.NoError(t, err)
		require.True(t, applied)

		bids := int64(2)
		applied, err = store.UpdateOrder(ctx, UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "13",
			BlockNumber: 105,
			Bids:        &bids,
			LastBid:     stringPtr("1200"),
			LastBidder:  stringPtr(testBuyer),
		})
		require.NoError(t, err)
		assert.True(t, applied)

		order, err := store.GetOrder(ctx, domain.ChainElastos, "13")
		require.NoError(t, err)
		assert.Equal(t, int64(2), order.Bids)
		assert.Equal(t, "1200", order.LastBid)
		assert.Equal(t, testBuyer, order.LastBidder)
		assert.Equal(t, domain.OrderStateFilled, order.OrderState)
		assert.Equal(t, "1200", order.Filled)
		assert.Equal(t, uint64(105), order.BidBlock)
		assert.Equal(t, uint64(110), order.StateBlock)
		assert.Equal(t, uint64(110), order.LastEventBlock)
	})

	t.Run("older price change lands after a newer cancel", func(t *testing.T) {
		_, err := store.CreateOrder(ctx, buildTestOrder("14", 100))
		require.NoError(t, err)

		_, err = store.UpdateOrder(ctx, UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "14",
			BlockNumber: 130,
			State:       stateRef(domain.OrderStateCancelled),
		})
		require.NoError(t, err)

		applied, err := store.UpdateOrder(ctx, UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "14",
			BlockNumber: 120,
			Price:       stringPtr("750"),
		})
		require.NoError(t, err)
		assert.True(t, applied)

		order, err := store.GetOrder(ctx, domain.ChainElastos, "14")
		require.NoError(t, err)
		assert.Equal(t, "750", order.Price)
		assert.Equal(t, domain.OrderStateCancelled, order.OrderState)
		assert.Equal(t, uint64(130), order.LastEventBlock)
	})

	t.Run("events in either order converge", func(t *testing.T) {
		bids := int64(1)
		bid := UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "",
			BlockNumber: 105,
			Bids:        &bids,
			LastBid:     stringPtr("900"),
			LastBidder:  stringPtr(testBuyer),
		}
		fill := UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "",
			BlockNumber: 110,
			State:       stateRef(domain.OrderStateFilled),
			BuyerAddr:   stringPtr(testBuyer),
		}

		var orders []*schema.Order
		for i, sequence := range [][]UpdateOrderInput{{bid, fill}, {fill, bid}} {
			id := fmt.Sprintf("%d", 15+i)
			_, err := store.CreateOrder(ctx, buildTestOrder(id, 100))
			require.NoError(t, err)
			for _, update := range sequence {
				update.OrderID = id
				_, err := store.UpdateOrder(ctx, update)
				require.NoError(t, err)
			}
			order, err := store.GetOrder(ctx, domain.ChainElastos, id)
			require.NoError(t, err)
			orders = append(orders, order)
		}

		for _, order := range orders {
			assert.Equal(t, int64(1), order.Bids)
			assert.Equal(t, "900", order.LastBid)
			assert.Equal(t, domain.OrderStateFilled, order.OrderState)
			assert.Equal(t, testBuyer, order.BuyerAddr)
			assert.Equal(t, uint64(110), order.LastEventBlock)
		}
	})

	t.Run("bid arriving before the order is applied once the order exists", func(t *testing.T) {
		bids := int64(1)
		bid := UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "70",
			BlockNumber: 105,
			Bids:        &bids,
			LastBid:     stringPtr("1200"),
			LastBidder:  stringPtr(testBuyer),
		}

		_, err := store.UpdateOrder(ctx, bid)
		require.ErrorIs(t, err, domain.ErrOrderNotFound)

		order := buildTestOrder("70", 103)
		order.OrderType = domain.OrderTypeAuction
		order.Price = "1000"
		_, err = store.CreateOrder(ctx, order)
		require.NoError(t, err)

		applied, err := store.UpdateOrder(ctx, bid)
		require.NoError(t, err)
		assert.True(t, applied)

		stored, err := store.GetOrder(ctx, domain.ChainElastos, "70")
		require.NoError(t, err)
		assert.Equal(t, "1200", stored.LastBid)
		assert.Equal(t, int64(1), stored.Bids)
		assert.Equal(t, "1000", stored.Price)
	})

	t.Run("missing order returns not found", func(t *testing.T) {
		applied, err := store.UpdateOrder(ctx, UpdateOrderInput{
			Chain:       domain.ChainElastos,
			OrderID:     "7",
			BlockNumber: 100,
			State:       stateRef(domain.OrderStateFilled),
		})
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
		assert.False(t, applied)
	})
}

// =============================================================================
// Test: Collections
// =============================================================================

func testUpsertCollection(t *testing.T, store Store) {
	ctx := context.Background()
	token := "0x1111111111111111111111111111111111111111"

	t.Run("registration creates the collection", func(t *testing.T) {
		input := buildTestCollection(token, 100)
		input.MetadataPending = true
		created, err := store.UpsertCollection(ctx, input)
		require.NoError(t, err)
		assert.True(t, created)

		collection, err := store.GetCollection(ctx, domain.ChainElastos, token)
		require.NoError(t, err)
		require.NotNil(t, collection)
		assert.Equal(t, "Genesis", collection.Name)
		assert.Equal(t, uint64(100), collection.InfoBlock)
		assert.True(t, collection.MetadataPending)
		assert.True(t, collection.Is721)
	})

	t.Run("re-registration refreshes the collection", func(t *testing.T) {
		input := buildTestCollection(token, 200)
		input.Name = "Genesis II"
		created, err := store.UpsertCollection(ctx, input)
		require.NoError(t, err)
		assert.False(t, created)

		collection, err := store.GetCollection(ctx, domain.ChainElastos, token)
		require.NoError(t, err)
		assert.Equal(t, "Genesis II", collection.Name)
		assert.Equal(t, uint64(200), collection.BlockNumber)
	})

	t.Run("list returns collections of the chain", func(t *testing.T) {
		_, err := store.UpsertCollection(ctx, buildTestCollection("0x2222222222222222222222222222222222222222", 300))
		require.NoError(t, err)

		collections, err := store.ListCollections(ctx, domain.ChainElastos)
		require.NoError(t, err)
		assert.Len(t, collections, 2)

		collections, err = store.ListCollections(ctx, domain.ChainFusion)
		require.NoError(t, err)
		assert.Empty(t, collections)
	})
}

func testUpdateCollection(t *testing.T, store Store) {
	ctx := context.Background()
	token := "0x3333333333333333333333333333333333333333"

	_, err := store.UpsertCollection(ctx, buildTestCollection(token, 100))
	require.NoError(t, err)

	t.Run("royalty change", func(t *testing.T) {
		applied, err := store.UpdateCollection(ctx, UpdateCollectionInput{
			Chain:         domain.ChainElastos,
			Token:         token,
			BlockNumber:   150,
			RoyaltyOwners: []string{testOwner},
			RoyaltyFees:   []string{"50000"},
		})
		require.NoError(t, err)
		assert.True(t, applied)

		collection, err := store.GetCollection(ctx, domain.ChainElastos, token)
		require.NoError(t, err)
		assert.Equal(t, []string{testOwner}, []string(collection.RoyaltyOwners))
		assert.Equal(t, []string{"50000"}, []string(collection.RoyaltyFees))
		assert.Equal(t, uint64(150), collection.RoyaltyBlock)
	})

	t.Run("info change guarded independently of royalties", func(t *testing.T) {
		pending := true
		applied, err := store.UpdateCollection(ctx, UpdateCollectionInput{
			Chain:           domain.ChainElastos,
			Token:           token,
			BlockNumber:     120,
			Name:            stringPtr("Renamed"),
			URI:             stringPtr("pasar:json:QmNew"),
			MetadataPending: &pending,
		})
		require.NoError(t, err)
		assert.True(t, applied)

		collection, err := store.GetCollection(ctx, domain.ChainElastos, token)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", collection.Name)
		assert.Equal(t, "pasar:json:QmNew", collection.URI)
		assert.True(t, collection.MetadataPending)
		assert.Equal(t, uint64(150), collection.RoyaltyBlock)
	})

	t.Run("older royalty change is ignored", func(t *testing.T) {
		applied, err := store.UpdateCollection(ctx, UpdateCollectionInput{
			Chain:         domain.ChainElastos,
			Token:         token,
			BlockNumber:   140,
			RoyaltyOwners: []string{testBuyer},
			RoyaltyFees:   []string{"1"},
		})
		require.NoError(t, err)
		assert.False(t, applied)

		collection, err := store.GetCollection(ctx, domain.ChainElastos, token)
		require.NoError(t, err)
		assert.Equal(t, []string{"50000"}, []string(collection.RoyaltyFees))
	})

	t.Run("missing collection returns not found", func(t *testing.T) {
		applied, err := store.UpdateCollection(ctx, UpdateCollectionInput{
			Chain:       domain.ChainElastos,
			Token:       "0x4444444444444444444444444444444444444444",
			BlockNumber: 100,
			Name:        stringPtr("x"),
		})
		assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
		assert.False(t, applied)
	})
}

func testCollectionEnrichmentQueue(t *testing.T, store Store) {
	ctx := context.Background()
	token := "0x5555555555555555555555555555555555555555"

	input := buildTestCollection(token, 100)
	input.MetadataPending = true
	_, err := store.UpsertCollection(ctx, input)
	require.NoError(t, err)

	t.Run("pending collection is listed", func(t *testing.T) {
		collections, err := store.GetPendingCollections(ctx, 10, domain.MAX_METADATA_RETRIES)
		require.NoError(t, err)
		require.Len(t, collections, 1)
		assert.Equal(t, domain.NormalizeAddress(token), collections[0].Token)
	})

	t.Run("parked collection is excluded and reset re-admits it", func(t *testing.T) {
		for i := 0; i < domain.MAX_METADATA_RETRIES; i++ {
			require.NoError(t, store.IncrementCollectionRetry(ctx, domain.ChainElastos, token, "not found"))
		}

		collections, err := store.GetPendingCollections(ctx, 10, domain.MAX_METADATA_RETRIES)
		require.NoError(t, err)
		assert.Empty(t, collections)

		chain := domain.ChainElastos
		count, err := store.ResetCollectionRetries(ctx, &chain)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		collections, err = store.GetPendingCollections(ctx, 10, domain.MAX_METADATA_RETRIES)
		require.NoError(t, err)
		assert.Len(t, collections, 1)
	})

	t.Run("metadata clears the pending flag", func(t *testing.T) {
		require.NoError(t, store.SetCollectionMetadata(ctx, CollectionMetadataInput{
			Chain:       domain.ChainElastos,
			Token:       token,
			Description: stringPtr("First drop"),
			Avatar:      stringPtr("pasar:image:QmAvatar"),
			Socials:     datatypes.JSON(`{"website":"https://example.com"}`),
			Metadata:    datatypes.JSON(`{"version":"1"}`),
		}))

		collection, err := store.GetCollection(ctx, domain.ChainElastos, token)
		require.NoError(t, err)
		assert.False(t, collection.MetadataPending)
		require.NotNil(t, collection.Description)
		assert.Equal(t, "First drop", *collection.Description)
	})
}

// =============================================================================
// Test: User profiles
// =============================================================================

func testUpsertUserProfile(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.UpsertUserProfile(ctx, UserProfileInput{
		Address: testOwner,
		DID:     "did:elastos:iXyzABC",
		Name:    "alice",
	}))
	require.NoError(t, store.UpsertUserProfile(ctx, UserProfileInput{
		Address:     testOwner,
		DID:         "did:elastos:iXyzABC",
		Name:        "alice v2",
		Description: "collector",
	}))

	var profile schema.UserProfile
	require.NoError(t, store.(*pgStore).db.Where("address = ?", testOwner).First(&profile).Error)
	assert.Equal(t, "alice v2", profile.Name)
	assert.Equal(t, "collector", profile.Description)
}

// =============================================================================
// Test: Reconciliation queue
// =============================================================================

func testReconciliationQueue(t *testing.T, store Store) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	enqueue := func(id string, dedupe string, dueAt time.Time) {
		require.NoError(t, store.EnqueueReconciliation(ctx, EnqueueReconciliationInput{
			ID:        id,
			Kind:      schema.ReconciliationUpdateOrder,
			Key:       "ela:7",
			DedupeKey: dedupe,
			Payload:   datatypes.JSON(`{"chain":"ela","order_id":"7","block_number":105}`),
			DueAt:     dueAt,
		}))
	}

	enqueue("01J0000000000000000000000A", "dedupe-a", now.Add(-time.Minute))
	enqueue("01J0000000000000000000000B", "dedupe-b", now.Add(-30*time.Second))
	enqueue("01J0000000000000000000000C", "dedupe-c", now.Add(time.Hour))
	// Same mutation redelivered
	enqueue("01J0000000000000000000000D", "dedupe-a", now.Add(-time.Minute))

	t.Run("claim leases due jobs in due order", func(t *testing.T) {
		jobs, err := store.ClaimReconciliationJobs(ctx, "worker-1", now, time.Minute, 10)
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, "01J0000000000000000000000A", jobs[0].ID)
		assert.Equal(t, "01J0000000000000000000000B", jobs[1].ID)
		require.NotNil(t, jobs[0].LeaseOwner)
		assert.Equal(t, "worker-1", *jobs[0].LeaseOwner)
	})

	t.Run("leased jobs are not claimed again", func(t *testing.T) {
		jobs, err := store.ClaimReconciliationJobs(ctx, "worker-2", now.Add(30*time.Second), time.Minute, 10)
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})

	t.Run("reschedule releases the lease", func(t *testing.T) {
		err := store.RescheduleReconciliationJob(ctx, "01J0000000000000000000000B", "worker-1", now.Add(2*time.Minute), "order not found")
		require.NoError(t, err)

		jobs, err := store.ClaimReconciliationJobs(ctx, "worker-2", now.Add(3*time.Minute), time.Minute, 10)
		require.NoError(t, err)

		// A's lease expired too
		require.Len(t, jobs, 2)
		var rescheduled *schema.ReconciliationJob
		for i := range jobs {
			if jobs[i].ID == "01J0000000000000000000000B" {
				rescheduled = &jobs[i]
			}
		}
		require.NotNil(t, rescheduled)
		assert.Equal(t, 1, rescheduled.Attempts)
		require.NotNil(t, rescheduled.LastError)
		assert.Equal(t, "order not found", *rescheduled.LastError)
	})

	t.Run("complete by a stale owner is a no-op", func(t *testing.T) {
		require.NoError(t, store.CompleteReconciliationJob(ctx, "01J0000000000000000000000A", "worker-1"))

		jobs, err := store.ClaimReconciliationJobs(ctx, "worker-3", now.Add(10*time.Minute), time.Minute, 10)
		require.NoError(t, err)
		ids := make([]string, 0, len(jobs))
		for _, job := range jobs {
			ids = append(ids, job.ID)
		}
		assert.Contains(t, ids, "01J0000000000000000000000A")
	})

	t.Run("complete deletes the job", func(t *testing.T) {
		require.NoError(t, store.CompleteReconciliationJob(ctx, "01J0000000000000000000000A", "worker-3"))
		require.NoError(t, store.CompleteReconciliationJob(ctx, "01J0000000000000000000000B", "worker-3"))

		jobs, err := store.ClaimReconciliationJobs(ctx, "worker-4", now.Add(20*time.Minute), time.Minute, 10)
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})
}

// =============================================================================
// Test: Transactions
// =============================================================================

func testWithTx(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("error rolls back every write", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx Store) error {
			if _, err := tx.InsertChainEvent(ctx, buildTestEvent(domain.EventKindOrderCanceled, testPasar, 800, 0)); err != nil {
				return err
			}
			_, err := tx.UpdateOrder(ctx, UpdateOrderInput{
				Chain:       domain.ChainElastos,
				OrderID:     "missing",
				BlockNumber: 800,
				State:       stateRef(domain.OrderStateCancelled),
			})
			return err
		})
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)

		_, found, err := store.GetWatermark(ctx, domain.ChainElastos, testPasar, domain.EventKindOrderCanceled)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("success commits every write", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx Store) error {
			if _, err := tx.InsertChainEvent(ctx, buildTestEvent(domain.EventKindOrderForAuction, testPasar, 801, 0)); err != nil {
				return err
			}
			_, err := tx.CreateOrder(ctx, buildTestOrder("801", 801))
			return err
		})
		require.NoError(t, err)

		order, err := store.GetOrder(ctx, domain.ChainElastos, "801")
		require.NoError(t, err)
		assert.NotNil(t, order)
	})
}

// RunStoreTests runs all store tests against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"InsertChainEvent", testInsertChainEvent},
		{"GetWatermark", testGetWatermark},
		{"CreateToken", testCreateToken},
		{"UpdateTokenOwner", testUpdateTokenOwner},
		{"TokenEnrichmentQueue", testTokenEnrichmentQueue},
		{"CreateOrder", testCreateOrder},
		{"UpdateOrder", testUpdateOrder},
		{"UpsertCollection", testUpsertCollection},
		{"UpdateCollection", testUpdateCollection},
		{"CollectionEnrichmentQueue", testCollectionEnrichmentQueue},
		{"UpsertUserProfile", testUpsertUserProfile},
		{"ReconciliationQueue", testReconciliationQueue},
		{"WithTx", testWithTx},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
