package sweeper_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/metadata"
	"github.com/feral-file/ff-chain-sync/internal/mocks"
	"github.com/feral-file/ff-chain-sync/internal/store"
	"github.com/feral-file/ff-chain-sync/internal/store/schema"
	"github.com/feral-file/ff-chain-sync/internal/sweeper"
)

const (
	creatorAddress = "0x5B38Da6a701c568545dCfcB03FcB875f56beddC4"
	creatorDID     = "did:elastos:iXyzABC"
)

type testEnricherMocks struct {
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	fetcher *mocks.MockMetadataFetcher
	clock   *mocks.MockClock
	slept   <-chan time.Duration
	sweeper sweeper.Sweeper
}

func setupEnricher(t *testing.T) *testEnricherMocks {
	return setupEnricherWithPool(t, 4, 0)
}

func setupEnricherWithPool(t *testing.T, poolSize, queueSize int) *testEnricherMocks {
	ctrl := gomock.NewController(t)
	tm := &testEnricherMocks{
		ctrl:    ctrl,
		store:   mocks.NewMockStore(ctrl),
		fetcher: mocks.NewMockMetadataFetcher(ctrl),
		clock:   mocks.NewMockClock(ctrl),
	}
	tm.slept = expectClock(tm.clock)
	tm.sweeper = sweeper.NewMetadataEnricher(&sweeper.MetadataEnricherConfig{
		Interval:        10 * time.Second,
		BatchSize:       20,
		MaxRetries:      5,
		WorkerPoolSize:  poolSize,
		WorkerQueueSize: queueSize,
	}, tm.store, tm.fetcher, adapter.NewJSON(), tm.clock)
	return tm
}

func (tm *testEnricherMocks) expectPending(tokens []schema.Token, collections []schema.Collection) {
	tm.store.EXPECT().GetPendingTokens(gomock.Any(), 20, 5).Return(tokens, nil)
	tm.store.EXPECT().GetPendingCollections(gomock.Any(), 20, 5).Return(collections, nil)
}

func pendingToken(retries int) schema.Token {
	return schema.Token{
		UniqueKey:       "ela-0x020c7303664bc88ae92cE3D380BF361E03B78B81-42",
		Chain:           domain.ChainElastos,
		TokenID:         "42",
		TokenURI:        "pasar:json:QmToken",
		RoyaltyOwner:    creatorAddress,
		MetadataPending: true,
		RetryCount:      retries,
	}
}

func pendingCollection() schema.Collection {
	return schema.Collection{
		Chain:           domain.ChainElastos,
		Token:           "0x9d3E9A5D5d4Ee5bC5bEb9B1B4A3a6f6cE4C2F3e1",
		Owner:           creatorAddress,
		URI:             "pasar:json:QmCollection",
		MetadataPending: true,
	}
}

func TestMetadataEnricher_Name(t *testing.T) {
	tm := setupEnricher(t)
	assert.Equal(t, "metadata-enricher", tm.sweeper.Name())
}

func TestMetadataEnricher_ResolvesToken(t *testing.T) {
	tm := setupEnricher(t)
	token := pendingToken(0)
	tm.expectPending([]schema.Token{token}, nil)

	canonicalDoc := []byte(`{"creator":{"did":"did:elastos:iXyzABC","name":"alice"},"name":"Moon","properties":{"color":"grey"}}`)
	tm.fetcher.EXPECT().Fetch(gomock.Any(), "pasar:json:QmToken").Return(&metadata.Document{
		URI: "pasar:json:QmToken",
		Raw: map[string]interface{}{
			"name":       "Moon",
			"properties": map[string]interface{}{"color": "grey"},
			"creator":    map[string]interface{}{"did": creatorDID, "name": "alice"},
		},
		Canonical: canonicalDoc,
		Hash:      "9f2c",
	}, nil)

	var stored store.TokenMetadataInput
	tm.store.EXPECT().SetTokenMetadata(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input store.TokenMetadataInput) error {
			stored = input
			return nil
		})
	tm.store.EXPECT().UpsertUserProfile(gomock.Any(), store.UserProfileInput{
		Address: creatorAddress,
		DID:     creatorDID,
		Name:    "alice",
	}).Return(nil)

	runUntilSleep(t, tm.sweeper, tm.slept)

	assert.Equal(t, token.UniqueKey, stored.UniqueKey)
	require.NotNil(t, stored.Name)
	assert.Equal(t, "Moon", *stored.Name)
	require.NotNil(t, stored.Kind)
	assert.Equal(t, "image", *stored.Kind)
	assert.JSONEq(t, `{"color":"grey"}`, string(stored.Properties))
	assert.Equal(t, canonicalDoc, []byte(stored.Metadata))
	assert.Equal(t, "9f2c", stored.Hash)
}

func TestMetadataEnricher_BoundedQueueFetchesWholeBatch(t *testing.T) {
	tm := setupEnricherWithPool(t, 1, 1)

	tokens := make([]schema.Token, 0, 5)
	for i := 1; i <= 5; i++ {
		token := pendingToken(0)
		token.TokenID = fmt.Sprint(i)
		token.UniqueKey = fmt.Sprintf("ela-0x020c7303664bc88ae92cE3D380BF361E03B78B81-%d", i)
		token.TokenURI = fmt.Sprintf("pasar:json:QmToken%d", i)
		tokens = append(tokens, token)
	}
	tm.expectPending(tokens, nil)

	for _, token := range tokens {
		tm.fetcher.EXPECT().Fetch(gomock.Any(), token.TokenURI).Return(&metadata.Document{
			URI:       token.TokenURI,
			Raw:       map[string]interface{}{"name": "Moon " + token.TokenID},
			Canonical: []byte(`{}`),
			Hash:      "h" + token.TokenID,
		}, nil)
	}
	resolved := make(chan string, len(tokens))
	tm.store.EXPECT().SetTokenMetadata(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input store.TokenMetadataInput) error {
			resolved <- input.UniqueKey
			return nil
		}).Times(len(tokens))

	runUntilSleep(t, tm.sweeper, tm.slept)

	close(resolved)
	keys := []string{}
	for key := range resolved {
		keys = append(keys, key)
	}
	assert.Len(t, keys, len(tokens))
}

func TestMetadataEnricher_TokenWithoutCreatorDID(t *testing.T) {
	tm := setupEnricher(t)
	tm.expectPending([]schema.Token{pendingToken(0)}, nil)

	tm.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(&metadata.Document{
		Raw:       map[string]interface{}{"name": "Sun", "creator": map[string]interface{}{"name": "bob"}},
		Canonical: []byte(`{}`),
		Hash:      "aa",
	}, nil)
	tm.store.EXPECT().SetTokenMetadata(gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().UpsertUserProfile(gomock.Any(), gomock.Any()).Times(0)

	runUntilSleep(t, tm.sweeper, tm.slept)
}

func TestMetadataEnricher_TokenFetchFailure(t *testing.T) {
	tests := []struct {
		name    string
		retries int
		err     error
	}{
		{name: "transient failure", retries: 0, err: errors.New("gateway timeout")},
		{name: "last attempt", retries: 4, err: errors.New("gateway timeout")},
		{name: "unsupported uri", retries: 0, err: fmt.Errorf("%w: ftp://x", domain.ErrUnsupportedURI)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupEnricher(t)
			token := pendingToken(tt.retries)
			tm.expectPending([]schema.Token{token}, nil)

			tm.fetcher.EXPECT().Fetch(gomock.Any(), token.TokenURI).Return(nil, tt.err)
			tm.store.EXPECT().IncrementTokenRetry(gomock.Any(), token.UniqueKey, tt.err.Error()).Return(nil)
			tm.store.EXPECT().SetTokenMetadata(gomock.Any(), gomock.Any()).Times(0)

			runUntilSleep(t, tm.sweeper, tm.slept)
		})
	}
}

func TestMetadataEnricher_StoreFailureDoesNotCountRetry(t *testing.T) {
	tm := setupEnricher(t)
	tm.expectPending([]schema.Token{pendingToken(0)}, nil)

	tm.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(&metadata.Document{
		Raw:       map[string]interface{}{"name": "Sun"},
		Canonical: []byte(`{"name":"Sun"}`),
		Hash:      "bb",
	}, nil)
	tm.store.EXPECT().SetTokenMetadata(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
	tm.store.EXPECT().IncrementTokenRetry(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	runUntilSleep(t, tm.sweeper, tm.slept)
}

func TestMetadataEnricher_ResolvesCollection(t *testing.T) {
	tm := setupEnricher(t)
	collection := pendingCollection()
	tm.expectPending(nil, []schema.Collection{collection})

	tm.fetcher.EXPECT().Fetch(gomock.Any(), collection.URI).Return(&metadata.Document{
		Raw: map[string]interface{}{
			"creator": map[string]interface{}{"did": creatorDID, "name": "alice", "avatar": "pasar:image:QmAvatar"},
			"data": map[string]interface{}{
				"description": "Night sky",
				"avatar":      "pasar:image:QmLogo",
				"social":      map[string]interface{}{"twitter": "@night"},
			},
		},
		Canonical: []byte(`{"data":{}}`),
		Hash:      "cc",
	}, nil)

	var stored store.CollectionMetadataInput
	tm.store.EXPECT().SetCollectionMetadata(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input store.CollectionMetadataInput) error {
			stored = input
			return nil
		})
	tm.store.EXPECT().UpsertUserProfile(gomock.Any(), store.UserProfileInput{
		Address: creatorAddress,
		DID:     creatorDID,
		Name:    "alice",
		Avatar:  "pasar:image:QmAvatar",
	}).Return(nil)

	runUntilSleep(t, tm.sweeper, tm.slept)

	assert.Equal(t, collection.Chain, stored.Chain)
	assert.Equal(t, collection.Token, stored.Token)
	require.NotNil(t, stored.Description)
	assert.Equal(t, "Night sky", *stored.Description)
	require.NotNil(t, stored.Avatar)
	assert.Equal(t, "pasar:image:QmLogo", *stored.Avatar)
	assert.Nil(t, stored.Background)
	assert.JSONEq(t, `{"twitter":"@night"}`, string(stored.Socials))
}

func TestMetadataEnricher_CollectionFetchFailure(t *testing.T) {
	tm := setupEnricher(t)
	collection := pendingCollection()
	tm.expectPending(nil, []schema.Collection{collection})

	tm.fetcher.EXPECT().Fetch(gomock.Any(), collection.URI).Return(nil, errors.New("404 not found"))
	tm.store.EXPECT().IncrementCollectionRetry(gomock.Any(), collection.Chain, collection.Token, "404 not found").Return(nil)

	runUntilSleep(t, tm.sweeper, tm.slept)
}

func TestMetadataEnricher_NothingPending(t *testing.T) {
	tm := setupEnricher(t)
	tm.expectPending(nil, nil)
	tm.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)

	slept := runUntilSleep(t, tm.sweeper, tm.slept)
	assert.Equal(t, 10*time.Second, slept)
}

func TestMetadataEnricher_PendingQueryFailure(t *testing.T) {
	tm := setupEnricher(t)
	tm.store.EXPECT().GetPendingTokens(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("too many connections"))
	tm.store.EXPECT().GetPendingCollections(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	runUntilSleep(t, tm.sweeper, tm.slept)
}
