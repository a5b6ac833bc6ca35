package metadata_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/metadata"
	"github.com/feral-file/ff-chain-sync/internal/mocks"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const (
	tokenURI   = "pasar:json:QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	gatewayURL = "https://ipfs.pasarprotocol.io/ipfs/QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
)

type testFetcherMocks struct {
	ctrl     *gomock.Controller
	resolver *mocks.MockURIResolver
	http     *mocks.MockHTTPClient
	fetcher  metadata.Fetcher
}

func setupTest(t *testing.T) *testFetcherMocks {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockURIResolver(ctrl)
	httpClient := mocks.NewMockHTTPClient(ctrl)

	return &testFetcherMocks{
		ctrl:     ctrl,
		resolver: resolver,
		http:     httpClient,
		fetcher:  metadata.NewFetcher(resolver, httpClient, adapter.NewJSON()),
	}
}

func TestFetcher_Fetch(t *testing.T) {
	t.Run("json document", func(t *testing.T) {
		m := setupTest(t)
		defer m.ctrl.Finish()

		m.resolver.EXPECT().Resolve(gomock.Any(), tokenURI).Return(gatewayURL, nil)
		m.http.EXPECT().GetBytes(gomock.Any(), gatewayURL).
			Return([]byte(`{"version":2,"name":"Moon","type":"image"}`), nil)

		doc, err := m.fetcher.Fetch(context.Background(), tokenURI)
		require.NoError(t, err)
		assert.Equal(t, tokenURI, doc.URI)
		assert.Equal(t, "Moon", doc.Raw["name"])
		assert.Equal(t, `{"name":"Moon","type":"image","version":2}`, string(doc.Canonical))
		assert.Len(t, doc.Hash, 64)
	})

	t.Run("equal documents hash equally regardless of key order", func(t *testing.T) {
		m := setupTest(t)
		defer m.ctrl.Finish()

		m.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(gatewayURL, nil).Times(2)
		m.http.EXPECT().GetBytes(gomock.Any(), gatewayURL).Return([]byte(`{"a":1,"b":"x"}`), nil)
		m.http.EXPECT().GetBytes(gomock.Any(), gatewayURL).Return([]byte(`{ "b": "x", "a": 1 }`), nil)

		first, err := m.fetcher.Fetch(context.Background(), tokenURI)
		require.NoError(t, err)
		second, err := m.fetcher.Fetch(context.Background(), tokenURI)
		require.NoError(t, err)
		assert.Equal(t, first.Hash, second.Hash)
	})

	t.Run("html error page", func(t *testing.T) {
		m := setupTest(t)
		defer m.ctrl.Finish()

		m.resolver.EXPECT().Resolve(gomock.Any(), tokenURI).Return(gatewayURL, nil)
		m.http.EXPECT().GetBytes(gomock.Any(), gatewayURL).
			Return([]byte("<!DOCTYPE html><html><body>504 Gateway Time-out</body></html>"), nil)

		_, err := m.fetcher.Fetch(context.Background(), tokenURI)
		assert.ErrorIs(t, err, metadata.ErrNotJSON)
	})

	t.Run("unsupported uri", func(t *testing.T) {
		m := setupTest(t)
		defer m.ctrl.Finish()

		m.resolver.EXPECT().Resolve(gomock.Any(), "ar://abc").
			Return("", domain.ErrUnsupportedURI)

		_, err := m.fetcher.Fetch(context.Background(), "ar://abc")
		assert.ErrorIs(t, err, domain.ErrUnsupportedURI)
	})

	t.Run("fetch failure", func(t *testing.T) {
		m := setupTest(t)
		defer m.ctrl.Finish()

		m.resolver.EXPECT().Resolve(gomock.Any(), tokenURI).Return(gatewayURL, nil)
		m.http.EXPECT().GetBytes(gomock.Any(), gatewayURL).Return(nil, errors.New("timeout"))

		_, err := m.fetcher.Fetch(context.Background(), tokenURI)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})

	t.Run("invalid json", func(t *testing.T) {
		m := setupTest(t)
		defer m.ctrl.Finish()

		m.resolver.EXPECT().Resolve(gomock.Any(), tokenURI).Return(gatewayURL, nil)
		m.http.EXPECT().GetBytes(gomock.Any(), gatewayURL).Return([]byte(`{"name": "Moon"`), nil)

		_, err := m.fetcher.Fetch(context.Background(), tokenURI)
		require.Error(t, err)
	})
}
