package metadata

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/uri"
)

// Document is a fetched off-chain JSON document
type Document struct {
	// URI is the URI as written on chain
	URI string
	// Raw is the decoded document
	Raw map[string]interface{}
	// Canonical is the RFC 8785 form of Raw
	Canonical []byte
	// Hash is the hex SHA-256 of Canonical
	Hash string
}

// Fetcher defines the interface for fetching off-chain metadata documents
//
//go:generate mockgen -source=fetcher.go -destination=../mocks/metadata_fetcher.go -package=mocks -mock_names=Fetcher=MockMetadataFetcher
type Fetcher interface {
	// Fetch resolves the URI and returns the JSON document it points at
	Fetch(ctx context.Context, uri string) (*Document, error)
}

type fetcher struct {
	uriResolver uri.Resolver
	httpClient  adapter.HTTPClient
	json        adapter.JSON
}

func NewFetcher(uriResolver uri.Resolver, httpClient adapter.HTTPClient, json adapter.JSON) Fetcher {
	return &fetcher{
		uriResolver: uriResolver,
		httpClient:  httpClient,
		json:        json,
	}
}

func (f *fetcher) Fetch(ctx context.Context, metadataURI string) (*Document, error) {
	url, err := f.uriResolver.Resolve(ctx, metadataURI)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", metadataURI, err)
	}

	body, err := f.httpClient.GetBytes(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if err := checkJSON(ctx, url, body); err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err := f.json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse metadata from %s: %w", url, err)
	}

	canonical, err := f.json.Canonicalize(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize metadata: %w", err)
	}
	hash := sha256.Sum256(canonical)

	logger.DebugCtx(ctx, "Fetched metadata", zap.String("uri", metadataURI), zap.String("url", url))

	return &Document{
		URI:       metadataURI,
		Raw:       raw,
		Canonical: canonical,
		Hash:      hex.EncodeToString(hash[:]),
	}, nil
}
