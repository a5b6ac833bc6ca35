package uri

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
)

// Config holds configuration for the URI resolver
type Config struct {
	// IPFSGateways is the list of IPFS gateways to try, e.g. "https://ipfs.pasarprotocol.io"
	IPFSGateways []string
}

// Resolver defines the interface for resolving metadata URIs
//
//go:generate mockgen -source=resolver.go -destination=../mocks/uri_resolver.go -package=mocks -mock_names=Resolver=MockURIResolver
type Resolver interface {
	// Resolve resolves the URI to a fetchable URL.
	// Content-addressed URIs (ipfs://<cid>, pasar:json:<cid>, feeds:json:<cid>, ...)
	// are mapped onto the first IPFS gateway answering a HEAD request for the CID.
	// HTTP(S) URLs are returned as is.
	// Any other scheme yields domain.ErrUnsupportedURI.
	Resolve(ctx context.Context, uri string) (string, error)
}

// marketplacePrefixes are the schemes the marketplace dApps write into token and profile URIs.
// The CID is the third colon-separated segment.
var marketplacePrefixes = []string{
	"pasar:json:",
	"feeds:json:",
	"pasar:image:",
	"feeds:image:",
}

type resolver struct {
	httpClient adapter.HTTPClient
	config     *Config
}

func NewResolver(httpClient adapter.HTTPClient, config *Config) Resolver {
	return &resolver{
		httpClient: httpClient,
		config:     config,
	}
}

func (r *resolver) Resolve(ctx context.Context, uri string) (string, error) {
	uri = strings.TrimSpace(uri)

	if cid, ok := ExtractCID(uri); ok {
		return r.resolveIPFS(ctx, cid)
	}

	// Regular HTTP(S) URL, including URLs already pointing at a gateway
	if IsHTTP(uri) {
		return uri, nil
	}

	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedURI, uri)
}

// ExtractCID returns the CID addressed by an ipfs:// or marketplace URI
func ExtractCID(uri string) (string, bool) {
	if cid, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		cid = strings.TrimPrefix(cid, "ipfs/")
		return cid, cid != ""
	}

	for _, prefix := range marketplacePrefixes {
		if strings.HasPrefix(uri, prefix) {
			parts := strings.Split(uri, ":")
			return parts[2], parts[2] != ""
		}
	}

	return "", false
}

// IsHTTP reports whether the URI is an http or https URL
func IsHTTP(uri string) bool {
	return strings.HasPrefix(uri, "https://") || strings.HasPrefix(uri, "http://")
}

// IsMarketplaceURI reports whether the URI uses one of the marketplace schemes
func IsMarketplaceURI(uri string) bool {
	for _, prefix := range marketplacePrefixes {
		if strings.HasPrefix(uri, prefix) {
			return true
		}
	}
	return false
}

// resolveIPFS finds a working IPFS gateway for the given CID
func (r *resolver) resolveIPFS(ctx context.Context, cid string) (string, error) {
	if len(r.config.IPFSGateways) == 0 {
		return "", fmt.Errorf("no IPFS gateways configured")
	}

	logger.DebugCtx(ctx, "Resolving IPFS CID", zap.String("cid", cid), zap.Int("gateways", len(r.config.IPFSGateways)))

	// Try all gateways in parallel
	type result struct {
		url string
		err error
	}

	resultCh := make(chan result, len(r.config.IPFSGateways))
	var wg sync.WaitGroup

	// Test each gateway with HEAD request
	for _, gateway := range r.config.IPFSGateways {
		wg.Add(1)
		go func(gw string) {
			defer wg.Done()

			url := fmt.Sprintf("%s/ipfs/%s", strings.TrimSuffix(gw, "/"), cid)
			resp, err := r.httpClient.Head(ctx, url)
			if err != nil {
				resultCh <- result{err: err}
				return
			}
			if err := resp.Body.Close(); err != nil {
				logger.WarnCtx(ctx, "failed to close response body", zap.Error(err), zap.String("url", url))
			}

			if resp.StatusCode == http.StatusOK {
				resultCh <- result{url: url}
			} else {
				resultCh <- result{err: fmt.Errorf("gateway returned status %d", resp.StatusCode)}
			}
		}(gateway)
	}

	// Wait for all goroutines in a separate goroutine
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// Return the first successful result
	for res := range resultCh {
		if res.err == nil {
			logger.DebugCtx(ctx, "Found working IPFS gateway", zap.String("url", res.url))
			return res.url, nil
		}
	}

	return "", fmt.Errorf("no working IPFS gateway found for CID: %s", cid)
}
