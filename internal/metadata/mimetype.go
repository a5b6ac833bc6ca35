package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/logger"
)

// ErrNotJSON is returned when a metadata URI serves something other than a JSON document
var ErrNotJSON = errors.New("metadata is not a json document")

// checkJSON detects the MIME type of a fetched body and rejects documents that cannot be JSON.
// Gateways answer unknown or unpinned CIDs with HTML error pages and a 200 status.
// Large documents are sniffed from their first bytes only and may be reported as text/plain,
// so those are left to the JSON decoder.
func checkJSON(ctx context.Context, url string, body []byte) error {
	mtype := mimetype.Detect(body)
	if mtype.Is("application/json") || mtype.Is("text/plain") {
		return nil
	}

	logger.DebugCtx(ctx, "Unexpected metadata content type",
		zap.String("url", url),
		zap.String("mimeType", mtype.String()))

	return fmt.Errorf("%w: %s", ErrNotJSON, mtype.String())
}
