package syncer

import (
	"context"
	"fmt"

	"github.com/feral-file/ff-chain-sync/internal/store"
)

// Watermark returns the highest block already handled for a tuple.
// Tuples without stored events start from the configured seed height.
func Watermark(ctx context.Context, st store.Store, tuple Tuple, seed uint64) (uint64, error) {
	height, found, err := st.GetWatermark(ctx, tuple.Chain, tuple.Contract.Hex(), tuple.Kind)
	if err != nil {
		return 0, fmt.Errorf("failed to get watermark of %s: %w", tuple, err)
	}
	if !found {
		return seed, nil
	}
	return height, nil
}
