package ethereum_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/contracts"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	chain "github.com/feral-file/ff-chain-sync/internal/providers/ethereum"
)

func TestGetPastLogs_Integration(t *testing.T) {
	rpcURL := os.Getenv("ELASTOS_RPC_URL")
	pasar := os.Getenv("ELASTOS_PASAR_ADDRESS")
	if rpcURL == "" || pasar == "" {
		t.Skip("Skipping integration test: ELASTOS_RPC_URL or ELASTOS_PASAR_ADDRESS not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	eth, err := adapter.NewEthClientDialer().Dial(ctx, rpcURL)
	require.NoError(t, err)

	client := chain.NewClient(chain.Config{
		Chain:           domain.ChainElastos,
		RateLimit:       5,
		Burst:           1,
		HeadTTL:         5 * time.Second,
		HeadStaleWindow: time.Minute,
	}, eth, adapter.NewClock())
	defer client.Close()

	head, err := client.CurrentHeight(ctx)
	require.NoError(t, err)
	require.Greater(t, head, uint64(10000))

	topic := contracts.Pasar.Events[contracts.EventOrderFilled].ID
	logs, err := client.GetPastLogs(ctx, common.HexToAddress(pasar), topic, head-10000, head)
	require.NoError(t, err)

	for i := 1; i < len(logs); i++ {
		prev, cur := logs[i-1], logs[i]
		assert.True(t, prev.BlockNumber < cur.BlockNumber ||
			(prev.BlockNumber == cur.BlockNumber && prev.Index < cur.Index))
	}
}
