package jetstream_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/mocks"
	"github.com/feral-file/ff-chain-sync/internal/providers/jetstream"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var testConfig = jetstream.Config{
	URL:            "nats://localhost:4222",
	StreamName:     "CHAIN_EVENTS",
	MaxReconnects:  10,
	ReconnectWait:  2 * time.Second,
	ConnectionName: "ff-chain-sync",
}

func testEvent() domain.ChainEvent {
	return domain.ChainEvent{
		Chain:       domain.ChainElastos,
		Contract:    "0x02E8AD0687D583e2F6A7e5b82144025f30e26aA0",
		EventKind:   domain.EventKindOrderBid,
		BlockNumber: 105,
		LogIndex:    2,
		TxHash:      "0xabc",
		Timestamp:   time.Unix(1700000000, 0).UTC(),
		GasFee:      "21000",
		Fields:      map[string]any{"orderId": "7"},
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.ela.order_bid", jetstream.Subject(testEvent()))
	assert.Equal(t, "ela:0x02E8AD0687D583e2F6A7e5b82144025f30e26aA0:order_bid:0xabc:2", jetstream.MessageID(testEvent()))
}

func TestNewPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("connects and ensures the stream", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		natsJS := mocks.NewMockNatsJetStream(ctrl)
		nc := mocks.NewMockNatsConn(ctrl)
		js := mocks.NewMockJetStream(ctrl)

		natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(nc, js, nil)
		js.EXPECT().EnsureStream(ctx, "CHAIN_EVENTS", []string{"events.>"}).Return(nil)

		pub, err := jetstream.NewPublisher(ctx, testConfig, natsJS, adapter.NewJSON())
		require.NoError(t, err)
		require.NotNil(t, pub)

		nc.EXPECT().Close()
		pub.Close()
	})

	t.Run("connection failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		natsJS := mocks.NewMockNatsJetStream(ctrl)

		natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(nil, nil, errors.New("no servers available"))

		_, err := jetstream.NewPublisher(ctx, testConfig, natsJS, adapter.NewJSON())
		assert.ErrorContains(t, err, "no servers available")
	})

	t.Run("stream failure closes the connection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		natsJS := mocks.NewMockNatsJetStream(ctrl)
		nc := mocks.NewMockNatsConn(ctrl)
		js := mocks.NewMockJetStream(ctrl)

		natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(nc, js, nil)
		js.EXPECT().EnsureStream(ctx, "CHAIN_EVENTS", []string{"events.>"}).Return(errors.New("insufficient resources"))
		nc.EXPECT().Close()

		_, err := jetstream.NewPublisher(ctx, testConfig, natsJS, adapter.NewJSON())
		assert.ErrorContains(t, err, "insufficient resources")
	})
}

func TestPublisher_PublishEvent(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	natsJS := mocks.NewMockNatsJetStream(ctrl)
	nc := mocks.NewMockNatsConn(ctrl)
	js := mocks.NewMockJetStream(ctrl)

	natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(nc, js, nil)
	js.EXPECT().EnsureStream(ctx, gomock.Any(), gomock.Any()).Return(nil)

	pub, err := jetstream.NewPublisher(ctx, testConfig, natsJS, adapter.NewJSON())
	require.NoError(t, err)

	t.Run("publishes on the chain and kind subject", func(t *testing.T) {
		js.EXPECT().Publish(ctx, "events.ela.order_bid", gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, data []byte, opts ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
				assert.Contains(t, string(data), `"event_kind":"order_bid"`)
				assert.Contains(t, string(data), `"block_number":105`)
				assert.Len(t, opts, 1)
				return &natsjs.PubAck{Stream: "CHAIN_EVENTS", Sequence: 1}, nil
			})

		require.NoError(t, pub.PublishEvent(ctx, testEvent()))
	})

	t.Run("publish failure", func(t *testing.T) {
		js.EXPECT().Publish(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		err := pub.PublishEvent(ctx, testEvent())
		assert.ErrorContains(t, err, "failed to publish event")
	})
}
