package messaging

import (
	"context"

	"github.com/feral-file/ff-chain-sync/internal/domain"
)

// Publisher defines the interface for publishing persisted chain events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent publishes a chain event
	PublishEvent(ctx context.Context, event domain.ChainEvent) error
	// Close closes the connection
	Close()
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops every event.
// It is used when no broker is configured.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishEvent(ctx context.Context, event domain.ChainEvent) error {
	return nil
}

func (nopPublisher) Close() {}
