package messaging

import "context"

// PublisherInterface defines the contract for event publishing
type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, eventData interface{}) error
	Close() error
}

// NoopPublisher dipakai bila RABBITMQ_URL tidak diset.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }

var _ PublisherInterface = NoopPublisher{}
