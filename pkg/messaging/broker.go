package messaging

import "context"

// Broker publishes domain events to interested subscribers. Delivery beyond
// publish is out of scope for this service.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// NoopBroker discards every publish. Used when no broker is configured and in tests.
type NoopBroker struct{}

func NewNoopBroker() *NoopBroker { return &NoopBroker{} }

func (NoopBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	return nil
}

func (NoopBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte)
	close(ch)
	return ch, nil
}

func (NoopBroker) Close() error { return nil }
