package consumer

import "context"

// Handler processes one message. Returned errors are logged by the consumer
// and the message is acknowledged regardless, so a poison message never
// blocks the partition.
type Handler interface {
	HandleMessage(ctx context.Context, message []byte) error
}

type HandlerFunc func(ctx context.Context, message []byte) error

func (f HandlerFunc) HandleMessage(ctx context.Context, message []byte) error {
	return f(ctx, message)
}

type Consumer interface {
	// Start returns once the first group session is established and keeps
	// consuming in the background until ctx is done or Close is called.
	Start(ctx context.Context) error
	Close() error
}
