package contracts

import "context"

// EventPublisher delivers JSON messages to a named queue.
type EventPublisher interface {
	Publish(ctx context.Context, queueName string, payload interface{}) error
}
