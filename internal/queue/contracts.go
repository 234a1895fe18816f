package queue

import (
	"context"

	"github.com/femivideograph/script-ai-worker/internal/domain"
)

// Producer sends start signals to a queue backend. Delivery is
// at-least-once; consumers must tolerate duplicates.
type Producer interface {
	Enqueue(ctx context.Context, signal domain.StartSignal) error
}

// Consumer receives start signals and executes handlers.
type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, domain.StartSignal) error) error
}
