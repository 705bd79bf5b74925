package interfaces

import (
	"context"
)

// EventProducer определяет контракт для зеркалирования событий во внешний брокер
type EventProducer interface {
	Produce(ctx context.Context, key, value []byte) error
	Close() error
}
