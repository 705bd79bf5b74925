package kafka

import (
	"context"

	"github.com/iwtcode/chathubService/internal/config"
	"github.com/iwtcode/chathubService/internal/interfaces"

	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
}

// NewEventProducer создает продюсер для зеркалирования событий сессий.
// Если зеркалирование выключено в конфигурации, возвращается no-op реализация.
func NewEventProducer(cfg *config.AppConfig) (interfaces.EventProducer, error) {
	if !cfg.Kafka.Enable {
		return &nopProducer{}, nil
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Broker),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{writer: writer}, nil
}

// Produce отправляет событие в Kafka
func (p *KafkaProducer) Produce(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx,
		kafka.Message{
			Key:   key,
			Value: value,
		},
	)
}

// Close закрывает соединение с Kafka
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

type nopProducer struct{}

func (*nopProducer) Produce(context.Context, []byte, []byte) error { return nil }
func (*nopProducer) Close() error                                  { return nil }
