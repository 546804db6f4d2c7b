package kafka

import (
	"context"

	"github.com/cenkalti/backoff/v5"
	kafkaGo "github.com/segmentio/kafka-go"
)

type MessageReader = messageReader

// ConsumeFrom runs the consume loop against reader without waiting between retries.
func ConsumeFrom(ctx context.Context, reader MessageReader, topic string, handler Handler) {
	consume(ctx, reader, topic, handler, func() backoff.BackOff { return &backoff.ZeroBackOff{} })
}

var _ MessageReader = (*kafkaGo.Reader)(nil)
