package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Permanent marks a handler error as not worth retrying. The message is
// logged and committed. Any other error is retried until it succeeds or the
// consumer stops, and is never committed.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var permanent *backoff.PermanentError

	return errors.As(err, &permanent)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkaGo.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkaGo.Message) error
}

type retryPolicy func() backoff.BackOff

func exponential(initial, ceiling time.Duration) retryPolicy {
	return func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = initial
		b.MaxInterval = ceiling

		return b
	}
}

func consume(ctx context.Context, reader messageReader, topic string, handler Handler, policy retryPolicy) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				log.Info().Str("topic", topic).Msg("Consumer context done.")

				return
			}

			log.Error().Err(err).Str("topic", topic).Msg("Failed to read message from Kafka.")

			continue
		}

		if !handle(ctx, msg, handler, policy) {
			log.Info().Str("topic", topic).Int64("offset", msg.Offset).Msg("Consumer stopped before the message was handled, leaving it uncommitted.")

			return
		}

		if err = reader.CommitMessages(ctx, msg); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to commit Kafka message.")
		}
	}
}

// handle runs handler until it succeeds or fails permanently, and reports whether the offset may be committed.
// The reader's position has already moved past msg, so a temporary failure blocks the partition instead of skipping.
func handle(ctx context.Context, msg kafkaGo.Message, handler Handler, policy retryPolicy) bool {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, handler(ctx, msg)
	},
		backoff.WithBackOff(policy()),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Str("topic", msg.Topic).Int64("offset", msg.Offset).Dur("retry_in", next).Msg("Kafka handler failed, retrying.")
		}),
	)

	switch {
	case err == nil:
		return true
	case IsPermanent(err):
		log.Error().Err(err).Str("topic", msg.Topic).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("Dropping Kafka message after a permanent failure.")

		return true
	default:
		return false
	}
}
