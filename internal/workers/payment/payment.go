// Package payment turns payment-gateway outcomes into reservation confirmations.
package payment

import (
	"context"
	"errors"
	"net/http"

	"innkeep/config"
	"innkeep/infras/kafka"
	"innkeep/infras/otel"
	"innkeep/internal/domains/reservation/service"
	"innkeep/shared"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
	"innkeep/shared/validator"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const StatusSuccess = "SUCCESS"

type Event struct {
	ReservationID string `json:"reservation_id" validate:"required"`
	Amount        int64  `json:"amount"         validate:"gte=0"`
	Status        string `json:"status"         validate:"required"`
}

type Consumer struct {
	client       kafka.Client
	reservations service.Reservation
	cfg          *config.Config
	otel         otel.Otel
}

func New(client kafka.Client, reservations service.Reservation, cfg *config.Config, otel otel.Otel) *Consumer {
	return &Consumer{client: client, reservations: reservations, cfg: cfg, otel: otel}
}

// Run consumes payment events until ctx is done.
func (c *Consumer) Run(ctx context.Context) {
	if len(c.cfg.Kafka.Brokers) == 0 {
		log.Info().Msg("no kafka brokers configured, payment consumer disabled")

		return
	}

	c.client.Consume(ctx, c.cfg.Kafka.ConsumerGroup, c.cfg.Kafka.Topic.Payment, c.Handle)
}

// Handle confirms the reservation on a successful payment. A redelivered event
// for an already confirmed reservation is acknowledged without error.
// Events that can never succeed fail permanently; conflicts and outages are retried.
func (c *Consumer) Handle(ctx context.Context, msg kafkaGo.Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".payment.Handle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	event, err := kafka.Decode[Event](msg)
	if err != nil {
		return kafka.Permanent(err)
	}

	if err = validator.ValidateStruct(&event); err != nil {
		return kafka.Permanent(err)
	}

	logEvent := log.With().Str("reservation_id", event.ReservationID).Str("status", event.Status).Logger()

	if event.Status != StatusSuccess {
		logEvent.Info().Msg("payment not successful, reservation stays pending")

		return nil
	}

	_, err = c.reservations.ConfirmPayment(shared.WithSystemCaller(ctx), event.ReservationID, event.Amount)
	if errors.Is(err, failure.ErrInvalidStateTransition) {
		logEvent.Warn().Err(err).Msg("payment for a reservation that is no longer pending")

		return nil
	}

	if rejected(err) {
		return kafka.Permanent(err)
	}

	if err != nil {
		return err
	}

	logEvent.Info().Int64("amount", event.Amount).Msg("reservation confirmed by payment")

	return nil
}

// rejected reports whether the service refused the event in a way a retry cannot change.
func rejected(err error) bool {
	if err == nil || errors.Is(err, failure.ErrConflict) || !failure.IsFailure(err) {
		return false
	}

	code := failure.GetCode(err)

	return code >= http.StatusBadRequest && code < http.StatusInternalServerError
}
