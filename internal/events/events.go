// Package events publishes reservation lifecycle changes to Kafka.
package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innkeep/config"
	"innkeep/infras/kafka"
	"innkeep/infras/otel"
	"innkeep/internal/domains/reservation/model"
	"innkeep/shared/constant"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

const breakerName = "reservation-events"

var ErrUnavailable = errors.New("event publisher unavailable")

type Type string

const (
	TypeCreated   Type = "reservation.created"
	TypeConfirmed Type = "reservation.confirmed"
	TypeEdited    Type = "reservation.edited"
	TypeCancelled Type = "reservation.cancelled"
	TypeCompleted Type = "reservation.completed"
	TypeArchived  Type = "reservation.archived"
)

type Event struct {
	Type           Type      `json:"type"`
	ReservationID  string    `json:"reservation_id"`
	HotelID        string    `json:"hotel_id"`
	UserID         string    `json:"user_id"`
	Status         string    `json:"status"`
	TotalCost      int64     `json:"total_cost"`
	RefundedAmount *int64    `json:"refunded_amount,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func FromReservation(eventType Type, reservation model.Reservation, at time.Time) Event {
	return Event{
		Type:           eventType,
		ReservationID:  reservation.ID,
		HotelID:        reservation.HotelID,
		UserID:         reservation.UserID,
		Status:         string(reservation.Status),
		TotalCost:      reservation.TotalCost,
		RefundedAmount: reservation.RefundedAmount,
		OccurredAt:     at,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type kafkaPublisher struct {
	client  kafka.Client
	topic   string
	breaker *gobreaker.CircuitBreaker
	otel    otel.Otel
}

// New returns a Kafka publisher, or a no-op one when no brokers are configured.
func New(client kafka.Client, cfg *config.Config, otl otel.Otel) Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn().Msg("no kafka brokers configured, reservation events are discarded")

		return Noop{}
	}

	return NewKafkaPublisher(client, cfg, otl)
}

func NewKafkaPublisher(client kafka.Client, cfg *config.Config, otl otel.Otel) Publisher {
	maxFailures := cfg.Kafka.Breaker.MaxFailures

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    breakerName,
		Timeout: time.Duration(cfg.Kafka.Breaker.TimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return maxFailures > 0 && counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})

	return &kafkaPublisher{
		client:  client,
		topic:   cfg.Kafka.Topic.Reservation,
		breaker: breaker,
		otel:    otl,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("event.type", string(event.Type))

	_, err = p.breaker.Execute(func() (interface{}, error) {
		return nil, p.client.SendMessages(ctx, p.topic, kafka.Message{Key: event.ReservationID, Value: event})
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	return nil
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error {
	return nil
}
