package di

import (
	"innkeep/infras/kafka"
	"innkeep/internal/workers/payment"
	"innkeep/internal/workers/sweeper"
	"innkeep/transport/http"
)

// Application is everything cmd/app runs side by side.
type Application struct {
	HTTP     *http.HTTP
	Sweeper  *sweeper.Sweeper
	Payments *payment.Consumer
	Kafka    kafka.Client
}
