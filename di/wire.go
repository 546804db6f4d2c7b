//go:build wireinject
// +build wireinject

package di

import (
	"innkeep/config"
	"innkeep/infras/jwt"
	"innkeep/infras/kafka"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/infras/redis"
	"innkeep/infras/s3"
	"innkeep/internal/events"
	"innkeep/internal/workers/payment"
	"innkeep/internal/workers/sweeper"
	"innkeep/permissions"
	"innkeep/shared/cache"
	"innkeep/shared/clock"
	"innkeep/transport/http"
	"innkeep/transport/http/middleware"
	"innkeep/transport/http/router"

	hotelRepository "innkeep/internal/domains/hotel/repository"
	hotelService "innkeep/internal/domains/hotel/service"
	inventoryStore "innkeep/internal/domains/inventory/store"
	reservationRepository "innkeep/internal/domains/reservation/repository"
	reservationService "innkeep/internal/domains/reservation/service"
	hotelHandler "innkeep/internal/handlers/hotel"
	reservationHandler "innkeep/internal/handlers/reservation"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	clock.New,
	events.New,
)

var inventoryDomain = wire.NewSet(
	inventoryStore.NewPostgres,
)

var hotelDomain = wire.NewSet(
	hotelRepository.New,
	hotelService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var domains = wire.NewSet(
	inventoryDomain,
	hotelDomain,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	hotelHandler.New,
	reservationHandler.New,
	router.New,
)

var workers = wire.NewSet(
	sweeper.New,
	payment.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeApplication() *Application {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		workers,
		http.New,
		wire.Struct(new(Application), "*"),
	)

	return &Application{}
}
