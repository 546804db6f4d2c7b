package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Hotel=MockHotelService

import (
	"context"
	"errors"
	"fmt"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/domains/hotel/model"
	"innkeep/internal/domains/hotel/model/dto"
	"innkeep/internal/domains/hotel/repository"
	invDto "innkeep/internal/domains/inventory/model/dto"
	"innkeep/internal/domains/inventory/store"
	resRepo "innkeep/internal/domains/reservation/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/clock"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetHotel    = "hotel:get"
	cacheGetAllHotel = "hotel:gets"
	cacheCountHotel  = "hotel:count"
)

var errHotelNotFound = failure.NotFound("hotel not found")

type Hotel interface {
	Create(ctx context.Context, req dto.CreateHotelRequest) (dto.HotelResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetHotelsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.HotelResponse, error)
	Update(ctx context.Context, req dto.UpdateHotelRequest, id string) error
	Delete(ctx context.Context, id string) error
	Availability(ctx context.Context, id string) (dto.AvailabilityResponse, error)
}

type serviceImpl struct {
	repo         repository.Hotel
	reservations resRepo.Reservation
	inventory    store.Store
	clock        clock.Clock
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Hotel,
	reservations resRepo.Reservation,
	inventory store.Store,
	clk clock.Clock,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Hotel {
	return &serviceImpl{
		repo:         repo,
		reservations: reservations,
		inventory:    inventory,
		clock:        clk,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateHotelRequest) (res dto.HotelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := shared.CallerFromContext(ctx).UserID
	hotel := req.ToModel(user, s.clock.Now())

	if err = s.repo.Insert(ctx, hotel); err != nil {
		log.Error().Err(err).Msg("failed to create hotel")

		return res, fmt.Errorf("failed to create hotel: %w", err)
	}

	classes, err := s.configure(ctx, hotel.ID, req.RoomClasses)
	if err != nil {
		// Nothing can reference the hotel yet; its room classes cascade with it.
		if delErr := s.repo.Delete(ctx, shared.FilterByID(hotel.ID, model.FieldID, model.TableName)); delErr != nil {
			log.Error().Err(delErr).Str("hotel_id", hotel.ID).Msg("failed to remove partially created hotel")
		}

		return res, err
	}

	res.FromModel(hotel)
	res.RoomClasses = classes

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllHotel)
		shared.InvalidateCaches(c, s.cache, cacheCountHotel)
	}()

	return res, nil
}

func (s *serviceImpl) configure(ctx context.Context, hotelID string, reqs []invDto.RoomClassRequest) ([]invDto.RoomClassResponse, error) {
	res := make([]invDto.RoomClassResponse, 0, len(reqs))

	for _, req := range reqs {
		class, err := s.inventory.Configure(ctx, req.ToModel(hotelID))
		if err != nil {
			log.Error().Err(err).Str("hotel_id", hotelID).Str("room_type", req.RoomType).Msg("failed to configure room class")

			return nil, fmt.Errorf("failed to configure %s rooms: %w", req.RoomType, err)
		}

		var item invDto.RoomClassResponse
		item.FromModel(class)
		res = append(res, item)
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetHotelsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Sanitize(model.SortableFields...)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllHotel, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for hotels")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotels")

		return res, fmt.Errorf("failed to get hotels: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hotels to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountHotel, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for hotel count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count hotels")

		return res, fmt.Errorf("failed to count hotels: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hotel count to cache")
		}
	}()

	return res, nil
}

// Get serves hotel details from cache; room classes are always read live.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.HotelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetHotel, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		hotel, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get hotel")

			return res, fmt.Errorf("failed to get hotel: %w", err)
		}

		if hotel.ID == constant.Empty {
			return res, errHotelNotFound
		}

		res.FromModel(hotel)

		go func(cached dto.HotelResponse) {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, cached, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save hotel to cache")
			}
		}(res)
	}

	classes, err := s.inventory.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room classes")

		return res, fmt.Errorf("failed to get room classes: %w", err)
	}

	res.RoomClasses = invDto.FromModels(classes)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateHotelRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Empty() {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user := shared.CallerFromContext(ctx).UserID
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check hotel existence")

		return fmt.Errorf("failed to check hotel existence: %w", err)
	}

	if !exist {
		return errHotelNotFound
	}

	// Room classes go first so a refused resize leaves the hotel row untouched.
	if err = s.checkResize(ctx, id, req.RoomClasses); err != nil {
		return err
	}

	if _, err = s.configure(ctx, id, req.RoomClasses); err != nil {
		return err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update hotel")

		return fmt.Errorf("failed to update hotel: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// checkResize refuses the whole request before any class is written when one of them
// would shrink below its reserved rooms. Configure repeats the check under the row lock.
func (s *serviceImpl) checkResize(ctx context.Context, hotelID string, reqs []invDto.RoomClassRequest) error {
	if len(reqs) == 0 {
		return nil
	}

	current, err := s.inventory.Get(ctx, hotelID)
	if err != nil {
		log.Error().Err(err).Str("hotel_id", hotelID).Msg("failed to get room classes")

		return fmt.Errorf("failed to get room classes: %w", err)
	}

	for _, req := range reqs {
		for _, class := range current {
			if string(class.RoomType) != req.RoomType || req.TotalRooms >= class.Reserved() {
				continue
			}

			return failure.Wrap(failure.ErrConflict,
				"cannot shrink %s rooms at hotel %s to %d while %d are reserved", req.RoomType, hotelID, req.TotalRooms, class.Reserved())
		}
	}

	return nil
}

// Delete deactivates the hotel. Rows stay for the reservations that reference them.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if hotel exists")

		return fmt.Errorf("failed to check if hotel exists: %w", err)
	}

	if !exist {
		return errHotelNotFound
	}

	active, err := s.reservations.Exist(ctx, resRepo.ActiveAtHotel(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to check active reservations")

		return fmt.Errorf("failed to check active reservations: %w", err)
	}

	if active {
		return failure.Wrap(failure.ErrConflict, "hotel %s still has pending or confirmed reservations", id)
	}

	mod := map[string]any{
		model.FieldActive:        false,
		constant.FieldModifiedAt: s.clock.Now(),
		constant.FieldModifiedBy: shared.CallerFromContext(ctx).UserID,
	}

	if err = s.repo.Update(ctx, mod, filter); err != nil {
		log.Error().Err(err).Msg("failed to deactivate hotel")

		return fmt.Errorf("failed to deactivate hotel: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Availability(ctx context.Context, id string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".hotel.Availability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to check if hotel exists: %w", err)
	}

	if !exist {
		return res, errHotelNotFound
	}

	classes, err := s.inventory.Get(ctx, id)
	if err != nil {
		return res, fmt.Errorf("failed to get room classes: %w", err)
	}

	res.HotelID = id
	res.RoomClasses = invDto.FromModels(classes)

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetHotel, id)); err != nil && !errors.Is(err, cache.Nil) {
			log.Error().Err(err).Msg("failed to delete hotel from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllHotel)
		shared.InvalidateCaches(c, s.cache, cacheCountHotel)
	}()
}
