package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Reservation=MockReservationService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innkeep/config"
	"innkeep/infras/otel"
	hotelModel "innkeep/internal/domains/hotel/model"
	hotelRepo "innkeep/internal/domains/hotel/repository"
	invModel "innkeep/internal/domains/inventory/model"
	invDto "innkeep/internal/domains/inventory/model/dto"
	"innkeep/internal/domains/inventory/store"
	"innkeep/internal/domains/refund"
	"innkeep/internal/domains/reservation/model"
	"innkeep/internal/domains/reservation/model/dto"
	"innkeep/internal/domains/reservation/repository"
	"innkeep/internal/events"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/clock"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/logger"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	ConfirmPayment(ctx context.Context, id string, amount int64) (dto.ReservationResponse, error)
	Edit(ctx context.Context, id string, req dto.EditReservationRequest) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, id string) (dto.ReservationResponse, error)
	Complete(ctx context.Context, id string) (dto.ReservationResponse, error)
	RefundQuote(ctx context.Context, id string) (dto.RefundQuoteResponse, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	ListByUser(ctx context.Context, userID string, params gDto.QueryParams) (dto.GetReservationsResponse, error)
	ListByHotel(ctx context.Context, hotelID string, params gDto.QueryParams) (dto.GetReservationsResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, criteria repository.Criteria) (dto.GetReservationsResponse, error)
	Stats(ctx context.Context, hotelID string) (dto.StatsResponse, error)
	Ledger(ctx context.Context, id string) ([]invDto.LedgerEntryResponse, error)
}

type limits struct {
	maxGuests, maxRooms, maxGuestsPerRoom int
}

type serviceImpl struct {
	repo      repository.Reservation
	hotels    hotelRepo.Hotel
	inventory store.Store
	publisher events.Publisher
	clock     clock.Clock
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	limits    limits
}

func New(
	repo repository.Reservation,
	hotels hotelRepo.Hotel,
	inventory store.Store,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:      repo,
		hotels:    hotels,
		inventory: inventory,
		publisher: publisher,
		clock:     clk,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		limits: limits{
			maxGuests:        orDefault(cfg.Reservation.MaxGuests, constant.DefaultMaxGuests),
			maxRooms:         orDefault(cfg.Reservation.MaxRooms, constant.DefaultMaxRooms),
			maxGuestsPerRoom: orDefault(cfg.Reservation.MaxGuestsPerRoom, constant.DefaultMaxGuestsPerRoom),
		},
	}
}

func orDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}

	return value
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	caller := shared.CallerFromContext(ctx)
	if caller.UserID == constant.Empty {
		return res, failure.Unauthorized("missing caller identity")
	}

	stay, err := req.ToStay()
	if err != nil {
		return res, failure.Wrap(failure.ErrInvalidDateRange, "%v", err)
	}

	if err = s.validateStay(stay, true); err != nil {
		return res, err
	}

	if err = s.requireActiveHotel(ctx, stay.HotelID); err != nil {
		return res, err
	}

	class, err := s.inventory.GetClass(ctx, stay.HotelID, stay.RoomType)
	if err != nil {
		return res, err
	}

	now := s.clock.Now()
	reservation := model.Reservation{
		ID:              uuid.NewString(),
		HotelID:         stay.HotelID,
		UserID:          caller.UserID,
		CheckInDate:     stay.CheckIn,
		CheckOutDate:    stay.CheckOut,
		NumberOfGuests:  stay.Guests,
		NumberOfRooms:   stay.Rooms,
		RoomType:        stay.RoomType,
		SpecialRequests: stay.SpecialRequests,
		TotalCost:       model.TotalCost(stay.Nights(), stay.Rooms, class.CostPerNight),
		Status:          model.StatusPending,
		Version:         1,
		Metadata:        gModel.NewMetadata(caller.UserID, now),
	}

	if err = s.inventory.Reserve(ctx, holding(reservation.ID, stay.HotelID, stay.RoomType, stay.Rooms)); err != nil {
		log.Warn().Err(err).Str("hotel_id", stay.HotelID).Str("room_type", string(stay.RoomType)).Msg("reservation declined")

		return res, err
	}

	if err = s.repo.Insert(ctx, reservation); err != nil {
		log.Error().Err(err).Msg("failed to create reservation")
		s.release(ctx, holding(reservation.ID, stay.HotelID, stay.RoomType, stay.Rooms))

		return res, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.publish(ctx, events.TypeCreated, reservation)
	s.invalidate(ctx, reservation.ID)

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) ConfirmPayment(ctx context.Context, id string, amount int64) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.ConfirmPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	// Payments are only reported by the payment worker or the API key caller.
	if !shared.CallerFromContext(ctx).IsSystem() {
		return res, failure.ResourceRestrictedError
	}

	reservation, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if !reservation.Status.CanTransition(model.StatusConfirmed) {
		return res, transitionError(reservation, model.StatusConfirmed)
	}

	if amount != reservation.TotalCost {
		return res, failure.Wrap(failure.ErrInvalidInput, "payment of %d does not match total cost %d", amount, reservation.TotalCost)
	}

	reservation.Status = model.StatusConfirmed

	if err = s.commit(ctx, &reservation, map[string]any{model.FieldStatus: string(model.StatusConfirmed)}); err != nil {
		return res, err
	}

	s.publish(ctx, events.TypeConfirmed, reservation)
	s.invalidate(ctx, id)

	res.FromModel(reservation)

	return res, nil
}

// Edit reserves what the new configuration needs before committing, and frees
// what the old one no longer needs only after the commit succeeded.
func (s *serviceImpl) Edit(ctx context.Context, id string, req dto.EditReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Edit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Empty() {
		return res, failure.BadRequestFromString("edit request cannot be empty")
	}

	reservation, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if reservation.Status.Terminal() {
		return res, failure.Wrap(failure.ErrInvalidStateTransition, "reservation %s is %s and can no longer be edited", id, reservation.Status)
	}

	current := dto.StayFromModel(reservation)

	next, err := req.Apply(current)
	if err != nil {
		return res, failure.Wrap(failure.ErrInvalidDateRange, "%v", err)
	}

	if err = s.validateStay(next, !next.CheckIn.Equal(current.CheckIn)); err != nil {
		return res, err
	}

	acquire, surplus := plan(id, current, next)

	totalCost := reservation.TotalCost
	if acquire.Count > 0 || surplus.Count > 0 || next.Nights() != current.Nights() {
		class, err := s.inventory.GetClass(ctx, next.HotelID, next.RoomType)
		if err != nil {
			return res, err
		}

		totalCost = model.TotalCost(next.Nights(), next.Rooms, class.CostPerNight)
	}

	if acquire.Count > 0 {
		if err = s.inventory.Reserve(ctx, acquire); err != nil {
			log.Warn().Err(err).Str("reservation_id", id).Msg("edit declined")

			return res, err
		}
	}

	reservation.CheckInDate = next.CheckIn
	reservation.CheckOutDate = next.CheckOut
	reservation.NumberOfGuests = next.Guests
	reservation.NumberOfRooms = next.Rooms
	reservation.RoomType = next.RoomType
	reservation.SpecialRequests = next.SpecialRequests
	reservation.TotalCost = totalCost

	err = s.commit(ctx, &reservation, map[string]any{
		model.FieldCheckInDate:     next.CheckIn,
		model.FieldCheckOutDate:    next.CheckOut,
		model.FieldNumberOfGuests:  next.Guests,
		model.FieldNumberOfRooms:   next.Rooms,
		model.FieldRoomType:        string(next.RoomType),
		model.FieldSpecialRequests: next.SpecialRequests,
		model.FieldTotalCost:       totalCost,
	})
	if err != nil {
		if acquire.Count > 0 {
			s.release(ctx, acquire)
		}

		return res, err
	}

	if surplus.Count > 0 {
		s.release(ctx, surplus)
	}

	s.publish(ctx, events.TypeEdited, reservation)
	s.invalidate(ctx, id)

	res.FromModel(reservation)

	return res, nil
}

// plan splits an edit into the rooms to take before committing and the rooms to give back after.
func plan(id string, current, next dto.Stay) (acquire, surplus store.Request) {
	if current.RoomType != next.RoomType {
		return holding(id, next.HotelID, next.RoomType, next.Rooms), holding(id, current.HotelID, current.RoomType, current.Rooms)
	}

	switch diff := next.Rooms - current.Rooms; {
	case diff > 0:
		acquire = holding(id, next.HotelID, next.RoomType, diff)
	case diff < 0:
		surplus = holding(id, current.HotelID, current.RoomType, -diff)
	}

	return acquire, surplus
}

// Cancel changes status first and releases only once that write won, so a
// reservation never returns its rooms twice.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reservation, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if !reservation.Status.CanTransition(model.StatusCancelled) {
		return res, transitionError(reservation, model.StatusCancelled)
	}

	cancelledAt := s.clock.Now()
	quote := refund.Compute(cancelledAt, s.checkInInstant(reservation), reservation.TotalCost)

	reservation.Status = model.StatusCancelled
	reservation.RefundedAmount = &quote.Amount
	reservation.RefundPercentage = &quote.Percentage
	reservation.CancelledAt = &cancelledAt

	err = s.commit(ctx, &reservation, map[string]any{
		model.FieldStatus:           string(model.StatusCancelled),
		model.FieldRefundedAmount:   quote.Amount,
		model.FieldRefundPercentage: quote.Percentage,
		model.FieldCancelledAt:      cancelledAt,
	})
	if err != nil {
		return res, err
	}

	s.release(ctx, holding(id, reservation.HotelID, reservation.RoomType, reservation.NumberOfRooms))

	log.Info().
		Str("reservation_id", id).
		Int("days_until_check_in", quote.DaysUntilCheckIn).
		Int("percentage", quote.Percentage).
		Int64("refund", quote.Amount).
		Msg("reservation cancelled")

	s.publish(ctx, events.TypeCancelled, reservation)
	s.invalidate(ctx, id)

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Complete(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Complete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.CallerFromContext(ctx).IsAdmin() {
		return res, failure.ResourceRestrictedError
	}

	reservation, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if !reservation.Status.CanTransition(model.StatusCompleted) {
		return res, transitionError(reservation, model.StatusCompleted)
	}

	if !model.Date(reservation.CheckOutDate).Before(model.Date(s.clock.Today())) {
		return res, failure.Wrap(failure.ErrInvalidStateTransition, "reservation %s checks out on %s", id, reservation.CheckOutDate.Format(constant.DayFormat))
	}

	reservation.Status = model.StatusCompleted

	if err = s.commit(ctx, &reservation, map[string]any{model.FieldStatus: string(model.StatusCompleted)}); err != nil {
		return res, err
	}

	s.publish(ctx, events.TypeCompleted, reservation)
	s.invalidate(ctx, id)

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) RefundQuote(ctx context.Context, id string) (res dto.RefundQuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.RefundQuote")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reservation, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if !reservation.Status.CanTransition(model.StatusCancelled) {
		return res, transitionError(reservation, model.StatusCancelled)
	}

	now := s.clock.Now()
	quote := refund.Compute(now, s.checkInInstant(reservation), reservation.TotalCost)

	return dto.RefundQuoteResponse{
		ReservationID:    id,
		TotalCost:        reservation.TotalCost,
		DaysUntilCheckIn: quote.DaysUntilCheckIn,
		Percentage:       quote.Percentage,
		RefundAmount:     quote.Amount,
		DeductedAmount:   quote.Deducted,
		QuotedAt:         timezone.Format(now, constant.DateFormat),
	}, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		if !shared.CallerFromContext(ctx).CanAccess(res.UserID) {
			return dto.ReservationResponse{}, failure.ResourceRestrictedError
		}

		return res, nil
	}

	reservation, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) ListByUser(ctx context.Context, userID string, params gDto.QueryParams) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.ListByUser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.CallerFromContext(ctx).CanAccess(userID) {
		return res, failure.ResourceRestrictedError
	}

	return s.list(ctx, params, repository.ByUser(userID))
}

func (s *serviceImpl) ListByHotel(ctx context.Context, hotelID string, params gDto.QueryParams) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.ListByHotel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.CallerFromContext(ctx).IsAdmin() {
		return res, failure.ResourceRestrictedError
	}

	return s.list(ctx, params, repository.ByHotel(hotelID))
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, criteria repository.Criteria) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.CallerFromContext(ctx).IsAdmin() {
		return res, failure.ResourceRestrictedError
	}

	if criteria.Status != constant.Empty && !criteria.Status.Valid() {
		return res, failure.Wrap(failure.ErrInvalidInput, "unknown status %q", criteria.Status)
	}

	return s.list(ctx, params, criteria.Filter())
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	params.Sanitize(model.SortableFields...)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.count(ctx, params, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Stats(ctx context.Context, hotelID string) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.CallerFromContext(ctx).IsAdmin() {
		return res, failure.ResourceRestrictedError
	}

	rows, err := s.repo.Summary(ctx, repository.Criteria{HotelID: hotelID}.Filter())
	if err != nil {
		log.Error().Err(err).Msg("failed to summarise reservations")

		return res, fmt.Errorf("failed to summarise reservations: %w", err)
	}

	res.FromSummaries(rows)

	return res, nil
}

func (s *serviceImpl) Ledger(ctx context.Context, id string) (res []invDto.LedgerEntryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Ledger")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.CallerFromContext(ctx).IsAdmin() {
		return res, failure.ResourceRestrictedError
	}

	if _, err = s.load(ctx, id); err != nil {
		return res, err
	}

	entries, err := s.inventory.Ledger(ctx, id)
	if err != nil {
		return res, fmt.Errorf("failed to get inventory ledger: %w", err)
	}

	return invDto.LedgerFromModels(entries), nil
}

// load reads the authoritative row and checks the caller may act on it.
func (s *serviceImpl) load(ctx context.Context, id string) (model.Reservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found")
	}

	if !shared.CallerFromContext(ctx).CanAccess(reservation.UserID) {
		return model.Reservation{}, failure.ResourceRestrictedError
	}

	return reservation, nil
}

// commit writes fields guarded by the version reservation was read at and
// advances reservation to the stored state.
func (s *serviceImpl) commit(ctx context.Context, reservation *model.Reservation, fields map[string]any) error {
	now := s.clock.Now()
	user := shared.CallerFromContext(ctx).UserID

	fields[constant.FieldModifiedAt] = now
	fields[constant.FieldModifiedBy] = user

	ok, err := s.repo.UpdateVersioned(ctx, reservation.ID, reservation.Version, fields)
	if err != nil {
		log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("failed to update reservation")

		return fmt.Errorf("failed to update reservation: %w", err)
	}

	if !ok {
		return failure.Wrap(failure.ErrConflict, "reservation %s was modified concurrently", reservation.ID)
	}

	reservation.Version++
	reservation.Touch(user, now)

	return nil
}

// release gives rooms back after a committed change. A failure here means the
// counter and the reservations disagree, so it is alerted rather than returned.
func (s *serviceImpl) release(ctx context.Context, req store.Request) {
	if err := s.inventory.Release(ctx, req); err != nil {
		logger.Alert(err).
			Str("reservation_id", req.ReservationID).
			Str("hotel_id", req.HotelID).
			Str("room_type", string(req.RoomType)).
			Int("count", req.Count).
			Msg("failed to release reserved rooms")
	}
}

func (s *serviceImpl) publish(ctx context.Context, eventType events.Type, reservation model.Reservation) {
	if err := s.publisher.Publish(ctx, events.FromReservation(eventType, reservation, s.clock.Now())); err != nil {
		log.Error().Err(err).Str("reservation_id", reservation.ID).Str("event", string(eventType)).Msg("failed to publish reservation event")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil && !errors.Is(err, cache.Nil) {
			log.Error().Err(err).Msg("failed to delete reservation from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}

func (s *serviceImpl) requireActiveHotel(ctx context.Context, hotelID string) error {
	hotel, err := s.hotels.Get(ctx, shared.FilterByID(hotelID, hotelModel.FieldID, hotelModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel")

		return fmt.Errorf("failed to get hotel: %w", err)
	}

	if hotel.ID == constant.Empty || !hotel.Active {
		return failure.NotFound("hotel not found")
	}

	return nil
}

// validateStay applies the date and size policy. pastGuard rejects a check-in before today.
func (s *serviceImpl) validateStay(stay dto.Stay, pastGuard bool) error {
	if !stay.CheckOut.After(stay.CheckIn) {
		return failure.Wrap(failure.ErrInvalidDateRange, "check-out %s must be after check-in %s",
			stay.CheckOut.Format(constant.DayFormat), stay.CheckIn.Format(constant.DayFormat))
	}

	if pastGuard && model.Date(stay.CheckIn).Before(model.Date(s.clock.Today())) {
		return failure.Wrap(failure.ErrInvalidDateRange, "check-in %s is in the past", stay.CheckIn.Format(constant.DayFormat))
	}

	if !stay.RoomType.Valid() {
		return failure.Wrap(failure.ErrInvalidInput, "unknown room type %q", stay.RoomType)
	}

	if stay.Guests < 1 || stay.Guests > s.limits.maxGuests {
		return failure.Wrap(failure.ErrInvalidGuestOrRoomCount, "guests must be between 1 and %d, got %d", s.limits.maxGuests, stay.Guests)
	}

	if stay.Rooms < 1 || stay.Rooms > s.limits.maxRooms {
		return failure.Wrap(failure.ErrInvalidGuestOrRoomCount, "rooms must be between 1 and %d, got %d", s.limits.maxRooms, stay.Rooms)
	}

	if stay.Guests > stay.Rooms*s.limits.maxGuestsPerRoom {
		return failure.Wrap(failure.ErrInvalidGuestOrRoomCount, "%d guests do not fit in %d rooms", stay.Guests, stay.Rooms)
	}

	return nil
}

func (s *serviceImpl) checkInInstant(reservation model.Reservation) time.Time {
	return refund.CheckInInstant(reservation.CheckInDate, s.cfg.Reservation.CheckInHour, timezone.GetLocation())
}

func holding(reservationID, hotelID string, roomType invModel.RoomType, count int) store.Request {
	return store.Request{HotelID: hotelID, RoomType: roomType, Count: count, ReservationID: reservationID}
}

func transitionError(reservation model.Reservation, to model.Status) error {
	return failure.Wrap(failure.ErrInvalidStateTransition, "reservation %s is %s, cannot become %s", reservation.ID, reservation.Status, to)
}
