package store

import (
	"context"
	"errors"
	"fmt"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/inventory/model"
	"innkeep/shared"
	"innkeep/shared/clock"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/logger"
	gModel "innkeep/shared/model"
	gRepo "innkeep/shared/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const lockSuffix = "FOR UPDATE"

type postgresStore struct {
	classes gRepo.Repository[model.RoomClass]
	ledger  gRepo.Repository[model.LedgerEntry]
	db      *postgres.Connection
	otel    otel.Otel
	clock   clock.Clock
	strict  bool
}

// NewPostgres keeps counters in room_classes, serialising changes per row with SELECT ... FOR UPDATE.
func NewPostgres(db *postgres.Connection, otl otel.Otel, cfg *config.Config, clk clock.Clock) Store {
	return &postgresStore{
		classes: gRepo.NewRepository[model.RoomClass](model.EntityName, model.TableName, model.FieldHotelID, db, otl),
		ledger:  gRepo.NewRepository[model.LedgerEntry](model.LedgerEntityName, model.LedgerTableName, model.FieldID, db, otl),
		db:      db,
		otel:    otl,
		clock:   clk,
		strict:  cfg.Inventory.StrictRelease,
	}
}

func classFilter(hotelID string, roomType model.RoomType) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldHotelID, Operator: gDto.FilterOperatorEq, Value: hotelID},
			gDto.Filter{Field: model.FieldRoomType, Operator: gDto.FilterOperatorEq, Value: string(roomType)},
		},
	}
}

func (s *postgresStore) lockClass(ctx context.Context, tx *sqlx.Tx, hotelID string, roomType model.RoomType) (model.RoomClass, bool, error) {
	classes, err := s.classes.GetAllTx(ctx, tx, classFilter(hotelID, roomType), lockSuffix)
	if err != nil {
		return model.RoomClass{}, false, fmt.Errorf("failed to lock room class: %w", err)
	}

	if len(classes) == 0 {
		return model.RoomClass{}, false, nil
	}

	return classes[0], true, nil
}

func (s *postgresStore) setAvailable(ctx context.Context, tx *sqlx.Tx, class model.RoomClass, available int) error {
	mod := map[string]any{
		model.FieldAvailableRooms: available,
		constant.FieldModifiedAt:  s.clock.Now(),
		constant.FieldModifiedBy:  shared.CallerFromContext(ctx).UserID,
	}

	return s.classes.UpdateTx(ctx, tx, mod, classFilter(class.HotelID, class.RoomType)) //nolint:wrapcheck
}

func (s *postgresStore) appendLedger(ctx context.Context, tx *sqlx.Tx, req Request, delta int, reason model.Reason) error {
	return s.ledger.InsertTx(ctx, tx, model.LedgerEntry{ //nolint:wrapcheck
		ID:            uuid.NewString(),
		HotelID:       req.HotelID,
		RoomType:      req.RoomType,
		Delta:         delta,
		Reason:        reason,
		ReservationID: req.ReservationID,
		CreatedAt:     s.clock.Now(),
	})
}

func (s *postgresStore) Reserve(ctx context.Context, req Request) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".Reserve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.validate(); err != nil {
		return err
	}

	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		class, found, err := s.lockClass(ctx, tx, req.HotelID, req.RoomType)
		if err != nil {
			return err
		}

		if !found {
			return failure.NotFound(fmt.Sprintf("%s rooms at hotel %s", req.RoomType, req.HotelID))
		}

		if err = admitReserve(class, req); err != nil {
			return err
		}

		if err = s.setAvailable(ctx, tx, class, class.AvailableRooms-req.Count); err != nil {
			return err
		}

		return s.appendLedger(ctx, tx, req, -req.Count, model.ReasonReserve)
	})
}

func (s *postgresStore) Release(ctx context.Context, req Request) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".Release")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.validate(); err != nil {
		return err
	}

	var violation error

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		class, found, err := s.lockClass(ctx, tx, req.HotelID, req.RoomType)
		if err != nil {
			return err
		}

		if !found {
			return failure.NotFound(fmt.Sprintf("%s rooms at hotel %s", req.RoomType, req.HotelID))
		}

		held := 0

		if req.ReservationID != constant.Empty {
			entries, err := s.ledger.GetAllTx(ctx, tx, ledgerFilter(req.ReservationID), constant.Empty)
			if err != nil {
				return fmt.Errorf("failed to read reservation ledger: %w", err)
			}

			held = model.Held(entries, req.HotelID, req.RoomType)
		}

		apply, admitErr := admitRelease(class, held, req, s.strict)
		if admitErr != nil {
			violation = admitErr

			logger.Alert(admitErr).
				Str("hotel_id", req.HotelID).
				Str("room_type", string(req.RoomType)).
				Str("reservation_id", req.ReservationID).
				Int("count", req.Count).
				Int("applied", apply).
				Msg("inventory release rejected")
		}

		if apply == 0 {
			return violation
		}

		if err = s.setAvailable(ctx, tx, class, class.AvailableRooms+apply); err != nil {
			return err
		}

		return s.appendLedger(ctx, tx, Request{
			HotelID:       req.HotelID,
			RoomType:      req.RoomType,
			Count:         apply,
			ReservationID: req.ReservationID,
		}, apply, model.ReasonRelease)
	})
	if err != nil {
		return err
	}

	return violation
}

func (s *postgresStore) Configure(ctx context.Context, next model.RoomClass) (res model.RoomClass, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".Configure")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validateClass(next); err != nil {
		return res, err
	}

	user := shared.CallerFromContext(ctx).UserID
	now := s.clock.Now()

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, found, err := s.lockClass(ctx, tx, next.HotelID, next.RoomType)
		if err != nil {
			return err
		}

		if !found {
			res = next
			res.AvailableRooms = next.TotalRooms
			res.Metadata = gModel.NewMetadata(user, now)

			return s.classes.InsertTx(ctx, tx, res) //nolint:wrapcheck
		}

		res, err = resize(current, next)
		if err != nil {
			return err
		}

		mod := map[string]any{
			model.FieldTotalRooms:     res.TotalRooms,
			model.FieldAvailableRooms: res.AvailableRooms,
			model.FieldCostPerNight:   res.CostPerNight,
			constant.FieldModifiedAt:  now,
			constant.FieldModifiedBy:  user,
		}

		return s.classes.UpdateTx(ctx, tx, mod, classFilter(next.HotelID, next.RoomType)) //nolint:wrapcheck
	})

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case constant.PqErrorCodeUniqueViolation:
			return res, failure.Wrap(failure.ErrConflict, "%s rooms at hotel %s were configured concurrently", next.RoomType, next.HotelID)
		case constant.PqErrorCodeFkViolation:
			return res, failure.Wrap(failure.ErrNotFound, "hotel %s", next.HotelID)
		case constant.PqErrorCodeCheckViolation:
			return res, failure.Wrap(failure.ErrInvalidInput, "room class %s violates %s", next.RoomType, pqErr.Constraint)
		}
	}

	if err != nil {
		log.Error().Err(err).Str("hotel_id", next.HotelID).Msg("failed to configure room class")

		return res, err
	}

	return res, nil
}

func (s *postgresStore) Get(ctx context.Context, hotelID string) (res []model.RoomClass, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := gDto.QueryParams{SortBy: model.FieldRoomType, SortDir: gDto.SortDirAsc}

	res, err = s.classes.GetAll(ctx, params, shared.FilterByID(hotelID, model.FieldHotelID, model.TableName))
	if err != nil {
		return nil, fmt.Errorf("failed to get room classes: %w", err)
	}

	return res, nil
}

func (s *postgresStore) GetClass(ctx context.Context, hotelID string, roomType model.RoomType) (res model.RoomClass, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".GetClass")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = s.classes.Get(ctx, classFilter(hotelID, roomType))
	if err != nil {
		return res, fmt.Errorf("failed to get room class: %w", err)
	}

	if res.HotelID == constant.Empty {
		return res, failure.NotFound(fmt.Sprintf("%s rooms at hotel %s", roomType, hotelID))
	}

	return res, nil
}

func (s *postgresStore) Ledger(ctx context.Context, reservationID string) (res []model.LedgerEntry, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".Ledger")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := gDto.QueryParams{SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	res, err = s.ledger.GetAll(ctx, params, ledgerFilter(reservationID))
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory ledger: %w", err)
	}

	return res, nil
}

func ledgerFilter(reservationID string) gDto.FilterGroup {
	return shared.FilterByID(reservationID, model.FieldReservationID, model.LedgerTableName)
}
