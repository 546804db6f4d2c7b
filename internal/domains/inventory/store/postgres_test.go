package store_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/inventory/model"
	"innkeep/internal/domains/inventory/store"
	"innkeep/shared"
	"innkeep/shared/clock"
	"innkeep/shared/constant"
	"innkeep/shared/failure"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lockQuery = "SELECT room_classes.hotel_id, room_classes.room_type, room_classes.total_rooms, room_classes.available_rooms, " +
		"room_classes.cost_per_night, room_classes.created_at, room_classes.modified_at, room_classes.created_by, room_classes.modified_by " +
		"FROM room_classes WHERE (hotel_id = $1 AND room_type = $2) FOR UPDATE"
	setAvailableQuery = "UPDATE room_classes SET available_rooms = $1, modified_at = $2, modified_by = $3 WHERE (hotel_id = $4 AND room_type = $5)"
	ledgerInsertQuery = "INSERT INTO inventory_ledger (id, hotel_id, room_type, delta, reason, reservation_id, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)"
	ledgerReadQuery   = "SELECT inventory_ledger.id, inventory_ledger.hotel_id, inventory_ledger.room_type, inventory_ledger.delta, " +
		"inventory_ledger.reason, inventory_ledger.reservation_id, inventory_ledger.created_at FROM inventory_ledger WHERE (inventory_ledger.reservation_id = $1)"
	classInsertQuery = "INSERT INTO room_classes (hotel_id, room_type, total_rooms, available_rooms, cost_per_night, " +
		"created_at, modified_at, created_by, modified_by) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)"
)

var classColumns = []string{"hotel_id", "room_type", "total_rooms", "available_rooms", "cost_per_night"}

func newPostgresStore(t *testing.T, strict bool) (store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	cfg := &config.Config{}
	cfg.Inventory.StrictRelease = strict

	clk := clock.Fixed(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

	return store.NewPostgres(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel(), cfg, clk), mock
}

func q(query string) string {
	return regexp.QuoteMeta(query)
}

func asClerk() context.Context {
	return shared.WithCaller(context.Background(), "clerk-1", constant.RoleAdmin)
}

func expectLock(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
	mock.ExpectPrepare(q(lockQuery)).
		ExpectQuery().
		WithArgs(hotelID, "AC").
		WillReturnRows(rows)
}

func classRow(total, free int) *sqlmock.Rows {
	return sqlmock.NewRows(classColumns).AddRow(hotelID, "AC", total, free, 200)
}

func TestPostgresReserve_DecrementsAndRecordsInOneTransaction(t *testing.T) {
	s, mock := newPostgresStore(t, true)

	mock.ExpectBegin()
	expectLock(mock, classRow(5, 3))
	mock.ExpectExec(q(setAvailableQuery)).
		WithArgs(int64(1), sqlmock.AnyArg(), "clerk-1", hotelID, "AC").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(ledgerInsertQuery)).
		WithArgs(sqlmock.AnyArg(), hotelID, "AC", int64(-2), "RESERVE", "res-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Reserve(asClerk(), store.Request{HotelID: hotelID, RoomType: model.RoomTypeAC, Count: 2, ReservationID: "res-1"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReserve_InsufficientRollsBackWithoutWriting(t *testing.T) {
	s, mock := newPostgresStore(t, true)

	mock.ExpectBegin()
	expectLock(mock, classRow(5, 1))
	mock.ExpectRollback()

	err := s.Reserve(asClerk(), store.Request{HotelID: hotelID, RoomType: model.RoomTypeAC, Count: 2, ReservationID: "res-1"})

	assert.ErrorIs(t, err, failure.ErrInsufficientInventory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReserve_UnknownClass(t *testing.T) {
	s, mock := newPostgresStore(t, true)

	mock.ExpectBegin()
	expectLock(mock, sqlmock.NewRows(classColumns))
	mock.ExpectRollback()

	err := s.Reserve(asClerk(), store.Request{HotelID: hotelID, RoomType: model.RoomTypeAC, Count: 1})

	assert.ErrorIs(t, err, failure.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReserve_InvalidRequestSkipsDatabase(t *testing.T) {
	s, mock := newPostgresStore(t, true)

	err := s.Reserve(asClerk(), store.Request{HotelID: hotelID, RoomType: model.RoomTypeAC, Count: 0})

	assert.ErrorIs(t, err, failure.ErrInvalidGuestOrRoomCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// expectHeld locks a class with one room reserved, held by res-1 per the ledger.
func expectHeld(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	expectLock(mock, classRow(5, 4))
	mock.ExpectPrepare(q(ledgerReadQuery)).
		ExpectQuery().
		WithArgs("res-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id", "room_type", "delta", "reason", "reservation_id"}).
			AddRow("l-1", hotelID, "AC", -1, "RESERVE", "res-1"))
}

func TestPostgresRelease_WithinHolding(t *testing.T) {
	s, mock := newPostgresStore(t, true)

	expectHeld(mock)
	mock.ExpectExec(q(setAvailableQuery)).
		WithArgs(int64(5), sqlmock.AnyArg(), "clerk-1", hotelID, "AC").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(ledgerInsertQuery)).
		WithArgs(sqlmock.AnyArg(), hotelID, "AC", int64(1), "RELEASE", "res-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Release(asClerk(), store.Request{HotelID: hotelID, RoomType: model.RoomTypeAC, Count: 1, ReservationID: "res-1"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRelease_StrictOverReleaseWritesNothing(t *testing.T) {
	s, mock := newPostgresStore(t, true)

	expectHeld(mock)
	mock.ExpectRollback()

	err := s.Release(asClerk(), store.Request{HotelID: hotelID, RoomType: model.RoomTypeAC, Count: 2, ReservationID: "res-1"})

	assert.ErrorIs(t, err, failure.ErrInvariantViolation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRelease_LenientClampsToHolding(t *testing.T) {
	s, mock := newPostgresStore(t, false)

	expectHeld(mock)
	mock.ExpectExec(q(setAvailableQuery)).
		WithArgs(int64(5), sqlmock.AnyArg(), "clerk-1", hotelID, "AC").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(ledgerInsertQuery)).
		WithArgs(sqlmock.AnyArg(), hotelID, "AC", int64(1), "RELEASE", "res-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Release(asClerk(), store.Request{HotelID: hotelID, RoomType: model.RoomTypeAC, Count: 2, ReservationID: "res-1"})

	assert.ErrorIs(t, err, failure.ErrInvariantViolation, "the clamp is still reported")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresConfigure_ResizeKeepsReserved(t *testing.T) {
	s, mock := newPostgresStore(t, true)

	mock.ExpectBegin()
	expectLock(mock, classRow(5, 2))
	mock.ExpectExec(q("UPDATE room_classes SET available_rooms = $1, cost_per_night = $2, modified_at = $3, modified_by = $4, total_rooms = $5 " +
		"WHERE (hotel_id = $6 AND room_type = $7)")).
		WithArgs(int64(5), int64(250), sqlmock.AnyArg(), "clerk-1", int64(8), hotelID, "AC").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := s.Configure(asClerk(), model.RoomClass{HotelID: hotelID, RoomType: model.RoomTypeAC, TotalRooms: 8, CostPerNight: 250})

	require.NoError(t, err)
	assert.Equal(t, 8, got.TotalRooms)
	assert.Equal(t, 5, got.AvailableRooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresConfigure_ShrinkBelowReservedRollsBack(t *testing.T) {
	s, mock := newPostgresStore(t, true)

	mock.ExpectBegin()
	expectLock(mock, classRow(5, 2))
	mock.ExpectRollback()

	_, err := s.Configure(asClerk(), model.RoomClass{HotelID: hotelID, RoomType: model.RoomTypeAC, TotalRooms: 2, CostPerNight: 200})

	assert.ErrorIs(t, err, failure.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresConfigure_MapsConstraintErrors(t *testing.T) {
	tests := []struct {
		name string
		err  *pq.Error
		want error
	}{
		{name: "concurrent create", err: &pq.Error{Code: constant.PqErrorCodeUniqueViolation}, want: failure.ErrConflict},
		{name: "missing hotel", err: &pq.Error{Code: constant.PqErrorCodeFkViolation}, want: failure.ErrNotFound},
		{name: "check constraint", err: &pq.Error{Code: constant.PqErrorCodeCheckViolation, Constraint: "room_classes_available_check"}, want: failure.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newPostgresStore(t, true)

			mock.ExpectBegin()
			expectLock(mock, sqlmock.NewRows(classColumns))
			mock.ExpectExec(q(classInsertQuery)).
				WithArgs(hotelID, "AC", int64(4), int64(4), int64(200), sqlmock.AnyArg(), sqlmock.AnyArg(), "clerk-1", "clerk-1").
				WillReturnError(tt.err)
			mock.ExpectRollback()

			_, err := s.Configure(asClerk(), model.RoomClass{HotelID: hotelID, RoomType: model.RoomTypeAC, TotalRooms: 4, CostPerNight: 200})

			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("constraint name in message", func(t *testing.T) {
		s, mock := newPostgresStore(t, true)

		mock.ExpectBegin()
		expectLock(mock, sqlmock.NewRows(classColumns))
		mock.ExpectExec(q(classInsertQuery)).
			WillReturnError(&pq.Error{Code: constant.PqErrorCodeCheckViolation, Constraint: "room_classes_cost_check"})
		mock.ExpectRollback()

		_, err := s.Configure(asClerk(), model.RoomClass{HotelID: hotelID, RoomType: model.RoomTypeAC, TotalRooms: 4, CostPerNight: 200})

		assert.ErrorContains(t, err, "room_classes_cost_check")
	})
}
