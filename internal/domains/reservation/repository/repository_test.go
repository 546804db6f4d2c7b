package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"innkeep/infras/otel/mocks"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/reservation/model"
	"innkeep/internal/domains/reservation/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const versionedUpdate = "UPDATE reservations SET modified_at = $1, status = $2, version = $3 WHERE (id = $4 AND version = $5)"

func newRepo(t *testing.T) (repository.Reservation, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func q(query string) string {
	return regexp.QuoteMeta(query)
}

func TestUpdateVersioned(t *testing.T) {
	fields := map[string]any{
		model.FieldStatus: string(model.StatusConfirmed),
		"modified_at":     time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "row still at version", affected: 1, want: true},
		{name: "another writer won", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)

			mock.ExpectExec(q(versionedUpdate)).
				WithArgs(sqlmock.AnyArg(), "CONFIRMED", int64(4), "r-1", int64(3)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := repo.UpdateVersioned(context.Background(), "r-1", 3, fields)

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdateVersioned_DoesNotMutateFields(t *testing.T) {
	repo, mock := newRepo(t)
	fields := map[string]any{model.FieldStatus: "CANCELLED"}

	mock.ExpectExec(q("UPDATE reservations SET status = $1, version = $2 WHERE (id = $3 AND version = $4)")).
		WithArgs("CANCELLED", int64(1), "r-2", int64(0)).
		WillReturnError(errors.New("connection reset"))

	ok, err := repo.UpdateVersioned(context.Background(), "r-2", 0, fields)

	assert.ErrorContains(t, err, "connection reset")
	assert.False(t, ok)
	assert.NotContains(t, fields, model.FieldVersion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummary(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(q("SELECT status, COUNT(id) AS count, COALESCE(SUM(total_cost), 0) AS gross, " +
		"COALESCE(SUM(refunded_amount), 0) AS refunded FROM reservations WHERE (reservations.hotel_id = $1) GROUP BY status")).
		ExpectQuery().
		WithArgs("h-1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "gross", "refunded"}).
			AddRow("CONFIRMED", 2, 1200, 0).
			AddRow("CANCELLED", 1, 600, 300))

	got, err := repo.Summary(context.Background(), repository.ByHotel("h-1"))

	require.NoError(t, err)
	assert.Equal(t, []model.StatusSummary{
		{Status: model.StatusConfirmed, Count: 2, Gross: 1200},
		{Status: model.StatusCancelled, Count: 1, Gross: 600, Refunded: 300},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummary_Unfiltered(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(q("FROM reservations GROUP BY status")).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "gross", "refunded"}))

	got, err := repo.Summary(context.Background(), repository.Criteria{}.Filter())

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAfter(t *testing.T) {
	base := repository.Completable("2025-07-01")

	unchanged := repository.After(base, "")
	assert.Equal(t, base, unchanged)

	narrowed := repository.After(base, "r-5")
	where, args := narrowed.GetWhereClause()

	assert.Equal(t, "((status = :status AND check_out_date < :check_out_date) AND id > :after_id)", where)
	assert.Equal(t, "r-5", args["after_id"])
	assert.Equal(t, "CONFIRMED", args["status"])
}
