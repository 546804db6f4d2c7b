package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"innkeep/infras/otel/mocks"
	"innkeep/infras/postgres"
	"innkeep/shared"
	"innkeep/shared/dto"
	"innkeep/shared/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type room struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Floor int    `db:"floor"`
	Note  string `db:"-"`
}

func newRepo(t *testing.T) (repository.Repository[room], sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.NewRepository[room]("room", "rooms", "id", &postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func q(query string) string {
	return regexp.QuoteMeta(query)
}

func TestRepository_Insert(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(q("INSERT INTO rooms (id, name, floor) VALUES ($1, $2, $3)")).
		WithArgs("r-1", "Deluxe", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), room{ID: "r-1", Name: "Deluxe", Floor: 3, Note: "ignored"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetMissingRow(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(q("SELECT rooms.id, rooms.name, rooms.floor FROM rooms WHERE (rooms.id = $1)")).
		ExpectQuery().
		WithArgs("r-9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "floor"}))

	got, err := repo.Get(context.Background(), shared.FilterByID("r-9", "id", "rooms"))

	require.NoError(t, err)
	assert.Equal(t, room{}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetAllPaged(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(q("SELECT rooms.id, rooms.name, rooms.floor FROM rooms ORDER BY name ASC LIMIT $1 OFFSET $2")).
		ExpectQuery().
		WithArgs(int64(5), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "floor"}).
			AddRow("r-6", "Garden", 1).
			AddRow("r-7", "Harbour", 2))

	got, err := repo.GetAll(context.Background(), dto.QueryParams{Page: 2, Limit: 5, SortBy: "name", SortDir: dto.SortDirAsc}, dto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, []room{{ID: "r-6", Name: "Garden", Floor: 1}, {ID: "r-7", Name: "Harbour", Floor: 2}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateRows(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(q("UPDATE rooms SET name = $1 WHERE (rooms.id = $2)")).
		WithArgs("Suite", "r-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.UpdateRows(context.Background(), map[string]any{"name": "Suite"}, shared.FilterByID("r-1", "id", "rooms"))

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RequiresFilter(t *testing.T) {
	repo, mock := newRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Update(ctx, map[string]any{"name": "x"}, dto.FilterGroup{}), repository.ErrRequiredFilter)
	assert.ErrorIs(t, repo.Delete(ctx, dto.FilterGroup{}), repository.ErrRequiredFilter)

	_, err := repo.Exist(ctx, dto.FilterGroup{})
	assert.ErrorIs(t, err, repository.ErrRequiredFilter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountAndExistErrors(t *testing.T) {
	repo, mock := newRepo(t)
	ctx := context.Background()
	filter := shared.FilterByID("h-1", "hotel_id", "rooms")

	mock.ExpectPrepare(q("SELECT COUNT(rooms.id) FROM rooms WHERE (rooms.hotel_id = $1)")).
		ExpectQuery().
		WithArgs("h-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	mock.ExpectPrepare(q("SELECT EXISTS(SELECT 1 FROM rooms WHERE (rooms.hotel_id = $1))")).
		WillReturnError(errors.New("connection reset"))

	_, err = repo.Exist(ctx, filter)
	assert.ErrorContains(t, err, "failed to check exist data (room): connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
