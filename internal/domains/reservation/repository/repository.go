package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/reservation/model"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	gRepo "innkeep/shared/repository"
)

const (
	currentVersionArg = "current_version"
	afterIDArg        = "after_id"
)

type Reservation interface {
	Insert(ctx context.Context, reservation model.Reservation) error
	GetByID(ctx context.Context, id string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// UpdateVersioned applies fields only if the row is still at version, bumping it.
	// It reports false when another writer got there first.
	UpdateVersioned(ctx context.Context, id string, version int, fields map[string]any) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Summary(ctx context.Context, filter gDto.FilterGroup) ([]model.StatusSummary, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) GetByID(ctx context.Context, id string) (model.Reservation, error) {
	return r.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
}

func (r *repositoryImpl) UpdateVersioned(ctx context.Context, id string, version int, fields map[string]any) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.UpdateVersioned")
	defer scope.End()

	mod := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		mod[key] = value
	}

	mod[model.FieldVersion] = version + 1

	affected, err := r.UpdateRows(ctx, mod, ByVersion(id, version))
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	return affected == 1, nil
}

func (r *repositoryImpl) Summary(ctx context.Context, filter gDto.FilterGroup) (res []model.StatusSummary, err error) {
	where, args := r.BuildWhereClause(filter)

	query := fmt.Sprintf(`SELECT status, COUNT(id) AS count, COALESCE(SUM(total_cost), 0) AS gross,
		COALESCE(SUM(refunded_amount), 0) AS refunded FROM %s%s GROUP BY status`, model.TableName, where)

	if err = r.Select(ctx, &res, query, args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return res, nil
}

func ByVersion(id string, version int) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: id},
			gDto.Filter{Field: model.FieldVersion, ArgName: currentVersionArg, Operator: gDto.FilterOperatorEq, Value: version},
		},
	}
}

func ByUser(userID string) gDto.FilterGroup {
	return shared.FilterByID(userID, model.FieldUserID, model.TableName)
}

func ByHotel(hotelID string) gDto.FilterGroup {
	return shared.FilterByID(hotelID, model.FieldHotelID, model.TableName)
}

// Criteria are the equality filters accepted by admin listings. Empty fields are ignored.
type Criteria struct {
	HotelID string
	UserID  string
	Status  model.Status
}

func (c Criteria) Filter() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if c.HotelID != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldHotelID, Operator: gDto.FilterOperatorEq, Value: c.HotelID, Table: model.TableName})
	}

	if c.UserID != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldUserID, Operator: gDto.FilterOperatorEq, Value: c.UserID, Table: model.TableName})
	}

	if c.Status != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: string(c.Status), Table: model.TableName})
	}

	return group
}

// Completable selects CONFIRMED reservations whose stay ended before today.
func Completable(today string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: string(model.StatusConfirmed)},
			gDto.Filter{Field: model.FieldCheckOutDate, Operator: gDto.FilterOperatorLess, Value: today},
		},
	}
}

// Archivable selects terminal reservations last touched before cutoff.
func Archivable(cutoff any) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: []string{string(model.StatusCancelled), string(model.StatusCompleted)}},
			gDto.Filter{Field: constant.FieldModifiedAt, Operator: gDto.FilterOperatorLess, Value: cutoff},
		},
	}
}

// After narrows filter to ids greater than cursor. An empty cursor leaves it unchanged.
func After(filter gDto.FilterGroup, cursor string) gDto.FilterGroup {
	if cursor == constant.Empty {
		return filter
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			filter,
			gDto.Filter{Field: model.FieldID, ArgName: afterIDArg, Operator: gDto.FilterOperatorGreater, Value: cursor},
		},
	}
}

// ActiveAtHotel selects reservations of hotelID that still hold rooms.
func ActiveAtHotel(hotelID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldHotelID, Operator: gDto.FilterOperatorEq, Value: hotelID},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: []string{string(model.StatusPending), string(model.StatusConfirmed)}},
		},
	}
}
