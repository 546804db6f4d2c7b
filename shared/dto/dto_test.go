package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"innkeep/shared/constant"
	"innkeep/shared/dto"
	"innkeep/shared/model"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.NewMetadata("admin-1", at))

	assert.NotEmpty(t, metadata.CreatedAt)
	assert.Equal(t, metadata.CreatedAt, metadata.ModifiedAt)
	assert.Equal(t, "admin-1", metadata.CreatedBy)
	assert.Equal(t, "admin-1", metadata.ModifiedBy)

	empty := dto.Metadata{}
	empty.FromModel(model.Metadata{CreatedBy: "system"})

	assert.Empty(t, empty.CreatedAt)
	assert.Equal(t, "system", empty.CreatedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "all parameters",
			url:      "/v1/reservations?page=2&limit=20&sort_by=check_in_date&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "check_in_date", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults",
			url:            "/v1/reservations",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "limit capped",
			url:      "/v1/reservations?limit=5000",
			expected: dto.QueryParams{Limit: dto.MaxLimit},
		},
		{
			name:     "invalid numbers ignored",
			url:      "/v1/reservations?page=-1&limit=abc&sort_dir=sideways",
			expected: dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := dto.QueryParams{}
			params.FromRequest(httptest.NewRequest("GET", tt.url, nil), tt.defaultRequest)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestQueryParams_Offset(t *testing.T) {
	assert.Equal(t, 0, (&dto.QueryParams{Page: 0, Limit: 10}).Offset())
	assert.Equal(t, 0, (&dto.QueryParams{Page: 1, Limit: 10}).Offset())
	assert.Equal(t, 20, (&dto.QueryParams{Page: 3, Limit: 10}).Offset())
}

func TestQueryParams_Sanitize(t *testing.T) {
	params := dto.QueryParams{SortBy: "total_cost; DROP TABLE reservations", SortDir: "ASC"}
	params.Sanitize("created_at", "total_cost")

	assert.Equal(t, constant.DefaultValueSortBy, params.SortBy)
	assert.Equal(t, dto.SortDirAsc, params.SortDir)

	params = dto.QueryParams{SortBy: "total_cost"}
	params.Sanitize("created_at", "total_cost")

	assert.Equal(t, "total_cost", params.SortBy)
	assert.Equal(t, constant.DefaultValueSortDir, params.SortDir)
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: []string{"PENDING", "CONFIRMED"}, Table: "reservations"},
			dto.Filter{Field: "check_out_date", Operator: dto.FilterOperatorLess, Value: "2025-01-01"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "version", ArgName: "current_version", Operator: dto.FilterOperatorEq, Value: 3},
					dto.Filter{Field: "refunded_amount", Operator: dto.FilterIsNull},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t,
		"(reservations.status IN (:status_0, :status_1) AND check_out_date < :check_out_date AND (version = :current_version OR refunded_amount IS NULL))",
		where)
	assert.Equal(t, map[string]any{
		"status_0":        "PENDING",
		"status_1":        "CONFIRMED",
		"check_out_date":  "2025-01-01",
		"current_version": 3,
	}, args)
}

func TestFilter_Operators(t *testing.T) {
	tests := []struct {
		operator string
		want     string
	}{
		{dto.FilterOperatorEq, "hotel_id = :hotel_id"},
		{dto.FilterOperatorNotEq, "hotel_id != :hotel_id"},
		{dto.FilterOperatorLessEq, "hotel_id <= :hotel_id"},
		{dto.FilterOperatorGreaterEq, "hotel_id >= :hotel_id"},
		{dto.FilterOperatorGreater, "hotel_id > :hotel_id"},
		{dto.FilterOperatorLike, "LOWER(hotel_id) LIKE LOWER(:hotel_id)"},
		{dto.FilterIsNotNull, "hotel_id IS NOT NULL"},
		{dto.FilterOperatorIn, "hotel_id IN (:hotel_id)"},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.operator, func(t *testing.T) {
			filter := dto.Filter{Field: "hotel_id", Operator: tt.operator, Value: "h-1"}
			where, _ := filter.GetWhereClause()

			assert.Equal(t, tt.want, where)
		})
	}
}

func TestFilter_EmptyIn(t *testing.T) {
	filter := dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: []string{}}
	where, args := filter.GetWhereClause()

	assert.Equal(t, "FALSE", where)
	assert.Empty(t, args)
}
