package model

import "innkeep/shared/model"

const (
	TableName  = "hotels"
	EntityName = "hotel"

	FieldID          = "id"
	FieldName        = "name"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldState       = "state"
	FieldCountry     = "country"
	FieldDescription = "description"
	FieldRating      = "rating"
	FieldActive      = "active"
)

var SortableFields = []string{"created_at", "modified_at", FieldName, FieldCity, FieldRating}

type Hotel struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Address     string  `db:"address"`
	City        string  `db:"city"`
	State       string  `db:"state"`
	Country     string  `db:"country"`
	Description string  `db:"description"`
	Rating      float64 `db:"rating"`
	Active      bool    `db:"active"`
	model.Metadata
}
