package dto

import (
	"time"

	"innkeep/internal/domains/hotel/model"
	invDto "innkeep/internal/domains/inventory/model/dto"
	"innkeep/shared"
	gDto "innkeep/shared/dto"
	gModel "innkeep/shared/model"

	"github.com/google/uuid"
)

type CreateHotelRequest struct {
	Name        string                    `json:"name"         validate:"required,max=150"`
	Address     string                    `json:"address"      validate:"omitempty,max=255"`
	City        string                    `json:"city"         validate:"required,max=100"`
	State       string                    `json:"state"        validate:"omitempty,max=100"`
	Country     string                    `json:"country"      validate:"required,max=100"`
	Description string                    `json:"description"  validate:"omitempty,max=2000"`
	Rating      float64                   `json:"rating"       validate:"gte=0,lte=5"`
	RoomClasses []invDto.RoomClassRequest `json:"room_classes" validate:"omitempty,dive"`
}

func (c *CreateHotelRequest) ToModel(user string, at time.Time) model.Hotel {
	return model.Hotel{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Address:     c.Address,
		City:        c.City,
		State:       c.State,
		Country:     c.Country,
		Description: c.Description,
		Rating:      c.Rating,
		Active:      true,
		Metadata:    gModel.NewMetadata(user, at),
	}
}

type UpdateHotelRequest struct {
	Name        string                    `db:"name"        json:"name"         validate:"omitempty,max=150"`
	Address     string                    `db:"address"     json:"address"      validate:"omitempty,max=255"`
	City        string                    `db:"city"        json:"city"         validate:"omitempty,max=100"`
	State       string                    `db:"state"       json:"state"        validate:"omitempty,max=100"`
	Country     string                    `db:"country"     json:"country"      validate:"omitempty,max=100"`
	Description string                    `db:"description" json:"description"  validate:"omitempty,max=2000"`
	Rating      *float64                  `db:"rating"      json:"rating"       validate:"omitempty,gte=0,lte=5"`
	Active      *bool                     `db:"active"      json:"active"       validate:"omitempty"`
	RoomClasses []invDto.RoomClassRequest `db:"-"           json:"room_classes" validate:"omitempty,dive"`
}

func (u *UpdateHotelRequest) Empty() bool {
	return u.Name == "" && u.Address == "" && u.City == "" && u.State == "" && u.Country == "" &&
		u.Description == "" && u.Rating == nil && u.Active == nil && len(u.RoomClasses) == 0
}

type HotelResponse struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Address     string                     `json:"address"`
	City        string                     `json:"city"`
	State       string                     `json:"state"`
	Country     string                     `json:"country"`
	Description string                     `json:"description"`
	Rating      float64                    `json:"rating"`
	Active      bool                       `json:"active"`
	RoomClasses []invDto.RoomClassResponse `json:"room_classes,omitempty"`
	gDto.Metadata
}

func (r *HotelResponse) FromModel(model model.Hotel) {
	r.ID = model.ID
	r.Name = model.Name
	r.Address = model.Address
	r.City = model.City
	r.State = model.State
	r.Country = model.Country
	r.Description = model.Description
	r.Rating = model.Rating
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetHotelsResponse struct {
	Hotels    []HotelResponse `json:"hotels"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetHotelsResponse) FromModels(models []model.Hotel, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Hotels = make([]HotelResponse, len(models))
	for i, mod := range models {
		r.Hotels[i].FromModel(mod)
	}
}

type AvailabilityResponse struct {
	HotelID     string                     `json:"hotel_id"`
	RoomClasses []invDto.RoomClassResponse `json:"room_classes"`
}

// Query carries the simple listing filters. Empty fields are ignored.
type Query struct {
	Name    string
	City    string
	State   string
	Country string
	Active  *bool
}

func (q Query) Filter() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if q.Name != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldName, Operator: gDto.FilterOperatorLike, Value: q.Name, Table: model.TableName})
	}

	equals := []struct{ field, value string }{
		{model.FieldCity, q.City},
		{model.FieldState, q.State},
		{model.FieldCountry, q.Country},
	}

	for _, eq := range equals {
		if eq.value != "" {
			group.Filters = append(group.Filters, gDto.Filter{Field: eq.field, Operator: gDto.FilterOperatorEq, Value: eq.value, Table: model.TableName})
		}
	}

	if q.Active != nil {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldActive, Operator: gDto.FilterOperatorEq, Value: *q.Active, Table: model.TableName})
	}

	return group
}
