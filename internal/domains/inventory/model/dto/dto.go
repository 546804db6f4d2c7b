package dto

import (
	"innkeep/internal/domains/inventory/model"
	"innkeep/shared/constant"
	"innkeep/shared/timezone"
)

type RoomClassRequest struct {
	RoomType     string `json:"room_type"      validate:"required,oneof=AC NON_AC"`
	TotalRooms   int    `json:"total_rooms"    validate:"gte=0"`
	CostPerNight int64  `json:"cost_per_night" validate:"gte=0"`
}

func (r *RoomClassRequest) ToModel(hotelID string) model.RoomClass {
	return model.RoomClass{
		HotelID:      hotelID,
		RoomType:     model.RoomType(r.RoomType),
		TotalRooms:   r.TotalRooms,
		CostPerNight: r.CostPerNight,
	}
}

type RoomClassResponse struct {
	RoomType       string `json:"room_type"`
	TotalRooms     int    `json:"total_rooms"`
	AvailableRooms int    `json:"available_rooms"`
	CostPerNight   int64  `json:"cost_per_night"`
}

func (r *RoomClassResponse) FromModel(class model.RoomClass) {
	r.RoomType = string(class.RoomType)
	r.TotalRooms = class.TotalRooms
	r.AvailableRooms = class.AvailableRooms
	r.CostPerNight = class.CostPerNight
}

func FromModels(classes []model.RoomClass) []RoomClassResponse {
	res := make([]RoomClassResponse, len(classes))
	for i, class := range classes {
		res[i].FromModel(class)
	}

	return res
}

type LedgerEntryResponse struct {
	ID            string `json:"id"`
	HotelID       string `json:"hotel_id"`
	RoomType      string `json:"room_type"`
	Delta         int    `json:"delta"`
	Reason        string `json:"reason"`
	ReservationID string `json:"reservation_id"`
	CreatedAt     string `json:"created_at"`
}

func (r *LedgerEntryResponse) FromModel(entry model.LedgerEntry) {
	r.ID = entry.ID
	r.HotelID = entry.HotelID
	r.RoomType = string(entry.RoomType)
	r.Delta = entry.Delta
	r.Reason = string(entry.Reason)
	r.ReservationID = entry.ReservationID
	r.CreatedAt = timezone.Format(entry.CreatedAt, constant.DateFormat)
}

func LedgerFromModels(entries []model.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, entry := range entries {
		res[i].FromModel(entry)
	}

	return res
}
