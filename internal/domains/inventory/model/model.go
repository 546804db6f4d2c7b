package model

import (
	"time"

	"innkeep/shared/model"
)

const (
	TableName  = "room_classes"
	EntityName = "room_class"

	LedgerTableName  = "inventory_ledger"
	LedgerEntityName = "inventory_ledger"

	FieldID             = "id"
	FieldHotelID        = "hotel_id"
	FieldRoomType       = "room_type"
	FieldTotalRooms     = "total_rooms"
	FieldAvailableRooms = "available_rooms"
	FieldCostPerNight   = "cost_per_night"
	FieldReservationID  = "reservation_id"
	FieldDelta          = "delta"
	FieldReason         = "reason"
	FieldCreatedAt      = "created_at"
)

type RoomType string

const (
	RoomTypeAC    RoomType = "AC"
	RoomTypeNonAC RoomType = "NON_AC"
)

var RoomTypes = []RoomType{RoomTypeAC, RoomTypeNonAC}

func (t RoomType) Valid() bool {
	return t == RoomTypeAC || t == RoomTypeNonAC
}

// RoomClass is the availability counter for one (hotel, room type) pair.
// 0 <= AvailableRooms <= TotalRooms holds for every committed row.
type RoomClass struct {
	HotelID        string   `db:"hotel_id"`
	RoomType       RoomType `db:"room_type"`
	TotalRooms     int      `db:"total_rooms"`
	AvailableRooms int      `db:"available_rooms"`
	CostPerNight   int64    `db:"cost_per_night"`
	model.Metadata
}

func (c RoomClass) Reserved() int {
	return c.TotalRooms - c.AvailableRooms
}

func (c RoomClass) Consistent() bool {
	return c.AvailableRooms >= 0 && c.AvailableRooms <= c.TotalRooms
}

type Reason string

const (
	ReasonReserve Reason = "RESERVE"
	ReasonRelease Reason = "RELEASE"
)

// LedgerEntry records one counter change. Delta is the change applied to
// AvailableRooms: negative for a reserve, positive for a release.
type LedgerEntry struct {
	ID            string    `db:"id"`
	HotelID       string    `db:"hotel_id"`
	RoomType      RoomType  `db:"room_type"`
	Delta         int       `db:"delta"`
	Reason        Reason    `db:"reason"`
	ReservationID string    `db:"reservation_id"`
	CreatedAt     time.Time `db:"created_at"`
}

// Held sums the rooms of roomType a reservation still holds according to entries.
func Held(entries []LedgerEntry, hotelID string, roomType RoomType) int {
	held := 0

	for _, entry := range entries {
		if entry.HotelID == hotelID && entry.RoomType == roomType {
			held -= entry.Delta
		}
	}

	return held
}
