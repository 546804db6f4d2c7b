package model

import (
	"slices"
	"time"

	invModel "innkeep/internal/domains/inventory/model"
	"innkeep/internal/domains/refund"
	"innkeep/shared/constant"
	"innkeep/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID               = "id"
	FieldHotelID          = "hotel_id"
	FieldUserID           = "user_id"
	FieldCheckInDate      = "check_in_date"
	FieldCheckOutDate     = "check_out_date"
	FieldNumberOfGuests   = "number_of_guests"
	FieldNumberOfRooms    = "number_of_rooms"
	FieldRoomType         = "room_type"
	FieldSpecialRequests  = "special_requests"
	FieldTotalCost        = "total_cost"
	FieldStatus           = "status"
	FieldRefundedAmount   = "refunded_amount"
	FieldRefundPercentage = "refund_percentage"
	FieldCancelledAt      = "cancelled_at"
	FieldVersion          = "version"
)

// SortableFields may appear in ORDER BY.
var SortableFields = []string{
	constant.FieldCreatedAt,
	constant.FieldModifiedAt,
	FieldCheckInDate,
	FieldCheckOutDate,
	FieldTotalCost,
	FieldStatus,
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

var Statuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// ActiveStatuses still hold inventory.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

func (s Status) CanTransition(to Status) bool {
	return slices.Contains(transitions[s], to)
}

func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func (s Status) Outcome() refund.Outcome {
	switch s {
	case StatusConfirmed, StatusCompleted:
		return refund.Settled
	case StatusCancelled:
		return refund.Cancelled
	default:
		return refund.Unsettled
	}
}

type Reservation struct {
	ID               string            `db:"id"`
	HotelID          string            `db:"hotel_id"`
	UserID           string            `db:"user_id"`
	CheckInDate      time.Time         `db:"check_in_date"`
	CheckOutDate     time.Time         `db:"check_out_date"`
	NumberOfGuests   int               `db:"number_of_guests"`
	NumberOfRooms    int               `db:"number_of_rooms"`
	RoomType         invModel.RoomType `db:"room_type"`
	SpecialRequests  string            `db:"special_requests"`
	TotalCost        int64             `db:"total_cost"`
	Status           Status            `db:"status"`
	RefundedAmount   *int64            `db:"refunded_amount"`
	RefundPercentage *int              `db:"refund_percentage"`
	CancelledAt      *time.Time        `db:"cancelled_at"`
	Version          int               `db:"version"`
	model.Metadata
}

func (r Reservation) Nights() int {
	return Nights(r.CheckInDate, r.CheckOutDate)
}

func (r Reservation) Refunded() int64 {
	if r.RefundedAmount == nil {
		return 0
	}

	return *r.RefundedAmount
}

// Date keeps only the calendar date of t, as UTC midnight. Stay dates are
// stored and compared in this form.
func Date(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Nights counts calendar days between the two dates, ignoring time of day.
func Nights(checkIn, checkOut time.Time) int {
	return int(Date(checkOut).Sub(Date(checkIn)).Hours() / constant.HoursInDay)
}

// TotalCost is nights x costPerNight x rooms, in minor units.
func TotalCost(nights, rooms int, costPerNight int64) int64 {
	return int64(nights) * int64(rooms) * costPerNight
}

// StatusSummary is one row of the per-status aggregate.
type StatusSummary struct {
	Status   Status `db:"status"`
	Count    int    `db:"count"`
	Gross    int64  `db:"gross"`
	Refunded int64  `db:"refunded"`
}

func (s StatusSummary) Realized() int64 {
	return refund.Realized(s.Status.Outcome(), s.Gross, s.Refunded)
}
