package dto

import (
	"time"

	invModel "innkeep/internal/domains/inventory/model"
	"innkeep/internal/domains/reservation/model"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/timezone"
)

type CreateReservationRequest struct {
	HotelID         string `json:"hotel_id"         validate:"required,uuid"`
	CheckInDate     string `json:"check_in_date"    validate:"required,day"`
	CheckOutDate    string `json:"check_out_date"   validate:"required,day"`
	NumberOfGuests  int    `json:"number_of_guests" validate:"required"`
	NumberOfRooms   int    `json:"number_of_rooms"  validate:"required"`
	RoomType        string `json:"room_type"        validate:"required,oneof=AC NON_AC"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=1000"`
}

// Stay is the parsed, not yet policy-checked configuration of a booking.
type Stay struct {
	HotelID         string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Rooms           int
	RoomType        invModel.RoomType
	SpecialRequests string
}

func (s Stay) Nights() int {
	return model.Nights(s.CheckIn, s.CheckOut)
}

func (c *CreateReservationRequest) ToStay() (Stay, error) {
	checkIn, err := time.Parse(constant.DayFormat, c.CheckInDate)
	if err != nil {
		return Stay{}, err
	}

	checkOut, err := time.Parse(constant.DayFormat, c.CheckOutDate)
	if err != nil {
		return Stay{}, err
	}

	return Stay{
		HotelID:         c.HotelID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          c.NumberOfGuests,
		Rooms:           c.NumberOfRooms,
		RoomType:        invModel.RoomType(c.RoomType),
		SpecialRequests: c.SpecialRequests,
	}, nil
}

// EditReservationRequest only carries the fields being changed.
type EditReservationRequest struct {
	CheckInDate     *string `json:"check_in_date"    validate:"omitempty,day"`
	CheckOutDate    *string `json:"check_out_date"   validate:"omitempty,day"`
	NumberOfGuests  *int    `json:"number_of_guests" validate:"omitempty"`
	NumberOfRooms   *int    `json:"number_of_rooms"  validate:"omitempty"`
	RoomType        *string `json:"room_type"        validate:"omitempty,oneof=AC NON_AC"`
	SpecialRequests *string `json:"special_requests" validate:"omitempty,max=1000"`
}

func (e *EditReservationRequest) Empty() bool {
	return e.CheckInDate == nil && e.CheckOutDate == nil && e.NumberOfGuests == nil &&
		e.NumberOfRooms == nil && e.RoomType == nil && e.SpecialRequests == nil
}

// Apply overlays the requested changes on the current stay.
func (e *EditReservationRequest) Apply(current Stay) (Stay, error) {
	next := current

	if e.CheckInDate != nil {
		checkIn, err := time.Parse(constant.DayFormat, *e.CheckInDate)
		if err != nil {
			return next, err
		}

		next.CheckIn = checkIn
	}

	if e.CheckOutDate != nil {
		checkOut, err := time.Parse(constant.DayFormat, *e.CheckOutDate)
		if err != nil {
			return next, err
		}

		next.CheckOut = checkOut
	}

	if e.NumberOfGuests != nil {
		next.Guests = *e.NumberOfGuests
	}

	if e.NumberOfRooms != nil {
		next.Rooms = *e.NumberOfRooms
	}

	if e.RoomType != nil {
		next.RoomType = invModel.RoomType(*e.RoomType)
	}

	if e.SpecialRequests != nil {
		next.SpecialRequests = *e.SpecialRequests
	}

	return next, nil
}

func StayFromModel(m model.Reservation) Stay {
	return Stay{
		HotelID:         m.HotelID,
		CheckIn:         m.CheckInDate,
		CheckOut:        m.CheckOutDate,
		Guests:          m.NumberOfGuests,
		Rooms:           m.NumberOfRooms,
		RoomType:        m.RoomType,
		SpecialRequests: m.SpecialRequests,
	}
}

type ConfirmPaymentRequest struct {
	Amount int64 `json:"amount" validate:"gte=0"`
}

type ReservationResponse struct {
	ID               string  `json:"id"`
	HotelID          string  `json:"hotel_id"`
	UserID           string  `json:"user_id"`
	CheckInDate      string  `json:"check_in_date"`
	CheckOutDate     string  `json:"check_out_date"`
	Nights           int     `json:"nights"`
	NumberOfGuests   int     `json:"number_of_guests"`
	NumberOfRooms    int     `json:"number_of_rooms"`
	RoomType         string  `json:"room_type"`
	SpecialRequests  string  `json:"special_requests,omitempty"`
	TotalCost        int64   `json:"total_cost"`
	Status           string  `json:"status"`
	RefundedAmount   *int64  `json:"refunded_amount,omitempty"`
	RefundPercentage *int    `json:"refund_percentage,omitempty"`
	CancelledAt      *string `json:"cancelled_at,omitempty"`
	Version          int     `json:"version"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(m model.Reservation) {
	r.ID = m.ID
	r.HotelID = m.HotelID
	r.UserID = m.UserID
	r.CheckInDate = m.CheckInDate.Format(constant.DayFormat)
	r.CheckOutDate = m.CheckOutDate.Format(constant.DayFormat)
	r.Nights = m.Nights()
	r.NumberOfGuests = m.NumberOfGuests
	r.NumberOfRooms = m.NumberOfRooms
	r.RoomType = string(m.RoomType)
	r.SpecialRequests = m.SpecialRequests
	r.TotalCost = m.TotalCost
	r.Status = string(m.Status)
	r.RefundedAmount = m.RefundedAmount
	r.RefundPercentage = m.RefundPercentage
	r.Version = m.Version
	r.Metadata.FromModel(m.Metadata)

	if m.CancelledAt != nil {
		cancelledAt := timezone.Format(*m.CancelledAt, constant.DateFormat)
		r.CancelledAt = &cancelledAt
	}
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

type RefundQuoteResponse struct {
	ReservationID    string `json:"reservation_id"`
	TotalCost        int64  `json:"total_cost"`
	DaysUntilCheckIn int    `json:"days_until_check_in"`
	Percentage       int    `json:"percentage"`
	RefundAmount     int64  `json:"refund_amount"`
	DeductedAmount   int64  `json:"deducted_amount"`
	QuotedAt         string `json:"quoted_at"`
}

type StatusStats struct {
	Status   string `json:"status"`
	Count    int    `json:"count"`
	Gross    int64  `json:"gross"`
	Refunded int64  `json:"refunded"`
	Realized int64  `json:"realized"`
}

type StatsResponse struct {
	Total           int           `json:"total"`
	GrossBooked     int64         `json:"gross_booked"`
	RefundedTotal   int64         `json:"refunded_total"`
	RealizedRevenue int64         `json:"realized_revenue"`
	ByStatus        []StatusStats `json:"by_status"`
}

// FromSummaries lists every status, including those with no reservations.
func (r *StatsResponse) FromSummaries(rows []model.StatusSummary) {
	byStatus := make(map[model.Status]model.StatusSummary, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row
	}

	r.ByStatus = make([]StatusStats, 0, len(model.Statuses))

	for _, status := range model.Statuses {
		row := byStatus[status]
		row.Status = status

		realized := row.Realized()

		r.Total += row.Count
		r.GrossBooked += row.Gross
		r.RefundedTotal += row.Refunded
		r.RealizedRevenue += realized

		r.ByStatus = append(r.ByStatus, StatusStats{
			Status:   string(status),
			Count:    row.Count,
			Gross:    row.Gross,
			Refunded: row.Refunded,
			Realized: realized,
		})
	}
}
