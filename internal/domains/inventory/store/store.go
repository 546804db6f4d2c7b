// Package store owns the per-(hotel, room type) availability counters.
//
// Every counter change goes through Reserve or Release, each of which is a
// single atomic check-and-update. 0 <= available <= total is never broken by
// a committed change.
package store

//go:generate go run go.uber.org/mock/mockgen -source=./store.go -destination=../mocks/store_mock.go -package=mocks

import (
	"context"

	"innkeep/internal/domains/inventory/model"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
)

type Store interface {
	// Reserve takes Count rooms or fails with ErrInsufficientInventory, leaving the counter untouched.
	Reserve(ctx context.Context, req Request) error
	// Release returns Count rooms. A release larger than what is held is an ErrInvariantViolation.
	Release(ctx context.Context, req Request) error
	// Configure creates or resizes a room class. Shrinking below the reserved count is an ErrConflict.
	Configure(ctx context.Context, class model.RoomClass) (model.RoomClass, error)
	Get(ctx context.Context, hotelID string) ([]model.RoomClass, error)
	GetClass(ctx context.Context, hotelID string, roomType model.RoomType) (model.RoomClass, error)
	Ledger(ctx context.Context, reservationID string) ([]model.LedgerEntry, error)
}

type Request struct {
	HotelID  string
	RoomType model.RoomType
	Count    int
	// ReservationID attributes the change in the ledger. When set, Release is
	// bounded by what this reservation still holds.
	ReservationID string
}

func (r Request) validate() error {
	if r.HotelID == constant.Empty {
		return failure.Wrap(failure.ErrInvalidInput, "hotel id is required")
	}

	if !r.RoomType.Valid() {
		return failure.Wrap(failure.ErrInvalidInput, "unknown room type %q", r.RoomType)
	}

	if r.Count <= 0 {
		return failure.Wrap(failure.ErrInvalidGuestOrRoomCount, "room count must be positive, got %d", r.Count)
	}

	return nil
}

func admitReserve(class model.RoomClass, req Request) error {
	if class.AvailableRooms < req.Count {
		return failure.Wrap(failure.ErrInsufficientInventory,
			"%d %s rooms requested at hotel %s, %d available", req.Count, req.RoomType, req.HotelID, class.AvailableRooms)
	}

	return nil
}

// admitRelease decides how many of req.Count rooms may go back to the class.
// held is the reservation's net holding per the ledger, ignored without a ReservationID.
// Strict mode applies nothing on a violation, lenient mode clamps to the releasable amount.
func admitRelease(class model.RoomClass, held int, req Request, strict bool) (int, error) {
	limit := class.Reserved()
	if req.ReservationID != constant.Empty && held < limit {
		limit = held
	}

	if req.Count <= limit {
		return req.Count, nil
	}

	violation := failure.Wrap(failure.ErrInvariantViolation,
		"release of %d %s rooms at hotel %s exceeds the %d releasable (reservation %q)",
		req.Count, req.RoomType, req.HotelID, max(limit, 0), req.ReservationID)

	if strict {
		return 0, violation
	}

	return max(limit, 0), violation
}

// resize returns class with the new total and price, keeping the reserved count.
func resize(current, next model.RoomClass) (model.RoomClass, error) {
	reserved := current.Reserved()
	if next.TotalRooms < reserved {
		return current, failure.Wrap(failure.ErrConflict,
			"cannot shrink %s rooms at hotel %s to %d while %d are reserved", next.RoomType, next.HotelID, next.TotalRooms, reserved)
	}

	current.TotalRooms = next.TotalRooms
	current.AvailableRooms = next.TotalRooms - reserved
	current.CostPerNight = next.CostPerNight

	return current, nil
}

func validateClass(class model.RoomClass) error {
	if class.HotelID == constant.Empty {
		return failure.Wrap(failure.ErrInvalidInput, "hotel id is required")
	}

	if !class.RoomType.Valid() {
		return failure.Wrap(failure.ErrInvalidInput, "unknown room type %q", class.RoomType)
	}

	if class.TotalRooms < 0 || class.CostPerNight < 0 {
		return failure.Wrap(failure.ErrInvalidInput, "room total and cost must not be negative")
	}

	return nil
}
