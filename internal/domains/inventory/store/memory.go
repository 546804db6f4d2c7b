package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"innkeep/internal/domains/inventory/model"
	"innkeep/shared"
	"innkeep/shared/clock"
	"innkeep/shared/failure"
	"innkeep/shared/logger"
	gModel "innkeep/shared/model"

	"github.com/google/uuid"
)

type classKey struct {
	hotelID  string
	roomType model.RoomType
}

type slot struct {
	mu    sync.Mutex
	class model.RoomClass
}

// memoryStore guards each room class with its own mutex, so changes to
// different classes never contend.
type memoryStore struct {
	mu    sync.RWMutex
	slots map[classKey]*slot

	ledgerMu sync.RWMutex
	ledger   []model.LedgerEntry

	clock  clock.Clock
	strict bool
}

func NewMemory(clk clock.Clock, strict bool) Store {
	return &memoryStore{
		slots:  make(map[classKey]*slot),
		clock:  clk,
		strict: strict,
	}
}

func (s *memoryStore) slot(hotelID string, roomType model.RoomType) (*slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, ok := s.slots[classKey{hotelID: hotelID, roomType: roomType}]
	if !ok {
		return nil, failure.NotFound(fmt.Sprintf("%s rooms at hotel %s", roomType, hotelID))
	}

	return sl, nil
}

func (s *memoryStore) record(req Request, delta int, reason model.Reason) {
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()

	s.ledger = append(s.ledger, model.LedgerEntry{
		ID:            uuid.NewString(),
		HotelID:       req.HotelID,
		RoomType:      req.RoomType,
		Delta:         delta,
		Reason:        reason,
		ReservationID: req.ReservationID,
		CreatedAt:     s.clock.Now(),
	})
}

func (s *memoryStore) entries(reservationID string) []model.LedgerEntry {
	s.ledgerMu.RLock()
	defer s.ledgerMu.RUnlock()

	var res []model.LedgerEntry

	for _, entry := range s.ledger {
		if entry.ReservationID == reservationID {
			res = append(res, entry)
		}
	}

	return res
}

func (s *memoryStore) Reserve(ctx context.Context, req Request) error {
	if err := req.validate(); err != nil {
		return err
	}

	sl, err := s.slot(req.HotelID, req.RoomType)
	if err != nil {
		return err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if err = admitReserve(sl.class, req); err != nil {
		return err
	}

	sl.class.AvailableRooms -= req.Count
	sl.class.Touch(shared.CallerFromContext(ctx).UserID, s.clock.Now())
	s.record(req, -req.Count, model.ReasonReserve)

	return nil
}

func (s *memoryStore) Release(ctx context.Context, req Request) error {
	if err := req.validate(); err != nil {
		return err
	}

	sl, err := s.slot(req.HotelID, req.RoomType)
	if err != nil {
		return err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	held := 0
	if req.ReservationID != "" {
		held = model.Held(s.entries(req.ReservationID), req.HotelID, req.RoomType)
	}

	apply, violation := admitRelease(sl.class, held, req, s.strict)
	if violation != nil {
		logger.Alert(violation).
			Str("hotel_id", req.HotelID).
			Str("room_type", string(req.RoomType)).
			Str("reservation_id", req.ReservationID).
			Int("count", req.Count).
			Int("applied", apply).
			Msg("inventory release rejected")
	}

	if apply > 0 {
		sl.class.AvailableRooms += apply
		sl.class.Touch(shared.CallerFromContext(ctx).UserID, s.clock.Now())

		req.Count = apply
		s.record(req, apply, model.ReasonRelease)
	}

	return violation
}

func (s *memoryStore) Configure(ctx context.Context, next model.RoomClass) (model.RoomClass, error) {
	if err := validateClass(next); err != nil {
		return next, err
	}

	user := shared.CallerFromContext(ctx).UserID
	now := s.clock.Now()
	key := classKey{hotelID: next.HotelID, roomType: next.RoomType}

	s.mu.Lock()

	sl, ok := s.slots[key]
	if !ok {
		next.AvailableRooms = next.TotalRooms
		next.Metadata = gModel.NewMetadata(user, now)
		s.slots[key] = &slot{class: next}
		s.mu.Unlock()

		return next, nil
	}

	s.mu.Unlock()

	sl.mu.Lock()
	defer sl.mu.Unlock()

	res, err := resize(sl.class, next)
	if err != nil {
		return res, err
	}

	res.Touch(user, now)
	sl.class = res

	return res, nil
}

func (s *memoryStore) Get(_ context.Context, hotelID string) ([]model.RoomClass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := []model.RoomClass{}

	for key, sl := range s.slots {
		if key.hotelID != hotelID {
			continue
		}

		sl.mu.Lock()
		res = append(res, sl.class)
		sl.mu.Unlock()
	}

	slices.SortFunc(res, func(a, b model.RoomClass) int {
		return strings.Compare(string(a.RoomType), string(b.RoomType))
	})

	return res, nil
}

func (s *memoryStore) GetClass(_ context.Context, hotelID string, roomType model.RoomType) (model.RoomClass, error) {
	sl, err := s.slot(hotelID, roomType)
	if err != nil {
		return model.RoomClass{}, err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	return sl.class, nil
}

func (s *memoryStore) Ledger(_ context.Context, reservationID string) ([]model.LedgerEntry, error) {
	res := s.entries(reservationID)
	if res == nil {
		res = []model.LedgerEntry{}
	}

	return res, nil
}
