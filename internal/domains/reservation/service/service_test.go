package service_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"innkeep/config"
	otelMocks "innkeep/infras/otel/mocks"
	hotelMocks "innkeep/internal/domains/hotel/mocks"
	hotelModel "innkeep/internal/domains/hotel/model"
	invModel "innkeep/internal/domains/inventory/model"
	"innkeep/internal/domains/inventory/store"
	"innkeep/internal/domains/reservation/mocks"
	"innkeep/internal/domains/reservation/model"
	"innkeep/internal/domains/reservation/model/dto"
	"innkeep/internal/domains/reservation/service"
	eventMocks "innkeep/internal/events/mocks"
	"innkeep/shared"
	"innkeep/shared/cache"
	cacheMocks "innkeep/shared/cache/mocks"
	"innkeep/shared/clock"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const hotelID = "7b0c6f1e-1111-4d6a-9c1e-000000000001"

// rows backs the repository mock so the service sees real persistence semantics.
type rows struct {
	mu   sync.Mutex
	data map[string]model.Reservation
}

func (r *rows) get(id string) model.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.data[id]
}

func (r *rows) update(id string, version int, fields map[string]any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.data[id]
	if !ok || current.Version != version {
		return false
	}

	for field, value := range fields {
		switch field {
		case model.FieldStatus:
			current.Status = model.Status(value.(string))
		case model.FieldRefundedAmount:
			amount := value.(int64)
			current.RefundedAmount = &amount
		case model.FieldRefundPercentage:
			pct := value.(int)
			current.RefundPercentage = &pct
		case model.FieldCancelledAt:
			at := value.(time.Time)
			current.CancelledAt = &at
		case model.FieldCheckInDate:
			current.CheckInDate = value.(time.Time)
		case model.FieldCheckOutDate:
			current.CheckOutDate = value.(time.Time)
		case model.FieldNumberOfGuests:
			current.NumberOfGuests = value.(int)
		case model.FieldNumberOfRooms:
			current.NumberOfRooms = value.(int)
		case model.FieldRoomType:
			current.RoomType = invModel.RoomType(value.(string))
		case model.FieldSpecialRequests:
			current.SpecialRequests = value.(string)
		case model.FieldTotalCost:
			current.TotalCost = value.(int64)
		}
	}

	current.Version++
	r.data[id] = current

	return true
}

type fixture struct {
	svc       service.Reservation
	inventory store.Store
	clock     *clock.FixedClock
	rows      *rows
}

func newFixture(t *testing.T, classes ...invModel.RoomClass) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		clock: clock.Fixed(time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)),
		rows:  &rows{data: map[string]model.Reservation{}},
	}
	f.inventory = store.NewMemory(f.clock, true)

	for _, class := range classes {
		_, err := f.inventory.Configure(context.Background(), class)
		require.NoError(t, err)
	}

	repo := mocks.NewMockReservation(ctrl)
	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r model.Reservation) error {
		f.rows.mu.Lock()
		defer f.rows.mu.Unlock()

		f.rows.data[r.ID] = r

		return nil
	}).AnyTimes()
	repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, id string) (model.Reservation, error) {
		return f.rows.get(id), nil
	}).AnyTimes()
	repo.EXPECT().UpdateVersioned(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id string, version int, fields map[string]any) (bool, error) {
			return f.rows.update(id, version, fields), nil
		}).AnyTimes()

	hotels := hotelMocks.NewMockHotel(ctrl)
	hotels.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hotelModel.Hotel{ID: hotelID, Active: true}, nil).AnyTimes()

	publisher := eventMocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(repo, hotels, f.inventory, publisher, f.clock, testConfig(), newCache(ctrl), otelMocks.NewOtel())

	return f
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Reservation.MaxGuests = 10
	cfg.Reservation.MaxRooms = 5
	cfg.Reservation.MaxGuestsPerRoom = 4
	cfg.Reservation.CheckInHour = 14

	return cfg
}

func newCache(ctrl *gomock.Controller) *cacheMocks.MockRedisCache {
	c := cacheMocks.NewMockRedisCache(ctrl)
	c.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	c.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	c.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	c.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return c
}

func acClass(total int, cost int64) invModel.RoomClass {
	return invModel.RoomClass{HotelID: hotelID, RoomType: invModel.RoomTypeAC, TotalRooms: total, CostPerNight: cost}
}

func asUser(id string) context.Context {
	return shared.WithCaller(context.Background(), id, constant.RoleUser)
}

func asAdmin() context.Context {
	return shared.WithCaller(context.Background(), "admin-1", constant.RoleAdmin)
}

func asSystem() context.Context {
	return shared.WithSystemCaller(context.Background())
}

func booking(checkIn, checkOut string, guests, rooms int) dto.CreateReservationRequest {
	return dto.CreateReservationRequest{
		HotelID:        hotelID,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: guests,
		NumberOfRooms:  rooms,
		RoomType:       string(invModel.RoomTypeAC),
	}
}

func (f *fixture) available(t *testing.T, roomType invModel.RoomType) int {
	t.Helper()

	class, err := f.inventory.GetClass(context.Background(), hotelID, roomType)
	require.NoError(t, err)

	return class.AvailableRooms
}

func TestLifecycle_TwoRoomHotel(t *testing.T) {
	f := newFixture(t, acClass(2, 200))

	a, err := f.svc.Create(asUser("guest-a"), booking("2025-06-09", "2025-06-12", 2, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(600), a.TotalCost)
	assert.Equal(t, 3, a.Nights)
	assert.Equal(t, string(model.StatusPending), a.Status)
	assert.Equal(t, 1, f.available(t, invModel.RoomTypeAC))

	_, err = f.svc.Create(asUser("guest-b"), booking("2025-06-09", "2025-06-12", 2, 2))
	assert.ErrorIs(t, err, failure.ErrInsufficientInventory)
	assert.Equal(t, 1, f.available(t, invModel.RoomTypeAC))

	cancelled, err := f.svc.Cancel(asUser("guest-a"), a.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCancelled), cancelled.Status)
	require.NotNil(t, cancelled.RefundedAmount)
	assert.Equal(t, int64(600), *cancelled.RefundedAmount)
	assert.Equal(t, 100, *cancelled.RefundPercentage)
	assert.Equal(t, 2, f.available(t, invModel.RoomTypeAC))
}

func TestCancel_RefundTiers(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		percent int
		refund  int64
	}{
		{"ten days", time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC), 100, 1000},
		{"five days", time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC), 75, 750},
		{"two days", time.Date(2025, 6, 18, 14, 0, 0, 0, time.UTC), 50, 500},
		{"check-in day", time.Date(2025, 6, 20, 14, 0, 0, 0, time.UTC), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, acClass(3, 500))

			res, err := f.svc.Create(asUser("guest-a"), booking("2025-06-20", "2025-06-22", 1, 1))
			require.NoError(t, err)
			require.Equal(t, int64(1000), res.TotalCost)

			f.clock.Set(tt.now)

			quote, err := f.svc.RefundQuote(asUser("guest-a"), res.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.refund, quote.RefundAmount)

			cancelled, err := f.svc.Cancel(asUser("guest-a"), res.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.percent, *cancelled.RefundPercentage)
			assert.Equal(t, tt.refund, *cancelled.RefundedAmount)
		})
	}
}

func TestCancel_RoundsHalfToEven(t *testing.T) {
	f := newFixture(t, acClass(1, 505))

	res, err := f.svc.Create(asUser("guest-a"), booking("2025-06-20", "2025-06-22", 1, 1))
	require.NoError(t, err)

	f.clock.Set(time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC))

	cancelled, err := f.svc.Cancel(asUser("guest-a"), res.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(758), *cancelled.RefundedAmount)
}

func TestCancel_TerminalHasNoSideEffect(t *testing.T) {
	f := newFixture(t, acClass(2, 200))
	ctx := asUser("guest-a")

	res, err := f.svc.Create(ctx, booking("2025-06-09", "2025-06-10", 1, 1))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, res.ID)
	require.NoError(t, err)

	before := f.rows.get(res.ID)

	_, err = f.svc.Cancel(ctx, res.ID)
	assert.ErrorIs(t, err, failure.ErrInvalidStateTransition)
	assert.Equal(t, 2, f.available(t, invModel.RoomTypeAC))
	assert.Equal(t, before, f.rows.get(res.ID))

	ledger, err := f.inventory.Ledger(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Len(t, ledger, 2)
}

func TestCancel_ConcurrentReleasesOnce(t *testing.T) {
	f := newFixture(t, acClass(3, 200))
	ctx := asUser("guest-a")

	res, err := f.svc.Create(ctx, booking("2025-06-09", "2025-06-10", 2, 2))
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := f.svc.Cancel(ctx, res.ID); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 3, f.available(t, invModel.RoomTypeAC))

	ledger, err := f.inventory.Ledger(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, invModel.Held(ledger, hotelID, invModel.RoomTypeAC))
}

func TestCreate_ConcurrentNeverOverbooks(t *testing.T) {
	f := newFixture(t, acClass(5, 100))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for i := range 25 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.svc.Create(asUser("guest-"+strconv.Itoa(i)), booking("2025-06-09", "2025-06-10", 1, 1))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()

				return
			}

			assert.ErrorIs(t, err, failure.ErrInsufficientInventory)
		}()
	}

	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, f.available(t, invModel.RoomTypeAC))
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateReservationRequest
		want error
	}{
		{"check-out before check-in", booking("2025-06-10", "2025-06-09", 1, 1), failure.ErrInvalidDateRange},
		{"same day", booking("2025-06-10", "2025-06-10", 1, 1), failure.ErrInvalidDateRange},
		{"check-in in the past", booking("2025-05-31", "2025-06-02", 1, 1), failure.ErrInvalidDateRange},
		{"no guests", booking("2025-06-10", "2025-06-11", 0, 1), failure.ErrInvalidGuestOrRoomCount},
		{"too many guests", booking("2025-06-10", "2025-06-11", 11, 3), failure.ErrInvalidGuestOrRoomCount},
		{"too many rooms", booking("2025-06-10", "2025-06-11", 6, 6), failure.ErrInvalidGuestOrRoomCount},
		{"guests do not fit", booking("2025-06-10", "2025-06-11", 5, 1), failure.ErrInvalidGuestOrRoomCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, acClass(5, 100))

			_, err := f.svc.Create(asUser("guest-a"), tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 5, f.available(t, invModel.RoomTypeAC))
		})
	}
}

func TestCreate_AcceptsToday(t *testing.T) {
	f := newFixture(t, acClass(1, 100))

	_, err := f.svc.Create(asUser("guest-a"), booking("2025-06-01", "2025-06-02", 1, 1))
	assert.NoError(t, err)
}

func TestCreate_RequiresCaller(t *testing.T) {
	f := newFixture(t, acClass(1, 100))

	_, err := f.svc.Create(context.Background(), booking("2025-06-09", "2025-06-10", 1, 1))
	assert.Error(t, err)
	assert.Equal(t, 401, failure.GetCode(err))
}

func TestCreate_UnknownRoomClass(t *testing.T) {
	f := newFixture(t, acClass(1, 100))

	req := booking("2025-06-09", "2025-06-10", 1, 1)
	req.RoomType = string(invModel.RoomTypeNonAC)

	_, err := f.svc.Create(asUser("guest-a"), req)
	assert.ErrorIs(t, err, failure.ErrNotFound)
}

func TestEdit_RevalidationKeepsOriginal(t *testing.T) {
	f := newFixture(t, acClass(2, 200))
	ctx := asUser("guest-a")

	res, err := f.svc.Create(ctx, booking("2025-06-09", "2025-06-12", 2, 1))
	require.NoError(t, err)

	before := f.rows.get(res.ID)

	rooms := 3
	_, err = f.svc.Edit(ctx, res.ID, dto.EditReservationRequest{NumberOfRooms: &rooms})
	assert.ErrorIs(t, err, failure.ErrInsufficientInventory)

	checkOut := "2025-06-08"
	_, err = f.svc.Edit(ctx, res.ID, dto.EditReservationRequest{CheckOutDate: &checkOut})
	assert.ErrorIs(t, err, failure.ErrInvalidDateRange)

	guests := 9
	_, err = f.svc.Edit(ctx, res.ID, dto.EditReservationRequest{NumberOfGuests: &guests})
	assert.ErrorIs(t, err, failure.ErrInvalidGuestOrRoomCount)

	assert.Equal(t, before, f.rows.get(res.ID))
	assert.Equal(t, 1, f.available(t, invModel.RoomTypeAC))
}

func TestEdit_AdjustsInventoryAndCost(t *testing.T) {
	nonAC := invModel.RoomClass{HotelID: hotelID, RoomType: invModel.RoomTypeNonAC, TotalRooms: 4, CostPerNight: 120}
	f := newFixture(t, acClass(3, 200), nonAC)
	ctx := asUser("guest-a")

	res, err := f.svc.Create(ctx, booking("2025-06-09", "2025-06-12", 2, 1))
	require.NoError(t, err)

	rooms := 2
	grown, err := f.svc.Edit(ctx, res.ID, dto.EditReservationRequest{NumberOfRooms: &rooms})
	require.NoError(t, err)
	assert.Equal(t, int64(1200), grown.TotalCost)
	assert.Equal(t, 1, f.available(t, invModel.RoomTypeAC))

	checkOut := "2025-06-10"
	shorter, err := f.svc.Edit(ctx, res.ID, dto.EditReservationRequest{CheckOutDate: &checkOut})
	require.NoError(t, err)
	assert.Equal(t, int64(400), shorter.TotalCost)
	assert.Equal(t, 1, f.available(t, invModel.RoomTypeAC))

	roomType := string(invModel.RoomTypeNonAC)
	moved, err := f.svc.Edit(ctx, res.ID, dto.EditReservationRequest{RoomType: &roomType})
	require.NoError(t, err)
	assert.Equal(t, int64(240), moved.TotalCost)
	assert.Equal(t, 3, f.available(t, invModel.RoomTypeAC))
	assert.Equal(t, 2, f.available(t, invModel.RoomTypeNonAC))

	notes := "late arrival"
	annotated, err := f.svc.Edit(ctx, res.ID, dto.EditReservationRequest{SpecialRequests: &notes})
	require.NoError(t, err)
	assert.Equal(t, int64(240), annotated.TotalCost)
	assert.Equal(t, notes, annotated.SpecialRequests)
	assert.Equal(t, 5, annotated.Version)
}

func TestEdit_Rejections(t *testing.T) {
	f := newFixture(t, acClass(2, 200))
	ctx := asUser("guest-a")

	res, err := f.svc.Create(ctx, booking("2025-06-09", "2025-06-12", 2, 1))
	require.NoError(t, err)

	_, err = f.svc.Edit(ctx, res.ID, dto.EditReservationRequest{})
	assert.Equal(t, 400, failure.GetCode(err))

	rooms := 2
	_, err = f.svc.Edit(asUser("guest-b"), res.ID, dto.EditReservationRequest{NumberOfRooms: &rooms})
	assert.ErrorIs(t, err, failure.ResourceRestrictedError)

	_, err = f.svc.Cancel(ctx, res.ID)
	require.NoError(t, err)

	_, err = f.svc.Edit(ctx, res.ID, dto.EditReservationRequest{NumberOfRooms: &rooms})
	assert.ErrorIs(t, err, failure.ErrInvalidStateTransition)
	assert.Equal(t, 2, f.available(t, invModel.RoomTypeAC))
}

func TestEdit_ConflictReturnsAcquiredRooms(t *testing.T) {
	ctrl := gomock.NewController(t)
	clk := clock.Fixed(time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC))
	inventory := store.NewMemory(clk, true)

	_, err := inventory.Configure(context.Background(), acClass(3, 200))
	require.NoError(t, err)
	require.NoError(t, inventory.Reserve(context.Background(), store.Request{HotelID: hotelID, RoomType: invModel.RoomTypeAC, Count: 1, ReservationID: "r-1"}))

	existing := model.Reservation{
		ID:             "r-1",
		HotelID:        hotelID,
		UserID:         "guest-a",
		CheckInDate:    time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		CheckOutDate:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		NumberOfGuests: 1,
		NumberOfRooms:  1,
		RoomType:       invModel.RoomTypeAC,
		TotalCost:      200,
		Status:         model.StatusPending,
		Version:        1,
	}

	repo := mocks.NewMockReservation(ctrl)
	repo.EXPECT().GetByID(gomock.Any(), "r-1").Return(existing, nil)
	repo.EXPECT().UpdateVersioned(gomock.Any(), "r-1", 1, gomock.Any()).Return(false, nil)

	svc := service.New(repo, hotelMocks.NewMockHotel(ctrl), inventory, eventMocks.NewMockPublisher(ctrl), clk, testConfig(), newCache(ctrl), otelMocks.NewOtel())

	rooms := 3
	_, err = svc.Edit(asUser("guest-a"), "r-1", dto.EditReservationRequest{NumberOfRooms: &rooms})
	assert.ErrorIs(t, err, failure.ErrConflict)

	class, err := inventory.GetClass(context.Background(), hotelID, invModel.RoomTypeAC)
	require.NoError(t, err)
	assert.Equal(t, 2, class.AvailableRooms)
}

func TestConfirmPayment(t *testing.T) {
	f := newFixture(t, acClass(2, 200))

	res, err := f.svc.Create(asUser("guest-a"), booking("2025-06-09", "2025-06-11", 1, 1))
	require.NoError(t, err)

	_, err = f.svc.ConfirmPayment(asUser("guest-a"), res.ID, 400)
	assert.ErrorIs(t, err, failure.ResourceRestrictedError)

	_, err = f.svc.ConfirmPayment(asSystem(), res.ID, 399)
	assert.ErrorIs(t, err, failure.ErrInvalidInput)

	confirmed, err := f.svc.ConfirmPayment(asSystem(), res.ID, 400)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusConfirmed), confirmed.Status)
	assert.Equal(t, 1, f.available(t, invModel.RoomTypeAC))

	_, err = f.svc.ConfirmPayment(asSystem(), res.ID, 400)
	assert.ErrorIs(t, err, failure.ErrInvalidStateTransition)

	_, err = f.svc.ConfirmPayment(asSystem(), "missing", 400)
	assert.ErrorIs(t, err, failure.ErrNotFound)
}

func TestConfirmPayment_AdminsCannotReportPayments(t *testing.T) {
	f := newFixture(t, acClass(2, 200))

	res, err := f.svc.Create(asUser("guest-a"), booking("2025-06-09", "2025-06-11", 1, 1))
	require.NoError(t, err)

	for _, ctx := range []context.Context{asAdmin(), shared.WithCaller(context.Background(), "root", constant.RoleSuperAdmin)} {
		_, err = f.svc.ConfirmPayment(ctx, res.ID, 400)
		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	}

	current, err := f.svc.Get(asAdmin(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusPending), current.Status)
}

func TestComplete(t *testing.T) {
	f := newFixture(t, acClass(2, 200))

	res, err := f.svc.Create(asUser("guest-a"), booking("2025-06-09", "2025-06-11", 1, 1))
	require.NoError(t, err)

	_, err = f.svc.Complete(asAdmin(), res.ID)
	assert.ErrorIs(t, err, failure.ErrInvalidStateTransition)

	_, err = f.svc.ConfirmPayment(asSystem(), res.ID, 400)
	require.NoError(t, err)

	f.clock.Set(time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC))

	_, err = f.svc.Complete(asAdmin(), res.ID)
	assert.ErrorIs(t, err, failure.ErrInvalidStateTransition)

	f.clock.Advance(24 * time.Hour)

	completed, err := f.svc.Complete(asAdmin(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCompleted), completed.Status)
	assert.Equal(t, 1, f.available(t, invModel.RoomTypeAC))

	_, err = f.svc.Cancel(asUser("guest-a"), res.ID)
	assert.ErrorIs(t, err, failure.ErrInvalidStateTransition)

	_, err = f.svc.RefundQuote(asUser("guest-a"), res.ID)
	assert.ErrorIs(t, err, failure.ErrInvalidStateTransition)
}

func TestGet_Ownership(t *testing.T) {
	f := newFixture(t, acClass(2, 200))

	res, err := f.svc.Create(asUser("guest-a"), booking("2025-06-09", "2025-06-11", 1, 1))
	require.NoError(t, err)

	got, err := f.svc.Get(asUser("guest-a"), res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)

	_, err = f.svc.Get(asUser("guest-b"), res.ID)
	assert.ErrorIs(t, err, failure.ResourceRestrictedError)

	_, err = f.svc.Get(asAdmin(), res.ID)
	assert.NoError(t, err)

	_, err = f.svc.ListByUser(asUser("guest-b"), "guest-a", gDto.QueryParams{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, failure.ResourceRestrictedError)
}

func TestLedger(t *testing.T) {
	f := newFixture(t, acClass(2, 200))

	res, err := f.svc.Create(asUser("guest-a"), booking("2025-06-09", "2025-06-11", 2, 2))
	require.NoError(t, err)

	_, err = f.svc.Ledger(asUser("guest-a"), res.ID)
	assert.ErrorIs(t, err, failure.ResourceRestrictedError)

	entries, err := f.svc.Ledger(asAdmin(), res.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, -2, entries[0].Delta)
	assert.Equal(t, string(invModel.ReasonReserve), entries[0].Reason)
}
