package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"innkeep/config"
	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/internal/domains/hotel/mocks"
	"innkeep/internal/domains/hotel/model"
	"innkeep/internal/domains/hotel/model/dto"
	"innkeep/internal/domains/hotel/service"
	invModel "innkeep/internal/domains/inventory/model"
	invDto "innkeep/internal/domains/inventory/model/dto"
	"innkeep/internal/domains/inventory/store"
	resMocks "innkeep/internal/domains/reservation/mocks"
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

type deps struct {
	repo         *mocks.MockHotel
	reservations *resMocks.MockReservation
	cache        *cacheMocks.MockRedisCache
	inventory    store.Store
}

func setup(t *testing.T) (service.Hotel, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	clk := clock.Fixed(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	d := deps{
		repo:         mocks.NewMockHotel(ctrl),
		reservations: resMocks.NewMockReservation(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		inventory:    store.NewMemory(clk, true),
	}

	d.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(d.repo, d.reservations, d.inventory, clk, &config.Config{}, d.cache, otelMocks.NewOtel())

	return svc, d
}

func adminCtx() context.Context {
	return shared.WithCaller(context.Background(), "admin-1", constant.RoleAdmin)
}

func TestCreate(t *testing.T) {
	svc, d := setup(t)

	var inserted model.Hotel

	d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, h model.Hotel) error {
		inserted = h

		return nil
	})

	res, err := svc.Create(adminCtx(), dto.CreateHotelRequest{
		Name:    "Harbour View",
		City:    "Surabaya",
		Country: "ID",
		Rating:  4.5,
		RoomClasses: []invDto.RoomClassRequest{
			{RoomType: string(invModel.RoomTypeAC), TotalRooms: 2, CostPerNight: 200},
			{RoomType: string(invModel.RoomTypeNonAC), TotalRooms: 5, CostPerNight: 90},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, inserted.ID, res.ID)
	assert.True(t, inserted.Active)
	assert.Equal(t, "admin-1", inserted.CreatedBy)
	require.Len(t, res.RoomClasses, 2)

	class, err := d.inventory.GetClass(context.Background(), res.ID, invModel.RoomTypeAC)
	require.NoError(t, err)
	assert.Equal(t, 2, class.AvailableRooms)
}

func TestCreate_InsertFails(t *testing.T) {
	svc, d := setup(t)

	d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	_, err := svc.Create(adminCtx(), dto.CreateHotelRequest{Name: "Harbour View", City: "Surabaya", Country: "ID"})
	assert.Error(t, err)
}

func TestCreate_BadRoomClassRemovesHotel(t *testing.T) {
	svc, d := setup(t)

	d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	d.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.Create(adminCtx(), dto.CreateHotelRequest{
		Name:        "Harbour View",
		City:        "Surabaya",
		Country:     "ID",
		RoomClasses: []invDto.RoomClassRequest{{RoomType: "SUITE", TotalRooms: 2}},
	})
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		mock    func(d deps)
		wantErr error
	}{
		{
			name: "cache hit still reads live room classes",
			mock: func(d deps) {
				d.cache.EXPECT().Get(gomock.Any(), "hotel:get:h-1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
					*value.(*dto.HotelResponse) = dto.HotelResponse{ID: "h-1", Name: "cached"}

					return nil
				})
			},
		},
		{
			name: "cache miss reads repository",
			mock: func(d deps) {
				d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{ID: "h-1", Name: "fresh", Active: true}, nil)
			},
		},
		{
			name: "not found",
			mock: func(d deps) {
				d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
				d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{}, nil)
			},
			wantErr: failure.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := setup(t)

			_, err := d.inventory.Configure(context.Background(), invModel.RoomClass{HotelID: "h-1", RoomType: invModel.RoomTypeAC, TotalRooms: 3, CostPerNight: 150})
			require.NoError(t, err)

			tt.mock(d)

			res, err := svc.Get(context.Background(), "h-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			require.Len(t, res.RoomClasses, 1)
			assert.Equal(t, 3, res.RoomClasses[0].AvailableRooms)
		})
	}
}

func TestGetAll(t *testing.T) {
	svc, d := setup(t)

	d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
	d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(11, nil)
	d.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Hotel{{ID: "h-1"}, {ID: "h-2"}}, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "bogus"}, dto.Query{City: "Surabaya"}.Filter())
	require.NoError(t, err)

	assert.Len(t, res.Hotels, 2)
	assert.Equal(t, 11, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
}

func TestUpdate(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		svc, _ := setup(t)

		err := svc.Update(adminCtx(), dto.UpdateHotelRequest{}, "h-1")
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		svc, d := setup(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Update(adminCtx(), dto.UpdateHotelRequest{Name: "New"}, "h-1")
		assert.ErrorIs(t, err, failure.ErrNotFound)
	})

	t.Run("resize below reserved leaves everything untouched", func(t *testing.T) {
		svc, d := setup(t)
		ctx := adminCtx()

		_, err := d.inventory.Configure(ctx, invModel.RoomClass{HotelID: "h-1", RoomType: invModel.RoomTypeAC, TotalRooms: 3, CostPerNight: 150})
		require.NoError(t, err)
		_, err = d.inventory.Configure(ctx, invModel.RoomClass{HotelID: "h-1", RoomType: invModel.RoomTypeNonAC, TotalRooms: 2, CostPerNight: 90})
		require.NoError(t, err)
		require.NoError(t, d.inventory.Reserve(ctx, store.Request{HotelID: "h-1", RoomType: invModel.RoomTypeAC, Count: 2, ReservationID: "r-1"}))

		// No Update expectation: the hotel row must not be written.
		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		inactive := false
		err = svc.Update(ctx, dto.UpdateHotelRequest{
			Active: &inactive,
			RoomClasses: []invDto.RoomClassRequest{
				{RoomType: string(invModel.RoomTypeNonAC), TotalRooms: 6, CostPerNight: 95},
				{RoomType: string(invModel.RoomTypeAC), TotalRooms: 1, CostPerNight: 150},
			},
		}, "h-1")
		assert.ErrorIs(t, err, failure.ErrConflict)

		nonAC, err := d.inventory.GetClass(ctx, "h-1", invModel.RoomTypeNonAC)
		require.NoError(t, err)
		assert.Equal(t, 2, nonAC.TotalRooms)
		assert.Equal(t, int64(90), nonAC.CostPerNight)
	})

	t.Run("resize then describe", func(t *testing.T) {
		svc, d := setup(t)
		ctx := adminCtx()

		_, err := d.inventory.Configure(ctx, invModel.RoomClass{HotelID: "h-1", RoomType: invModel.RoomTypeAC, TotalRooms: 3, CostPerNight: 150})
		require.NoError(t, err)
		require.NoError(t, d.inventory.Reserve(ctx, store.Request{HotelID: "h-1", RoomType: invModel.RoomTypeAC, Count: 2, ReservationID: "r-1"}))

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, false, fields[model.FieldActive])
			assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

			class, err := d.inventory.GetClass(ctx, "h-1", invModel.RoomTypeAC)
			require.NoError(t, err)
			assert.Equal(t, 2, class.TotalRooms, "classes are configured before the hotel row")

			return nil
		})

		inactive := false
		err = svc.Update(ctx, dto.UpdateHotelRequest{
			Active:      &inactive,
			RoomClasses: []invDto.RoomClassRequest{{RoomType: string(invModel.RoomTypeAC), TotalRooms: 2, CostPerNight: 150}},
		}, "h-1")
		require.NoError(t, err)
	})
}

func TestDelete(t *testing.T) {
	t.Run("active reservations block", func(t *testing.T) {
		svc, d := setup(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.reservations.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := svc.Delete(adminCtx(), "h-1")
		assert.ErrorIs(t, err, failure.ErrConflict)
	})

	t.Run("deactivates", func(t *testing.T) {
		svc, d := setup(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.reservations.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, false, fields[model.FieldActive])

			return nil
		})

		assert.NoError(t, svc.Delete(adminCtx(), "h-1"))
	})
}

func TestAvailability(t *testing.T) {
	svc, d := setup(t)

	_, err := d.inventory.Configure(context.Background(), invModel.RoomClass{HotelID: "h-1", RoomType: invModel.RoomTypeNonAC, TotalRooms: 4, CostPerNight: 80})
	require.NoError(t, err)
	require.NoError(t, d.inventory.Reserve(context.Background(), store.Request{HotelID: "h-1", RoomType: invModel.RoomTypeNonAC, Count: 1}))

	d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

	res, err := svc.Availability(context.Background(), "h-1")
	require.NoError(t, err)
	require.Len(t, res.RoomClasses, 1)
	assert.Equal(t, 3, res.RoomClasses[0].AvailableRooms)
}
