package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	"lodge/infras/otel/mocks"
	auditMocks "lodge/internal/domains/audit/mocks"
	bookingMocks "lodge/internal/domains/booking/mocks"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/service"
	guestMocks "lodge/internal/domains/guest/mocks"
	guestModel "lodge/internal/domains/guest/model"
	roomMocks "lodge/internal/domains/room/mocks"
	roomModel "lodge/internal/domains/room/model"
	eventMocks "lodge/internal/events/mocks"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

type serviceMocks struct {
	repo      *bookingMocks.MockBooking
	guestRepo *guestMocks.MockGuest
	roomSvc   *roomMocks.MockRoomService
	audit     *auditMocks.MockAudit
	publisher *eventMocks.MockPublisher
	cache     *cacheMocks.MockRedisCache
}

func newService(ctrl *gomock.Controller) (service.Booking, serviceMocks) {
	m := serviceMocks{
		repo:      bookingMocks.NewMockBooking(ctrl),
		guestRepo: guestMocks.NewMockGuest(ctrl),
		roomSvc:   roomMocks.NewMockRoomService(ctrl),
		audit:     auditMocks.NewMockAudit(ctrl),
		publisher: eventMocks.NewMockPublisher(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.App.Currency = "EUR"

	svc := service.New(m.repo, m.guestRepo, m.roomSvc, m.audit, m.publisher, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

// allowAsync covers the fire-and-forget work (event publish, cache
// invalidation) that races test teardown.
func allowAsync(m serviceMocks) {
	m.publisher.EXPECT().PublishBookingEvent(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func futureDate(days int) string {
	return timezone.Today().AddDate(0, 0, days).Format(constant.DateOnlyFormat)
}

func TestOverlaps(t *testing.T) {
	day := func(offset int) time.Time {
		return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	tests := []struct {
		name                       string
		start1, end1, start2, end2 time.Time
		want                       bool
	}{
		{
			name:   "identical windows",
			start1: day(0), end1: day(3), start2: day(0), end2: day(3),
			want: true,
		},
		{
			name:   "partial overlap",
			start1: day(0), end1: day(3), start2: day(2), end2: day(5),
			want: true,
		},
		{
			name:   "contained window",
			start1: day(0), end1: day(5), start2: day(1), end2: day(2),
			want: true,
		},
		{
			name:   "back to back stays do not overlap",
			start1: day(0), end1: day(3), start2: day(3), end2: day(5),
			want: false,
		},
		{
			name:   "disjoint windows",
			start1: day(0), end1: day(2), start2: day(4), end2: day(6),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.Overlaps(tt.start1, tt.end1, tt.start2, tt.end2))
			assert.Equal(t, tt.want, service.Overlaps(tt.start2, tt.end2, tt.start1, tt.end1))
		})
	}
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)
	allowAsync(m)

	guest := guestModel.Guest{ID: "guest-1", Name: "Ana Petrova", Email: "ana@example.com"}
	roomType := roomModel.RoomType{ID: "type-deluxe", Name: "Deluxe Double", BasePrice: 100}

	validReq := dto.CreateBookingRequest{
		GuestName:  "Ana Petrova",
		GuestEmail: "ana@example.com",
		RoomType:   "Deluxe Double",
		CheckIn:    futureDate(7),
		CheckOut:   futureDate(9),
		NumGuests:  2,
	}

	tests := []struct {
		name       string
		req        dto.CreateBookingRequest
		source     string
		setupMock  func()
		wantErr    bool
		wantCode   int
		wantPrice  float64
		wantStatus string
	}{
		{
			name:   "reception walk-in is reserved at two nights of the current rate",
			req:    validReq,
			source: constant.SourceReception,
			setupMock: func() {
				m.guestRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(guest, nil)

				m.roomSvc.EXPECT().
					ResolveRoomType(gomock.Any(), "Deluxe Double").
					Return(roomType, nil)

				m.roomSvc.EXPECT().
					RoomsOfType(gomock.Any(), "type-deluxe").
					Return([]roomModel.Room{{ID: "room-1", RoomNumber: "101"}}, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)

				m.roomSvc.EXPECT().
					CurrentRate(gomock.Any(), "type-deluxe").
					Return(100.0, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.audit.EXPECT().
					Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
			},
			wantPrice:  200,
			wantStatus: constant.BookingStatusReserved,
		},
		{
			name:   "online booking confirms immediately",
			req:    validReq,
			source: constant.SourceOnline,
			setupMock: func() {
				m.guestRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(guest, nil)

				m.roomSvc.EXPECT().
					ResolveRoomType(gomock.Any(), "Deluxe Double").
					Return(roomType, nil)

				m.roomSvc.EXPECT().
					RoomsOfType(gomock.Any(), "type-deluxe").
					Return([]roomModel.Room{{ID: "room-1", RoomNumber: "101"}}, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)

				m.roomSvc.EXPECT().
					CurrentRate(gomock.Any(), "type-deluxe").
					Return(100.0, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.audit.EXPECT().
					Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
			},
			wantPrice:  200,
			wantStatus: constant.BookingStatusConfirmed,
		},
		{
			name: "unknown guest is registered on the fly",
			req: dto.CreateBookingRequest{
				GuestName:  "New Guest",
				GuestEmail: "new@example.com",
				RoomType:   "Deluxe Double",
				CheckIn:    futureDate(7),
				CheckOut:   futureDate(8),
			},
			source: constant.SourceReception,
			setupMock: func() {
				m.guestRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(guestModel.Guest{}, nil)

				m.guestRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.roomSvc.EXPECT().
					ResolveRoomType(gomock.Any(), "Deluxe Double").
					Return(roomType, nil)

				m.roomSvc.EXPECT().
					RoomsOfType(gomock.Any(), "type-deluxe").
					Return([]roomModel.Room{{ID: "room-1", RoomNumber: "101"}}, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)

				m.roomSvc.EXPECT().
					CurrentRate(gomock.Any(), "type-deluxe").
					Return(100.0, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.audit.EXPECT().
					Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
			},
			wantPrice:  100,
			wantStatus: constant.BookingStatusReserved,
		},
		{
			name: "returning guest gets its contact snapshot refreshed",
			req: dto.CreateBookingRequest{
				GuestName:  "Ana Petrova",
				GuestEmail: "ana@example.com",
				GuestPhone: "+30 694 111 2222",
				RoomType:   "Deluxe Double",
				CheckIn:    futureDate(7),
				CheckOut:   futureDate(9),
			},
			source: constant.SourceReception,
			setupMock: func() {
				m.guestRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(guestModel.Guest{ID: "guest-1", Name: "Ana Petrova", Email: "ana@example.com", Phone: "+30 694 000 0000"}, nil)

				m.guestRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "+30 694 111 2222", fields[guestModel.FieldPhone])

						return nil
					})

				m.roomSvc.EXPECT().
					ResolveRoomType(gomock.Any(), "Deluxe Double").
					Return(roomType, nil)

				m.roomSvc.EXPECT().
					RoomsOfType(gomock.Any(), "type-deluxe").
					Return([]roomModel.Room{{ID: "room-1", RoomNumber: "101"}}, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)

				m.roomSvc.EXPECT().
					CurrentRate(gomock.Any(), "type-deluxe").
					Return(100.0, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.audit.EXPECT().
					Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
			},
			wantPrice:  200,
			wantStatus: constant.BookingStatusReserved,
		},
		{
			name: "every room of the type is taken",
			req:  validReq,
			setupMock: func() {
				m.guestRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(guest, nil)

				m.roomSvc.EXPECT().
					ResolveRoomType(gomock.Any(), "Deluxe Double").
					Return(roomType, nil)

				m.roomSvc.EXPECT().
					RoomsOfType(gomock.Any(), "type-deluxe").
					Return([]roomModel.Room{{ID: "room-1", RoomNumber: "101"}}, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{{
						ID:        "other",
						GuestName: "Someone Else",
						CheckIn:   timezone.Today().AddDate(0, 0, 7),
						CheckOut:  timezone.Today().AddDate(0, 0, 9),
						Status:    constant.BookingStatusConfirmed,
					}}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "no rooms of the type in service",
			req:  validReq,
			setupMock: func() {
				m.guestRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(guest, nil)

				m.roomSvc.EXPECT().
					ResolveRoomType(gomock.Any(), "Deluxe Double").
					Return(roomType, nil)

				m.roomSvc.EXPECT().
					RoomsOfType(gomock.Any(), "type-deluxe").
					Return([]roomModel.Room{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "unparseable dates",
			req: dto.CreateBookingRequest{
				GuestName:  "Ana Petrova",
				GuestEmail: "ana@example.com",
				RoomType:   "Deluxe Double",
				CheckIn:    "next tuesday",
				CheckOut:   futureDate(9),
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "check-in in the past",
			req: dto.CreateBookingRequest{
				GuestName:  "Ana Petrova",
				GuestEmail: "ana@example.com",
				RoomType:   "Deluxe Double",
				CheckIn:    futureDate(-2),
				CheckOut:   futureDate(2),
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "check-out not after check-in",
			req: dto.CreateBookingRequest{
				GuestName:  "Ana Petrova",
				GuestEmail: "ana@example.com",
				RoomType:   "Deluxe Double",
				CheckIn:    futureDate(7),
				CheckOut:   futureDate(7),
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyActorID, "reception-1")
			if tt.source != constant.Empty {
				ctx = context.WithValue(ctx, constant.ContextKeySource, tt.source)
			}

			result, err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantPrice, result.TotalPrice)
				assert.Equal(t, tt.wantStatus, result.Status)
				assert.Equal(t, "101", result.RoomNumber)
				assert.Equal(t, "EUR", result.Currency)
			}
		})
	}
}

func TestBookingService_Availability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)

	checkIn := timezone.Today().AddDate(0, 0, 7)
	checkOut := checkIn.AddDate(0, 0, 2)

	t.Run("conflicts are surfaced", func(t *testing.T) {
		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{{ID: "b1", GuestName: "Ana Petrova", CheckIn: checkIn, CheckOut: checkOut, Status: constant.BookingStatusConfirmed}}, nil)

		result, err := svc.Availability(context.Background(), "room-1", checkIn, checkOut)

		assert.NoError(t, err)
		assert.False(t, result.Available)
		assert.Len(t, result.Conflicts, 1)
		assert.Equal(t, "b1", result.Conflicts[0].BookingID)
	})

	t.Run("free window", func(t *testing.T) {
		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{}, nil)

		result, err := svc.Availability(context.Background(), "room-1", checkIn, checkOut)

		assert.NoError(t, err)
		assert.True(t, result.Available)
		assert.Empty(t, result.Conflicts)
	})

	t.Run("inverted window", func(t *testing.T) {
		_, err := svc.Availability(context.Background(), "room-1", checkOut, checkIn)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)
	allowAsync(m)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful cancellation",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "b1", Status: constant.BookingStatusReserved}, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.audit.EXPECT().
					Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
			},
		},
		{
			name: "already cancelled",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "b1", Status: constant.BookingStatusCancelled}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "completed stay",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "b1", Status: constant.BookingStatusCheckedOut}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "booking not found",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Cancel(context.Background(), "b1", "guest request")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_CheckInAndOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)
	allowAsync(m)

	t.Run("check in a confirmed booking", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "b1", Status: constant.BookingStatusConfirmed}, nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.audit.EXPECT().
			Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

		assert.NoError(t, svc.CheckIn(context.Background(), "b1"))
	})

	t.Run("cannot check in a cancelled booking", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "b1", Status: constant.BookingStatusCancelled}, nil)

		err := svc.CheckIn(context.Background(), "b1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("check out a checked-in booking", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "b1", Status: constant.BookingStatusCheckedIn}, nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.audit.EXPECT().
			Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

		assert.NoError(t, svc.CheckOut(context.Background(), "b1"))
	})

	t.Run("cannot check out before check in", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "b1", Status: constant.BookingStatusReserved}, nil)

		err := svc.CheckOut(context.Background(), "b1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestBookingService_Extend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)
	allowAsync(m)

	checkIn := timezone.Today().AddDate(0, 0, 1)
	checkOut := checkIn.AddDate(0, 0, 3)

	booking := model.Booking{
		ID:         "b1",
		RoomID:     "room-1",
		RoomNumber: "101",
		RoomTypeID: "type-deluxe",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     constant.BookingStatusCheckedIn,
		TotalPrice: 300,
	}

	newCheckOut := checkOut.AddDate(0, 0, 2).Format(constant.DateOnlyFormat)

	blocker := model.Booking{
		ID:       "blocker",
		CheckIn:  checkOut,
		CheckOut: checkOut.AddDate(0, 0, 2),
		Status:   constant.BookingStatusConfirmed,
	}

	tests := []struct {
		name       string
		req        dto.ExtendBookingRequest
		setupMock  func()
		wantErr    bool
		wantCode   int
		wantCost   float64
		wantTotal  float64
		wantRoomNo string
	}{
		{
			name: "extension billed at the current rate",
			req:  dto.ExtendBookingRequest{NewCheckOut: newCheckOut},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)

				m.roomSvc.EXPECT().
					CurrentRate(gomock.Any(), "type-deluxe").
					Return(100.0, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.audit.EXPECT().
					Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
			},
			wantCost:   200,
			wantTotal:  500,
			wantRoomNo: "101",
		},
		{
			name: "discount comes off the extra nights",
			req: dto.ExtendBookingRequest{
				NewCheckOut:    newCheckOut,
				DiscountAmount: 50,
				DiscountReason: "long stay",
			},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)

				m.roomSvc.EXPECT().
					CurrentRate(gomock.Any(), "type-deluxe").
					Return(100.0, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.audit.EXPECT().
					Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
			},
			wantCost:   150,
			wantTotal:  450,
			wantRoomNo: "101",
		},
		{
			name: "discount larger than the extension cost is refused",
			req: dto.ExtendBookingRequest{
				NewCheckOut:    newCheckOut,
				DiscountAmount: 250,
			},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)

				m.roomSvc.EXPECT().
					CurrentRate(gomock.Any(), "type-deluxe").
					Return(100.0, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "guest moves to a free room of the same type",
			req:  dto.ExtendBookingRequest{NewCheckOut: newCheckOut},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)

				m.roomSvc.EXPECT().
					CurrentRate(gomock.Any(), "type-deluxe").
					Return(100.0, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{blocker}, nil)

				m.roomSvc.EXPECT().
					RoomsOfType(gomock.Any(), "type-deluxe").
					Return([]roomModel.Room{
						{ID: "room-1", RoomNumber: "101"},
						{ID: "room-2", RoomNumber: "102"},
					}, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.audit.EXPECT().
					Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
			},
			wantCost:   200,
			wantTotal:  500,
			wantRoomNo: "102",
		},
		{
			name: "requested alternate room is honored",
			req: dto.ExtendBookingRequest{
				NewCheckOut:     newCheckOut,
				AlternateRoomID: "room-2",
			},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)

				m.roomSvc.EXPECT().
					CurrentRate(gomock.Any(), "type-deluxe").
					Return(100.0, nil)

				m.roomSvc.EXPECT().
					RoomsOfType(gomock.Any(), "type-deluxe").
					Return([]roomModel.Room{
						{ID: "room-1", RoomNumber: "101"},
						{ID: "room-2", RoomNumber: "102"},
					}, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.audit.EXPECT().
					Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
			},
			wantCost:   200,
			wantTotal:  500,
			wantRoomNo: "102",
		},
		{
			name: "requested alternate room of another type is refused",
			req: dto.ExtendBookingRequest{
				NewCheckOut:     newCheckOut,
				AlternateRoomID: "room-9",
			},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)

				m.roomSvc.EXPECT().
					CurrentRate(gomock.Any(), "type-deluxe").
					Return(100.0, nil)

				m.roomSvc.EXPECT().
					RoomsOfType(gomock.Any(), "type-deluxe").
					Return([]roomModel.Room{
						{ID: "room-1", RoomNumber: "101"},
						{ID: "room-2", RoomNumber: "102"},
					}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "no room free for the extra nights",
			req:  dto.ExtendBookingRequest{NewCheckOut: newCheckOut},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)

				m.roomSvc.EXPECT().
					CurrentRate(gomock.Any(), "type-deluxe").
					Return(100.0, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{blocker}, nil)

				m.roomSvc.EXPECT().
					RoomsOfType(gomock.Any(), "type-deluxe").
					Return([]roomModel.Room{{ID: "room-1", RoomNumber: "101"}}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "new check-out must move the date forward",
			req:  dto.ExtendBookingRequest{NewCheckOut: checkOut.Format(constant.DateOnlyFormat)},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unparseable new check-out",
			req:  dto.ExtendBookingRequest{NewCheckOut: "soon"},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "cancelled bookings cannot be extended",
			req:  dto.ExtendBookingRequest{NewCheckOut: newCheckOut},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "b1", Status: constant.BookingStatusCancelled}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Extend(context.Background(), "b1", tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantCost, result.ExtraCost)
				assert.Equal(t, tt.wantTotal, result.TotalPrice)
				assert.Equal(t, tt.wantRoomNo, result.RoomNumber)
				assert.Equal(t, newCheckOut, result.NewCheckOut)
			}
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)

	t.Run("cache miss falls back to db", func(t *testing.T) {
		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "b1", GuestName: "Ana Petrova"}, nil)

		m.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		result, err := svc.Get(context.Background(), "b1")

		assert.NoError(t, err)
		assert.Equal(t, "b1", result.ID)
	})

	t.Run("booking not found", func(t *testing.T) {
		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)
	allowAsync(m)

	t.Run("snapshot is audited before the row is removed", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "b1", GuestName: "Ana Petrova"}, nil)

		m.audit.EXPECT().
			Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

		m.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), "b1"))
	})

	t.Run("booking not found", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		err := svc.Delete(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_CreateNotificationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)

	m.publisher.EXPECT().
		PublishBookingEvent(gomock.Any(), gomock.Any()).
		Return(errors.New("broker unreachable")).
		AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	m.guestRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(guestModel.Guest{ID: "guest-1", Name: "Ana Petrova", Email: "ana@example.com"}, nil)

	m.roomSvc.EXPECT().
		ResolveRoomType(gomock.Any(), "Deluxe Double").
		Return(roomModel.RoomType{ID: "type-deluxe", Name: "Deluxe Double", BasePrice: 100}, nil)

	m.roomSvc.EXPECT().
		RoomsOfType(gomock.Any(), "type-deluxe").
		Return([]roomModel.Room{{ID: "room-1", RoomNumber: "101"}}, nil)

	m.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{}, nil)

	m.roomSvc.EXPECT().
		CurrentRate(gomock.Any(), "type-deluxe").
		Return(100.0, nil)

	m.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		Return(nil)

	m.audit.EXPECT().
		Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

	// A dead broker must never fail the booking itself.
	result, err := svc.Create(context.Background(), dto.CreateBookingRequest{
		GuestName:  "Ana Petrova",
		GuestEmail: "ana@example.com",
		RoomType:   "Deluxe Double",
		CheckIn:    futureDate(7),
		CheckOut:   futureDate(9),
	})

	assert.NoError(t, err)
	assert.Equal(t, 200.0, result.TotalPrice)
	assert.Equal(t, "101", result.RoomNumber)
}
