package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	"lodge/infras/otel/mocks"
	auditMocks "lodge/internal/domains/audit/mocks"
	bookingMocks "lodge/internal/domains/booking/mocks"
	bookingModel "lodge/internal/domains/booking/model"
	bookingDto "lodge/internal/domains/booking/model/dto"
	groupMocks "lodge/internal/domains/group/mocks"
	"lodge/internal/domains/group/model"
	"lodge/internal/domains/group/model/dto"
	"lodge/internal/domains/group/service"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

type serviceMocks struct {
	repo        *groupMocks.MockGroupMember
	bookingRepo *bookingMocks.MockBooking
	bookingSvc  *bookingMocks.MockBookingService
	audit       *auditMocks.MockAudit
}

func newService(ctrl *gomock.Controller) (service.Group, serviceMocks) {
	m := serviceMocks{
		repo:        groupMocks.NewMockGroupMember(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		bookingSvc:  bookingMocks.NewMockBookingService(ctrl),
		audit:       auditMocks.NewMockAudit(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.Currency = "EUR"

	svc := service.New(m.repo, m.bookingRepo, m.bookingSvc, m.audit, cfg, mocks.NewOtel())

	return svc, m
}

func idFromFilter(filter gDto.FilterGroup) string {
	id, _ := filter.Filters[0].(gDto.Filter).Value.(string)

	return id
}

func TestGroupService_AddToGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)

	checkIn := timezone.Today().AddDate(0, 0, 7).Format(constant.DateOnlyFormat)
	checkOut := timezone.Today().AddDate(0, 0, 9).Format(constant.DateOnlyFormat)

	t.Run("first member becomes primary and billing contact", func(t *testing.T) {
		req := dto.AddToGroupRequest{
			GroupID: "group-1",
			Booking: bookingDto.CreateBookingRequest{
				GuestName:       "Ana Petrova",
				GuestEmail:      "ana@example.com",
				RoomType:        "Deluxe Double",
				CheckIn:         checkIn,
				CheckOut:        checkOut,
				SpecialRequests: "sea view",
			},
		}

		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.GroupMember{}, nil)

		m.bookingSvc.EXPECT().
			Create(gomock.Any(), req.Booking).
			Return(bookingDto.CreateBookingResponse{BookingID: "b1", RoomNumber: "101", TotalPrice: 200}, nil)

		var inserted model.GroupMember

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, member model.GroupMember) error {
				inserted = member

				return nil
			})

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: "b1", SpecialRequests: "sea view"}, nil)

		var tagged string

		m.bookingRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				tagged, _ = fields[bookingModel.FieldSpecialRequests].(string)

				return nil
			})

		m.audit.EXPECT().
			Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

		result, err := svc.AddToGroup(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, "group-1", result.GroupID)
		assert.True(t, result.IsPrimary)
		assert.True(t, inserted.IsPrimary)
		assert.Equal(t, "ana@example.com", inserted.BillingContact)
		assert.True(t, strings.HasPrefix(tagged, "sea view "))
		assert.Contains(t, tagged, "[GROUP_BOOKING:")
	})

	t.Run("later members inherit the primary billing contact", func(t *testing.T) {
		req := dto.AddToGroupRequest{
			GroupID: "group-1",
			Booking: bookingDto.CreateBookingRequest{
				GuestName:  "Boris Iliev",
				GuestEmail: "boris@example.com",
				RoomType:   "Deluxe Double",
				CheckIn:    checkIn,
				CheckOut:   checkOut,
			},
		}

		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.GroupMember{
				{ID: "m1", GroupID: "group-1", BookingID: "b1", IsPrimary: true, BillingContact: "ana@example.com"},
			}, nil)

		m.bookingSvc.EXPECT().
			Create(gomock.Any(), req.Booking).
			Return(bookingDto.CreateBookingResponse{BookingID: "b2", RoomNumber: "102", TotalPrice: 200}, nil)

		var inserted model.GroupMember

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, member model.GroupMember) error {
				inserted = member

				return nil
			})

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: "b2"}, nil)

		m.bookingRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.audit.EXPECT().
			Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

		result, err := svc.AddToGroup(context.Background(), req)

		assert.NoError(t, err)
		assert.False(t, result.IsPrimary)
		assert.False(t, inserted.IsPrimary)
		assert.Equal(t, "ana@example.com", inserted.BillingContact)
	})

	t.Run("booking failure aborts the whole operation", func(t *testing.T) {
		req := dto.AddToGroupRequest{
			GroupID: "group-1",
			Booking: bookingDto.CreateBookingRequest{
				GuestName:  "Ana Petrova",
				GuestEmail: "ana@example.com",
				RoomType:   "Deluxe Double",
				CheckIn:    checkIn,
				CheckOut:   checkOut,
			},
		}

		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.GroupMember{}, nil)

		m.bookingSvc.EXPECT().
			Create(gomock.Any(), req.Booking).
			Return(bookingDto.CreateBookingResponse{}, failure.Conflict("room is already booked"))

		_, err := svc.AddToGroup(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestGroupService_RemoveFromGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)

	members := []model.GroupMember{
		{ID: "m1", GroupID: "group-1", BookingID: "b1", IsPrimary: true, BillingContact: "ana@example.com"},
		{ID: "m2", GroupID: "group-1", BookingID: "b2"},
	}

	t.Run("removing the primary promotes a survivor", func(t *testing.T) {
		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(members, nil)

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: "b1", Status: constant.BookingStatusConfirmed}, nil)

		m.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		m.bookingSvc.EXPECT().
			Delete(gomock.Any(), "b1").
			Return(nil)

		var promoted map[string]any

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				promoted = fields

				return nil
			})

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: "b2", SpecialRequests: "quiet room"}, nil)

		m.bookingRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.audit.EXPECT().
			Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

		err := svc.RemoveFromGroup(context.Background(), "group-1", "b1")

		assert.NoError(t, err)
		assert.Equal(t, true, promoted[model.FieldIsPrimary])
		assert.Equal(t, "ana@example.com", promoted[model.FieldBillingContact])
	})

	t.Run("checked-in guests stay in the group", func(t *testing.T) {
		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(members, nil)

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: "b1", Status: constant.BookingStatusCheckedIn}, nil)

		err := svc.RemoveFromGroup(context.Background(), "group-1", "b1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("legacy tag-only member can be removed", func(t *testing.T) {
		tagged, err := model.EncodeTag("late arrival", model.Tag{GroupID: "group-1", BillingContact: "ana@example.com"})
		assert.NoError(t, err)

		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(members, nil)

		m.bookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{{ID: "b3", SpecialRequests: tagged}}, nil)

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: "b3", Status: constant.BookingStatusConfirmed}, nil)

		m.bookingSvc.EXPECT().
			Delete(gomock.Any(), "b3").
			Return(nil)

		m.audit.EXPECT().
			Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

		assert.NoError(t, svc.RemoveFromGroup(context.Background(), "group-1", "b3"))
	})

	t.Run("removing a legacy primary promotes a tag survivor", func(t *testing.T) {
		taggedPrimary, err := model.EncodeTag("", model.Tag{GroupID: "group-1", IsPrimary: true, BillingContact: "ana@example.com"})
		assert.NoError(t, err)

		taggedOther, err := model.EncodeTag("", model.Tag{GroupID: "group-1"})
		assert.NoError(t, err)

		legacy := []bookingModel.Booking{
			{ID: "b1", SpecialRequests: taggedPrimary},
			{ID: "b2", SpecialRequests: taggedOther},
		}

		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.GroupMember{}, nil)

		m.bookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(legacy, nil).
			Times(2)

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: "b1", Status: constant.BookingStatusConfirmed}, nil)

		m.bookingSvc.EXPECT().
			Delete(gomock.Any(), "b1").
			Return(nil)

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: "b2", SpecialRequests: taggedOther}, nil)

		var retagged string

		m.bookingRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				retagged, _ = fields[bookingModel.FieldSpecialRequests].(string)

				return nil
			})

		m.audit.EXPECT().
			Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

		assert.NoError(t, svc.RemoveFromGroup(context.Background(), "group-1", "b1"))

		tag, ok := model.ParseTag(retagged)

		assert.True(t, ok)
		assert.True(t, tag.IsPrimary)
		assert.Equal(t, "ana@example.com", tag.BillingContact)
	})

	t.Run("booking outside the group", func(t *testing.T) {
		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(members, nil)

		m.bookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{}, nil)

		err := svc.RemoveFromGroup(context.Background(), "group-1", "b9")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("repository error while listing members", func(t *testing.T) {
		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error"))

		err := svc.RemoveFromGroup(context.Background(), "group-1", "b1")

		assert.Error(t, err)
	})
}

func TestGroupService_Members(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)

	t.Run("relation and legacy markers are merged without duplicates", func(t *testing.T) {
		taggedB1, err := model.EncodeTag("sea view", model.Tag{GroupID: "group-1", IsPrimary: true, BillingContact: "ana@example.com"})
		assert.NoError(t, err)

		taggedB2, err := model.EncodeTag("", model.Tag{GroupID: "group-1"})
		assert.NoError(t, err)

		taggedOther, err := model.EncodeTag("", model.Tag{GroupID: "group-9"})
		assert.NoError(t, err)

		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.GroupMember{
				{ID: "m1", GroupID: "group-1", BookingID: "b1", IsPrimary: true, BillingContact: "ana@example.com"},
			}, nil)

		m.bookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{
				{ID: "b1", SpecialRequests: taggedB1},
				{ID: "b2", SpecialRequests: taggedB2},
				{ID: "b9", SpecialRequests: taggedOther},
			}, nil)

		bookings := map[string]bookingModel.Booking{
			"b1": {ID: "b1", GuestName: "Ana Petrova", RoomNumber: "101", CheckIn: timezone.Today(), CheckOut: timezone.Today().AddDate(0, 0, 2), Status: constant.BookingStatusConfirmed, TotalPrice: 200},
			"b2": {ID: "b2", GuestName: "Boris Iliev", RoomNumber: "102", CheckIn: timezone.Today(), CheckOut: timezone.Today().AddDate(0, 0, 2), Status: constant.BookingStatusConfirmed, TotalPrice: 150},
		}

		m.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (bookingModel.Booking, error) {
				return bookings[idFromFilter(filter)], nil
			}).
			Times(2)

		result, err := svc.Members(context.Background(), "group-1")

		assert.NoError(t, err)
		assert.Len(t, result.Members, 2)
		assert.Equal(t, 350.0, result.TotalPrice)
		assert.Equal(t, "EUR", result.Currency)

		for _, member := range result.Members {
			if member.BookingID == "b1" {
				assert.True(t, member.IsPrimary)
				assert.Equal(t, "ana@example.com", member.BillingContact)
			} else {
				assert.False(t, member.IsPrimary)
			}
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.GroupMember{}, nil)

		m.bookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{}, nil)

		_, err := svc.Members(context.Background(), "group-missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
