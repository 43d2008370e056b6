package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	"lodge/infras/otel/mocks"
	s3Mocks "lodge/infras/s3/mocks"
	auditMocks "lodge/internal/domains/audit/mocks"
	"lodge/internal/domains/audit/model"
	"lodge/internal/domains/audit/service"
	bookingMocks "lodge/internal/domains/booking/mocks"
	bookingModel "lodge/internal/domains/booking/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/timezone"
)

type serviceMocks struct {
	repo        *auditMocks.MockAuditLog
	bookingRepo *bookingMocks.MockBooking
	storage     *s3Mocks.MockS3
}

func newService(ctrl *gomock.Controller, bucket string) (service.Audit, serviceMocks) {
	m := serviceMocks{
		repo:        auditMocks.NewMockAuditLog(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		storage:     s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.Currency = "EUR"
	cfg.App.ServiceAccountID = "system"
	cfg.External.S3.BucketName = bucket
	cfg.External.S3.ReportDirectory = "reports"

	svc := service.New(m.repo, m.bookingRepo, m.storage, cfg, mocks.NewOtel())

	return svc, m
}

func TestAuditService_Record(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl, constant.Empty)

	t.Run("entry carries the actor from context", func(t *testing.T) {
		var entry model.AuditLog

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, inserted model.AuditLog) error {
				entry = inserted

				return nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyActorID, "reception-1")
		ctx = context.WithValue(ctx, constant.ContextKeySource, constant.SourceReception)

		svc.Record(ctx, model.ActionBookingCreated, model.EntityTypeBooking, "b1", map[string]any{"room_number": "101"})

		assert.Equal(t, "reception-1", entry.UserID)
		assert.Equal(t, model.ActionBookingCreated, entry.Action)
		assert.Equal(t, "b1", entry.EntityID)
		assert.JSONEq(t, `{"room_number":"101"}`, entry.Details)
		assert.JSONEq(t, `{"actor":"reception-1","source":"reception"}`, entry.Meta)
	})

	t.Run("falls back to the service account", func(t *testing.T) {
		var entry model.AuditLog

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, inserted model.AuditLog) error {
				entry = inserted

				return nil
			})

		svc.Record(context.Background(), model.ActionSyncCompleted, model.EntityTypeSync, "s1", nil)

		assert.Equal(t, "system", entry.UserID)
		assert.JSONEq(t, `{"actor":"system"}`, entry.Meta)
	})

	t.Run("unmarshalable details degrade to an empty object", func(t *testing.T) {
		var entry model.AuditLog

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, inserted model.AuditLog) error {
				entry = inserted

				return nil
			})

		svc.Record(context.Background(), model.ActionBookingCreated, model.EntityTypeBooking, "b1", make(chan int))

		assert.Equal(t, "{}", entry.Details)
	})

	t.Run("insert failure is swallowed", func(t *testing.T) {
		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		svc.Record(context.Background(), model.ActionBookingCreated, model.EntityTypeBooking, "b1", nil)
	})
}

func TestAuditService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl, constant.Empty)

	t.Run("success", func(t *testing.T) {
		m.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(2, nil)

		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.AuditLog{
				{ID: "a1", Action: model.ActionBookingCreated},
				{ID: "a2", Action: model.ActionBookingCancelled},
			}, nil)

		result, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 2, result.TotalData)
		assert.Len(t, result.AuditLogs, 2)
	})

	t.Run("count failure", func(t *testing.T) {
		m.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(0, errors.New("database error"))

		_, err := svc.GetAll(context.Background(), gDto.QueryParams{}, gDto.FilterGroup{})

		assert.Error(t, err)
	})
}

func TestAuditService_EndOfDayReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	day := timezone.Today()

	bookings := []bookingModel.Booking{
		{ID: "b1", Status: constant.BookingStatusConfirmed, TotalPrice: 200, PaymentMethod: "cash"},
		{ID: "b2", Status: constant.BookingStatusCancelled, TotalPrice: 150, PaymentMethod: "card"},
		{ID: "b3", Status: constant.BookingStatusCheckedOut, TotalPrice: 300, PaymentMethod: "card"},
		{ID: "b4", Status: constant.BookingStatusReserved, TotalPrice: 100},
	}

	t.Run("cancelled bookings are counted but not billed", func(t *testing.T) {
		svc, m := newService(ctrl, constant.Empty)

		m.bookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(bookings, nil)

		m.bookingRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(2, nil)

		m.bookingRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(1, nil)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		result, err := svc.EndOfDayReport(context.Background(), day)

		assert.NoError(t, err)
		assert.Equal(t, day.Format(constant.DateOnlyFormat), result.Date)
		assert.Equal(t, 4, result.TotalBookings)
		assert.Equal(t, 2, result.ConfirmedBookings)
		assert.Equal(t, 1, result.CancelledBookings)
		assert.Equal(t, 600.0, result.TotalRevenue)
		assert.Equal(t, 200.0, result.PaymentBreakdown["cash"])
		assert.Equal(t, 300.0, result.PaymentBreakdown["card"])
		assert.Equal(t, 100.0, result.PaymentBreakdown["unspecified"])
		assert.Equal(t, 2, result.PendingSync)
		assert.Equal(t, 1, result.OpenConflicts)
		assert.Empty(t, result.ArchiveURL)
	})

	t.Run("report is archived when a bucket is configured", func(t *testing.T) {
		svc, m := newService(ctrl, "lodge-reports")

		m.bookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{}, nil)

		m.bookingRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(0, nil).
			Times(2)

		m.storage.EXPECT().
			UploadFileBytes(gomock.Any(), "lodge-reports", "reports", gomock.Any(), constant.ContentTypeJSON, gomock.Any()).
			Return("https://storage.example.com/reports/eod.json", nil)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		result, err := svc.EndOfDayReport(context.Background(), day)

		assert.NoError(t, err)
		assert.Equal(t, "https://storage.example.com/reports/eod.json", result.ArchiveURL)
	})

	t.Run("archive failure does not fail the report", func(t *testing.T) {
		svc, m := newService(ctrl, "lodge-reports")

		m.bookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{}, nil)

		m.bookingRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(0, nil).
			Times(2)

		m.storage.EXPECT().
			UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(constant.Empty, errors.New("storage unavailable"))

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		result, err := svc.EndOfDayReport(context.Background(), day)

		assert.NoError(t, err)
		assert.Empty(t, result.ArchiveURL)
	})
}
