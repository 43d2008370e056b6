package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/infras/s3"
	"lodge/internal/domains/audit/model"
	"lodge/internal/domains/audit/model/dto"
	"lodge/internal/domains/audit/repository"
	bookingModel "lodge/internal/domains/booking/model"
	bookingRepo "lodge/internal/domains/booking/repository"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Audit interface {
	Record(ctx context.Context, action, entityType, entityID string, details any)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAuditLogsResponse, error)
	EndOfDayReport(ctx context.Context, date time.Time) (dto.EndOfDayReport, error)
}

type serviceImpl struct {
	repo        repository.AuditLog
	bookingRepo bookingRepo.Booking
	storage     s3.S3
	cfg         *config.Config
	otel        otel.Otel
}

func New(repo repository.AuditLog, bookingRepo bookingRepo.Booking, storage s3.S3, cfg *config.Config, otel otel.Otel) Audit {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		storage:     storage,
		cfg:         cfg,
		otel:        otel,
	}
}

// Record appends an audit entry. It is best-effort: a failed write is
// logged and swallowed so the mutation it describes is never rolled back
// over bookkeeping.
func (s *serviceImpl) Record(ctx context.Context, action, entityType, entityID string, details any) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Record")
	defer scope.End()

	actor, _ := ctx.Value(constant.ContextKeyActorID).(string)
	if actor == constant.Empty {
		actor = s.cfg.App.ServiceAccountID
	}

	rawDetails, err := json.Marshal(details)
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to marshal audit details")
		scope.TraceError(err)

		rawDetails = []byte("{}")
	}

	meta := map[string]any{"actor": actor}
	if source, ok := ctx.Value(constant.ContextKeySource).(string); ok && source != constant.Empty {
		meta["source"] = source
	}

	rawMeta, err := json.Marshal(meta)
	if err != nil {
		rawMeta = []byte("{}")
	}

	entry := model.AuditLog{
		ID:         uuid.NewString(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    string(rawDetails),
		Meta:       string(rawMeta),
		UserID:     actor,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", action).Str("entity_id", entityID).Msg("failed to record audit entry")
		scope.TraceError(err)
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAuditLogsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audit logs")

		return res, fmt.Errorf("failed to count audit logs: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get audit logs")

		return res, fmt.Errorf("failed to get audit logs: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

// EndOfDayReport summarizes bookings created on the given day and the
// current sync backlog. The report is archived to object storage when a
// bucket is configured; an archive failure does not fail the report.
func (s *serviceImpl) EndOfDayReport(ctx context.Context, date time.Time) (res dto.EndOfDayReport, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EndOfDayReport")
	defer scope.End()
	defer scope.TraceIfError(err)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, timezone.GetLocation())
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				ArgName:  "day_start",
				Field:    constant.FieldCreatedAt,
				Value:    dayStart,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				ArgName:  "day_end",
				Field:    constant.FieldCreatedAt,
				Value:    dayEnd,
				Operator: gDto.FilterOperatorLess,
				Table:    bookingModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for report")

		return res, fmt.Errorf("failed to get bookings for report: %w", err)
	}

	res = dto.EndOfDayReport{
		Date:             dayStart.Format(constant.DateOnlyFormat),
		Currency:         s.cfg.App.Currency,
		PaymentBreakdown: map[string]float64{},
	}

	for _, booking := range bookings {
		res.TotalBookings++

		switch booking.Status {
		case constant.BookingStatusCancelled:
			res.CancelledBookings++

			continue
		case constant.BookingStatusConfirmed, constant.BookingStatusCheckedIn, constant.BookingStatusCheckedOut:
			res.ConfirmedBookings++
		}

		res.TotalRevenue += booking.TotalPrice

		method := booking.PaymentMethod
		if method == constant.Empty {
			method = "unspecified"
		}

		res.PaymentBreakdown[method] += booking.TotalPrice
	}

	res.PendingSync, err = s.bookingRepo.Count(ctx, syncBacklogFilter(bookingModel.FieldSynced, false))
	if err != nil {
		log.Error().Err(err).Msg("failed to count pending sync bookings")

		return res, fmt.Errorf("failed to count pending sync bookings: %w", err)
	}

	res.OpenConflicts, err = s.bookingRepo.Count(ctx, syncBacklogFilter(bookingModel.FieldConflict, true))
	if err != nil {
		log.Error().Err(err).Msg("failed to count conflicted bookings")

		return res, fmt.Errorf("failed to count conflicted bookings: %w", err)
	}

	res.ArchiveURL = s.archive(ctx, res)

	s.Record(ctx, model.ActionReportGenerated, model.EntityTypeSystem, res.Date, res)

	return res, nil
}

func (s *serviceImpl) archive(ctx context.Context, report dto.EndOfDayReport) string {
	if s.cfg.External.S3.BucketName == constant.Empty {
		return constant.Empty
	}

	raw, err := json.Marshal(report)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal report for archive")

		return constant.Empty
	}

	url, err := s.storage.UploadFileBytes(ctx,
		s.cfg.External.S3.BucketName,
		s.cfg.External.S3.ReportDirectory,
		report.FileName(),
		constant.ContentTypeJSON,
		raw,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to archive report")

		return constant.Empty
	}

	return url
}

func syncBacklogFilter(field string, value bool) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    field,
				Value:    value,
				Operator: gDto.FilterOperatorEq,
				Table:    bookingModel.TableName,
			},
		},
	}
}
