package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"lodge/config"
	"lodge/infras/otel"
	auditModel "lodge/internal/domains/audit/model"
	auditSvc "lodge/internal/domains/audit/service"
	bookingModel "lodge/internal/domains/booking/model"
	bookingDto "lodge/internal/domains/booking/model/dto"
	bookingRepo "lodge/internal/domains/booking/repository"
	groupRepo "lodge/internal/domains/group/repository"
	guestRepo "lodge/internal/domains/guest/repository"
	"lodge/internal/domains/sync/model/dto"
	"lodge/internal/domains/sync/remote"
	"lodge/internal/events"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Sync interface {
	Pending(ctx context.Context) (dto.PendingResponse, error)
	Sweep(ctx context.Context) (dto.SweepResult, error)
	Conflicted(ctx context.Context) (dto.ConflictsResponse, error)
	Resolve(ctx context.Context, req dto.ResolveConflictRequest) error
	ClearAllData(ctx context.Context) error
}

type serviceImpl struct {
	bookingRepo bookingRepo.Booking
	groupRepo   groupRepo.GroupMember
	guestRepo   guestRepo.Guest
	remote      remote.Client
	audit       auditSvc.Audit
	publisher   events.Publisher
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	bookingRepo bookingRepo.Booking,
	groupRepo groupRepo.GroupMember,
	guestRepo guestRepo.Guest,
	remoteClient remote.Client,
	audit auditSvc.Audit,
	publisher events.Publisher,
	cfg *config.Config,
	otel otel.Otel,
) Sync {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		groupRepo:   groupRepo,
		guestRepo:   guestRepo,
		remote:      remoteClient,
		audit:       audit,
		publisher:   publisher,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) Pending(ctx context.Context) (res dto.PendingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Pending")
	defer scope.End()
	defer scope.TraceIfError(err)

	bookings, err := s.pendingBookings(ctx)
	if err != nil {
		return res, err
	}

	res.TotalData = len(bookings)
	res.Bookings = make([]bookingDto.BookingResponse, len(bookings))

	for i, booking := range bookings {
		res.Bookings[i].FromModel(booking)
	}

	return res, nil
}

// Sweep pushes every unsynced booking to the remote store. An overlap
// answer flags the local record as conflicted and mirrors the remote
// record so staff can see both sides; any other failure leaves the
// booking queued for the next sweep.
func (s *serviceImpl) Sweep(ctx context.Context) (res dto.SweepResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Sweep")
	defer scope.End()
	defer scope.TraceIfError(err)

	bookings, err := s.pendingBookings(ctx)
	if err != nil {
		return res, err
	}

	for _, booking := range bookings {
		remoteID, pushErr := s.remote.Push(ctx, booking)
		if pushErr == nil {
			if err := s.markSynced(ctx, booking.ID, remoteID); err != nil {
				res.Failed++

				continue
			}

			res.Pushed++

			continue
		}

		overlap, ok := remote.AsOverlap(pushErr)
		if !ok {
			log.Error().Err(pushErr).Str("booking_id", booking.ID).Msg("failed to push booking, will retry next sweep")

			res.Failed++

			continue
		}

		// A re-pushed booking can only conflict with a record other than
		// its own remote copy. Colliding with itself means the update was
		// already applied, so the row just settles.
		if booking.RemoteID != constant.Empty {
			if overlap.Conflicting.ID == booking.RemoteID {
				if err := s.markSynced(ctx, booking.ID, booking.RemoteID); err != nil {
					res.Failed++

					continue
				}

				res.Pushed++

				continue
			}

			log.Error().
				Str("booking_id", booking.ID).
				Str("remote_id", booking.RemoteID).
				Str("conflicting_id", overlap.Conflicting.ID).
				Msg("remote rejected an update as an overlap, will retry next sweep")

			res.Failed++

			continue
		}

		if err := s.flagConflict(ctx, booking, overlap.Conflicting); err != nil {
			res.Failed++

			continue
		}

		res.Conflicts++
	}

	if res.Pushed > 0 || res.Conflicts > 0 || res.Failed > 0 {
		s.audit.Record(ctx, auditModel.ActionSyncCompleted, auditModel.EntityTypeSync, uuid.NewString(), res)
	}

	return res, nil
}

func (s *serviceImpl) Conflicted(ctx context.Context) (res dto.ConflictsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Conflicted")
	defer scope.End()
	defer scope.TraceIfError(err)

	bookings, err := s.bookingRepo.GetAll(ctx,
		gDto.QueryParams{
			SortBy:  bookingModel.FieldCheckIn,
			SortDir: "ASC",
		},
		flagFilter(bookingModel.FieldConflict, true))
	if err != nil {
		log.Error().Err(err).Msg("failed to get conflicted bookings")

		return res, fmt.Errorf("failed to get conflicted bookings: %w", err)
	}

	res.TotalData = len(bookings)
	res.Bookings = make([]bookingDto.BookingResponse, len(bookings))

	for i, booking := range bookings {
		res.Bookings[i].FromModel(booking)
	}

	return res, nil
}

// Resolve settles a conflict pair: the kept booking wins the room and the
// cancelled one loses it. When the losing side lives in the remote store it
// is disputed there first, so the next sweep cannot re-flag the winner.
// Resolving an already settled pair is a no-op, so retried requests do not
// pile up audit entries.
func (s *serviceImpl) Resolve(ctx context.Context, req dto.ResolveConflictRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.KeepID == req.CancelID {
		return failure.BadRequestFromString("keep_id and cancel_id must be different bookings") // nolint:wrapcheck
	}

	keep, err := s.getBooking(ctx, req.KeepID)
	if err != nil {
		return err
	}

	cancel, err := s.getBooking(ctx, req.CancelID)
	if err != nil {
		return err
	}

	if !keep.Conflict && !cancel.Conflict {
		return nil
	}

	actor, _ := ctx.Value(constant.ContextKeyActorID).(string)

	// The losing side settles first. If it has a remote copy the dispute
	// must land upstream before the winner is re-queued, otherwise the next
	// push would collide with the same record again.
	if cancel.RemoteID != constant.Empty {
		if err = s.remote.FlagConflict(ctx, cancel.RemoteID); err != nil {
			log.Error().Err(err).Str("remote_id", cancel.RemoteID).Msg("failed to dispute remote booking")

			return fmt.Errorf("failed to dispute remote booking: %w", err)
		}
	}

	err = s.bookingRepo.Update(ctx, map[string]any{
		bookingModel.FieldStatus:   constant.BookingStatusCancelled,
		bookingModel.FieldConflict: false,
		bookingModel.FieldSynced:   true,
		constant.FieldModifiedAt:   timezone.Now(),
		constant.FieldModifiedBy:   actor,
	}, shared.FilterByID(cancel.ID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel losing booking")

		return fmt.Errorf("failed to cancel losing booking: %w", err)
	}

	fields := map[string]any{
		bookingModel.FieldConflict: false,
		// A winner without a remote copy goes back into the push queue.
		bookingModel.FieldSynced: keep.RemoteID != constant.Empty,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	if keep.Status != constant.BookingStatusCheckedIn && keep.Status != constant.BookingStatusCheckedOut {
		fields[bookingModel.FieldStatus] = constant.BookingStatusConfirmed
	}

	err = s.bookingRepo.Update(ctx, fields, shared.FilterByID(keep.ID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to settle winning booking")

		return fmt.Errorf("failed to settle winning booking: %w", err)
	}

	s.audit.Record(ctx, auditModel.ActionConflictResolved, auditModel.EntityTypeSync, keep.ID, map[string]any{
		"kept_id":      keep.ID,
		"cancelled_id": cancel.ID,
	})

	return nil
}

func (s *serviceImpl) getBooking(ctx context.Context, bookingID string) (bookingModel.Booking, error) {
	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// ClearAllData wipes bookings, group members and guests. It exists for
// resetting a development install and refuses to run anywhere else.
func (s *serviceImpl) ClearAllData(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ClearAllData")
	defer scope.End()
	defer scope.TraceIfError(err)

	if s.cfg.Server.Env != constant.ServerEnvDevelopment {
		return failure.Forbidden("data reset is only allowed in development") // nolint:wrapcheck
	}

	// Recorded before the wipe so the reset itself is never lost with it.
	s.audit.Record(ctx, auditModel.ActionDataCleared, auditModel.EntityTypeSystem, uuid.NewString(), map[string]any{
		"env": s.cfg.Server.Env,
	})

	everything := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Value:    "true",
				Operator: gDto.FilterPlainQuery,
			},
		},
	}

	if err = s.groupRepo.Delete(ctx, everything); err != nil {
		log.Error().Err(err).Msg("failed to clear group members")

		return fmt.Errorf("failed to clear group members: %w", err)
	}

	if err = s.bookingRepo.Delete(ctx, everything); err != nil {
		log.Error().Err(err).Msg("failed to clear bookings")

		return fmt.Errorf("failed to clear bookings: %w", err)
	}

	if err = s.guestRepo.Delete(ctx, everything); err != nil {
		log.Error().Err(err).Msg("failed to clear guests")

		return fmt.Errorf("failed to clear guests: %w", err)
	}

	log.Warn().Msg("all booking data cleared")

	return nil
}

func (s *serviceImpl) pendingBookings(ctx context.Context) ([]bookingModel.Booking, error) {
	bookings, err := s.bookingRepo.GetAll(ctx,
		gDto.QueryParams{
			SortBy:  constant.FieldCreatedAt,
			SortDir: "ASC",
		},
		gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    bookingModel.FieldSynced,
					Value:    false,
					Operator: gDto.FilterOperatorEq,
					Table:    bookingModel.TableName,
				},
				gDto.Filter{
					Field:    bookingModel.FieldConflict,
					Value:    false,
					Operator: gDto.FilterOperatorEq,
					Table:    bookingModel.TableName,
				},
			},
		})
	if err != nil {
		log.Error().Err(err).Msg("failed to get pending bookings")

		return nil, fmt.Errorf("failed to get pending bookings: %w", err)
	}

	return bookings, nil
}

func (s *serviceImpl) markSynced(ctx context.Context, bookingID, remoteID string) error {
	err := s.bookingRepo.Update(ctx, map[string]any{
		bookingModel.FieldSynced:   true,
		bookingModel.FieldRemoteID: remoteID,
		constant.FieldModifiedAt:   timezone.Now(),
		constant.FieldModifiedBy:   s.cfg.App.ServiceAccountID,
	}, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to mark booking synced")

		return fmt.Errorf("failed to mark booking synced: %w", err)
	}

	return nil
}

func (s *serviceImpl) flagConflict(ctx context.Context, booking bookingModel.Booking, conflicting remote.Booking) error {
	err := s.bookingRepo.Update(ctx, map[string]any{
		bookingModel.FieldConflict: true,
		constant.FieldModifiedAt:   timezone.Now(),
		constant.FieldModifiedBy:   s.cfg.App.ServiceAccountID,
	}, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to flag booking conflict")

		return fmt.Errorf("failed to flag booking conflict: %w", err)
	}

	if err := s.mirrorRemote(ctx, booking, conflicting); err != nil {
		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		publishErr := s.publisher.PublishBookingEvent(c, events.BookingEvent{
			Type:       events.TypeBookingConflict,
			BookingID:  booking.ID,
			GuestName:  booking.GuestName,
			GuestEmail: booking.GuestEmail,
			RoomNumber: booking.RoomNumber,
			CheckIn:    booking.CheckIn.Format(constant.DateOnlyFormat),
			CheckOut:   booking.CheckOut.Format(constant.DateOnlyFormat),
			TotalPrice: booking.TotalPrice,
			Status:     booking.Status,
			Source:     booking.Source,
		})
		if publishErr != nil {
			log.Error().Err(publishErr).Str("booking_id", booking.ID).Msg("failed to publish conflict event")
		}
	}()

	return nil
}

// mirrorRemote stores the remote record that won the race as a local row,
// flagged as a conflict, so the desk sees both claims on the room.
func (s *serviceImpl) mirrorRemote(ctx context.Context, local bookingModel.Booking, conflicting remote.Booking) error {
	exist, err := s.bookingRepo.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldRemoteID,
				Value:    conflicting.ID,
				Operator: gDto.FilterOperatorEq,
				Table:    bookingModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check mirrored booking")

		return fmt.Errorf("failed to check mirrored booking: %w", err)
	}

	if exist {
		return nil
	}

	checkIn, err := time.Parse(constant.DateOnlyFormat, conflicting.CheckIn)
	if err != nil {
		log.Error().Err(err).Str("remote_id", conflicting.ID).Msg("remote booking has an unparseable check-in")

		return fmt.Errorf("remote booking has an unparseable check-in: %w", err)
	}

	checkOut, err := time.Parse(constant.DateOnlyFormat, conflicting.CheckOut)
	if err != nil {
		log.Error().Err(err).Str("remote_id", conflicting.ID).Msg("remote booking has an unparseable check-out")

		return fmt.Errorf("remote booking has an unparseable check-out: %w", err)
	}

	mirror := bookingModel.Booking{
		ID:              uuid.NewString(),
		RemoteID:        conflicting.ID,
		GuestName:       conflicting.GuestName,
		GuestEmail:      conflicting.GuestEmail,
		GuestPhone:      conflicting.GuestPhone,
		RoomID:          local.RoomID,
		RoomNumber:      conflicting.RoomNumber,
		RoomTypeID:      local.RoomTypeID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Status:          conflicting.Status,
		TotalPrice:      conflicting.TotalPrice,
		NumGuests:       conflicting.NumGuests,
		PaymentMethod:   conflicting.PaymentMethod,
		Source:          conflicting.Source,
		SpecialRequests: conflicting.SpecialRequests,
		Synced:          true,
		Conflict:        true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  s.cfg.App.ServiceAccountID,
			ModifiedBy: s.cfg.App.ServiceAccountID,
		},
	}

	if err := s.bookingRepo.Insert(ctx, mirror); err != nil {
		log.Error().Err(err).Str("remote_id", conflicting.ID).Msg("failed to mirror remote booking")

		return fmt.Errorf("failed to mirror remote booking: %w", err)
	}

	return nil
}

func flagFilter(field string, value bool) gDto.FilterGroup {
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
