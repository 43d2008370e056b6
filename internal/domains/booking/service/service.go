package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"
	"time"

	"lodge/config"
	"lodge/infras/otel"
	auditModel "lodge/internal/domains/audit/model"
	auditSvc "lodge/internal/domains/audit/service"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/repository"
	guestModel "lodge/internal/domains/guest/model"
	guestRepo "lodge/internal/domains/guest/repository"
	roomModel "lodge/internal/domains/room/model"
	roomSvc "lodge/internal/domains/room/service"
	"lodge/internal/events"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Availability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (dto.AvailabilityResponse, error)
	CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) ([]model.Booking, error)
	Cancel(ctx context.Context, id, reason string) error
	Delete(ctx context.Context, id string) error
	CheckIn(ctx context.Context, id string) error
	CheckOut(ctx context.Context, id string) error
	Extend(ctx context.Context, id string, req dto.ExtendBookingRequest) (dto.ExtendBookingResponse, error)
}

type serviceImpl struct {
	repo      repository.Booking
	guestRepo guestRepo.Guest
	roomSvc   roomSvc.Room
	audit     auditSvc.Audit
	publisher events.Publisher
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Booking,
	guestRepo guestRepo.Guest,
	roomSvc roomSvc.Room,
	audit auditSvc.Audit,
	publisher events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:      repo,
		guestRepo: guestRepo,
		roomSvc:   roomSvc,
		audit:     audit,
		publisher: publisher,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// Overlaps reports whether two half-open date ranges intersect. A stay
// ending on the day another begins does not overlap.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	checkIn, checkOut, err := req.ParseDates()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking dates")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	if checkIn.Before(timezone.Today()) {
		return res, failure.BadRequestFromString("check-in date cannot be in the past") // nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString("check-out date must be after check-in date") // nolint:wrapcheck
	}

	guest, err := s.resolveGuest(ctx, req)
	if err != nil {
		return res, err
	}

	roomType, err := s.roomSvc.ResolveRoomType(ctx, req.RoomType)
	if err != nil {
		return res, err
	}

	room, conflicts, err := s.findFreeRoom(ctx, roomType.ID, checkIn, checkOut)
	if err != nil {
		return res, err
	}

	if room.ID == constant.Empty {
		var details dto.AvailabilityResponse
		details.FromModels(constant.Empty, conflicts)

		return res, failure.ConflictWithDetails("no room of this type is available for the requested dates", details.Conflicts) // nolint:wrapcheck
	}

	rate, err := s.roomSvc.CurrentRate(ctx, roomType.ID)
	if err != nil {
		return res, err
	}

	nights := model.NightsBetween(checkIn, checkOut)
	totalPrice := float64(nights) * rate

	source, _ := ctx.Value(constant.ContextKeySource).(string)
	if source == constant.Empty {
		source = constant.SourceReception
	}

	// Walk-ins at the reception desk hold the room until payment;
	// every remote channel confirms immediately.
	status := constant.BookingStatusConfirmed
	if source == constant.SourceReception {
		status = constant.BookingStatusReserved
	}

	numGuests := req.NumGuests
	if numGuests == 0 {
		numGuests = 1
	}

	actor, _ := ctx.Value(constant.ContextKeyActorID).(string)

	booking := model.Booking{
		ID:              uuid.NewString(),
		GuestID:         guest.ID,
		GuestName:       guest.Name,
		GuestEmail:      guest.Email,
		GuestPhone:      guest.Phone,
		GuestAddress:    guest.Address,
		RoomID:          room.ID,
		RoomNumber:      room.RoomNumber,
		RoomTypeID:      roomType.ID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Status:          status,
		TotalPrice:      totalPrice,
		NumGuests:       numGuests,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   "pending",
		Source:          source,
		SpecialRequests: req.SpecialRequests,
		Synced:          false,
		Conflict:        false,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.audit.Record(ctx, auditModel.ActionBookingCreated, auditModel.EntityTypeBooking, booking.ID, map[string]any{
		"room_number": booking.RoomNumber,
		"check_in":    req.CheckIn,
		"check_out":   req.CheckOut,
		"total_price": booking.TotalPrice,
		"source":      booking.Source,
	})

	s.publishEvent(ctx, events.TypeBookingCreated, booking)
	s.invalidateListCaches(ctx)

	return dto.CreateBookingResponse{
		BookingID:  booking.ID,
		RoomNumber: booking.RoomNumber,
		TotalPrice: booking.TotalPrice,
		Currency:   s.cfg.App.Currency,
		Status:     booking.Status,
	}, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Availability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Availability")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString("check-out date must be after check-in date") // nolint:wrapcheck
	}

	conflicts, err := s.CheckAvailability(ctx, roomID, checkIn, checkOut, constant.Empty)
	if err != nil {
		return res, err
	}

	res.FromModels(roomID, conflicts)

	return res, nil
}

// CheckAvailability returns the active bookings of a room overlapping the
// half-open window, ordered by check-in date. The room's active bookings
// are fetched and the window test runs in process, so the overlap rule
// lives in exactly one place. Cancelled and checked-out stays never block.
func (s *serviceImpl) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (res []model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	filters := []any{
		gDto.Filter{
			Field:    model.FieldRoomID,
			Value:    roomID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldStatus,
			Value:    model.ActiveStatuses,
			Operator: gDto.FilterOperatorIn,
			Table:    model.TableName,
		},
	}

	if excludeID != constant.Empty {
		filters = append(filters, gDto.Filter{
			ArgName:  "exclude_id",
			Field:    model.FieldID,
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	active, err := s.repo.GetAll(ctx,
		gDto.QueryParams{
			SortBy:  model.FieldCheckIn,
			SortDir: "ASC",
		},
		gDto.FilterGroup{Filters: filters})
	if err != nil {
		log.Error().Err(err).Msg("failed to check availability")

		return res, fmt.Errorf("failed to check availability: %w", err)
	}

	res = make([]model.Booking, 0, len(active))

	for _, booking := range active {
		if Overlaps(booking.CheckIn, booking.CheckOut, checkIn, checkOut) {
			res = append(res, booking)
		}
	}

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id, reason string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	switch booking.Status {
	case constant.BookingStatusCancelled:
		return failure.BadRequestFromString("booking is already cancelled") // nolint:wrapcheck
	case constant.BookingStatusCheckedOut:
		return failure.BadRequestFromString("cannot cancel a completed stay") // nolint:wrapcheck
	}

	err = s.updateBooking(ctx, id, map[string]any{
		model.FieldStatus: constant.BookingStatusCancelled,
		model.FieldSynced: false,
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, auditModel.ActionBookingCancelled, auditModel.EntityTypeBooking, id, map[string]any{
		"reason":          reason,
		"previous_status": booking.Status,
	})

	booking.Status = constant.BookingStatusCancelled
	s.publishEvent(ctx, events.TypeBookingCancelled, booking)
	s.invalidateBookingCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	// The row is gone after this, so the audit entry carries the full
	// snapshot for later reconstruction.
	s.audit.Record(ctx, auditModel.ActionBookingDeleted, auditModel.EntityTypeBooking, id, booking)

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.invalidateBookingCaches(ctx, id)

	return nil
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status != constant.BookingStatusReserved && booking.Status != constant.BookingStatusConfirmed {
		return failure.BadRequestFromString(fmt.Sprintf("cannot check in a booking with status %q", booking.Status)) // nolint:wrapcheck
	}

	err = s.updateBooking(ctx, id, map[string]any{
		model.FieldStatus: constant.BookingStatusCheckedIn,
		model.FieldSynced: false,
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, auditModel.ActionBookingCheckedIn, auditModel.EntityTypeBooking, id, map[string]any{
		"room_number": booking.RoomNumber,
	})
	s.invalidateBookingCaches(ctx, id)

	return nil
}

func (s *serviceImpl) CheckOut(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status != constant.BookingStatusCheckedIn {
		return failure.BadRequestFromString(fmt.Sprintf("cannot check out a booking with status %q", booking.Status)) // nolint:wrapcheck
	}

	err = s.updateBooking(ctx, id, map[string]any{
		model.FieldStatus: constant.BookingStatusCheckedOut,
		model.FieldSynced: false,
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, auditModel.ActionBookingCheckedOut, auditModel.EntityTypeBooking, id, map[string]any{
		"room_number": booking.RoomNumber,
	})
	s.invalidateBookingCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Extend(ctx context.Context, id string, req dto.ExtendBookingRequest) (res dto.ExtendBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Extend")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if !booking.IsActive() {
		return res, failure.BadRequestFromString(fmt.Sprintf("cannot extend a booking with status %q", booking.Status)) // nolint:wrapcheck
	}

	newCheckOut, err := time.Parse(constant.DateOnlyFormat, req.NewCheckOut)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	if !newCheckOut.After(booking.CheckOut) {
		return res, failure.BadRequestFromString("new check-out date must be after the current check-out date") // nolint:wrapcheck
	}

	rate, err := s.roomSvc.CurrentRate(ctx, booking.RoomTypeID)
	if err != nil {
		return res, err
	}

	extraNights := model.NightsBetween(booking.CheckOut, newCheckOut)

	// Extra nights are billed at today's rate, not the rate the stay was
	// booked at.
	extraCost := float64(extraNights) * rate
	if req.DiscountAmount > extraCost {
		return res, failure.BadRequestFromString("discount cannot exceed the cost of the extra nights") // nolint:wrapcheck
	}

	extraCost -= req.DiscountAmount

	room := booking.RoomID
	roomNumber := booking.RoomNumber
	moved := false

	if req.AlternateRoomID != constant.Empty && req.AlternateRoomID != booking.RoomID {
		alternate, err := s.roomOfType(ctx, booking.RoomTypeID, req.AlternateRoomID)
		if err != nil {
			return res, err
		}

		// The guest moves rooms for the whole stay, so the requested room
		// must be free from the original check-in.
		overlapping, err := s.CheckAvailability(ctx, alternate.ID, booking.CheckIn, newCheckOut, booking.ID)
		if err != nil {
			return res, err
		}

		if len(overlapping) > 0 {
			var details dto.AvailabilityResponse
			details.FromModels(alternate.ID, overlapping)

			return res, failure.ConflictWithDetails("requested room is not available for the stay", details.Conflicts) // nolint:wrapcheck
		}

		room = alternate.ID
		roomNumber = alternate.RoomNumber
		moved = true
	} else {
		conflicts, err := s.CheckAvailability(ctx, booking.RoomID, booking.CheckOut, newCheckOut, booking.ID)
		if err != nil {
			return res, err
		}

		if len(conflicts) > 0 {
			alternate, err := s.findAlternateRoom(ctx, booking, newCheckOut)
			if err != nil {
				return res, err
			}

			if alternate.ID == constant.Empty {
				var details dto.AvailabilityResponse
				details.FromModels(booking.RoomID, conflicts)

				return res, failure.ConflictWithDetails("room is not available for the extra nights", details.Conflicts) // nolint:wrapcheck
			}

			room = alternate.ID
			roomNumber = alternate.RoomNumber
			moved = true
		}
	}

	err = s.updateBooking(ctx, id, map[string]any{
		model.FieldRoomID:     room,
		model.FieldRoomNumber: roomNumber,
		model.FieldCheckOut:   newCheckOut,
		model.FieldTotalPrice: booking.TotalPrice + extraCost,
		model.FieldSynced:     false,
	})
	if err != nil {
		return res, err
	}

	s.audit.Record(ctx, auditModel.ActionBookingExtended, auditModel.EntityTypeBooking, id, map[string]any{
		"extra_nights":    extraNights,
		"new_check_out":   newCheckOut.Format(constant.DateOnlyFormat),
		"extra_cost":      extraCost,
		"discount_amount": req.DiscountAmount,
		"discount_reason": req.DiscountReason,
		"room_moved":      moved,
		"room_number":     roomNumber,
	})

	booking.RoomID = room
	booking.RoomNumber = roomNumber
	booking.CheckOut = newCheckOut
	booking.TotalPrice += extraCost
	s.publishEvent(ctx, events.TypeBookingExtended, booking)
	s.invalidateBookingCaches(ctx, id)

	return dto.ExtendBookingResponse{
		BookingID:   booking.ID,
		RoomNumber:  roomNumber,
		NewCheckOut: newCheckOut.Format(constant.DateOnlyFormat),
		ExtraCost:   extraCost,
		TotalPrice:  booking.TotalPrice,
		Currency:    s.cfg.App.Currency,
	}, nil
}

func (s *serviceImpl) getBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) updateBooking(ctx context.Context, id string, fields map[string]any) error {
	actor, _ := ctx.Value(constant.ContextKeyActorID).(string)

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = actor

	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	return nil
}

func (s *serviceImpl) resolveGuest(ctx context.Context, req dto.CreateBookingRequest) (guestModel.Guest, error) {
	guest, err := s.guestRepo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    guestModel.FieldEmail,
				Value:    req.GuestEmail,
				Operator: gDto.FilterOperatorEq,
				Table:    guestModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get guest")

		return guest, fmt.Errorf("failed to get guest: %w", err)
	}

	actor, _ := ctx.Value(constant.ContextKeyActorID).(string)

	if guest.ID != constant.Empty {
		// Returning guest: the request carries the freshest contact
		// details, so the stored snapshot follows it.
		fields := map[string]any{}

		if req.GuestName != constant.Empty && req.GuestName != guest.Name {
			fields[guestModel.FieldName] = req.GuestName
			guest.Name = req.GuestName
		}

		if req.GuestPhone != constant.Empty && req.GuestPhone != guest.Phone {
			fields[guestModel.FieldPhone] = req.GuestPhone
			guest.Phone = req.GuestPhone
		}

		if req.GuestAddress != constant.Empty && req.GuestAddress != guest.Address {
			fields[guestModel.FieldAddress] = req.GuestAddress
			guest.Address = req.GuestAddress
		}

		if len(fields) > 0 {
			fields[constant.FieldModifiedAt] = timezone.Now()
			fields[constant.FieldModifiedBy] = actor

			if err := s.guestRepo.Update(ctx, fields, shared.FilterByID(guest.ID, guestModel.FieldID, guestModel.TableName)); err != nil {
				log.Error().Err(err).Msg("failed to update guest")

				return guest, fmt.Errorf("failed to update guest: %w", err)
			}
		}

		return guest, nil
	}

	guest = guestModel.Guest{
		ID:      uuid.NewString(),
		Name:    req.GuestName,
		Email:   req.GuestEmail,
		Phone:   req.GuestPhone,
		Address: req.GuestAddress,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}

	if err := s.guestRepo.Insert(ctx, guest); err != nil {
		log.Error().Err(err).Msg("failed to create guest")

		return guest, fmt.Errorf("failed to create guest: %w", err)
	}

	return guest, nil
}

// findFreeRoom walks the rooms of a type in room number order and returns
// the first one with no overlapping active booking. When every room is
// taken, the conflicts of the first room come back for the caller to
// surface as alternatives.
func (s *serviceImpl) findFreeRoom(ctx context.Context, roomTypeID string, checkIn, checkOut time.Time) (roomModel.Room, []model.Booking, error) {
	rooms, err := s.roomSvc.RoomsOfType(ctx, roomTypeID)
	if err != nil {
		return roomModel.Room{}, nil, err
	}

	if len(rooms) == 0 {
		return roomModel.Room{}, nil, failure.NotFound("no rooms of this type are in service") // nolint:wrapcheck
	}

	var firstConflicts []model.Booking

	for i, room := range rooms {
		overlapping, err := s.CheckAvailability(ctx, room.ID, checkIn, checkOut, constant.Empty)
		if err != nil {
			return roomModel.Room{}, nil, err
		}

		if len(overlapping) == 0 {
			return room, nil, nil
		}

		if i == 0 {
			firstConflicts = overlapping
		}
	}

	return roomModel.Room{}, firstConflicts, nil
}

// roomOfType looks up one in-service room among the rooms of a type.
func (s *serviceImpl) roomOfType(ctx context.Context, roomTypeID, roomID string) (roomModel.Room, error) {
	rooms, err := s.roomSvc.RoomsOfType(ctx, roomTypeID)
	if err != nil {
		return roomModel.Room{}, err
	}

	for _, room := range rooms {
		if room.ID == roomID {
			return room, nil
		}
	}

	return roomModel.Room{}, failure.BadRequestFromString("alternate room must be an in-service room of the same type") // nolint:wrapcheck
}

func (s *serviceImpl) findAlternateRoom(ctx context.Context, booking model.Booking, newCheckOut time.Time) (roomModel.Room, error) {
	rooms, err := s.roomSvc.RoomsOfType(ctx, booking.RoomTypeID)
	if err != nil {
		return roomModel.Room{}, err
	}

	for _, room := range rooms {
		if room.ID == booking.RoomID {
			continue
		}

		// The guest moves rooms for the whole stay, so the alternate must
		// be free from the original check-in.
		overlapping, err := s.CheckAvailability(ctx, room.ID, booking.CheckIn, newCheckOut, booking.ID)
		if err != nil {
			return roomModel.Room{}, err
		}

		if len(overlapping) == 0 {
			return room, nil
		}
	}

	return roomModel.Room{}, nil
}

func (s *serviceImpl) publishEvent(ctx context.Context, eventType string, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		err := s.publisher.PublishBookingEvent(c, events.BookingEvent{
			Type:       eventType,
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
		if err != nil {
			log.Error().Err(err).Str("type", eventType).Str("booking_id", booking.ID).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
