package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"sort"

	"lodge/config"
	"lodge/infras/otel"
	auditModel "lodge/internal/domains/audit/model"
	auditSvc "lodge/internal/domains/audit/service"
	bookingModel "lodge/internal/domains/booking/model"
	bookingRepo "lodge/internal/domains/booking/repository"
	bookingSvc "lodge/internal/domains/booking/service"
	"lodge/internal/domains/group/model"
	"lodge/internal/domains/group/model/dto"
	"lodge/internal/domains/group/repository"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Group interface {
	AddToGroup(ctx context.Context, req dto.AddToGroupRequest) (dto.AddToGroupResponse, error)
	RemoveFromGroup(ctx context.Context, groupID, bookingID string) error
	Members(ctx context.Context, groupID string) (dto.GroupResponse, error)
}

type serviceImpl struct {
	repo        repository.GroupMember
	bookingRepo bookingRepo.Booking
	bookingSvc  bookingSvc.Booking
	audit       auditSvc.Audit
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	repo repository.GroupMember,
	bookingRepo bookingRepo.Booking,
	bookingSvc bookingSvc.Booking,
	audit auditSvc.Audit,
	cfg *config.Config,
	otel otel.Otel,
) Group {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		bookingSvc:  bookingSvc,
		audit:       audit,
		cfg:         cfg,
		otel:        otel,
	}
}

// AddToGroup books a room through the regular booking flow and attaches
// the result to a group. The first member becomes the primary booking and
// the billing contact for the whole group.
func (s *serviceImpl) AddToGroup(ctx context.Context, req dto.AddToGroupRequest) (res dto.AddToGroupResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddToGroup")
	defer scope.End()
	defer scope.TraceIfError(err)

	groupID := req.GroupID
	if groupID == constant.Empty {
		groupID = uuid.NewString()
	}

	existing, err := s.membersOfGroup(ctx, groupID)
	if err != nil {
		return res, err
	}

	isPrimary := len(existing) == 0

	billingContact := req.Booking.GuestEmail
	if !isPrimary {
		for _, member := range existing {
			if member.IsPrimary {
				billingContact = member.BillingContact
			}
		}
	}

	created, err := s.bookingSvc.Create(ctx, req.Booking)
	if err != nil {
		return res, err
	}

	actor, _ := ctx.Value(constant.ContextKeyActorID).(string)

	member := model.GroupMember{
		ID:             uuid.NewString(),
		GroupID:        groupID,
		BookingID:      created.BookingID,
		IsPrimary:      isPrimary,
		BillingContact: billingContact,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}

	if err = s.repo.Insert(ctx, member); err != nil {
		log.Error().Err(err).Msg("failed to add booking to group")

		return res, fmt.Errorf("failed to add booking to group: %w", err)
	}

	if err = s.writeLegacyTag(ctx, created.BookingID, model.Tag{
		GroupID:        groupID,
		IsPrimary:      isPrimary,
		BillingContact: billingContact,
	}); err != nil {
		return res, err
	}

	s.audit.Record(ctx, auditModel.ActionGroupMemberAdded, auditModel.EntityTypeGroup, groupID, map[string]any{
		"booking_id": created.BookingID,
		"is_primary": isPrimary,
	})

	return dto.AddToGroupResponse{
		GroupID:    groupID,
		BookingID:  created.BookingID,
		RoomNumber: created.RoomNumber,
		IsPrimary:  isPrimary,
		TotalPrice: created.TotalPrice,
		Currency:   s.cfg.App.Currency,
	}, nil
}

// RemoveFromGroup detaches a member and deletes its booking. When the
// primary leaves, one of the survivors is promoted and inherits the
// billing contact so the group always bills somewhere.
func (s *serviceImpl) RemoveFromGroup(ctx context.Context, groupID, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RemoveFromGroup")
	defer scope.End()
	defer scope.TraceIfError(err)

	members, err := s.membersOfGroup(ctx, groupID)
	if err != nil {
		return err
	}

	var removed model.GroupMember

	for _, member := range members {
		if member.BookingID == bookingID {
			removed = member

			break
		}
	}

	if removed.BookingID == constant.Empty {
		// Older clients never wrote a relation row, so membership may
		// live only in the special requests marker.
		legacy, legacyErr := s.legacyMembers(ctx, groupID)
		if legacyErr != nil {
			return legacyErr
		}

		member, ok := legacy[bookingID]
		if !ok {
			return failure.NotFound("booking is not a member of this group") // nolint:wrapcheck
		}

		removed = member
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.Status == constant.BookingStatusCheckedIn {
		return failure.BadRequestFromString("cannot remove a checked-in guest from a group") // nolint:wrapcheck
	}

	// A tag-only member has no relation row to delete.
	if removed.ID != constant.Empty {
		if err = s.repo.Delete(ctx, shared.FilterByID(removed.ID, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to remove group member")

			return fmt.Errorf("failed to remove group member: %w", err)
		}
	}

	if err = s.bookingSvc.Delete(ctx, bookingID); err != nil {
		return err
	}

	if removed.IsPrimary {
		if err = s.promoteSurvivor(ctx, groupID, removed, members); err != nil {
			return err
		}
	}

	s.audit.Record(ctx, auditModel.ActionGroupMemberRemove, auditModel.EntityTypeGroup, groupID, map[string]any{
		"booking_id":  bookingID,
		"was_primary": removed.IsPrimary,
	})

	return nil
}

func (s *serviceImpl) Members(ctx context.Context, groupID string) (res dto.GroupResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Members")
	defer scope.End()
	defer scope.TraceIfError(err)

	members, err := s.membersOfGroup(ctx, groupID)
	if err != nil {
		return res, err
	}

	byBooking := map[string]model.GroupMember{}
	for _, member := range members {
		byBooking[member.BookingID] = member
	}

	// Older clients attach bookings to a group through the special
	// requests marker only, so the relation alone is not the full picture.
	legacy, err := s.legacyMembers(ctx, groupID)
	if err != nil {
		return res, err
	}

	for bookingID, member := range legacy {
		if _, ok := byBooking[bookingID]; !ok {
			byBooking[bookingID] = member
		}
	}

	res.GroupID = groupID
	res.Currency = s.cfg.App.Currency
	res.Members = make([]dto.GroupMemberResponse, 0, len(byBooking))

	for bookingID, member := range byBooking {
		booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking")

			return res, fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID == constant.Empty {
			continue
		}

		res.TotalPrice += booking.TotalPrice
		res.Members = append(res.Members, dto.GroupMemberResponse{
			BookingID:      booking.ID,
			GuestName:      booking.GuestName,
			RoomNumber:     booking.RoomNumber,
			CheckIn:        booking.CheckIn.Format(constant.DateOnlyFormat),
			CheckOut:       booking.CheckOut.Format(constant.DateOnlyFormat),
			Status:         booking.Status,
			TotalPrice:     booking.TotalPrice,
			IsPrimary:      member.IsPrimary,
			BillingContact: member.BillingContact,
		})
	}

	if len(res.Members) == 0 {
		return res, failure.NotFound("group not found") // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) membersOfGroup(ctx context.Context, groupID string) ([]model.GroupMember, error) {
	members, err := s.repo.GetAll(ctx,
		gDto.QueryParams{
			SortBy:  constant.FieldCreatedAt,
			SortDir: "ASC",
		},
		gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldGroupID,
					Value:    groupID,
					Operator: gDto.FilterOperatorEq,
					Table:    model.TableName,
				},
			},
		})
	if err != nil {
		log.Error().Err(err).Msg("failed to get group members")

		return nil, fmt.Errorf("failed to get group members: %w", err)
	}

	return members, nil
}

// legacyMembers scans bookings whose special requests carry the group
// marker for this group, keyed by booking ID.
func (s *serviceImpl) legacyMembers(ctx context.Context, groupID string) (map[string]model.GroupMember, error) {
	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldSpecialRequests,
				Value:    groupID,
				Operator: gDto.FilterOperatorLike,
				Table:    bookingModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to scan bookings for group markers")

		return nil, fmt.Errorf("failed to scan bookings for group markers: %w", err)
	}

	members := map[string]model.GroupMember{}

	for _, booking := range bookings {
		tag, ok := model.ParseTag(booking.SpecialRequests)
		if !ok || tag.GroupID != groupID {
			continue
		}

		members[booking.ID] = model.GroupMember{
			GroupID:        groupID,
			BookingID:      booking.ID,
			IsPrimary:      tag.IsPrimary,
			BillingContact: tag.BillingContact,
		}
	}

	return members, nil
}

func (s *serviceImpl) promoteSurvivor(ctx context.Context, groupID string, removed model.GroupMember, members []model.GroupMember) error {
	var survivor model.GroupMember

	for _, member := range members {
		if member.BookingID != removed.BookingID {
			survivor = member

			break
		}
	}

	if survivor.BookingID == constant.Empty {
		// No relation row survives; a tag-only member can still carry
		// the group. The lowest booking ID wins so retries agree.
		legacy, err := s.legacyMembers(ctx, groupID)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(legacy))

		for bookingID := range legacy {
			if bookingID != removed.BookingID {
				ids = append(ids, bookingID)
			}
		}

		if len(ids) == 0 {
			return nil
		}

		sort.Strings(ids)
		survivor = legacy[ids[0]]
	}

	if survivor.ID != constant.Empty {
		actor, _ := ctx.Value(constant.ContextKeyActorID).(string)

		err := s.repo.Update(ctx, map[string]any{
			model.FieldIsPrimary:      true,
			model.FieldBillingContact: removed.BillingContact,
			constant.FieldModifiedAt:  timezone.Now(),
			constant.FieldModifiedBy:  actor,
		}, shared.FilterByID(survivor.ID, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to promote group member")

			return fmt.Errorf("failed to promote group member: %w", err)
		}
	}

	return s.writeLegacyTag(ctx, survivor.BookingID, model.Tag{
		GroupID:        groupID,
		IsPrimary:      true,
		BillingContact: removed.BillingContact,
	})
}

// writeLegacyTag rewrites the group marker on a booking's special requests
// while leaving the guest's own text byte-for-byte intact.
func (s *serviceImpl) writeLegacyTag(ctx context.Context, bookingID string, tag model.Tag) error {
	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	tagged, err := model.EncodeTag(model.StripTag(booking.SpecialRequests), tag)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode group tag")

		return fmt.Errorf("failed to encode group tag: %w", err)
	}

	actor, _ := ctx.Value(constant.ContextKeyActorID).(string)

	err = s.bookingRepo.Update(ctx, map[string]any{
		bookingModel.FieldSpecialRequests: tagged,
		bookingModel.FieldSynced:          false,
		constant.FieldModifiedAt:          timezone.Now(),
		constant.FieldModifiedBy:          actor,
	}, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to tag booking with group marker")

		return fmt.Errorf("failed to tag booking with group marker: %w", err)
	}

	return nil
}
