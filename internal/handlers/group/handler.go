package group

import (
	"net/http"

	"lodge/infras/otel"
	"lodge/internal/domains/group/model/dto"
	"lodge/internal/domains/group/service"
	"lodge/shared/constant"
	"lodge/shared/validator"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const routeParamBookingID = "bookingId"

type Handler struct {
	service service.Group
	otel    otel.Otel
}

func New(service service.Group, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/groups", func(routerGroup chi.Router) {
		routerGroup.Post("/members", handler.AddToGroup)
		routerGroup.Get("/{id}", handler.GetGroup)
		routerGroup.Delete("/{id}/bookings/{bookingId}", handler.RemoveFromGroup)
	})
}

// AddToGroup books a room and attaches the booking to a group.
// @Summary Add a booking to a group
// @Description Book a room through the regular flow and attach it to a group. Omit group_id to start a new group.
// @Tags Group
// @Accept json
// @Produce json
// @Param request body dto.AddToGroupRequest true "Add To Group Request"
// @Success 200 {object} response.Data[dto.AddToGroupResponse] "Member added"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/groups/members [post]
func (handler *Handler) AddToGroup(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddToGroup")
	defer scope.End()

	req := dto.AddToGroupRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.AddToGroup(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add booking to group")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking added to group " + res.GroupID)

	response.WithJSON(w, http.StatusOK, res)
}

// GetGroup lists the members of a group with the running total.
// @Summary Get a group
// @Tags Group
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} response.Data[dto.GroupResponse] "Group details"
// @Failure 404 {object} response.Error
// @Router /v1/groups/{id} [get]
func (handler *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGroup")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.Members(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get group")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Group retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// RemoveFromGroup detaches a booking from a group and deletes it.
// @Summary Remove a booking from a group
// @Description Detach a booking from its group and delete it. The primary role moves to a surviving member.
// @Tags Group
// @Produce json
// @Param id path string true "Group ID"
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} response.Message "Member removed successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/groups/{id}/bookings/{bookingId} [delete]
func (handler *Handler) RemoveFromGroup(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveFromGroup")
	defer scope.End()

	groupID := chi.URLParam(r, constant.RequestParamID)
	bookingID := chi.URLParam(r, routeParamBookingID)

	if err := handler.service.RemoveFromGroup(ctx, groupID, bookingID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to remove booking from group")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking removed from group " + groupID)

	response.WithMessage(w, http.StatusOK, "Member removed successfully")
}
