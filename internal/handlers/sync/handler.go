package sync

import (
	"net/http"

	"lodge/infras/otel"
	"lodge/internal/domains/sync/model/dto"
	"lodge/internal/domains/sync/service"
	"lodge/shared/constant"
	"lodge/shared/validator"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Sync
	otel    otel.Otel
}

func New(service service.Sync, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/sync", func(routerGroup chi.Router) {
		routerGroup.Get("/pending", handler.GetPending)
		routerGroup.Post("/sweep", handler.Sweep)
		routerGroup.Get("/conflicts", handler.GetConflicts)
		routerGroup.Post("/conflicts/resolve", handler.ResolveConflict)
		routerGroup.Post("/clear", handler.ClearAllData)
	})
}

// GetPending lists bookings queued for the next push.
// @Summary Get pending bookings
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Data[dto.PendingResponse] "Pending bookings"
// @Failure 500 {object} response.Error
// @Router /v1/sync/pending [get]
// @Security ApiKeyAuth
func (handler *Handler) GetPending(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPending")
	defer scope.End()

	res, err := handler.service.Pending(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get pending bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Pending bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// Sweep pushes the pending queue to the remote store now.
// @Summary Run a sync sweep
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Data[dto.SweepResult] "Sweep result"
// @Failure 500 {object} response.Error
// @Router /v1/sync/sweep [post]
// @Security ApiKeyAuth
func (handler *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Sweep")
	defer scope.End()

	res, err := handler.service.Sweep(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to run sync sweep")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Sync sweep completed")

	response.WithJSON(w, http.StatusOK, res)
}

// GetConflicts lists bookings awaiting manual resolution.
// @Summary Get conflicted bookings
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Data[dto.ConflictsResponse] "Conflicted bookings"
// @Failure 500 {object} response.Error
// @Router /v1/sync/conflicts [get]
// @Security ApiKeyAuth
func (handler *Handler) GetConflicts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetConflicts")
	defer scope.End()

	res, err := handler.service.Conflicted(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get conflicted bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Conflicted bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// ResolveConflict settles a conflict pair one way or the other.
// @Summary Resolve a conflict
// @Tags Sync
// @Accept json
// @Produce json
// @Param request body dto.ResolveConflictRequest true "Resolve Conflict Request"
// @Success 200 {object} response.Message "Conflict resolved"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/sync/conflicts/resolve [post]
// @Security ApiKeyAuth
func (handler *Handler) ResolveConflict(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResolveConflict")
	defer scope.End()

	req := dto.ResolveConflictRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Resolve(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve conflict")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Conflict resolved")

	response.WithMessage(w, http.StatusOK, "Conflict resolved")
}

// ClearAllData wipes booking data on a development install.
// @Summary Clear all booking data
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Message "All data cleared"
// @Failure 403 {object} response.Error
// @Router /v1/sync/clear [post]
// @Security ApiKeyAuth
func (handler *Handler) ClearAllData(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ClearAllData")
	defer scope.End()

	if err := handler.service.ClearAllData(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to clear data")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("All data cleared")

	response.WithMessage(w, http.StatusOK, "All data cleared")
}
