package report

import (
	"net/http"
	"time"

	"lodge/infras/otel"
	auditModel "lodge/internal/domains/audit/model"
	"lodge/internal/domains/audit/service"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Audit
	otel    otel.Otel
}

func New(service service.Audit, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reports", func(routerGroup chi.Router) {
		routerGroup.Get("/end-of-day", handler.GetEndOfDayReport)
		routerGroup.Get("/audit-logs", handler.GetAuditLogs)
	})
}

// GetEndOfDayReport summarizes the day's booking activity.
// @Summary Get the end-of-day report
// @Description Summarize bookings, revenue and the sync backlog for a day. Defaults to today.
// @Tags Report
// @Produce json
// @Param date query string false "Report date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.EndOfDayReport] "End-of-day report"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/end-of-day [get]
// @Security ApiKeyAuth
func (handler *Handler) GetEndOfDayReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEndOfDayReport")
	defer scope.End()

	date := timezone.Today()

	if raw := r.URL.Query().Get(constant.RequestParamDate); raw != "" {
		parsed, err := time.Parse(constant.DateOnlyFormat, raw)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString("date must be a valid date (YYYY-MM-DD)"))

			return
		}

		date = parsed
	}

	res, err := handler.service.EndOfDayReport(ctx, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build end-of-day report")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("End-of-day report generated")

	response.WithJSON(w, http.StatusOK, res)
}

// GetAuditLogs lists audit entries.
// @Summary Get audit logs
// @Tags Report
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param action query string false "Filter by action"
// @Param entity_type query string false "Filter by entity type"
// @Success 200 {object} response.Data[dto.GetAuditLogsResponse] "Audit logs"
// @Failure 500 {object} response.Error
// @Router /v1/reports/audit-logs [get]
// @Security ApiKeyAuth
func (handler *Handler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAuditLogs")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	action := r.URL.Query().Get(auditModel.FieldAction)
	entityType := r.URL.Query().Get(auditModel.FieldEntityType)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if action != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    auditModel.FieldAction,
			Operator: gDto.FilterOperatorEq,
			Value:    action,
			Table:    auditModel.TableName,
		})
	}

	if entityType != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    auditModel.FieldEntityType,
			Operator: gDto.FilterOperatorEq,
			Value:    entityType,
			Table:    auditModel.TableName,
		})
	}

	logs, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get audit logs")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Audit logs retrieved successfully")

	response.WithJSON(w, http.StatusOK, logs)
}
