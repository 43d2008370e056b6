package dto

import (
	"lodge/internal/domains/audit/model"
	"lodge/shared"
	gDto "lodge/shared/dto"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Details    string `json:"details"`
	Meta       string `json:"metadata"`
	UserID     string `json:"user_id"`
	gDto.Metadata
}

func (r *AuditLogResponse) FromModel(model model.AuditLog) {
	r.ID = model.ID
	r.Action = model.Action
	r.EntityType = model.EntityType
	r.EntityID = model.EntityID
	r.Details = model.Details
	r.Meta = model.Meta
	r.UserID = model.UserID
	r.Metadata.FromModel(model.Metadata)
}

type GetAuditLogsResponse struct {
	AuditLogs []AuditLogResponse `json:"audit_logs"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetAuditLogsResponse) FromModels(models []model.AuditLog, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.AuditLogs = make([]AuditLogResponse, len(models))
	for i, mod := range models {
		r.AuditLogs[i].FromModel(mod)
	}
}

// EndOfDayReport summarizes one business day of booking activity.
type EndOfDayReport struct {
	Date              string             `json:"date"`
	TotalBookings     int                `json:"total_bookings"`
	ConfirmedBookings int                `json:"confirmed_bookings"`
	CancelledBookings int                `json:"cancelled_bookings"`
	TotalRevenue      float64            `json:"total_revenue"`
	Currency          string             `json:"currency"`
	PaymentBreakdown  map[string]float64 `json:"payment_breakdown"`
	PendingSync       int                `json:"pending_sync"`
	OpenConflicts     int                `json:"open_conflicts"`
	ArchiveURL        string             `json:"archive_url,omitempty"`
}

func (r *EndOfDayReport) FileName() string {
	return "eod-" + r.Date + ".json"
}
