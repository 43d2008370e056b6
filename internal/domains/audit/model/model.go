package model

import "lodge/shared/model"

const (
	TableName  = "audit_logs"
	EntityName = "audit_log"

	FieldID         = "id"
	FieldAction     = "action"
	FieldEntityType = "entity_type"
	FieldEntityID   = "entity_id"
	FieldDetails    = "details"
	FieldMeta       = "metadata"
	FieldUserID     = "user_id"
)

const (
	ActionBookingCreated    = "booking_created"
	ActionBookingCancelled  = "booking_cancelled"
	ActionBookingDeleted    = "booking_deleted"
	ActionBookingExtended   = "booking_extended"
	ActionBookingCheckedIn  = "booking_checked_in"
	ActionBookingCheckedOut = "booking_checked_out"
	ActionGroupMemberAdded  = "group_member_added"
	ActionGroupMemberRemove = "group_member_removed"
	ActionSyncCompleted     = "sync_completed"
	ActionReportGenerated   = "report_generated"
	ActionConflictResolved  = "conflict_resolved"
	ActionDataCleared       = "data_cleared"

	EntityTypeBooking = "booking"
	EntityTypeGroup   = "group"
	EntityTypeSync    = "sync"
	EntityTypeSystem  = "system"
)

// AuditLog is an append-only record of a state change. Details holds a
// JSON document describing the change; Meta holds a JSON document about
// the recording itself (who acted, through which channel).
type AuditLog struct {
	ID         string `db:"id"`
	Action     string `db:"action"`
	EntityType string `db:"entity_type"`
	EntityID   string `db:"entity_id"`
	Details    string `db:"details"`
	Meta       string `db:"metadata"`
	UserID     string `db:"user_id"`
	model.Metadata
}
