package model

import "lodge/shared/model"

const (
	TableName  = "group_members"
	EntityName = "group_member"

	FieldID             = "id"
	FieldGroupID        = "group_id"
	FieldBookingID      = "booking_id"
	FieldIsPrimary      = "is_primary"
	FieldBillingContact = "billing_contact"
)

// GroupMember links a booking to a booking group. Exactly one member per
// group carries is_primary and the billing contact.
type GroupMember struct {
	ID             string `db:"id"`
	GroupID        string `db:"group_id"`
	BookingID      string `db:"booking_id"`
	IsPrimary      bool   `db:"is_primary"`
	BillingContact string `db:"billing_contact"`
	model.Metadata
}
