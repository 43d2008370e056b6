package model

import (
	"lodge/shared/constant"
	"lodge/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldRemoteID        = "remote_id"
	FieldGuestID         = "guest_id"
	FieldGuestName       = "guest_name"
	FieldGuestEmail      = "guest_email"
	FieldGuestPhone      = "guest_phone"
	FieldGuestAddress    = "guest_address"
	FieldRoomID          = "room_id"
	FieldRoomNumber      = "room_number"
	FieldRoomTypeID      = "room_type_id"
	FieldCheckIn         = "check_in"
	FieldCheckOut        = "check_out"
	FieldStatus          = "status"
	FieldTotalPrice      = "total_price"
	FieldNumGuests       = "num_guests"
	FieldPaymentMethod   = "payment_method"
	FieldPaymentStatus   = "payment_status"
	FieldSource          = "source"
	FieldSpecialRequests = "special_requests"
	FieldSynced          = "synced"
	FieldConflict        = "conflict"
)

// ActiveStatuses are the statuses that occupy a room for conflict purposes.
var ActiveStatuses = []string{
	constant.BookingStatusReserved,
	constant.BookingStatusConfirmed,
	constant.BookingStatusCheckedIn,
}

type Booking struct {
	ID       string `db:"id"`
	RemoteID string `db:"remote_id"`
	GuestID  string `db:"guest_id"`

	// Guest snapshot, denormalized at booking time. Not a live join.
	GuestName    string `db:"guest_name"`
	GuestEmail   string `db:"guest_email"`
	GuestPhone   string `db:"guest_phone"`
	GuestAddress string `db:"guest_address"`

	RoomID     string `db:"room_id"`
	RoomNumber string `db:"room_number"`
	RoomTypeID string `db:"room_type_id"`

	// CheckOut is exclusive: the day of checkout is not occupied.
	CheckIn  time.Time `db:"check_in"`
	CheckOut time.Time `db:"check_out"`

	Status          string  `db:"status"`
	TotalPrice      float64 `db:"total_price"`
	NumGuests       int     `db:"num_guests"`
	PaymentMethod   string  `db:"payment_method"`
	PaymentStatus   string  `db:"payment_status"`
	Source          string  `db:"source"`
	SpecialRequests string  `db:"special_requests"`

	// Synced marks whether this local write has reached the remote store.
	// Conflict marks an overlap with another active booking awaiting
	// manual resolution; while set, the record is not authoritative.
	Synced   bool `db:"synced"`
	Conflict bool `db:"conflict"`

	model.Metadata
}

// IsActive reports whether the booking occupies its room.
func (b *Booking) IsActive() bool {
	for _, status := range ActiveStatuses {
		if b.Status == status {
			return true
		}
	}

	return false
}

// Nights is the number of nights between check-in and check-out.
func (b *Booking) Nights() int {
	return NightsBetween(b.CheckIn, b.CheckOut)
}

// NightsBetween counts whole nights between two dates, rounding partial
// days up.
func NightsBetween(checkIn, checkOut time.Time) int {
	hours := checkOut.Sub(checkIn).Hours()
	nights := int(hours / 24)

	if hours > float64(nights)*24 {
		nights++
	}

	return nights
}
