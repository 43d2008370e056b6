package dto

import (
	bookingDto "lodge/internal/domains/booking/model/dto"
)

type SweepResult struct {
	Pushed    int `json:"pushed"`
	Conflicts int `json:"conflicts"`
	Failed    int `json:"failed"`
}

type ResolveConflictRequest struct {
	// KeepID is the booking that wins the room; CancelID is the overlapping
	// booking that gets cancelled. Either side of a conflict pair may win.
	KeepID   string `json:"keep_id"   validate:"required,uuid"`
	CancelID string `json:"cancel_id" validate:"required,uuid"`
}

type ConflictsResponse struct {
	Bookings  []bookingDto.BookingResponse `json:"bookings"`
	TotalData int                          `json:"total_data"`
}

type PendingResponse struct {
	Bookings  []bookingDto.BookingResponse `json:"bookings"`
	TotalData int                          `json:"total_data"`
}
