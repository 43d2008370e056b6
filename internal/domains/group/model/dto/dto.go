package dto

import (
	bookingDto "lodge/internal/domains/booking/model/dto"
)

type AddToGroupRequest struct {
	GroupID string                          `json:"group_id" validate:"omitempty,uuid"`
	Booking bookingDto.CreateBookingRequest `json:"booking"  validate:"required"`
}

type AddToGroupResponse struct {
	GroupID    string  `json:"group_id"`
	BookingID  string  `json:"booking_id"`
	RoomNumber string  `json:"room_number"`
	IsPrimary  bool    `json:"is_primary"`
	TotalPrice float64 `json:"total_price"`
	Currency   string  `json:"currency"`
}

type GroupMemberResponse struct {
	BookingID      string  `json:"booking_id"`
	GuestName      string  `json:"guest_name"`
	RoomNumber     string  `json:"room_number"`
	CheckIn        string  `json:"check_in"`
	CheckOut       string  `json:"check_out"`
	Status         string  `json:"status"`
	TotalPrice     float64 `json:"total_price"`
	IsPrimary      bool    `json:"is_primary"`
	BillingContact string  `json:"billing_contact,omitempty"`
}

type GroupResponse struct {
	GroupID    string                `json:"group_id"`
	Members    []GroupMemberResponse `json:"members"`
	TotalPrice float64               `json:"total_price"`
	Currency   string                `json:"currency"`
}
