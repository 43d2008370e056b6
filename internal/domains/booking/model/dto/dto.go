package dto

import (
	"time"

	"lodge/internal/domains/booking/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
)

type CreateBookingRequest struct {
	GuestName       string `json:"guest_name"       validate:"required,max=100"`
	GuestEmail      string `json:"guest_email"      validate:"required,email,max=100"`
	GuestPhone      string `json:"guest_phone"      validate:"omitempty,max=20"`
	GuestAddress    string `json:"guest_address"    validate:"omitempty,max=255"`
	RoomType        string `json:"room_type"        validate:"required,max=50"`
	CheckIn         string `json:"check_in"         validate:"required"`
	CheckOut        string `json:"check_out"        validate:"required"`
	NumGuests       int    `json:"num_guests"       validate:"omitempty,min=1"`
	PaymentMethod   string `json:"payment_method"   validate:"omitempty,max=50"`
	SpecialRequests string `json:"special_requests" validate:"omitempty"`
}

// ParseDates parses the check-in and check-out date strings. Both use the
// date-only format; checkout day itself is not occupied.
func (c *CreateBookingRequest) ParseDates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = time.Parse(constant.DateOnlyFormat, c.CheckIn)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = time.Parse(constant.DateOnlyFormat, c.CheckOut)

	return checkIn, checkOut, err
}

type CreateBookingResponse struct {
	BookingID  string  `json:"booking_id"`
	RoomNumber string  `json:"room_number"`
	TotalPrice float64 `json:"total_price"`
	Currency   string  `json:"currency"`
	Status     string  `json:"status"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type ExtendBookingRequest struct {
	NewCheckOut     string  `json:"new_check_out"     validate:"required"`
	AlternateRoomID string  `json:"alternate_room_id" validate:"omitempty,uuid"`
	DiscountAmount  float64 `json:"discount_amount"   validate:"omitempty,min=0"`
	DiscountReason  string  `json:"discount_reason"   validate:"omitempty,max=255"`
}

type ExtendBookingResponse struct {
	BookingID   string  `json:"booking_id"`
	RoomNumber  string  `json:"room_number"`
	NewCheckOut string  `json:"new_check_out"`
	ExtraCost   float64 `json:"extra_cost"`
	TotalPrice  float64 `json:"total_price"`
	Currency    string  `json:"currency"`
}

type AvailabilityConflict struct {
	BookingID string `json:"booking_id"`
	GuestName string `json:"guest_name"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Status    string `json:"status"`
}

func (r *AvailabilityConflict) FromModel(model model.Booking) {
	r.BookingID = model.ID
	r.GuestName = model.GuestName
	r.CheckIn = model.CheckIn.Format(constant.DateOnlyFormat)
	r.CheckOut = model.CheckOut.Format(constant.DateOnlyFormat)
	r.Status = model.Status
}

type AvailabilityResponse struct {
	RoomID    string                 `json:"room_id"`
	Available bool                   `json:"available"`
	Conflicts []AvailabilityConflict `json:"conflicts"`
}

func (r *AvailabilityResponse) FromModels(roomID string, models []model.Booking) {
	r.RoomID = roomID
	r.Available = len(models) == 0

	r.Conflicts = make([]AvailabilityConflict, len(models))
	for i, mod := range models {
		r.Conflicts[i].FromModel(mod)
	}
}

type BookingResponse struct {
	ID              string  `json:"id"`
	GuestID         string  `json:"guest_id"`
	GuestName       string  `json:"guest_name"`
	GuestEmail      string  `json:"guest_email"`
	GuestPhone      string  `json:"guest_phone"`
	RoomID          string  `json:"room_id"`
	RoomNumber      string  `json:"room_number"`
	CheckIn         string  `json:"check_in"`
	CheckOut        string  `json:"check_out"`
	Status          string  `json:"status"`
	TotalPrice      float64 `json:"total_price"`
	NumGuests       int     `json:"num_guests"`
	PaymentMethod   string  `json:"payment_method"`
	PaymentStatus   string  `json:"payment_status"`
	Source          string  `json:"source"`
	SpecialRequests string  `json:"special_requests"`
	Synced          bool    `json:"synced"`
	Conflict        bool    `json:"conflict"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.GuestID = model.GuestID
	r.GuestName = model.GuestName
	r.GuestEmail = model.GuestEmail
	r.GuestPhone = model.GuestPhone
	r.RoomID = model.RoomID
	r.RoomNumber = model.RoomNumber
	r.CheckIn = model.CheckIn.Format(constant.DateOnlyFormat)
	r.CheckOut = model.CheckOut.Format(constant.DateOnlyFormat)
	r.Status = model.Status
	r.TotalPrice = model.TotalPrice
	r.NumGuests = model.NumGuests
	r.PaymentMethod = model.PaymentMethod
	r.PaymentStatus = model.PaymentStatus
	r.Source = model.Source
	r.SpecialRequests = model.SpecialRequests
	r.Synced = model.Synced
	r.Conflict = model.Conflict
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
