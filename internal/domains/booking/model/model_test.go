package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lodge/internal/domains/booking/model"
	"lodge/shared/constant"
)

func date(value string) time.Time {
	t, _ := time.Parse(constant.DateOnlyFormat, value)

	return t
}

func TestNightsBetween(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{
			name:     "single night",
			checkIn:  date("2025-03-10"),
			checkOut: date("2025-03-11"),
			want:     1,
		},
		{
			name:     "week long stay",
			checkIn:  date("2025-03-10"),
			checkOut: date("2025-03-17"),
			want:     7,
		},
		{
			name:     "partial day rounds up",
			checkIn:  date("2025-03-10"),
			checkOut: date("2025-03-11").Add(6 * time.Hour),
			want:     2,
		},
		{
			name:     "same day",
			checkIn:  date("2025-03-10"),
			checkOut: date("2025-03-10"),
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.NightsBetween(tt.checkIn, tt.checkOut))
		})
	}
}

func TestBooking_IsActive(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{status: constant.BookingStatusReserved, want: true},
		{status: constant.BookingStatusConfirmed, want: true},
		{status: constant.BookingStatusCheckedIn, want: true},
		{status: constant.BookingStatusCheckedOut, want: false},
		{status: constant.BookingStatusCancelled, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			booking := model.Booking{Status: tt.status}

			assert.Equal(t, tt.want, booking.IsActive())
		})
	}
}
