package remote

//go:generate go run go.uber.org/mock/mockgen -source=./remote.go -destination=./mocks/remote_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lodge/config"
	"lodge/infras/otel"
	bookingModel "lodge/internal/domains/booking/model"
	"lodge/shared/constant"

	"github.com/rs/zerolog/log"
)

// Booking is the wire representation the property management system
// exchanges for a stay.
type Booking struct {
	ID string `json:"id"`
	// RemoteID carries the store's own identifier on re-pushes, so an
	// update to an already synced booking replaces the existing record
	// instead of claiming a second copy of the room.
	RemoteID        string  `json:"remote_id,omitempty"`
	GuestName       string  `json:"guest_name"`
	GuestEmail      string  `json:"guest_email"`
	GuestPhone      string  `json:"guest_phone"`
	RoomNumber      string  `json:"room_number"`
	RoomType        string  `json:"room_type"`
	CheckIn         string  `json:"check_in"`
	CheckOut        string  `json:"check_out"`
	Status          string  `json:"status"`
	TotalPrice      float64 `json:"total_price"`
	NumGuests       int     `json:"num_guests"`
	PaymentMethod   string  `json:"payment_method"`
	Source          string  `json:"source"`
	SpecialRequests string  `json:"special_requests"`
}

// OverlapError reports that the remote store already holds an active
// booking occupying the pushed window.
type OverlapError struct {
	Conflicting Booking
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("remote booking %s overlaps the pushed window", e.Conflicting.ID)
}

func AsOverlap(err error) (*OverlapError, bool) {
	var overlap *OverlapError
	ok := errors.As(err, &overlap)

	return overlap, ok
}

// Client pushes local bookings to the authoritative store.
type Client interface {
	Push(ctx context.Context, booking bookingModel.Booking) (remoteID string, err error)
	FlagConflict(ctx context.Context, remoteID string) error
}

type clientImpl struct {
	httpClient *http.Client
	cfg        *config.Config
	otel       otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Client {
	timeout := time.Duration(cfg.Sync.Remote.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &clientImpl{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		otel:       otel,
	}
}

func toWire(booking bookingModel.Booking) Booking {
	return Booking{
		ID:              booking.ID,
		RemoteID:        booking.RemoteID,
		GuestName:       booking.GuestName,
		GuestEmail:      booking.GuestEmail,
		GuestPhone:      booking.GuestPhone,
		RoomNumber:      booking.RoomNumber,
		RoomType:        booking.RoomTypeID,
		CheckIn:         booking.CheckIn.Format(constant.DateOnlyFormat),
		CheckOut:        booking.CheckOut.Format(constant.DateOnlyFormat),
		Status:          booking.Status,
		TotalPrice:      booking.TotalPrice,
		NumGuests:       booking.NumGuests,
		PaymentMethod:   booking.PaymentMethod,
		Source:          booking.Source,
		SpecialRequests: booking.SpecialRequests,
	}
}

func (c *clientImpl) Push(ctx context.Context, booking bookingModel.Booking) (remoteID string, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".Push")
	defer scope.End()
	defer scope.TraceIfError(err)

	payload, err := json.Marshal(toWire(booking))
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to marshal booking for push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Sync.Remote.BaseURL+"/bookings", bytes.NewReader(payload))
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to build push request: %w", err)
	}

	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	req.Header.Set(constant.RequestHeaderAPIKey, c.cfg.Sync.Remote.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to push booking")

		return constant.Empty, fmt.Errorf("failed to push booking: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to read push response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var result struct {
			ID string `json:"id"`
		}

		if err := json.Unmarshal(body, &result); err != nil {
			return constant.Empty, fmt.Errorf("failed to decode push response: %w", err)
		}

		return result.ID, nil
	case http.StatusConflict:
		var conflicting Booking

		if err := json.Unmarshal(body, &conflicting); err != nil {
			return constant.Empty, fmt.Errorf("failed to decode conflict response: %w", err)
		}

		return constant.Empty, &OverlapError{Conflicting: conflicting}
	default:
		return constant.Empty, fmt.Errorf("push rejected with status %d", resp.StatusCode)
	}
}

func (c *clientImpl) FlagConflict(ctx context.Context, remoteID string) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".FlagConflict")
	defer scope.End()
	defer scope.TraceIfError(err)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Sync.Remote.BaseURL+"/bookings/"+remoteID+"/conflict", nil)
	if err != nil {
		return fmt.Errorf("failed to build conflict request: %w", err)
	}

	req.Header.Set(constant.RequestHeaderAPIKey, c.cfg.Sync.Remote.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("remote_id", remoteID).Msg("failed to flag remote conflict")

		return fmt.Errorf("failed to flag remote conflict: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("conflict flag rejected with status %d", resp.StatusCode)
	}

	return nil
}
