package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"lodge/config"
	"lodge/infras/otel/mocks"
	bookingModel "lodge/internal/domains/booking/model"
	"lodge/internal/domains/sync/remote"
	"lodge/shared/constant"
	"lodge/shared/timezone"
)

func newClient(baseURL string) remote.Client {
	cfg := &config.Config{}
	cfg.Sync.Remote.BaseURL = baseURL
	cfg.Sync.Remote.APIKey = "test-key"

	return remote.New(cfg, mocks.NewOtel())
}

func TestClient_Push(t *testing.T) {
	booking := bookingModel.Booking{
		ID:         "b1",
		GuestName:  "Ana Petrova",
		RoomNumber: "101",
		RoomTypeID: "type-deluxe",
		CheckIn:    timezone.Today(),
		CheckOut:   timezone.Today().AddDate(0, 0, 2),
		Status:     constant.BookingStatusConfirmed,
		TotalPrice: 200,
	}

	t.Run("accepted booking returns the remote id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/bookings", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get(constant.RequestHeaderAPIKey))

			var wire remote.Booking
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&wire))
			assert.Equal(t, "b1", wire.ID)
			assert.Equal(t, "type-deluxe", wire.RoomType)
			assert.Empty(t, wire.RemoteID)

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"remote-1"}`))
		}))
		defer server.Close()

		remoteID, err := newClient(server.URL).Push(context.Background(), booking)

		assert.NoError(t, err)
		assert.Equal(t, "remote-1", remoteID)
	})

	t.Run("re-push carries the remote id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var wire remote.Booking
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&wire))
			assert.Equal(t, "remote-1", wire.RemoteID)

			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"id":"remote-1"}`))
		}))
		defer server.Close()

		requeued := booking
		requeued.RemoteID = "remote-1"

		remoteID, err := newClient(server.URL).Push(context.Background(), requeued)

		assert.NoError(t, err)
		assert.Equal(t, "remote-1", remoteID)
	})

	t.Run("conflict answer carries the winning booking", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"id":"remote-9","guest_name":"Someone Else","room_number":"101","check_in":"2025-06-01","check_out":"2025-06-03","status":"confirmed"}`))
		}))
		defer server.Close()

		_, err := newClient(server.URL).Push(context.Background(), booking)

		assert.Error(t, err)

		overlap, ok := remote.AsOverlap(err)

		assert.True(t, ok)
		assert.Equal(t, "remote-9", overlap.Conflicting.ID)
		assert.Equal(t, "Someone Else", overlap.Conflicting.GuestName)
	})

	t.Run("server failure is not an overlap", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newClient(server.URL).Push(context.Background(), booking)

		assert.Error(t, err)

		_, ok := remote.AsOverlap(err)

		assert.False(t, ok)
	})

	t.Run("unreachable remote", func(t *testing.T) {
		_, err := newClient("http://127.0.0.1:1").Push(context.Background(), booking)

		assert.Error(t, err)
	})
}

func TestClient_FlagConflict(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/bookings/remote-9/conflict", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get(constant.RequestHeaderAPIKey))

			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		assert.NoError(t, newClient(server.URL).FlagConflict(context.Background(), "remote-9"))
	})

	t.Run("rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		assert.Error(t, newClient(server.URL).FlagConflict(context.Background(), "remote-9"))
	})
}
