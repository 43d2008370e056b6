package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lodge/internal/domains/group/model"
)

func TestEncodeTag(t *testing.T) {
	tag := model.Tag{
		GroupID:        "group-1",
		IsPrimary:      true,
		BillingContact: "ana@example.com",
	}

	t.Run("appends marker after existing text", func(t *testing.T) {
		tagged, err := model.EncodeTag("Late arrival, sea view please", tag)

		assert.NoError(t, err)
		assert.Equal(t, `Late arrival, sea view please [GROUP_BOOKING:{"groupId":"group-1","isPrimaryBooking":true,"billingContact":"ana@example.com"}]`, tagged)
	})

	t.Run("marker only when text is empty", func(t *testing.T) {
		tagged, err := model.EncodeTag("", tag)

		assert.NoError(t, err)
		assert.Equal(t, `[GROUP_BOOKING:{"groupId":"group-1","isPrimaryBooking":true,"billingContact":"ana@example.com"}]`, tagged)
	})

	t.Run("billing contact omitted when empty", func(t *testing.T) {
		tagged, err := model.EncodeTag("", model.Tag{GroupID: "group-1"})

		assert.NoError(t, err)
		assert.Equal(t, `[GROUP_BOOKING:{"groupId":"group-1","isPrimaryBooking":false}]`, tagged)
	})
}

func TestParseTag(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		original := model.Tag{
			GroupID:        "group-1",
			IsPrimary:      true,
			BillingContact: "ana@example.com",
		}

		tagged, err := model.EncodeTag("quiet room", original)
		assert.NoError(t, err)

		parsed, ok := model.ParseTag(tagged)

		assert.True(t, ok)
		assert.Equal(t, original, parsed)
	})

	t.Run("no marker present", func(t *testing.T) {
		_, ok := model.ParseTag("just a regular request")

		assert.False(t, ok)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, ok := model.ParseTag(`[GROUP_BOOKING:{"groupId":}]`)

		assert.False(t, ok)
	})
}

func TestStripTag(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "removes marker and keeps guest text",
			input: `Late arrival [GROUP_BOOKING:{"groupId":"g1","isPrimaryBooking":false}]`,
			want:  "Late arrival",
		},
		{
			name:  "marker only",
			input: `[GROUP_BOOKING:{"groupId":"g1","isPrimaryBooking":true}]`,
			want:  "",
		},
		{
			name:  "no marker",
			input: "extra towels",
			want:  "extra towels",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.StripTag(tt.input))
		})
	}
}
