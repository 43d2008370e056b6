package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Legacy group membership travels inside the booking's special requests as
// a bracketed marker, e.g. [GROUP_BOOKING:{"groupId":"..."}]. Older clients
// still read and write this marker, so it is kept byte-for-byte alongside
// the group_members relation.
const tagPrefix = "[GROUP_BOOKING:"

var tagPattern = regexp.MustCompile(`\[GROUP_BOOKING:(\{.*?\})\]`)

// Tag is the JSON payload embedded in the legacy marker.
type Tag struct {
	GroupID        string `json:"groupId"`
	IsPrimary      bool   `json:"isPrimaryBooking"`
	BillingContact string `json:"billingContact,omitempty"`
}

// EncodeTag appends the group marker to a special requests string. Existing
// text is preserved unchanged.
func EncodeTag(specialRequests string, tag Tag) (string, error) {
	payload, err := json.Marshal(tag)
	if err != nil {
		return specialRequests, fmt.Errorf("failed to encode group tag: %w", err)
	}

	marker := tagPrefix + string(payload) + "]"
	if specialRequests == "" {
		return marker, nil
	}

	return specialRequests + " " + marker, nil
}

// ParseTag extracts the group marker from a special requests string. The
// second return is false when no marker is present or it does not decode.
func ParseTag(specialRequests string) (Tag, bool) {
	var tag Tag

	match := tagPattern.FindStringSubmatch(specialRequests)
	if match == nil {
		return tag, false
	}

	if err := json.Unmarshal([]byte(match[1]), &tag); err != nil {
		return tag, false
	}

	return tag, true
}

// StripTag removes the group marker from a special requests string, leaving
// the guest's own text intact.
func StripTag(specialRequests string) string {
	stripped := tagPattern.ReplaceAllString(specialRequests, "")

	return strings.TrimSpace(stripped)
}
