package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	BookingID int64 `json:"booking_id"`
	Approved  bool  `json:"approved"`
}

func TestCloudEvent_RoundTrip(t *testing.T) {
	evt, err := NewCloudEvent("shareit-server", "booking.approval_decided", samplePayload{BookingID: 9, Approved: true})
	require.NoError(t, err)
	assert.Equal(t, "1.0", evt.SpecVersion)
	assert.NotEmpty(t, evt.ID)

	raw, err := json.Marshal(evt)
	require.NoError(t, err)

	parsed, err := ParseCloudEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "booking.approval_decided", parsed.Type)

	var payload samplePayload
	require.NoError(t, parsed.ParseData(&payload))
	assert.Equal(t, samplePayload{BookingID: 9, Approved: true}, payload)
}

func TestParseCloudEvent_Rejects(t *testing.T) {
	_, err := ParseCloudEvent([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseCloudEvent([]byte(`{"id":"1"}`))
	assert.Error(t, err)
}

func TestCloudEvent_ParseDataEmpty(t *testing.T) {
	var payload samplePayload
	assert.Error(t, CloudEvent{ID: "x"}.ParseData(&payload))
}
