package application

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingRequest_TimeLayouts(t *testing.T) {
	want := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start string
		want  time.Time
	}{
		{"zone-less local date-time", "2024-01-01T10:00:00", want},
		{"zone-less without seconds", "2024-01-01T10:00", want},
		{"zone-less with fraction", "2024-01-01T10:00:00.5", want.Add(500 * time.Millisecond)},
		{"utc", "2024-01-01T10:00:00Z", want},
		{"offset", "2024-01-01T12:00:00+02:00", want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateBookingRequest
			body := `{"item_id": 4, "start": "` + tt.start + `", "end": "2024-01-02T10:00:00"}`
			require.NoError(t, json.Unmarshal([]byte(body), &req))
			assert.Equal(t, int64(4), req.ItemID)
			require.NotNil(t, req.Start)
			assert.True(t, req.Start.Equal(tt.want), "got %s", req.Start)
			assert.Equal(t, time.UTC, req.Start.Location())
			require.NotNil(t, req.End)
		})
	}
}

func TestCreateBookingRequest_MissingAndInvalidTimes(t *testing.T) {
	var req CreateBookingRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id": 7, "item_id": 1, "start": null}`), &req))
	assert.Nil(t, req.Start)
	assert.Nil(t, req.End)
	require.NotNil(t, req.ID)
	assert.Equal(t, int64(7), *req.ID)

	err := json.Unmarshal([]byte(`{"item_id": 1, "start": "01/01/2024 10:00", "end": "2024-01-02T10:00:00"}`), &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start")
}
