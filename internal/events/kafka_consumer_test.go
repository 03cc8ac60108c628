package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shareit-app/shareit-server/internal/application"
	bookingDomain "github.com/shareit-app/shareit-server/internal/domain/booking"
	"github.com/shareit-app/shareit-server/internal/platform/domain"
	"github.com/shareit-app/shareit-server/internal/platform/kafka"
)

type decision struct {
	bookingID, ownerID int64
	approved           bool
}

type fakeDecider struct {
	calls []decision
	err   error
}

func (f *fakeDecider) SetApproval(_ context.Context, bookingID, ownerID int64, approved bool) (*application.BookingDTO, error) {
	f.calls = append(f.calls, decision{bookingID, ownerID, approved})
	if f.err != nil {
		return nil, f.err
	}
	status := "REJECTED"
	if approved {
		status = "APPROVED"
	}
	return &application.BookingDTO{ID: bookingID, Status: status}, nil
}

func newTestConsumer(decider ApprovalDecider) *ApprovalCommandConsumer {
	return &ApprovalCommandConsumer{decider: decider, logger: zap.NewNop()}
}

func commandMessage(t *testing.T, eventType string, data any) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent("owner-app", eventType, data)
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Value: raw}
}

func TestHandleMessage_AppliesDecision(t *testing.T) {
	decider := &fakeDecider{}
	c := newTestConsumer(decider)

	msg := commandMessage(t, bookingDomain.CommandApprovalDecided, bookingDomain.ApprovalDecidedCommand{
		BookingID: 3, OwnerID: 1, Approved: true,
	})
	require.NoError(t, c.handleMessage(context.Background(), msg))
	assert.Equal(t, []decision{{3, 1, true}}, decider.calls)
}

func TestHandleMessage_SkipsUnprocessable(t *testing.T) {
	decider := &fakeDecider{}
	c := newTestConsumer(decider)
	ctx := context.Background()

	assert.NoError(t, c.handleMessage(ctx, kafkago.Message{Value: []byte("{not json")}))
	assert.NoError(t, c.handleMessage(ctx, commandMessage(t, "booking.something_else", map[string]int{"x": 1})))
	assert.NoError(t, c.handleMessage(ctx, commandMessage(t, bookingDomain.CommandApprovalDecided, "not an object")))
	assert.Empty(t, decider.calls)
}

func TestHandleMessage_ErrorHandling(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"business rule violation is acknowledged", domain.NewAlreadyApprovedError(), false},
		{"unknown booking is acknowledged", domain.NewNotFoundError("Booking", int64(3)), false},
		{"lost update is retried", domain.NewConflictError("booking was modified by another transaction"), true},
		{"infrastructure failure is retried", errors.New("connection reset"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConsumer(&fakeDecider{err: tt.err})
			msg := commandMessage(t, bookingDomain.CommandApprovalDecided, bookingDomain.ApprovalDecidedCommand{
				BookingID: 3, OwnerID: 1, Approved: false,
			})
			err := c.handleMessage(context.Background(), msg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
