package booking

import "time"

// Topics.
const (
	TopicBookingEvents   = "booking.events"
	TopicBookingCommands = "booking.commands"
)

// Event and command types carried in CloudEvent.Type.
const (
	EventCreated  = "booking.created"
	EventApproved = "booking.approved"
	EventRejected = "booking.rejected"

	CommandApprovalDecided = "booking.approval_decided"
)

// CreatedEvent is published when a booking is requested.
type CreatedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	OwnerID    int64     `json:"owner_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DecidedEvent is published when the owner approves or rejects a booking.
type DecidedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	OwnerID    int64     `json:"owner_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ApprovalDecidedCommand asks the service to apply an owner's decision.
type ApprovalDecidedCommand struct {
	BookingID int64 `json:"booking_id"`
	OwnerID   int64 `json:"owner_id"`
	Approved  bool  `json:"approved"`
}
