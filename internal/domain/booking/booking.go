package booking

import (
	"time"

	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

// Bookable is the view of an item that booking creation needs.
type Bookable interface {
	ID() int64
	OwnerID() int64
	Available() bool
}

// Booking is the aggregate root for the booking domain. Item and booker are
// referenced by id and resolved through their repositories.
type Booking struct {
	id       int64
	itemID   int64
	bookerID int64
	start    time.Time
	end      time.Time
	status   BookingStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a WAITING booking of item by bookerID. The checks run in
// a fixed order so that a request breaking several rules always gets the same
// error: start in the past, end not after start, item unavailable, booker owns
// the item.
func NewBooking(item Bookable, bookerID int64, start, end, now time.Time) (*Booking, error) {
	if start.Before(now) {
		return nil, domain.NewTimeMismatchError("booking start must not be in the past")
	}
	if !start.Before(end) {
		return nil, domain.NewTimeMismatchError("booking end must be after start")
	}
	if !item.Available() {
		return nil, domain.NewItemNotAvailableError(item.ID())
	}
	if item.OwnerID() == bookerID {
		return nil, domain.NewOwnerMismatchError("owner cannot book their own item")
	}

	now = now.UTC()
	return &Booking{
		itemID:    item.ID(),
		bookerID:  bookerID,
		start:     start.UTC(),
		end:       end.UTC(),
		status:    StatusWaiting,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id int64,
	itemID int64,
	bookerID int64,
	start time.Time,
	end time.Time,
	status BookingStatus,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		itemID:    itemID,
		bookerID:  bookerID,
		start:     start,
		end:       end,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

// ID returns the store-assigned identifier, or zero before the first save.
func (b *Booking) ID() int64 { return b.id }

// ItemID returns the booked item's id.
func (b *Booking) ItemID() int64 { return b.itemID }

// BookerID returns the id of the user who requested the booking.
func (b *Booking) BookerID() int64 { return b.bookerID }

// Start returns the beginning of the booked window.
func (b *Booking) Start() time.Time { return b.start }

// End returns the end of the booked window.
func (b *Booking) End() time.Time { return b.end }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IsParticipant reports whether userID is the booker or the item owner.
func (b *Booking) IsParticipant(userID, itemOwnerID int64) bool {
	return userID == b.bookerID || userID == itemOwnerID
}

// --- Behavior ---

// AssignID records the id the store generated on insert. Ids never change
// once assigned.
func (b *Booking) AssignID(id int64) {
	if b.id == 0 {
		b.id = id
	}
}

// Decide applies the owner's decision: APPROVED when approved, REJECTED
// otherwise. An approved booking cannot be decided again.
func (b *Booking) Decide(approved bool, now time.Time) error {
	if b.status == StatusApproved {
		return domain.NewAlreadyApprovedError()
	}
	target := StatusRejected
	if approved {
		target = StatusApproved
	}
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	b.updatedAt = now.UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}
