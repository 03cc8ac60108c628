package booking

import (
	"context"
	"time"

	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

// Order is the sort order of a booking query.
type Order int

const (
	OrderStartDesc Order = iota
	OrderStartAsc
)

// Filter is a predicate over bookings. Zero-valued fields do not constrain
// the result. All time bounds are strict.
type Filter struct {
	// Role and ViewerID restrict results to bookings where the viewer is the
	// booker (RoleBooker) or owns the booked item (RoleItemOwner).
	Role     Role
	ViewerID int64

	ItemIDs  []int64
	Statuses []BookingStatus

	StartBefore *time.Time
	StartAfter  *time.Time
	EndBefore   *time.Time
	EndAfter    *time.Time

	Order Order
	// Page limits the result window. Nil returns every match.
	Page *domain.Page
}

// Matches evaluates the filter against b in memory. ownerOf resolves the
// owner of an item. Order and Page are not considered.
func (f Filter) Matches(b *Booking, ownerOf func(itemID int64) int64) bool {
	switch f.Role {
	case RoleBooker:
		if b.bookerID != f.ViewerID {
			return false
		}
	case RoleItemOwner:
		if ownerOf(b.itemID) != f.ViewerID {
			return false
		}
	}
	if len(f.ItemIDs) > 0 && !containsID(f.ItemIDs, b.itemID) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, b.status) {
		return false
	}
	if f.StartBefore != nil && !b.start.Before(*f.StartBefore) {
		return false
	}
	if f.StartAfter != nil && !b.start.After(*f.StartAfter) {
		return false
	}
	if f.EndBefore != nil && !b.end.Before(*f.EndBefore) {
		return false
	}
	if f.EndAfter != nil && !b.end.After(*f.EndAfter) {
		return false
	}
	return true
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsStatus(statuses []BookingStatus, s BookingStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its identifier.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// ExistsByID reports whether a booking with the id is stored.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Find returns the bookings matching filter, sorted by start in the
	// filter's order with id as a tie-breaker.
	Find(ctx context.Context, filter Filter) ([]*Booking, error)

	// Save persists a new booking and assigns its id.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
