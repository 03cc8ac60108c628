package application

import (
	"time"

	bookingDomain "github.com/shareit-app/shareit-server/internal/domain/booking"
	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

// QueryPolicy holds the per-view choices of the booking list queries.
type QueryPolicy struct {
	// OwnerPastApprovedOnly limits the owner's PAST view to APPROVED bookings.
	// The booker's PAST view always includes WAITING ones too.
	OwnerPastApprovedOnly bool
	// OwnerCurrentAscending orders the owner's CURRENT view by start ascending.
	OwnerCurrentAscending bool
	// PaginateAllStates applies from/size to every state. When false only ALL
	// is paginated and the other states return every match.
	PaginateAllStates bool
}

// DefaultQueryPolicy treats both views alike and paginates every state.
func DefaultQueryPolicy() QueryPolicy {
	return QueryPolicy{PaginateAllStates: true}
}

// LegacyQueryPolicy reproduces the behavior of the first ShareIt server,
// which existing clients may depend on.
func LegacyQueryPolicy() QueryPolicy {
	return QueryPolicy{
		OwnerPastApprovedOnly: true,
		OwnerCurrentAscending: true,
		PaginateAllStates:     false,
	}
}

var activeStatuses = []bookingDomain.BookingStatus{bookingDomain.StatusApproved, bookingDomain.StatusWaiting}

// stateFilters maps each state to the predicate it adds to a query.
var stateFilters = map[bookingDomain.State]func(f *bookingDomain.Filter, now time.Time){
	bookingDomain.StateAll: func(*bookingDomain.Filter, time.Time) {},
	bookingDomain.StateCurrent: func(f *bookingDomain.Filter, now time.Time) {
		f.StartBefore = &now
		f.EndAfter = &now
	},
	bookingDomain.StateFuture: func(f *bookingDomain.Filter, now time.Time) {
		f.Statuses = activeStatuses
		f.StartAfter = &now
	},
	bookingDomain.StatePast: func(f *bookingDomain.Filter, now time.Time) {
		f.Statuses = activeStatuses
		f.EndBefore = &now
	},
	bookingDomain.StateWaiting: func(f *bookingDomain.Filter, _ time.Time) {
		f.Statuses = []bookingDomain.BookingStatus{bookingDomain.StatusWaiting}
	},
	bookingDomain.StateRejected: func(f *bookingDomain.Filter, _ time.Time) {
		f.Statuses = []bookingDomain.BookingStatus{bookingDomain.StatusRejected}
	},
}

// Filter builds the store query for a viewer's list of bookings in state.
func (p QueryPolicy) Filter(
	state bookingDomain.State,
	role bookingDomain.Role,
	viewerID int64,
	page domain.Page,
	now time.Time,
) (bookingDomain.Filter, error) {
	apply, ok := stateFilters[state]
	if !ok {
		return bookingDomain.Filter{}, domain.NewValidationError("Unknown state: " + string(state))
	}

	f := bookingDomain.Filter{
		Role:     role,
		ViewerID: viewerID,
		Order:    bookingDomain.OrderStartDesc,
	}
	apply(&f, now)

	if role == bookingDomain.RoleItemOwner {
		if state == bookingDomain.StatePast && p.OwnerPastApprovedOnly {
			f.Statuses = []bookingDomain.BookingStatus{bookingDomain.StatusApproved}
		}
		if state == bookingDomain.StateCurrent && p.OwnerCurrentAscending {
			f.Order = bookingDomain.OrderStartAsc
		}
	}
	if state == bookingDomain.StateAll || p.PaginateAllStates {
		f.Page = &page
	}
	return f, nil
}
