package application_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shareit-app/shareit-server/internal/application"
	bookingDomain "github.com/shareit-app/shareit-server/internal/domain/booking"
	itemDomain "github.com/shareit-app/shareit-server/internal/domain/item"
	userDomain "github.com/shareit-app/shareit-server/internal/domain/user"
	"github.com/shareit-app/shareit-server/internal/testutil/memstore"
)

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func at(offset time.Duration) *time.Time {
	t := testNow.Add(offset)
	return &t
}

type fixture struct {
	ctx   context.Context
	store *memstore.Store
	clock func() time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		ctx:   context.Background(),
		store: memstore.New(),
		clock: func() time.Time { return testNow },
	}
}

func (f *fixture) bookingService(policy application.QueryPolicy, publisher application.EventPublisher) *application.BookingService {
	return application.NewBookingService(
		f.store.Bookings(), f.store.Items(), f.store.Users(), f.store,
		policy, publisher, zap.NewNop(), application.WithClock(f.clock),
	)
}

func (f *fixture) itemService() *application.ItemService {
	return application.NewItemService(
		f.store.Items(), f.store.Users(), f.store.Bookings(), f.store.Comments(), f.store.Requests(),
		f.store, zap.NewNop(), application.WithClock(f.clock),
	)
}

func (f *fixture) requestService() *application.RequestService {
	return application.NewRequestService(
		f.store.Requests(), f.store.Items(), f.store.Users(), f.store,
		zap.NewNop(), application.WithClock(f.clock),
	)
}

func (f *fixture) userService() *application.UserService {
	return application.NewUserService(f.store.Users(), f.store, zap.NewNop())
}

func (f *fixture) user(t *testing.T, name string) int64 {
	t.Helper()
	u, err := userDomain.NewUser(name, fmt.Sprintf("%s@example.com", name))
	require.NoError(t, err)
	require.NoError(t, f.store.Users().Save(f.ctx, u))
	return u.ID()
}

func (f *fixture) item(t *testing.T, ownerID int64, name string, available bool) int64 {
	t.Helper()
	it, err := itemDomain.NewItem(ownerID, name, name+" for rent", available, nil)
	require.NoError(t, err)
	require.NoError(t, f.store.Items().Save(f.ctx, it))
	return it.ID()
}

// booking stores a booking directly, bypassing the creation rules so that
// past and current bookings can be seeded.
func (f *fixture) booking(t *testing.T, itemID, bookerID int64, start, end time.Duration, status bookingDomain.BookingStatus) int64 {
	t.Helper()
	bk := bookingDomain.ReconstructBooking(0, itemID, bookerID, testNow.Add(start), testNow.Add(end), status, 1, testNow, testNow)
	require.NoError(t, f.store.Bookings().Save(f.ctx, bk))
	return bk.ID()
}

func bookingIDs(dtos []application.BookingDTO) []int64 {
	ids := make([]int64, len(dtos))
	for i, d := range dtos {
		ids[i] = d.ID
	}
	return ids
}
