//go:build integration

package main_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingDomain "github.com/shareit-app/shareit-server/internal/domain/booking"
	"github.com/shareit-app/shareit-server/internal/platform/domain"
	"github.com/shareit-app/shareit-server/internal/repository"
)

// TestApprovalCommand_ApprovesBooking verifies that an approval command
// published to booking.commands is applied to the booking and announced on
// booking.events.
func TestApprovalCommand_ApprovesBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupAppStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	ownerID := seedUser(t, stack, "owner")
	bookerID := seedUser(t, stack, "booker")
	itemID := seedItem(t, stack, ownerID, "Drill")
	bookingID := seedBooking(t, stack, itemID, bookerID, 24*time.Hour, 48*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	cmd := bookingDomain.ApprovalDecidedCommand{
		BookingID: bookingID,
		OwnerID:   ownerID,
		Approved:  true,
	}
	publishTestEvent(t, infra.KafkaBrokers, bookingDomain.TopicBookingCommands,
		strconv.FormatInt(bookingID, 10), "shareit-test", bookingDomain.CommandApprovalDecided, cmd)

	model := waitForBookingStatus(t, infra.DB, bookingID, string(bookingDomain.StatusApproved), 15*time.Second)
	assert.Equal(t, int64(2), model.Version)

	ce := consumeOneEvent(t, infra.KafkaBrokers, bookingDomain.TopicBookingEvents,
		bookingDomain.EventApproved, 15*time.Second)

	var decided bookingDomain.DecidedEvent
	require.NoError(t, ce.ParseData(&decided))
	assert.Equal(t, bookingID, decided.BookingID)
	assert.Equal(t, ownerID, decided.OwnerID)
	assert.Equal(t, bookerID, decided.BookerID)
	assert.Equal(t, string(bookingDomain.StatusApproved), decided.Status)
}

// TestOwnerListing_Postgres checks the owner view of the booking query engine
// against the SQL repository.
func TestOwnerListing_Postgres(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()

	stack := setupAppStack(t, db, nil)
	ctx := context.Background()

	ownerID := seedUser(t, stack, "owner")
	otherOwnerID := seedUser(t, stack, "other")
	bookerID := seedUser(t, stack, "booker")
	drill := seedItem(t, stack, ownerID, "Drill")
	ladder := seedItem(t, stack, ownerID, "Ladder")
	tent := seedItem(t, stack, otherOwnerID, "Tent")

	late := seedBooking(t, stack, drill, bookerID, 72*time.Hour, time.Hour)
	early := seedBooking(t, stack, ladder, bookerID, 24*time.Hour, time.Hour)
	rejected := seedBooking(t, stack, drill, bookerID, 48*time.Hour, time.Hour)
	seedBooking(t, stack, tent, bookerID, 24*time.Hour, time.Hour)

	_, err := stack.Bookings.SetApproval(ctx, rejected, ownerID, false)
	require.NoError(t, err)

	all, err := stack.Bookings.ListForOwner(ctx, ownerID, bookingDomain.StateAll, 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, late, all[0].ID, "start descending")
	assert.Equal(t, early, all[2].ID)

	waiting, err := stack.Bookings.ListForOwner(ctx, ownerID, bookingDomain.StateWaiting, 0, 10)
	require.NoError(t, err)
	require.Len(t, waiting, 2)

	rejectedOnly, err := stack.Bookings.ListForOwner(ctx, ownerID, bookingDomain.StateRejected, 0, 10)
	require.NoError(t, err)
	require.Len(t, rejectedOnly, 1)
	assert.Equal(t, rejected, rejectedOnly[0].ID)

	page, err := stack.Bookings.ListForOwner(ctx, ownerID, bookingDomain.StateFuture, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, early, page[0].ID)
}

// TestBookingUpdate_StaleVersionConflicts checks the optimistic version check
// of the SQL booking repository.
func TestBookingUpdate_StaleVersionConflicts(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()

	stack := setupAppStack(t, db, nil)
	ctx := context.Background()

	ownerID := seedUser(t, stack, "owner")
	bookerID := seedUser(t, stack, "booker")
	itemID := seedItem(t, stack, ownerID, "Drill")
	bookingID := seedBooking(t, stack, itemID, bookerID, 24*time.Hour, time.Hour)

	repo := repository.NewGormBookingRepository(db)
	first, err := repo.FindByID(ctx, bookingID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, bookingID)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, first.Decide(true, now))
	first.IncrementVersion()
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, second.Decide(false, now))
	second.IncrementVersion()
	err = repo.Update(ctx, second)
	require.Error(t, err)
	code, ok := domain.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeConflict, code)
}
