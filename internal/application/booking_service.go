package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/shareit-app/shareit-server/internal/domain/booking"
	itemDomain "github.com/shareit-app/shareit-server/internal/domain/item"
	userDomain "github.com/shareit-app/shareit-server/internal/domain/user"
	"github.com/shareit-app/shareit-server/internal/metrics"
	"github.com/shareit-app/shareit-server/internal/platform/database"
	"github.com/shareit-app/shareit-server/internal/platform/domain"
	"github.com/shareit-app/shareit-server/internal/platform/kafka"
)

// CreateBookingRequest holds the data needed to create a new booking. ID is
// only set by clients that pre-assign ids and is used as a duplicate guard.
type CreateBookingRequest struct {
	ID     *int64     `json:"id"`
	ItemID int64      `json:"item_id"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

// bookingTimeLayouts are the accepted forms of start and end. Values without
// a zone offset are read as UTC.
var bookingTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"}

// UnmarshalJSON accepts start and end either as RFC 3339 timestamps or as
// zone-less local date-times such as 2024-01-01T10:00:00.
func (r *CreateBookingRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     *int64  `json:"id"`
		ItemID int64   `json:"item_id"`
		Start  *string `json:"start"`
		End    *string `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := parseBookingTime("start", raw.Start)
	if err != nil {
		return err
	}
	end, err := parseBookingTime("end", raw.End)
	if err != nil {
		return err
	}
	*r = CreateBookingRequest{ID: raw.ID, ItemID: raw.ItemID, Start: start, End: end}
	return nil
}

func parseBookingTime(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	for _, layout := range bookingTimeLayouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s: unsupported time %q, want RFC 3339 or yyyy-MM-ddTHH:mm:ss", field, *raw)
}

// ItemSummary is the short form of an item embedded in other responses.
type ItemSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserSummary is the short form of a user embedded in other responses.
type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID     int64       `json:"id"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Status string      `json:"status"`
	Item   ItemSummary `json:"item"`
	Booker UserSummary `json:"booker"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	bookings  bookingDomain.BookingRepository
	items     itemDomain.ItemRepository
	users     userDomain.UserRepository
	tx        database.Transactor
	validator *BookingValidator
	policy    QueryPolicy
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	tx database.Transactor,
	policy QueryPolicy,
	publisher EventPublisher,
	logger *zap.Logger,
	opts ...Option,
) *BookingService {
	o := applyOptions(opts)
	return &BookingService{
		bookings:  bookings,
		items:     items,
		users:     users,
		tx:        tx,
		validator: NewBookingValidator(items, users),
		policy:    policy,
		publisher: publisher,
		logger:    logger,
		now:       o.now,
	}
}

// CreateBooking requests a booking of an item on behalf of bookerID. The new
// booking is WAITING for the owner's decision.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID int64, req CreateBookingRequest) (_ *BookingDTO, err error) {
	defer func() { observe("create_booking", err) }()

	var (
		bk   *bookingDomain.Booking
		item *itemDomain.Item
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		item, err = s.validator.Validate(ctx, BookingCandidate{
			ItemID:   req.ItemID,
			BookerID: bookerID,
			Start:    req.Start,
			End:      req.End,
		})
		if err != nil {
			return err
		}

		if req.ID != nil {
			exists, err := s.bookings.ExistsByID(ctx, *req.ID)
			if err != nil {
				return fmt.Errorf("failed to check booking id: %w", err)
			}
			if exists {
				return domain.NewAlreadyExistsError("Booking", *req.ID)
			}
		}

		bk, err = bookingDomain.NewBooking(item, bookerID, *req.Start, *req.End, s.now())
		if err != nil {
			return err
		}
		if err := s.bookings.Save(ctx, bk); err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreatedTotal.Inc()
	s.logger.Info("booking created",
		zap.Int64("booking_id", bk.ID()),
		zap.Int64("item_id", bk.ItemID()),
		zap.Int64("booker_id", bookerID),
	)

	s.publishEvent(ctx, bookingDomain.TopicBookingEvents, bookingDomain.EventCreated, bk.ID(), bookingDomain.CreatedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.ItemID(),
		BookerID:   bk.BookerID(),
		OwnerID:    item.OwnerID(),
		Start:      bk.Start(),
		End:        bk.End(),
		OccurredAt: s.now(),
	})

	return s.toDTO(ctx, bk)
}

// SetApproval applies the item owner's decision to a booking: APPROVED when
// approved is true, REJECTED otherwise.
func (s *BookingService) SetApproval(ctx context.Context, bookingID, ownerID int64, approved bool) (_ *BookingDTO, err error) {
	defer func() { observe("set_approval", err) }()

	var (
		bk   *bookingDomain.Booking
		item *itemDomain.Item
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		bk, err = s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		item, err = s.items.FindByID(ctx, bk.ItemID())
		if err != nil {
			return err
		}
		if !item.IsOwnedBy(ownerID) {
			return domain.NewOwnerMismatchError("only the item owner may approve or reject a booking")
		}

		if err := bk.Decide(approved, s.now()); err != nil {
			return err
		}
		bk.IncrementVersion()
		return s.bookings.Update(ctx, bk)
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingDecisionsTotal.WithLabelValues(bk.Status().String()).Inc()
	s.logger.Info("booking decided",
		zap.Int64("booking_id", bk.ID()),
		zap.Int64("owner_id", ownerID),
		zap.String("status", bk.Status().String()),
	)

	eventType := bookingDomain.EventRejected
	if bk.Status() == bookingDomain.StatusApproved {
		eventType = bookingDomain.EventApproved
	}
	s.publishEvent(ctx, bookingDomain.TopicBookingEvents, eventType, bk.ID(), bookingDomain.DecidedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.ItemID(),
		BookerID:   bk.BookerID(),
		OwnerID:    item.OwnerID(),
		Status:     bk.Status().String(),
		OccurredAt: s.now(),
	})

	return s.toDTO(ctx, bk)
}

// GetBooking returns a booking to its booker or to the owner of the booked item.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID int64) (_ *BookingDTO, err error) {
	defer func() { observe("get_booking", err) }()

	var result *BookingDTO
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		bk, err := s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		item, err := s.items.FindByID(ctx, bk.ItemID())
		if err != nil {
			return err
		}
		if !bk.IsParticipant(userID, item.OwnerID()) {
			return domain.NewItemOwnerOrBookerMismatchError()
		}
		result, err = s.toDTO(ctx, bk)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListForBooker returns the bookings made by bookerID in the given state.
func (s *BookingService) ListForBooker(ctx context.Context, bookerID int64, state bookingDomain.State, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, bookingDomain.RoleBooker, bookerID, state, from, size)
}

// ListForOwner returns the bookings of items owned by ownerID in the given state.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID int64, state bookingDomain.State, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, bookingDomain.RoleItemOwner, ownerID, state, from, size)
}

func (s *BookingService) list(
	ctx context.Context,
	role bookingDomain.Role,
	viewerID int64,
	state bookingDomain.State,
	from, size int,
) (_ []BookingDTO, err error) {
	defer func() { observe("list_bookings", err) }()

	var result []BookingDTO
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.users.ExistsByID(ctx, viewerID)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if !exists {
			return domain.NewNotFoundError("User", viewerID)
		}

		page, err := domain.NewPage(from, size)
		if err != nil {
			return err
		}
		filter, err := s.policy.Filter(state, role, viewerID, page, s.now())
		if err != nil {
			return err
		}

		bookings, err := s.bookings.Find(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to find bookings: %w", err)
		}
		result, err = s.toDTOs(ctx, bookings)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingQueriesTotal.WithLabelValues(role.String(), state.String()).Inc()
	return result, nil
}

// --- Helpers ---

func (s *BookingService) toDTO(ctx context.Context, bk *bookingDomain.Booking) (*BookingDTO, error) {
	dtos, err := s.toDTOs(ctx, []*bookingDomain.Booking{bk})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// toDTOs maps bookings to DTOs, loading the referenced items and bookers in
// one batch each.
func (s *BookingService) toDTOs(ctx context.Context, bookings []*bookingDomain.Booking) ([]BookingDTO, error) {
	if len(bookings) == 0 {
		return []BookingDTO{}, nil
	}

	itemIDs := make([]int64, 0, len(bookings))
	bookerIDs := make([]int64, 0, len(bookings))
	for _, bk := range bookings {
		itemIDs = append(itemIDs, bk.ItemID())
		bookerIDs = append(bookerIDs, bk.BookerID())
	}

	items, err := s.items.FindByIDs(ctx, uniqueIDs(itemIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load booked items: %w", err)
	}
	users, err := s.users.FindByIDs(ctx, uniqueIDs(bookerIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load bookers: %w", err)
	}

	itemsByID := make(map[int64]ItemSummary, len(items))
	for _, it := range items {
		itemsByID[it.ID()] = ItemSummary{ID: it.ID(), Name: it.Name()}
	}
	usersByID := make(map[int64]UserSummary, len(users))
	for _, u := range users {
		usersByID[u.ID()] = UserSummary{ID: u.ID(), Name: u.Name()}
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		item, ok := itemsByID[bk.ItemID()]
		if !ok {
			item = ItemSummary{ID: bk.ItemID()}
		}
		booker, ok := usersByID[bk.BookerID()]
		if !ok {
			booker = UserSummary{ID: bk.BookerID()}
		}
		dtos[i] = BookingDTO{
			ID:     bk.ID(),
			Start:  bk.Start(),
			End:    bk.End(),
			Status: bk.Status().String(),
			Item:   item,
			Booker: booker,
		}
	}
	return dtos, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, key int64, data any) {
	publishEvent(ctx, s.publisher, s.logger, topic, eventType, key, data)
}

func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, topic, eventType string, key int64, data any) {
	if publisher == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		metrics.EventsPublishedTotal.WithLabelValues(eventType, "error").Inc()
		return
	}

	if err := publisher.PublishEvent(ctx, topic, fmt.Sprint(key), cloudEvent); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		metrics.EventsPublishedTotal.WithLabelValues(eventType, "error").Inc()
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(eventType, "ok").Inc()
}
