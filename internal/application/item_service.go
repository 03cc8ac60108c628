package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/shareit-app/shareit-server/internal/domain/booking"
	commentDomain "github.com/shareit-app/shareit-server/internal/domain/comment"
	itemDomain "github.com/shareit-app/shareit-server/internal/domain/item"
	requestDomain "github.com/shareit-app/shareit-server/internal/domain/request"
	userDomain "github.com/shareit-app/shareit-server/internal/domain/user"
	"github.com/shareit-app/shareit-server/internal/platform/database"
	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

// CreateItemRequest holds the data needed to list a new item.
type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required,max=125"`
	Description *string `json:"description" binding:"required,max=250"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *int64  `json:"request_id"`
}

// UpdateItemRequest holds a partial item update.
type UpdateItemRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=125"`
	Description *string `json:"description" binding:"omitempty,max=250"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"request_id"`
}

// CreateCommentRequest holds the text of a comment.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required,max=500"`
}

// ItemDTO is the response representation of an item.
type ItemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"request_id,omitempty"`
}

// BookingSlotDTO is the short form of a booking shown on an item card.
type BookingSlotDTO struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// CommentDTO is the response representation of a comment.
type CommentDTO struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}

// ItemDetailsDTO is an item with its neighbouring bookings and comments.
// Bookings are only filled in for the item owner.
type ItemDetailsDTO struct {
	ItemDTO
	LastBooking *BookingSlotDTO `json:"last_booking"`
	NextBooking *BookingSlotDTO `json:"next_booking"`
	Comments    []CommentDTO    `json:"comments"`
}

// ItemService manages listed items and their comments.
type ItemService struct {
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	bookings bookingDomain.BookingRepository
	comments commentDomain.CommentRepository
	requests requestDomain.RequestRepository
	tx       database.Transactor
	logger   *zap.Logger
	now      func() time.Time
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	bookings bookingDomain.BookingRepository,
	comments commentDomain.CommentRepository,
	requests requestDomain.RequestRepository,
	tx database.Transactor,
	logger *zap.Logger,
	opts ...Option,
) *ItemService {
	o := applyOptions(opts)
	return &ItemService{
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		requests: requests,
		tx:       tx,
		logger:   logger,
		now:      o.now,
	}
}

// CreateItem lists a new item owned by ownerID.
func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, req CreateItemRequest) (_ *ItemDTO, err error) {
	defer func() { observe("create_item", err) }()

	if req.Description == nil {
		return nil, domain.NewValidationError("field 'description' is required")
	}
	if req.Available == nil {
		return nil, domain.NewValidationError("field 'available' is required")
	}

	var it *itemDomain.Item
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireUser(ctx, ownerID); err != nil {
			return err
		}
		if err := s.requireRequest(ctx, req.RequestID); err != nil {
			return err
		}
		it, err = itemDomain.NewItem(ownerID, req.Name, *req.Description, *req.Available, req.RequestID)
		if err != nil {
			return err
		}
		if err := s.items.Save(ctx, it); err != nil {
			return fmt.Errorf("failed to save item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item created", zap.Int64("item_id", it.ID()), zap.Int64("owner_id", ownerID))
	result := toItemDTO(it)
	return &result, nil
}

// UpdateItem merges the non-nil fields of req into an item. Only the owner
// may edit an item.
func (s *ItemService) UpdateItem(ctx context.Context, itemID, userID int64, req UpdateItemRequest) (_ *ItemDTO, err error) {
	defer func() { observe("update_item", err) }()

	var it *itemDomain.Item
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		it, err = s.items.FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if !it.IsOwnedBy(userID) {
			return domain.NewOwnerMismatchError("only the item owner may edit the item")
		}
		if err := s.requireRequest(ctx, req.RequestID); err != nil {
			return err
		}
		err = it.Apply(itemDomain.Patch{
			Name:        req.Name,
			Description: req.Description,
			Available:   req.Available,
			RequestID:   req.RequestID,
		})
		if err != nil {
			return err
		}
		return s.items.Update(ctx, it)
	})
	if err != nil {
		return nil, err
	}

	result := toItemDTO(it)
	return &result, nil
}

// GetItem returns an item with its comments. The owner additionally sees the
// last and next bookings.
func (s *ItemService) GetItem(ctx context.Context, itemID, userID int64) (*ItemDetailsDTO, error) {
	var result *ItemDetailsDTO
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		it, err := s.items.FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if err := s.requireUser(ctx, userID); err != nil {
			return err
		}
		details, err := s.details(ctx, []*itemDomain.Item{it}, it.IsOwnedBy(userID))
		if err != nil {
			return err
		}
		result = &details[0]
		return nil
	})
	return result, err
}

// ListItemsByOwner returns an owner's items in id order with their bookings
// and comments.
func (s *ItemService) ListItemsByOwner(ctx context.Context, ownerID int64, from, size int) ([]ItemDetailsDTO, error) {
	var result []ItemDetailsDTO
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireUser(ctx, ownerID); err != nil {
			return err
		}
		page, err := domain.NewPage(from, size)
		if err != nil {
			return err
		}
		items, err := s.items.FindByOwnerID(ctx, ownerID, page)
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}
		result, err = s.details(ctx, items, true)
		return err
	})
	return result, err
}

// SearchItems finds available items mentioning text in their name or
// description. Blank text matches nothing.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]ItemDTO, error) {
	page, err := domain.NewPage(from, size)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []ItemDTO{}, nil
	}

	items, err := s.items.Search(ctx, text, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = toItemDTO(it)
	}
	return dtos, nil
}

// AddComment posts a comment on an item. The author must have an approved
// booking of the item that has already started.
func (s *ItemService) AddComment(ctx context.Context, itemID, authorID int64, req CreateCommentRequest) (_ *CommentDTO, err error) {
	defer func() { observe("add_comment", err) }()

	var (
		c      *commentDomain.Comment
		author *userDomain.User
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.items.ExistsByID(ctx, itemID)
		if err != nil {
			return fmt.Errorf("failed to check item: %w", err)
		}
		if !exists {
			return domain.NewNotFoundError("Item", itemID)
		}
		author, err = s.users.FindByID(ctx, authorID)
		if err != nil {
			return err
		}

		now := s.now()
		c, err = commentDomain.NewComment(itemID, authorID, req.Text, now)
		if err != nil {
			return err
		}

		rented, err := s.bookings.Find(ctx, bookingDomain.Filter{
			Role:        bookingDomain.RoleBooker,
			ViewerID:    authorID,
			ItemIDs:     []int64{itemID},
			Statuses:    []bookingDomain.BookingStatus{bookingDomain.StatusApproved},
			StartBefore: &now,
			Page:        &domain.Page{From: 0, Size: 1},
		})
		if err != nil {
			return fmt.Errorf("failed to check bookings for comment: %w", err)
		}
		if len(rented) == 0 {
			return domain.NewBookingForCommentNotFoundError(authorID, itemID)
		}

		if err := s.comments.Save(ctx, c); err != nil {
			return fmt.Errorf("failed to save comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		zap.Int64("comment_id", c.ID()),
		zap.Int64("item_id", itemID),
		zap.Int64("author_id", authorID),
	)
	return &CommentDTO{
		ID:         c.ID(),
		Text:       c.Text(),
		AuthorName: author.Name(),
		Created:    c.Created(),
	}, nil
}

// --- Helpers ---

func (s *ItemService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return domain.NewNotFoundError("User", userID)
	}
	return nil
}

func (s *ItemService) requireRequest(ctx context.Context, requestID *int64) error {
	if requestID == nil {
		return nil
	}
	exists, err := s.requests.ExistsByID(ctx, *requestID)
	if err != nil {
		return fmt.Errorf("failed to check item request: %w", err)
	}
	if !exists {
		return domain.NewNotFoundError("ItemRequest", *requestID)
	}
	return nil
}

// details decorates items with comments and, when withBookings is set, with
// the latest booking that has started and the earliest one still ahead.
func (s *ItemService) details(ctx context.Context, items []*itemDomain.Item, withBookings bool) ([]ItemDetailsDTO, error) {
	result := make([]ItemDetailsDTO, len(items))
	if len(items) == 0 {
		return result, nil
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}

	comments, err := s.commentsByItem(ctx, ids)
	if err != nil {
		return nil, err
	}

	var last, next map[int64]*BookingSlotDTO
	if withBookings {
		last, next, err = s.adjacentBookings(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	for i, it := range items {
		cs := comments[it.ID()]
		if cs == nil {
			cs = []CommentDTO{}
		}
		result[i] = ItemDetailsDTO{
			ItemDTO:     toItemDTO(it),
			LastBooking: last[it.ID()],
			NextBooking: next[it.ID()],
			Comments:    cs,
		}
	}
	return result, nil
}

func (s *ItemService) commentsByItem(ctx context.Context, itemIDs []int64) (map[int64][]CommentDTO, error) {
	comments, err := s.comments.FindByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	authorIDs := make([]int64, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.AuthorID())
	}
	authors, err := s.users.FindByIDs(ctx, uniqueIDs(authorIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load comment authors: %w", err)
	}
	names := make(map[int64]string, len(authors))
	for _, a := range authors {
		names[a.ID()] = a.Name()
	}

	byItem := make(map[int64][]CommentDTO)
	for _, c := range comments {
		byItem[c.ItemID()] = append(byItem[c.ItemID()], CommentDTO{
			ID:         c.ID(),
			Text:       c.Text(),
			AuthorName: names[c.AuthorID()],
			Created:    c.Created(),
		})
	}
	return byItem, nil
}

func (s *ItemService) adjacentBookings(ctx context.Context, itemIDs []int64) (last, next map[int64]*BookingSlotDTO, err error) {
	now := s.now()

	started, err := s.bookings.Find(ctx, bookingDomain.Filter{
		ItemIDs:     itemIDs,
		Statuses:    activeStatuses,
		StartBefore: &now,
		Order:       bookingDomain.OrderStartDesc,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load last bookings: %w", err)
	}
	upcoming, err := s.bookings.Find(ctx, bookingDomain.Filter{
		ItemIDs:    itemIDs,
		Statuses:   activeStatuses,
		StartAfter: &now,
		Order:      bookingDomain.OrderStartAsc,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load next bookings: %w", err)
	}

	return firstPerItem(started), firstPerItem(upcoming), nil
}

// firstPerItem keeps the first booking of each item in an ordered list.
func firstPerItem(bookings []*bookingDomain.Booking) map[int64]*BookingSlotDTO {
	out := make(map[int64]*BookingSlotDTO)
	for _, bk := range bookings {
		if _, ok := out[bk.ItemID()]; ok {
			continue
		}
		out[bk.ItemID()] = &BookingSlotDTO{
			ID:       bk.ID(),
			BookerID: bk.BookerID(),
			Start:    bk.Start(),
			End:      bk.End(),
		}
	}
	return out
}

func toItemDTO(it *itemDomain.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		RequestID:   it.RequestID(),
	}
}
