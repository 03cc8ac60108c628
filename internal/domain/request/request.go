package request

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

const (
	MinDescriptionLength = 10
	MaxDescriptionLength = 500
)

// ItemRequest is a user's ask for an item nobody has listed yet. Owners
// answer it by creating an item that references the request.
type ItemRequest struct {
	id          int64
	requesterID int64
	description string
	created     time.Time
}

// NewItemRequest creates a request by requesterID.
func NewItemRequest(requesterID int64, description string, now time.Time) (*ItemRequest, error) {
	n := utf8.RuneCountInString(description)
	if n < MinDescriptionLength || n > MaxDescriptionLength {
		return nil, domain.NewValidationError("request description must be between 10 and 500 characters")
	}
	return &ItemRequest{
		requesterID: requesterID,
		description: description,
		created:     now.UTC(),
	}, nil
}

// Reconstruct rebuilds an ItemRequest from persistence.
func Reconstruct(id, requesterID int64, description string, created time.Time) *ItemRequest {
	return &ItemRequest{
		id:          id,
		requesterID: requesterID,
		description: description,
		created:     created,
	}
}

func (r *ItemRequest) ID() int64           { return r.id }
func (r *ItemRequest) RequesterID() int64  { return r.requesterID }
func (r *ItemRequest) Description() string { return r.description }
func (r *ItemRequest) Created() time.Time  { return r.created }

// AssignID records the id the store generated on insert.
func (r *ItemRequest) AssignID(id int64) {
	if r.id == 0 {
		r.id = id
	}
}

// RequestRepository defines persistence operations for item requests.
type RequestRepository interface {
	FindByID(ctx context.Context, id int64) (*ItemRequest, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// FindByRequesterID lists a user's own requests, newest first.
	FindByRequesterID(ctx context.Context, requesterID int64) ([]*ItemRequest, error)
	// FindOthers lists requests not made by userID, newest first.
	FindOthers(ctx context.Context, userID int64, page domain.Page) ([]*ItemRequest, error)
	Save(ctx context.Context, request *ItemRequest) error
}
