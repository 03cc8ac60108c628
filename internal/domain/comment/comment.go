package comment

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

const MaxTextLength = 500

// Comment is feedback left on an item by a user who rented it.
type Comment struct {
	id       int64
	itemID   int64
	authorID int64
	text     string
	created  time.Time
}

// NewComment creates a comment on itemID by authorID.
func NewComment(itemID, authorID int64, text string, now time.Time) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("comment text is required")
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, domain.NewValidationError("comment text must not exceed 500 characters")
	}
	return &Comment{
		itemID:   itemID,
		authorID: authorID,
		text:     text,
		created:  now.UTC(),
	}, nil
}

// Reconstruct rebuilds a Comment from persistence.
func Reconstruct(id, itemID, authorID int64, text string, created time.Time) *Comment {
	return &Comment{
		id:       id,
		itemID:   itemID,
		authorID: authorID,
		text:     text,
		created:  created,
	}
}

// Getters.
func (c *Comment) ID() int64          { return c.id }
func (c *Comment) ItemID() int64      { return c.itemID }
func (c *Comment) AuthorID() int64    { return c.authorID }
func (c *Comment) Text() string       { return c.text }
func (c *Comment) Created() time.Time { return c.created }

// AssignID records the id the store generated on insert.
func (c *Comment) AssignID(id int64) {
	if c.id == 0 {
		c.id = id
	}
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Save(ctx context.Context, comment *Comment) error
	// FindByItemIDs returns comments on the items, oldest first.
	FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*Comment, error)
}
