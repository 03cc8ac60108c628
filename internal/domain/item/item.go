package item

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

const (
	MaxNameLength        = 125
	MaxDescriptionLength = 250
)

// Item is the aggregate root for a listed item.
type Item struct {
	id          int64
	ownerID     int64
	name        string
	description string
	available   bool
	requestID   *int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewItem creates an item listed by ownerID, optionally answering an item
// request.
func NewItem(ownerID int64, name, description string, available bool, requestID *int64) (*Item, error) {
	if ownerID <= 0 {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("item name is required")
	}
	if err := checkLengths(name, description); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Item{
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		requestID:   requestID,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(
	id, ownerID int64,
	name, description string,
	available bool,
	requestID *int64,
	createdAt, updatedAt time.Time,
) *Item {
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		requestID:   requestID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (i *Item) ID() int64            { return i.id }
func (i *Item) OwnerID() int64       { return i.ownerID }
func (i *Item) Name() string         { return i.name }
func (i *Item) Description() string  { return i.description }
func (i *Item) Available() bool      { return i.available }
func (i *Item) RequestID() *int64    { return i.requestID }
func (i *Item) CreatedAt() time.Time { return i.createdAt }
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// IsOwnedBy checks if the item belongs to the given user.
func (i *Item) IsOwnedBy(userID int64) bool {
	return i.ownerID == userID
}

// AssignID records the id the store generated on insert.
func (i *Item) AssignID(id int64) {
	if i.id == 0 {
		i.id = id
	}
}

// Patch holds a partial item update. Nil fields are left unchanged.
type Patch struct {
	Name        *string
	Description *string
	Available   *bool
	RequestID   *int64
}

// Apply merges p into the item.
func (i *Item) Apply(p Patch) error {
	name, description := i.name, i.description
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return domain.NewValidationError("item name must not be blank")
		}
		name = *p.Name
	}
	if p.Description != nil {
		description = *p.Description
	}
	if err := checkLengths(name, description); err != nil {
		return err
	}

	i.name = name
	i.description = description
	if p.Available != nil {
		i.available = *p.Available
	}
	if p.RequestID != nil {
		id := *p.RequestID
		i.requestID = &id
	}
	i.updatedAt = time.Now().UTC()
	return nil
}

func checkLengths(name, description string) error {
	if utf8.RuneCountInString(name) > MaxNameLength {
		return domain.NewValidationError("item name must not exceed 125 characters")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return domain.NewValidationError("item description must not exceed 250 characters")
	}
	return nil
}
