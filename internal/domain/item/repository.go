package item

import (
	"context"

	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (*Item, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*Item, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// FindByOwnerID lists an owner's items in id order.
	FindByOwnerID(ctx context.Context, ownerID int64, page domain.Page) ([]*Item, error)
	// FindByRequestIDs lists items created in answer to any of the requests.
	FindByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error)
	// Search matches available items whose name or description contains
	// text, ignoring case.
	Search(ctx context.Context, text string, page domain.Page) ([]*Item, error)
	Save(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
}
