// Package memstore provides in-memory repositories for service tests. Each
// entity kind lives in an arena whose ids are slice positions plus one.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	bookingDomain "github.com/shareit-app/shareit-server/internal/domain/booking"
	commentDomain "github.com/shareit-app/shareit-server/internal/domain/comment"
	itemDomain "github.com/shareit-app/shareit-server/internal/domain/item"
	requestDomain "github.com/shareit-app/shareit-server/internal/domain/request"
	userDomain "github.com/shareit-app/shareit-server/internal/domain/user"
	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

// Store holds every arena. The zero value is not usable; call New.
type Store struct {
	mu       sync.Mutex
	users    []*userDomain.User
	items    []*itemDomain.Item
	bookings []*bookingDomain.Booking
	comments []*commentDomain.Comment
	requests []*requestDomain.ItemRequest
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepo { return &UserRepo{s} }

// Items returns the item repository view of the store.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s} }

// Bookings returns the booking repository view of the store.
func (s *Store) Bookings() *BookingRepo { return &BookingRepo{s} }

// Comments returns the comment repository view of the store.
func (s *Store) Comments() *CommentRepo { return &CommentRepo{s} }

// Requests returns the item request repository view of the store.
func (s *Store) Requests() *RequestRepo { return &RequestRepo{s} }

// WithinTx runs fn directly. Arena writes are immediately visible.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func inArena(n int, id int64) bool {
	return id > 0 && id <= int64(n)
}

func pageOf[T any](all []T, page *domain.Page) []T {
	if page == nil {
		return all
	}
	off := page.Offset()
	if off >= len(all) {
		return []T{}
	}
	end := off + page.Limit()
	if end > len(all) {
		end = len(all)
	}
	return all[off:end]
}

// --- Users ---

// UserRepo is the in-memory user repository view of a Store.
type UserRepo struct{ s *Store }

func cloneUser(u *userDomain.User) *userDomain.User {
	return userDomain.Reconstruct(u.ID(), u.Name(), u.Email(), u.CreatedAt(), u.UpdatedAt())
}

func (r *UserRepo) get(id int64) *userDomain.User {
	if !inArena(len(r.s.users), id) {
		return nil
	}
	return r.s.users[id-1]
}

// FindByID returns a copy of the stored user or NotFound.
func (r *UserRepo) FindByID(_ context.Context, id int64) (*userDomain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u := r.get(id); u != nil {
		return cloneUser(u), nil
	}
	return nil, domain.NewNotFoundError("User", id)
}

// FindByIDs returns copies of the stored users among ids.
func (r *UserRepo) FindByIDs(_ context.Context, ids []int64) ([]*userDomain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*userDomain.User
	for _, id := range ids {
		if u := r.get(id); u != nil {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

// FindAll returns every stored user ordered by id.
func (r *UserRepo) FindAll(_ context.Context) ([]*userDomain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*userDomain.User
	for _, u := range r.s.users {
		if u != nil {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

// ExistsByID reports whether a user with id is stored.
func (r *UserRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(id) != nil, nil
}

// ExistsByEmail reports whether another user already uses email.
func (r *UserRepo) ExistsByEmail(_ context.Context, email string, exceptID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u != nil && u.ID() != exceptID && strings.EqualFold(u.Email(), email) {
			return true, nil
		}
	}
	return false, nil
}

// Save stores a new user and assigns its id.
func (r *UserRepo) Save(_ context.Context, u *userDomain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.AssignID(int64(len(r.s.users) + 1))
	r.s.users = append(r.s.users, cloneUser(u))
	return nil
}

// Update replaces a stored user.
func (r *UserRepo) Update(_ context.Context, u *userDomain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.get(u.ID()) == nil {
		return domain.NewNotFoundError("User", u.ID())
	}
	r.s.users[u.ID()-1] = cloneUser(u)
	return nil
}

// Delete removes a stored user or returns NotFound.
func (r *UserRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.get(id) == nil {
		return domain.NewNotFoundError("User", id)
	}
	r.s.users[id-1] = nil
	return nil
}

// --- Items ---

// ItemRepo is the in-memory item repository view of a Store.
type ItemRepo struct{ s *Store }

func cloneItem(it *itemDomain.Item) *itemDomain.Item {
	var reqID *int64
	if it.RequestID() != nil {
		v := *it.RequestID()
		reqID = &v
	}
	return itemDomain.Reconstruct(it.ID(), it.OwnerID(), it.Name(), it.Description(), it.Available(), reqID, it.CreatedAt(), it.UpdatedAt())
}

func (r *ItemRepo) get(id int64) *itemDomain.Item {
	if !inArena(len(r.s.items), id) {
		return nil
	}
	return r.s.items[id-1]
}

func (r *ItemRepo) ownerOf(itemID int64) int64 {
	if it := r.get(itemID); it != nil {
		return it.OwnerID()
	}
	return 0
}

// FindByID returns a copy of the stored item or NotFound.
func (r *ItemRepo) FindByID(_ context.Context, id int64) (*itemDomain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if it := r.get(id); it != nil {
		return cloneItem(it), nil
	}
	return nil, domain.NewNotFoundError("Item", id)
}

// FindByIDs returns copies of the stored items among ids.
func (r *ItemRepo) FindByIDs(_ context.Context, ids []int64) ([]*itemDomain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*itemDomain.Item
	for _, id := range ids {
		if it := r.get(id); it != nil {
			out = append(out, cloneItem(it))
		}
	}
	return out, nil
}

// ExistsByID reports whether an item with id is stored.
func (r *ItemRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(id) != nil, nil
}

// FindByOwnerID returns a page of the owner's items ordered by id.
func (r *ItemRepo) FindByOwnerID(_ context.Context, ownerID int64, page domain.Page) ([]*itemDomain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*itemDomain.Item
	for _, it := range r.s.items {
		if it.OwnerID() == ownerID {
			out = append(out, cloneItem(it))
		}
	}
	return pageOf(out, &page), nil
}

// FindByRequestIDs returns items offered in answer to the given requests.
func (r *ItemRepo) FindByRequestIDs(_ context.Context, requestIDs []int64) ([]*itemDomain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[int64]struct{}, len(requestIDs))
	for _, id := range requestIDs {
		want[id] = struct{}{}
	}
	var out []*itemDomain.Item
	for _, it := range r.s.items {
		if it.RequestID() == nil {
			continue
		}
		if _, ok := want[*it.RequestID()]; ok {
			out = append(out, cloneItem(it))
		}
	}
	return out, nil
}

// Search returns available items whose name or description contains text.
func (r *ItemRepo) Search(_ context.Context, text string, page domain.Page) ([]*itemDomain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	needle := strings.ToUpper(text)
	var out []*itemDomain.Item
	for _, it := range r.s.items {
		if !it.Available() {
			continue
		}
		if strings.Contains(strings.ToUpper(it.Name()), needle) ||
			strings.Contains(strings.ToUpper(it.Description()), needle) {
			out = append(out, cloneItem(it))
		}
	}
	return pageOf(out, &page), nil
}

// Save stores a new item and assigns its id.
func (r *ItemRepo) Save(_ context.Context, it *itemDomain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it.AssignID(int64(len(r.s.items) + 1))
	r.s.items = append(r.s.items, cloneItem(it))
	return nil
}

// Update replaces a stored item.
func (r *ItemRepo) Update(_ context.Context, it *itemDomain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.get(it.ID()) == nil {
		return domain.NewNotFoundError("Item", it.ID())
	}
	r.s.items[it.ID()-1] = cloneItem(it)
	return nil
}

// --- Bookings ---

// BookingRepo is the in-memory booking repository view of a Store.
type BookingRepo struct{ s *Store }

func cloneBooking(b *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(b.ID(), b.ItemID(), b.BookerID(), b.Start(), b.End(), b.Status(), b.Version(), b.CreatedAt(), b.UpdatedAt())
}

func (r *BookingRepo) get(id int64) *bookingDomain.Booking {
	if !inArena(len(r.s.bookings), id) {
		return nil
	}
	return r.s.bookings[id-1]
}

// FindByID returns a copy of the stored booking or NotFound.
func (r *BookingRepo) FindByID(_ context.Context, id int64) (*bookingDomain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b := r.get(id); b != nil {
		return cloneBooking(b), nil
	}
	return nil, domain.NewNotFoundError("Booking", id)
}

// ExistsByID reports whether a booking with id is stored.
func (r *BookingRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(id) != nil, nil
}

// Find returns the bookings matching f, ordered and paged as f asks.
func (r *BookingRepo) Find(_ context.Context, f bookingDomain.Filter) ([]*bookingDomain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := &ItemRepo{r.s}
	var out []*bookingDomain.Booking
	for _, b := range r.s.bookings {
		if f.Matches(b, items.ownerOf) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Start().Equal(b.Start()) {
			if f.Order == bookingDomain.OrderStartAsc {
				return a.Start().Before(b.Start())
			}
			return a.Start().After(b.Start())
		}
		if f.Order == bookingDomain.OrderStartAsc {
			return a.ID() < b.ID()
		}
		return a.ID() > b.ID()
	})
	return pageOf(out, f.Page), nil
}

// Save stores a new booking and assigns its id.
func (r *BookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.AssignID(int64(len(r.s.bookings) + 1))
	r.s.bookings = append(r.s.bookings, cloneBooking(b))
	return nil
}

// Update stores b if the stored version is the one b was loaded at.
func (r *BookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := r.get(b.ID())
	if stored == nil || stored.Version() != b.Version()-1 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	r.s.bookings[b.ID()-1] = cloneBooking(b)
	return nil
}

// --- Comments ---

// CommentRepo is the in-memory comment repository view of a Store.
type CommentRepo struct{ s *Store }

// Save stores a new comment and assigns its id.
func (r *CommentRepo) Save(_ context.Context, c *commentDomain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.AssignID(int64(len(r.s.comments) + 1))
	r.s.comments = append(r.s.comments, commentDomain.Reconstruct(c.ID(), c.ItemID(), c.AuthorID(), c.Text(), c.Created()))
	return nil
}

// FindByItemIDs returns the comments left on the given items.
func (r *CommentRepo) FindByItemIDs(_ context.Context, itemIDs []int64) ([]*commentDomain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		want[id] = struct{}{}
	}
	var out []*commentDomain.Comment
	for _, c := range r.s.comments {
		if _, ok := want[c.ItemID()]; ok {
			out = append(out, commentDomain.Reconstruct(c.ID(), c.ItemID(), c.AuthorID(), c.Text(), c.Created()))
		}
	}
	return out, nil
}

// --- Item requests ---

// RequestRepo is the in-memory item request repository view of a Store.
type RequestRepo struct{ s *Store }

func cloneRequest(r *requestDomain.ItemRequest) *requestDomain.ItemRequest {
	return requestDomain.Reconstruct(r.ID(), r.RequesterID(), r.Description(), r.Created())
}

func (r *RequestRepo) get(id int64) *requestDomain.ItemRequest {
	if !inArena(len(r.s.requests), id) {
		return nil
	}
	return r.s.requests[id-1]
}

// FindByID returns a copy of the stored item request or NotFound.
func (r *RequestRepo) FindByID(_ context.Context, id int64) (*requestDomain.ItemRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req := r.get(id); req != nil {
		return cloneRequest(req), nil
	}
	return nil, domain.NewNotFoundError("ItemRequest", id)
}

// ExistsByID reports whether an item request with id is stored.
func (r *RequestRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(id) != nil, nil
}

func (r *RequestRepo) newestFirst(keep func(*requestDomain.ItemRequest) bool) []*requestDomain.ItemRequest {
	var out []*requestDomain.ItemRequest
	for _, req := range r.s.requests {
		if keep(req) {
			out = append(out, cloneRequest(req))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Created().Equal(out[j].Created()) {
			return out[i].Created().After(out[j].Created())
		}
		return out[i].ID() > out[j].ID()
	})
	return out
}

// FindByRequesterID returns the requester's own requests, newest first.
func (r *RequestRepo) FindByRequesterID(_ context.Context, requesterID int64) ([]*requestDomain.ItemRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.newestFirst(func(req *requestDomain.ItemRequest) bool { return req.RequesterID() == requesterID }), nil
}

// FindOthers returns a page of other users' requests, newest first.
func (r *RequestRepo) FindOthers(_ context.Context, userID int64, page domain.Page) ([]*requestDomain.ItemRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	others := r.newestFirst(func(req *requestDomain.ItemRequest) bool { return req.RequesterID() != userID })
	return pageOf(others, &page), nil
}

// Save stores a new item request and assigns its id.
func (r *RequestRepo) Save(_ context.Context, req *requestDomain.ItemRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req.AssignID(int64(len(r.s.requests) + 1))
	r.s.requests = append(r.s.requests, cloneRequest(req))
	return nil
}

var (
	_ userDomain.UserRepository         = (*UserRepo)(nil)
	_ itemDomain.ItemRepository         = (*ItemRepo)(nil)
	_ bookingDomain.BookingRepository   = (*BookingRepo)(nil)
	_ commentDomain.CommentRepository   = (*CommentRepo)(nil)
	_ requestDomain.RequestRepository   = (*RequestRepo)(nil)
)
