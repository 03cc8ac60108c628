package user

import "context"

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// ExistsByEmail reports whether a user other than exceptID holds email.
	ExistsByEmail(ctx context.Context, email string, exceptID int64) (bool, error)
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
}
