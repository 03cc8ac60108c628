package user

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

const MaxNameLength = 125

// User is a marketplace participant. Users own items and book other
// users' items.
type User struct {
	id        int64
	name      string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a user with a validated name and email.
func NewUser(name, email string) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("user name is required")
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	if err := checkEmail(email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		name:      name,
		email:     email,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id int64, name, email string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:        id,
		name:      name,
		email:     email,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (u *User) ID() int64            { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// AssignID records the id the store generated on insert.
func (u *User) AssignID(id int64) {
	if u.id == 0 {
		u.id = id
	}
}

// Patch holds a partial user update. Nil fields are left unchanged.
type Patch struct {
	Name  *string
	Email *string
}

// Apply merges p into the user.
func (u *User) Apply(p Patch) error {
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return domain.NewValidationError("user name must not be blank")
		}
		if err := checkName(*p.Name); err != nil {
			return err
		}
	}
	if p.Email != nil {
		if err := checkEmail(*p.Email); err != nil {
			return err
		}
	}

	if p.Name != nil {
		u.name = *p.Name
	}
	if p.Email != nil {
		u.email = *p.Email
	}
	u.updatedAt = time.Now().UTC()
	return nil
}

func checkName(name string) error {
	if utf8.RuneCountInString(name) > MaxNameLength {
		return domain.NewValidationError("user name must not exceed 125 characters")
	}
	return nil
}

func checkEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.NewValidationError("email must be a valid address")
	}
	return nil
}
