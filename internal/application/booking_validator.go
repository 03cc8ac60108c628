package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	itemDomain "github.com/shareit-app/shareit-server/internal/domain/item"
	userDomain "github.com/shareit-app/shareit-server/internal/domain/user"
	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

// BookingCandidate is a booking request before any business rule has run.
type BookingCandidate struct {
	ItemID   int64      `validate:"required,gt=0"`
	BookerID int64      `validate:"required,gt=0"`
	Start    *time.Time `validate:"required"`
	End      *time.Time `validate:"required"`
}

// BookingValidator is the structural gate in front of the booking state
// machine. It resolves the referenced item and booker and checks that the
// booking window is present.
type BookingValidator struct {
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	validate *validator.Validate
}

// NewBookingValidator creates a new BookingValidator.
func NewBookingValidator(items itemDomain.ItemRepository, users userDomain.UserRepository) *BookingValidator {
	return &BookingValidator{
		items:    items,
		users:    users,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate returns the resolved item, or NotFound when the item or booker is
// unknown and ValidationError when a required field is missing.
func (v *BookingValidator) Validate(ctx context.Context, c BookingCandidate) (*itemDomain.Item, error) {
	item, err := v.items.FindByID(ctx, c.ItemID)
	if err != nil {
		return nil, err
	}
	exists, err := v.users.ExistsByID(ctx, c.BookerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check booker: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("User", c.BookerID)
	}

	if err := v.validate.StructCtx(ctx, c); err != nil {
		return nil, toValidationError(err)
	}
	return item, nil
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewValidationError(err.Error())
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field '%s' is required", strings.ToLower(fe.Field())))
		default:
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s' check", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return domain.NewValidationError(strings.Join(msgs, "; "))
}
