package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an AppError. Transport layers map codes to status codes.
type ErrorCode string

const (
	CodeNotFound                  ErrorCode = "NOT_FOUND"
	CodeValidation                ErrorCode = "VALIDATION_ERROR"
	CodeAlreadyExists             ErrorCode = "ALREADY_EXISTS"
	CodeTimeMismatch              ErrorCode = "TIME_MISMATCH"
	CodeItemNotAvailable          ErrorCode = "ITEM_NOT_AVAILABLE"
	CodeOwnerMismatch             ErrorCode = "OWNER_MISMATCH"
	CodeItemOwnerOrBookerMismatch ErrorCode = "ITEM_OWNER_OR_BOOKER_MISMATCH"
	CodeAlreadyApproved           ErrorCode = "ALREADY_APPROVED"
	CodeBookingForCommentNotFound ErrorCode = "BOOKING_FOR_COMMENT_NOT_FOUND"
	CodeEmailAlreadyExists        ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeConflict                  ErrorCode = "CONFLICT"
	CodeInvalidState              ErrorCode = "INVALID_STATE"
	CodeUnauthorized              ErrorCode = "UNAUTHORIZED"
)

// AppError is a business-rule violation raised at the point of detection.
type AppError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// Is reports whether target is an AppError with the same code, so that
// errors.Is(err, domain.ErrNotFound) matches any not-found error.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound                  = &AppError{Code: CodeNotFound}
	ErrValidation                = &AppError{Code: CodeValidation}
	ErrAlreadyExists             = &AppError{Code: CodeAlreadyExists}
	ErrTimeMismatch              = &AppError{Code: CodeTimeMismatch}
	ErrItemNotAvailable          = &AppError{Code: CodeItemNotAvailable}
	ErrOwnerMismatch             = &AppError{Code: CodeOwnerMismatch}
	ErrItemOwnerOrBookerMismatch = &AppError{Code: CodeItemOwnerOrBookerMismatch}
	ErrAlreadyApproved           = &AppError{Code: CodeAlreadyApproved}
	ErrBookingForCommentNotFound = &AppError{Code: CodeBookingForCommentNotFound}
	ErrEmailAlreadyExists        = &AppError{Code: CodeEmailAlreadyExists}
	ErrConflict                  = &AppError{Code: CodeConflict}
	ErrInvalidState              = &AppError{Code: CodeInvalidState}
	ErrUnauthorized              = &AppError{Code: CodeUnauthorized}
)

// CodeOf returns the code of the first AppError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

func NewNotFoundError(entity string, id any) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s with id = %v not found", entity, id)}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewAlreadyExistsError(entity string, id any) *AppError {
	return &AppError{Code: CodeAlreadyExists, Message: fmt.Sprintf("%s with id = %v already exists", entity, id)}
}

func NewTimeMismatchError(message string) *AppError {
	return &AppError{Code: CodeTimeMismatch, Message: message}
}

func NewItemNotAvailableError(itemID int64) *AppError {
	return &AppError{Code: CodeItemNotAvailable, Message: fmt.Sprintf("item with id = %d is not available for booking", itemID)}
}

func NewOwnerMismatchError(message string) *AppError {
	return &AppError{Code: CodeOwnerMismatch, Message: message}
}

func NewItemOwnerOrBookerMismatchError() *AppError {
	return &AppError{
		Code:    CodeItemOwnerOrBookerMismatch,
		Message: "only the item owner or the booker may view this booking",
	}
}

func NewAlreadyApprovedError() *AppError {
	return &AppError{Code: CodeAlreadyApproved, Message: "booking status cannot change once approved"}
}

func NewBookingForCommentNotFoundError(authorID, itemID int64) *AppError {
	return &AppError{
		Code:    CodeBookingForCommentNotFound,
		Message: fmt.Sprintf("user with id = %d has no current or past approved booking of item with id = %d", authorID, itemID),
	}
}

func NewEmailAlreadyExistsError(email string) *AppError {
	return &AppError{Code: CodeEmailAlreadyExists, Message: fmt.Sprintf("email %q is already registered", email)}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// NewInvalidStateError reports a disallowed status transition.
func NewInvalidStateError(from, to string) *AppError {
	return &AppError{Code: CodeInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}
