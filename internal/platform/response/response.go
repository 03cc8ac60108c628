package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta describes the window of a paginated list.
type Meta struct {
	From  int `json:"from"`
	Size  int `json:"size"`
	Count int `json:"count"`
}

var statusByCode = map[domain.ErrorCode]int{
	domain.CodeNotFound:                  http.StatusNotFound,
	domain.CodeValidation:                http.StatusBadRequest,
	domain.CodeAlreadyExists:             http.StatusBadRequest,
	domain.CodeTimeMismatch:              http.StatusBadRequest,
	domain.CodeItemNotAvailable:          http.StatusBadRequest,
	domain.CodeOwnerMismatch:             http.StatusNotFound,
	domain.CodeItemOwnerOrBookerMismatch: http.StatusNotFound,
	domain.CodeAlreadyApproved:           http.StatusBadRequest,
	domain.CodeBookingForCommentNotFound: http.StatusBadRequest,
	domain.CodeEmailAlreadyExists:        http.StatusConflict,
	domain.CodeConflict:                  http.StatusConflict,
	domain.CodeInvalidState:              http.StatusBadRequest,
	domain.CodeUnauthorized:              http.StatusUnauthorized,
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	code, ok := domain.CodeOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// NoContent writes an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a list together with the window it was cut from.
func Paginated[T any](c *gin.Context, items []T, from, size int) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Meta:    &Meta{From: from, Size: size, Count: len(items)},
	})
}

// BadRequest writes a 400 validation failure.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
		Error: message,
		Code:  string(domain.CodeValidation),
	})
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{
		Error: message,
		Code:  string(domain.CodeUnauthorized),
	})
}

// UnknownState writes the body clients expect for an unsupported state filter.
func UnknownState(c *gin.Context, state string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown state: " + state})
}

// Error maps err to a status code and writes it. Errors that are not
// AppErrors are reported as a generic internal error.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, Envelope{
			Error: "internal server error",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	code, _ := domain.CodeOf(err)
	c.AbortWithStatusJSON(status, Envelope{
		Error: err.Error(),
		Code:  string(code),
	})
}
