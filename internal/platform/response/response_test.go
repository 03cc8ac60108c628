package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.NewNotFoundError("Booking", 1), http.StatusNotFound},
		{"owner mismatch", domain.NewOwnerMismatchError("x"), http.StatusNotFound},
		{"participant mismatch", domain.NewItemOwnerOrBookerMismatchError(), http.StatusNotFound},
		{"time mismatch", domain.NewTimeMismatchError("x"), http.StatusBadRequest},
		{"item not available", domain.NewItemNotAvailableError(1), http.StatusBadRequest},
		{"already approved", domain.NewAlreadyApprovedError(), http.StatusBadRequest},
		{"already exists", domain.NewAlreadyExistsError("Booking", 1), http.StatusBadRequest},
		{"email taken", domain.NewEmailAlreadyExistsError("a@b.c"), http.StatusConflict},
		{"conflict", domain.NewConflictError("x"), http.StatusConflict},
		{"wrapped", fmt.Errorf("outer: %w", domain.NewValidationError("x")), http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Error(c, errors.New("pq: connection refused at 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "internal server error", body["error"])
}

func TestError_DomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Error(c, domain.NewNotFoundError("Booking", 42))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Booking with id = 42 not found", body["error"])
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestUnknownState(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	UnknownState(c, "UNSUPPORTED_STATUS")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Unknown state: UNSUPPORTED_STATUS"}`, rec.Body.String())
}

func TestPaginated_EmptyListIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Paginated[int](c, nil, 0, 10)

	body := decode(t, rec)
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, map[string]any{"from": float64(0), "size": float64(10), "count": float64(0)}, body["meta"])
}
