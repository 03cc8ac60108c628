package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shareit-app/shareit-server/internal/application"
	bookingDomain "github.com/shareit-app/shareit-server/internal/domain/booking"
	"github.com/shareit-app/shareit-server/internal/platform/response"
)

const (
	defaultBookerPageSize = 10
	defaultOwnerPageSize  = 20
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListForBooker)
		bookings.GET("/owner", h.ListForOwner)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.SetApproval)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// SetApproval handles PATCH /api/v1/bookings/:id?approved=true|false.
func (h *BookingHandler) SetApproval(c *gin.Context) {
	bookingID, ok := parseID(c, "id", "booking")
	if !ok {
		return
	}
	ownerID, ok := actingUser(c)
	if !ok {
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		response.BadRequest(c, "parameter 'approved' must be true or false")
		return
	}

	result, err := h.service.SetApproval(c.Request.Context(), bookingID, ownerID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := parseID(c, "id", "booking")
	if !ok {
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListForBooker handles GET /api/v1/bookings?state=&from=&size=.
func (h *BookingHandler) ListForBooker(c *gin.Context) {
	h.list(c, defaultBookerPageSize, h.service.ListForBooker)
}

// ListForOwner handles GET /api/v1/bookings/owner?state=&from=&size=.
func (h *BookingHandler) ListForOwner(c *gin.Context) {
	h.list(c, defaultOwnerPageSize, h.service.ListForOwner)
}

func (h *BookingHandler) list(
	c *gin.Context,
	defaultSize int,
	fetch func(ctx context.Context, viewerID int64, state bookingDomain.State, from, size int) ([]application.BookingDTO, error),
) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	rawState := c.DefaultQuery("state", string(bookingDomain.StateAll))
	state, ok := bookingDomain.ParseState(rawState)
	if !ok {
		response.UnknownState(c, rawState)
		return
	}

	from, size, ok := parseWindow(c, defaultSize)
	if !ok {
		return
	}

	result, err := fetch(c.Request.Context(), userID, state, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result, from, size)
}
