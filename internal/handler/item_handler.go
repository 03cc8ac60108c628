package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shareit-app/shareit-server/internal/application"
	"github.com/shareit-app/shareit-server/internal/platform/response"
)

const defaultItemPageSize = 20

// ItemHandler handles HTTP requests for items and their comments.
type ItemHandler struct {
	service *application.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *application.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// RegisterRoutes registers all item routes.
func (h *ItemHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	items := r.Group("/api/v1/items")
	items.Use(authMW)
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/search", h.SearchItems)
		items.GET("/:id", h.GetItem)
		items.PATCH("/:id", h.UpdateItem)
		items.POST("/:id/comment", h.AddComment)
	}
}

// CreateItem handles POST /api/v1/items.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	ownerID, ok := actingUser(c)
	if !ok {
		return
	}

	var req application.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateItem(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateItem handles PATCH /api/v1/items/:id.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseID(c, "id", "item")
	if !ok {
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var req application.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateItem(c.Request.Context(), itemID, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetItem handles GET /api/v1/items/:id.
func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID, ok := parseID(c, "id", "item")
	if !ok {
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	result, err := h.service.GetItem(c.Request.Context(), itemID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListItems handles GET /api/v1/items, the acting user's own items.
func (h *ItemHandler) ListItems(c *gin.Context) {
	ownerID, ok := actingUser(c)
	if !ok {
		return
	}
	from, size, ok := parseWindow(c, defaultItemPageSize)
	if !ok {
		return
	}

	result, err := h.service.ListItemsByOwner(c.Request.Context(), ownerID, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result, from, size)
}

// SearchItems handles GET /api/v1/items/search?text=.
func (h *ItemHandler) SearchItems(c *gin.Context) {
	from, size, ok := parseWindow(c, defaultItemPageSize)
	if !ok {
		return
	}

	result, err := h.service.SearchItems(c.Request.Context(), c.Query("text"), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result, from, size)
}

// AddComment handles POST /api/v1/items/:id/comment.
func (h *ItemHandler) AddComment(c *gin.Context) {
	itemID, ok := parseID(c, "id", "item")
	if !ok {
		return
	}
	authorID, ok := actingUser(c)
	if !ok {
		return
	}

	var req application.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddComment(c.Request.Context(), itemID, authorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
