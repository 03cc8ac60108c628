package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shareit-app/shareit-server/internal/platform/middleware"
	"github.com/shareit-app/shareit-server/internal/platform/response"
)

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name, entity string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+entity+" ID")
		return 0, false
	}
	return id, true
}

// parseWindow reads the from and size query parameters. Range checks are
// left to the services so that every caller reports them the same way.
func parseWindow(c *gin.Context, defaultSize int) (from, size int, ok bool) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		response.BadRequest(c, "parameter 'from' must be an integer")
		return 0, 0, false
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
	if err != nil {
		response.BadRequest(c, "parameter 'size' must be an integer")
		return 0, 0, false
	}
	return from, size, true
}

// actingUser returns the user id set by the auth middleware.
func actingUser(c *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return 0, false
	}
	return userID, true
}
