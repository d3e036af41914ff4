package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/internal/utils"
)

// ActivityHandler handles the activity feed route
type ActivityHandler struct {
	Activity *services.ActivityLogger
}

// List handles GET /api/activities
// @Summary Activity feed
// @Description Newest activity entries of the current user
// @Tags Activities
// @Produce json
// @Param limit query int false "Maximum entries (default 10, max 100)"
// @Success 200 {array} models.Activity
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /activities [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	limit := c.QueryInt("limit", 10)
	if limit > 100 {
		limit = 100
	}

	entries, err := h.Activity.Latest(userID, limit)
	if err != nil {
		return serviceError(c, err, "activities.list")
	}
	return utils.SuccessResponse(c, entries, fiber.StatusOK)
}
