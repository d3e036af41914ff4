package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/internal/utils"
)

// DashboardHandler handles the dashboard aggregation route
type DashboardHandler struct {
	DB *gorm.DB
}

// Get handles GET /api/dashboard
// @Summary Dashboard aggregation
// @Description Packaging unit and weight totals by recyclability grade plus monthly trend
// @Tags Dashboard
// @Produce json
// @Param start_date query string false "Start month (YYYY-MM)"
// @Param end_date query string false "End month (YYYY-MM)"
// @Param product_ids query []string false "Restrict to these product ids"
// @Param packaging_levels query []string false "Restrict to these tiers"
// @Success 200 {object} services.DashboardData
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	filters := services.DashboardFilters{}
	if start, ok := services.ParseMonth(c.Query("start_date")); ok {
		filters.StartMonth = start
	}
	if end, ok := services.ParseMonth(c.Query("end_date")); ok {
		filters.EndMonth = end
	}
	filters.ProductIDs = queryValues(c, "product_ids")

	// Absent level params mean all tiers; present params narrow the set.
	if levels := queryValues(c, "packaging_levels"); len(levels) > 0 {
		filters.Levels = levels
	} else {
		filters.Levels = models.Levels
	}

	data, err := services.AggregateDashboard(h.DB, userID, filters)
	if err != nil {
		return serviceError(c, err, "dashboard.get")
	}
	return utils.SuccessResponse(c, data, fiber.StatusOK)
}

// queryValues returns every value of a repeated query parameter.
func queryValues(c *fiber.Ctx, key string) []string {
	raw := c.Context().QueryArgs().PeekMulti(key)
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if len(v) > 0 {
			values = append(values, string(v))
		}
	}
	return values
}
