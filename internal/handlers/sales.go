package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/internal/utils"
)

// SalesHandler handles product sales routes
type SalesHandler struct {
	DB       *gorm.DB
	Activity *services.ActivityLogger
}

// List handles GET /api/products/:id/sales
// @Summary List product sales
// @Description Sales records of one product, as stored
// @Tags Sales
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id}/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	sales, err := services.GetSales(h.DB, userID, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "sales.list")
	}
	return utils.SuccessResponse(c, fiber.Map{"sales": sales}, fiber.StatusOK)
}

// Add handles POST /api/products/:id/sales
// @Summary Add a sales record
// @Description Append a year/month/quantity record to a product
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param record body models.SaleRecord true "Sales record"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /products/{id}/sales [post]
func (h *SalesHandler) Add(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	var record models.SaleRecord
	if err := c.BodyParser(&record); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "sales.add")
	}

	code, err := services.AddSale(h.DB, userID, c.Params("id"), record)
	if err != nil {
		return serviceError(c, err, "sales.add")
	}

	h.Activity.Log(userID, services.ActivitySalesAddition,
		fmt.Sprintf("Added %s/%s sales to product: %s", record.Month, record.Year, code))
	return utils.MessageResponse(c, "Sales record added successfully")
}

// Update handles PUT /api/products/:id/sales/:index
// @Summary Update a sales record
// @Description Partially update the sales record at the given index
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param index path int true "Record index"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /products/{id}/sales/{index} [put]
func (h *SalesHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	index, err := c.ParamsInt("index")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid sale index", fiber.StatusBadRequest, "sales.update")
	}

	var update services.SaleUpdate
	if err := c.BodyParser(&update); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "sales.update")
	}

	if err := services.UpdateSale(h.DB, userID, c.Params("id"), index, update); err != nil {
		return serviceError(c, err, "sales.update")
	}
	return utils.MessageResponse(c, "Sales record updated successfully")
}

// Delete handles DELETE /api/products/:id/sales/:index
// @Summary Delete a sales record
// @Description Remove the sales record at the given index
// @Tags Sales
// @Produce json
// @Param id path string true "Product ID"
// @Param index path int true "Record index"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /products/{id}/sales/{index} [delete]
func (h *SalesHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	index, err := c.ParamsInt("index")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid sale index", fiber.StatusBadRequest, "sales.delete")
	}

	if err := services.DeleteSale(h.DB, userID, c.Params("id"), index); err != nil {
		return serviceError(c, err, "sales.delete")
	}
	return utils.MessageResponse(c, "Sales record deleted successfully")
}
