package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/internal/utils"
)

// LookupHandler handles the data setup routes for the per-owner reference
// lists.
type LookupHandler struct {
	DB *gorm.DB
}

// List handles GET /api/data-setup
// @Summary List lookup items
// @Description All four reference lists of the current user, keyed by kind
// @Tags DataSetup
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /data-setup [get]
func (h *LookupHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	items, err := services.ListAllLookupItems(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "dataSetup.list")
	}
	return utils.SuccessResponse(c, items, fiber.StatusOK)
}

// Create handles POST /api/data-setup/items
// @Summary Add a lookup item
// @Description Add a named entry to one reference list
// @Tags DataSetup
// @Accept x-www-form-urlencoded
// @Produce json
// @Param type formData string true "Item type (component_type/adhesive/food_contact/coating)"
// @Param name formData string true "Item name"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /data-setup/items [post]
func (h *LookupHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	kind := models.LookupKind(c.FormValue("type"))
	item, err := services.CreateLookupItem(h.DB, userID, kind, c.FormValue("name"))
	if err != nil {
		return serviceError(c, err, "dataSetup.create")
	}

	return utils.SuccessResponse(c, fiber.Map{
		"message": "Item added successfully",
		"ok":      true,
		"item_id": item.ID,
	}, fiber.StatusOK)
}

// Update handles PUT /api/data-setup/items/:id
// @Summary Rename a lookup item
// @Description Rename an entry, keeping per-owner uniqueness
// @Tags DataSetup
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /data-setup/items/{id} [put]
func (h *LookupHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	kind := models.LookupKind(c.FormValue("type"))
	err = services.UpdateLookupItem(h.DB, userID, kind, c.Params("id"), c.FormValue("name"))
	if err != nil {
		return serviceError(c, err, "dataSetup.update")
	}
	return utils.MessageResponse(c, "Item updated successfully")
}

// Delete handles DELETE /api/data-setup/items/:id
// @Summary Delete a lookup item
// @Description Remove an entry from one reference list
// @Tags DataSetup
// @Produce json
// @Param id path string true "Item ID"
// @Param type query string true "Item type"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /data-setup/items/{id} [delete]
func (h *LookupHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	kind := models.LookupKind(c.Query("type", c.FormValue("type")))
	if err := services.DeleteLookupItem(h.DB, userID, kind, c.Params("id")); err != nil {
		return serviceError(c, err, "dataSetup.delete")
	}
	return utils.MessageResponse(c, "Item deleted successfully")
}
