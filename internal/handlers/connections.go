package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/internal/utils"
)

// ConnectionHandler handles the relink routes between products, packagings,
// and partners.
type ConnectionHandler struct {
	DB       *gorm.DB
	Linker   *services.Linker
	Activity *services.ActivityLogger
}

// syncResponse wraps the per-step results of a relink in the success
// envelope.
func syncResponse(c *fiber.Ctx, message string, results []services.SyncResult) error {
	return utils.SuccessResponse(c, fiber.Map{
		"message": message,
		"ok":      true,
		"sync":    results,
	}, fiber.StatusOK)
}

// UpdateProductPackagings handles PUT /api/products/:id/connections/packagings
// @Summary Relink product packagings
// @Description Rewrite the product's three tier slots and fix packaging back-references
// @Tags Connections
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id}/connections/packagings [put]
func (h *ConnectionHandler) UpdateProductPackagings(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	links := services.TierLinks{
		Primary:   c.FormValue("primary_package"),
		Secondary: c.FormValue("secondary_package"),
		Tertiary:  c.FormValue("tertiary_package"),
	}
	results, err := h.Linker.UpdateProductPackagingConnections(userID, c.Params("id"), links)
	if err != nil {
		return serviceError(c, err, "connections.productPackagings")
	}

	h.Activity.Log(userID, services.ActivityConnectionUpdate,
		fmt.Sprintf("Updated packaging connections for product: %s", c.Params("id")))
	return syncResponse(c, "Packaging connections updated successfully!", results)
}

// UpdateProductCustomer handles PUT /api/products/:id/connections/customer
// @Summary Relink product customer
// @Description Rewrite the product's customer slot and fix partner connection lists
// @Tags Connections
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id}/connections/customer [put]
func (h *ConnectionHandler) UpdateProductCustomer(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	results, err := h.Linker.UpdateProductCustomer(userID, c.Params("id"), c.FormValue("customer"))
	if err != nil {
		return serviceError(c, err, "connections.productCustomer")
	}

	h.Activity.Log(userID, services.ActivityConnectionUpdate,
		fmt.Sprintf("Updated customer connection for product: %s", c.Params("id")))
	return syncResponse(c, "Customer connection updated successfully!", results)
}

// UpdatePackagingProducts handles PUT /api/packagings/:id/connections/products
// @Summary Relink packaging products
// @Description Replace the full set of products linked to a packaging
// @Tags Connections
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Packaging ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /packagings/{id}/connections/products [put]
func (h *ConnectionHandler) UpdatePackagingProducts(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	level := c.FormValue("package_level")
	productIDs := formValues(c, "product_ids")
	err = h.Linker.UpdatePackagingProducts(userID, level, c.Params("id"), productIDs)
	if err != nil {
		return serviceError(c, err, "connections.packagingProducts")
	}

	h.Activity.Log(userID, services.ActivityConnectionUpdate,
		fmt.Sprintf("Updated product connections for packaging: %s", c.Params("id")))
	return utils.MessageResponse(c, "Packaging connections updated successfully!")
}

// UpdatePackagingSupplier handles PUT /api/packagings/:id/connections/supplier
// @Summary Relink packaging supplier
// @Description Rewrite the packaging's supplier and fix partner connection lists
// @Tags Connections
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Packaging ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /packagings/{id}/connections/supplier [put]
func (h *ConnectionHandler) UpdatePackagingSupplier(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	level := c.FormValue("package_level")
	supplierID := c.FormValue("supplier_id")
	results, err := h.Linker.UpdatePackagingSupplier(userID, level, c.Params("id"), supplierID)
	if err != nil {
		return serviceError(c, err, "connections.packagingSupplier")
	}

	h.Activity.Log(userID, services.ActivityConnectionUpdate,
		fmt.Sprintf("Updated supplier for packaging: %s", c.Params("id")))
	return syncResponse(c, "Supplier linked successfully!", results)
}

// UpdatePartnerConnections handles PUT /api/partners/:id/connections
// @Summary Relink partner connections
// @Description Replace a partner's full linked set of products or packagings
// @Tags Connections
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /partners/{id}/connections [put]
func (h *ConnectionHandler) UpdatePartnerConnections(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	linkedIDs := formValues(c, "linked_item_ids")
	err = h.Linker.UpdatePartnerConnections(userID, c.Params("id"), linkedIDs)
	if err != nil {
		return serviceError(c, err, "connections.partner")
	}

	h.Activity.Log(userID, services.ActivityConnectionUpdate,
		fmt.Sprintf("Updated connections for partner: %s", c.Params("id")))
	return utils.MessageResponse(c, "Partner connections updated successfully!")
}
