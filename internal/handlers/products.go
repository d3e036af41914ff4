package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/internal/utils"
)

// ProductHandler handles product routes
type ProductHandler struct {
	DB       *gorm.DB
	Linker   *services.Linker
	Activity *services.ActivityLogger
}

func productInputFromForm(c *fiber.Ctx) services.ProductInput {
	in := services.ProductInput{
		ProductCode:          c.FormValue("productCode"),
		SecondaryProductCode: c.FormValue("secondaryProductCode"),
		ProductCategory:      c.FormValue("productCategory"),
		ProductDescription:   c.FormValue("productDescription"),
		ProductMaterial:      c.FormValue("material"),
	}
	switch in.ProductMaterial {
	case models.MaterialSolid:
		in.ProductShape = c.FormValue("productShape")
		in.Dimensions = dimensionsFromForm(c, in.ProductShape)
	case models.MaterialLiquidGas:
		in.ProductVolume = c.FormValue("productVolume")
	}
	return in
}

// List handles GET /api/products
// @Summary List products
// @Description List all products of the current user with packaging completeness status
// @Tags Products
// @Produce json
// @Success 200 {array} services.ProductOverview
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	products, err := services.ListProducts(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "products.list")
	}
	return utils.SuccessResponse(c, products, fiber.StatusOK)
}

// Codes handles GET /api/products/codes
// @Summary List product codes
// @Description List id/code pairs of all products of the current user
// @Tags Products
// @Produce json
// @Success 200 {array} services.ProductCodeRef
// @Router /products/codes [get]
func (h *ProductHandler) Codes(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	refs, err := services.ListProductCodes(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "products.codes")
	}
	return utils.SuccessResponse(c, refs, fiber.StatusOK)
}

// Status handles GET /api/products/status
// @Summary Product status report
// @Description Missing-connection report across products and packagings
// @Tags Products
// @Produce json
// @Success 200 {object} services.ProductStatusReport
// @Router /products/status [get]
func (h *ProductHandler) Status(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	report, err := services.GetProductStatus(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "products.status")
	}
	return utils.SuccessResponse(c, report, fiber.StatusOK)
}

// Get handles GET /api/products/:id
// @Summary Get product details
// @Description Get one product with its linked packagings and customer resolved
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} services.ProductDetail
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	detail, err := services.GetProductDetail(h.DB, userID, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "products.get")
	}
	return utils.SuccessResponse(c, detail, fiber.StatusOK)
}

// Create handles POST /api/products
// @Summary Create a product
// @Description Create a product from the submitted form
// @Tags Products
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	product, err := services.CreateProduct(h.DB, userID, productInputFromForm(c))
	if err != nil {
		return serviceError(c, err, "products.create")
	}

	h.Activity.Log(userID, services.ActivityProductCreation,
		fmt.Sprintf("Created product: %s", product.ProductCode))
	return utils.MessageResponse(c, fmt.Sprintf("Product %q has been created successfully!", product.ProductCode))
}

// Update handles PUT /api/products/:id
// @Summary Update a product
// @Description Rewrite a product's descriptive fields and geometry
// @Tags Products
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	product, err := services.UpdateProduct(h.DB, h.Linker, userID, c.Params("id"), productInputFromForm(c))
	if err != nil {
		return serviceError(c, err, "products.update")
	}

	h.Activity.Log(userID, services.ActivityProductUpdate,
		fmt.Sprintf("Updated product: %s", product.ProductCode))
	return utils.MessageResponse(c, fmt.Sprintf("Product %q has been updated successfully!", product.ProductCode))
}

// Delete handles DELETE /api/products/:id
// @Summary Delete a product
// @Description Delete a product after unlinking its packaging and customer references
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	code, err := services.DeleteProduct(h.DB, h.Linker, userID, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "products.delete")
	}

	h.Activity.Log(userID, services.ActivityProductDeletion,
		fmt.Sprintf("Deleted product: %s", code))
	return utils.MessageResponse(c, fmt.Sprintf("Product %q deleted successfully.", code))
}
