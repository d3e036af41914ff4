package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/internal/utils"
)

// PackagingHandler handles packaging routes
type PackagingHandler struct {
	DB       *gorm.DB
	Linker   *services.Linker
	Activity *services.ActivityLogger
}

func packagingInputFromForm(c *fiber.Ctx) services.PackagingInput {
	in := services.PackagingInput{
		Level:         c.FormValue("packagingLevel"),
		PackageCode:   c.FormValue("packageCode"),
		Recyclability: c.FormValue("recyclability"),
		PackageShape:  c.FormValue("packageShape"),
		Materials:     materialsFromForm(c),
	}
	in.Dimensions = dimensionsFromForm(c, in.PackageShape)
	switch in.Level {
	case models.LevelSecondary:
		in.QuantityPrimaryInSecondaryUnit = services.SafeFloat(c.FormValue("quantity_primary_in_secondary_unit"))
	case models.LevelTertiary:
		in.QuantitySecondaryInTertiaryUnit = services.SafeFloat(c.FormValue("quantity_secondary_in_tertiary_unit"))
	}
	return in
}

// List handles GET /api/packagings
// @Summary List packagings
// @Description Normalized listing rows across all three tiers
// @Tags Packagings
// @Produce json
// @Success 200 {array} services.PackagingRow
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /packagings [get]
func (h *PackagingHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	rows, err := services.ListPackagingRows(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "packagings.list")
	}
	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// Codes handles GET /api/packagings/codes
// @Summary List packaging codes
// @Description List id/code/level triples of all packagings of the current user
// @Tags Packagings
// @Produce json
// @Success 200 {array} services.PackagingCodeRef
// @Router /packagings/codes [get]
func (h *PackagingHandler) Codes(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	refs, err := services.ListPackagingCodes(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "packagings.codes")
	}
	return utils.SuccessResponse(c, refs, fiber.StatusOK)
}

// Get handles GET /api/packagings/:id?level=
// @Summary Get packaging details
// @Description Full document with edit=true, resolved summary otherwise
// @Tags Packagings
// @Produce json
// @Param id path string true "Packaging ID"
// @Param level query string true "Packaging level (Primary/Secondary/Tertiary)"
// @Param edit query bool false "Return the full document for editing"
// @Success 200 {object} services.PackagingSummary
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /packagings/{id} [get]
func (h *PackagingHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	level := c.Query("level")
	if c.Query("edit") == "true" {
		pkg, err := services.GetPackaging(h.DB, userID, level, c.Params("id"))
		if err != nil {
			return serviceError(c, err, "packagings.get")
		}
		return utils.SuccessResponse(c, pkg, fiber.StatusOK)
	}

	summary, err := services.GetPackagingSummary(h.DB, userID, level, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "packagings.get")
	}
	return utils.SuccessResponse(c, summary, fiber.StatusOK)
}

// Create handles POST /api/packagings
// @Summary Create a packaging
// @Description Create a packaging in its tier table from the submitted form
// @Tags Packagings
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /packagings [post]
func (h *PackagingHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	in := packagingInputFromForm(c)
	pkg, err := services.CreatePackaging(h.DB, userID, in)
	if err != nil {
		return serviceError(c, err, "packagings.create")
	}

	h.Activity.Log(userID, services.ActivityPackagingCreation,
		fmt.Sprintf("Created %s packaging: %s", in.Level, pkg.PackageCode))
	return utils.MessageResponse(c,
		fmt.Sprintf("%s packaging %q has been created successfully!", in.Level, pkg.PackageCode))
}

// Update handles PUT /api/packagings/:id
// @Summary Update a packaging
// @Description Rewrite a packaging's descriptive fields; connections stay untouched
// @Tags Packagings
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Packaging ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /packagings/{id} [put]
func (h *PackagingHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	in := packagingInputFromForm(c)
	pkg, err := services.UpdatePackaging(h.DB, userID, c.Params("id"), in)
	if err != nil {
		return serviceError(c, err, "packagings.update")
	}

	h.Activity.Log(userID, services.ActivityPackagingUpdate,
		fmt.Sprintf("Updated %s packaging: %s", in.Level, in.PackageCode))
	return utils.MessageResponse(c,
		fmt.Sprintf("%s packaging %q has been updated successfully!", in.Level, pkg.PackageCode))
}

// Delete handles DELETE /api/packagings/:id?level=
// @Summary Delete a packaging
// @Description Delete a packaging after clearing the tier slot of linked products
// @Tags Packagings
// @Produce json
// @Param id path string true "Packaging ID"
// @Param level query string true "Packaging level"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /packagings/{id} [delete]
func (h *PackagingHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	level := c.Query("level")
	code, err := services.DeletePackaging(h.DB, h.Linker, userID, level, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "packagings.delete")
	}

	h.Activity.Log(userID, services.ActivityPackagingDeletion,
		fmt.Sprintf("Deleted %s packaging: %s", level, code))
	return utils.MessageResponse(c, fmt.Sprintf("Packaging %q deleted successfully.", code))
}

// UpdateRecyclability handles PUT /api/packagings/:id/recyclability
// @Summary Update recyclability
// @Description Set only the recyclability grade of a packaging
// @Tags Packagings
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Packaging ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /packagings/{id}/recyclability [put]
func (h *PackagingHandler) UpdateRecyclability(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	level := c.FormValue("packageLevel")
	grade := c.FormValue("recyclability")
	if grade == "" {
		return utils.ErrorResponse(c, "Missing required fields", fiber.StatusBadRequest, "packagings.recyclability")
	}

	code, err := services.UpdateRecyclability(h.DB, userID, level, c.Params("id"), grade)
	if err != nil {
		return serviceError(c, err, "packagings.recyclability")
	}

	h.Activity.Log(userID, services.ActivityPackagingUpdate,
		fmt.Sprintf("Updated recyclability for %s packaging: %s", level, code))
	return utils.MessageResponse(c, "Recyclability updated successfully")
}

// MissingRecyclability handles GET /api/packagings/missing-recyclability
// @Summary Missing recyclability report
// @Description List packagings without a recyclability grade
// @Tags Packagings
// @Produce json
// @Success 200 {object} services.MissingRecyclabilityReport
// @Router /packagings/missing-recyclability [get]
func (h *PackagingHandler) MissingRecyclability(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	report, err := services.GetMissingRecyclability(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "packagings.missingRecyclability")
	}
	return utils.SuccessResponse(c, report, fiber.StatusOK)
}
