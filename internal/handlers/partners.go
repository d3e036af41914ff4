package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/internal/utils"
)

// PartnerHandler handles partner routes
type PartnerHandler struct {
	DB       *gorm.DB
	Linker   *services.Linker
	Activity *services.ActivityLogger
}

func partnerInputFromForm(c *fiber.Ctx) services.PartnerInput {
	return services.PartnerInput{
		PartnerType: c.FormValue("partner_type"),
		PartnerName: c.FormValue("partner_name"),
		Email:       c.FormValue("email"),
		PhoneNumber: c.FormValue("phone_number"),
		Address:     c.FormValue("address"),
		Country:     c.FormValue("country"),
	}
}

// List handles GET /api/partners
// @Summary List partners
// @Description List all partners of the current user
// @Tags Partners
// @Produce json
// @Success 200 {array} models.Partner
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /partners [get]
func (h *PartnerHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	partners, err := services.ListPartners(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "partners.list")
	}
	return utils.SuccessResponse(c, partners, fiber.StatusOK)
}

// Get handles GET /api/partners/:id
// @Summary Get partner details
// @Description Get one partner with its connections resolved to codes
// @Tags Partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} services.PartnerDetail
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /partners/{id} [get]
func (h *PartnerHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	detail, err := services.GetPartnerDetail(h.DB, userID, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "partners.get")
	}
	return utils.SuccessResponse(c, detail, fiber.StatusOK)
}

// Create handles POST /api/partners
// @Summary Create a partner
// @Description Create a customer or supplier from the submitted form
// @Tags Partners
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /partners [post]
func (h *PartnerHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	partner, err := services.CreatePartner(h.DB, userID, partnerInputFromForm(c))
	if err != nil {
		return serviceError(c, err, "partners.create")
	}

	h.Activity.Log(userID, services.ActivityPartnerCreation,
		fmt.Sprintf("Created %s: %s", partner.PartnerType, partner.PartnerName))
	return utils.MessageResponse(c,
		fmt.Sprintf("Partner %q has been created successfully!", partner.PartnerName))
}

// Update handles PUT /api/partners/:id
// @Summary Update a partner
// @Description Rewrite a partner's descriptive fields; connections stay untouched
// @Tags Partners
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /partners/{id} [put]
func (h *PartnerHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	partner, err := services.UpdatePartner(h.DB, userID, c.Params("id"), partnerInputFromForm(c))
	if err != nil {
		return serviceError(c, err, "partners.update")
	}

	h.Activity.Log(userID, services.ActivityPartnerUpdate,
		fmt.Sprintf("Updated partner: %s", partner.PartnerName))
	return utils.MessageResponse(c,
		fmt.Sprintf("Partner %q has been updated successfully!", partner.PartnerName))
}

// Delete handles DELETE /api/partners/:id
// @Summary Delete a partner
// @Description Delete a partner after clearing every customer and supplier reference to it
// @Tags Partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /partners/{id} [delete]
func (h *PartnerHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.session")
	}

	name, err := services.DeletePartner(h.DB, h.Linker, userID, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "partners.delete")
	}

	h.Activity.Log(userID, services.ActivityPartnerDeletion,
		fmt.Sprintf("Deleted partner: %s", name))
	return utils.MessageResponse(c, fmt.Sprintf("Partner %q deleted successfully.", name))
}
