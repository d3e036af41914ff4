package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/internal/utils"
)

// getUserID extracts the owner id from context (set by auth middleware)
func getUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user not found in context")
	}
	return userID, nil
}

// serviceError maps a service error to the standard error envelope.
func serviceError(c *fiber.Ctx, err error, errorType string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, "Not found or access denied")
	case errors.Is(err, services.ErrValidation):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, errorType)
	default:
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
	}
}

// formValues returns every submitted value for a repeated form field, like
// the packageComponent[] parallel arrays of the packaging form.
func formValues(c *fiber.Ctx, key string) []string {
	raw := c.Request().PostArgs().PeekMulti(key)
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		values = append(values, string(v))
	}
	return values
}

// at returns values[i] or empty when the parallel arrays are ragged.
func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// dimensionsFromForm collects the shape-specific dimension fields. Values
// stay raw strings; parsing happens in the volume calculation.
func dimensionsFromForm(c *fiber.Ctx, shape string) map[string]string {
	dims := map[string]string{}
	switch shape {
	case "rectangular":
		dims["length"] = c.FormValue("length")
		dims["width"] = c.FormValue("width")
		dims["height"] = c.FormValue("height")
	case "cylinder":
		dims["height"] = c.FormValue("cylHeight")
		dims["radius"] = c.FormValue("cylRadius")
	case "sphere":
		dims["radius"] = c.FormValue("sphRadius")
	case "other":
		dims["volume"] = c.FormValue("volume")
	}
	return dims
}

// materialsFromForm assembles the material composition rows from the
// parallel form arrays. Rows without a component are skipped.
func materialsFromForm(c *fiber.Ctx) []models.Material {
	components := formValues(c, "packageComponent[]")
	materials := formValues(c, "material[]")
	weights := formValues(c, "weightGrams[]")
	recycledContents := formValues(c, "recycledContent[]")
	thicknesses := formValues(c, "thicknessMicrons[]")
	adhesives := formValues(c, "adhesiveType[]")
	foodContacts := formValues(c, "foodContact[]")
	coatings := formValues(c, "coatingType[]")

	rows := make([]models.Material, 0, len(components))
	for i, component := range components {
		if component == "" {
			continue
		}
		rows = append(rows, models.Material{
			PackageComponent: component,
			Material:         at(materials, i),
			WeightGrams:      services.SafeFloat(at(weights, i)),
			RecycledContent:  services.SafeFloat(at(recycledContents, i)),
			ThicknessMicrons: services.SafeFloat(at(thicknesses, i)),
			AdhesiveType:     at(adhesives, i),
			FoodContact:      at(foodContacts, i),
			Coating:          at(coatings, i),
		})
	}
	return rows
}
