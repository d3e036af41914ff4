package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/config"
	"github.com/NurettinDemirhan/ecopacknav/internal/middleware"
	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/internal/utils"
)

// AuthHandler handles registration and session routes
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// Register handles POST /api/auth/register
// @Summary Register a new user
// @Description Create a new account with a username and password
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	if _, err := services.Register(h.DB, username, password); err != nil {
		return serviceError(c, err, "auth.register")
	}

	return utils.MessageResponse(c, "Account created successfully")
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Verify credentials and set the session cookie
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := services.Authenticate(h.DB, username, password)
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			return utils.ErrorResponse(c, "Invalid username or password", fiber.StatusUnauthorized, "auth.login")
		}
		return serviceError(c, err, "auth.login")
	}

	token, err := middleware.IssueSession(user.ID, user.Username, []byte(h.Cfg.SessionSecret), h.Cfg.SessionTTL)
	if err != nil {
		return serviceError(c, err, "auth.login")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(h.Cfg.SessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return utils.MessageResponse(c, "Logged in successfully")
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return utils.MessageResponse(c, "Logged out successfully")
}
