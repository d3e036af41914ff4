package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NurettinDemirhan/ecopacknav/internal/config"
	"github.com/NurettinDemirhan/ecopacknav/internal/database"
	"github.com/NurettinDemirhan/ecopacknav/internal/handlers"
	"github.com/NurettinDemirhan/ecopacknav/internal/middleware"
	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/internal/types"
	"github.com/NurettinDemirhan/ecopacknav/internal/utils"
)

// newTestApp wires the auth and product routes against an in-memory database,
// with the same error envelope the server uses.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{SessionSecret: "test-secret", SessionTTL: time.Hour}
	log := zap.NewNop()
	linker := services.NewLinker(db, log)
	activity := services.NewActivityLogger(db, log)

	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	productHandler := &handlers.ProductHandler{DB: db, Linker: linker, Activity: activity}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var customErr *types.CustomError
			if errors.As(err, &customErr) {
				return utils.ErrorResponse(c, customErr.Message, customErr.Code, customErr.Type)
			}
			return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "internal")
		},
	})

	api := app.Group("/api")
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)

	api.Use(middleware.AuthUser([]byte(cfg.SessionSecret)))
	api.Get("/products", productHandler.List)
	api.Post("/products", productHandler.Create)
	api.Get("/products/:id", productHandler.Get)

	return app
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, app *fiber.App, path string, cookie *http.Cookie, out interface{}) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// login registers the account when needed and returns the session cookie.
func login(t *testing.T, app *fiber.App, username, password string) *http.Cookie {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}
	resp := postForm(t, app, "/api/auth/register", form, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = postForm(t, app, "/api/auth/login", form, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie
		}
	}
	t.Fatalf("login response did not set the %s cookie", middleware.SessionCookie)
	return nil
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	cookie := login(t, app, "alice", "s3cret")
	assert.NotEmpty(t, cookie.Value)

	resp := postForm(t, app, "/api/auth/login",
		url.Values{"username": {"alice"}, "password": {"wrong"}}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// No cookie: the auth middleware rejects the request
	resp = getJSON(t, app, "/api/products", nil, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Garbage cookie
	resp = getJSON(t, app, "/api/products",
		&http.Cookie{Name: middleware.SessionCookie, Value: "not-a-token"}, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestProductCreateAndList(t *testing.T) {
	app := newTestApp(t)
	cookie := login(t, app, "alice", "s3cret")

	form := url.Values{
		"productCode":  {"SKU-1"},
		"material":     {"solid"},
		"productShape": {"rectangular"},
		"length":       {"2"},
		"width":        {"3"},
		"height":       {"4"},
	}
	resp := postForm(t, app, "/api/products", form, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var created map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, true, created["ok"])
	assert.Contains(t, created["message"], "SKU-1")

	// Duplicate code for the same owner is a validation error
	resp = postForm(t, app, "/api/products", form, cookie)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var listed []map[string]interface{}
	resp = getJSON(t, app, "/api/products", cookie, &listed)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, listed, 1)
	assert.Equal(t, "SKU-1", listed[0]["product_code"])
	assert.Equal(t, "Missing (3)", listed[0]["packaging_status"])
}

func TestProductOwnershipIsolation(t *testing.T) {
	app := newTestApp(t)
	alice := login(t, app, "alice", "s3cret")
	bob := login(t, app, "bob", "s3cret")

	resp := postForm(t, app, "/api/products", url.Values{
		"productCode": {"SKU-A"},
		"material":    {"solid"},
	}, alice)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var aliceProducts []map[string]interface{}
	getJSON(t, app, "/api/products", alice, &aliceProducts)
	require.Len(t, aliceProducts, 1)
	productID, _ := aliceProducts[0]["_id"].(string)
	require.NotEmpty(t, productID)

	// Bob sees an empty list and cannot read Alice's product
	var bobProducts []map[string]interface{}
	getJSON(t, app, "/api/products", bob, &bobProducts)
	assert.Empty(t, bobProducts)

	resp = getJSON(t, app, "/api/products/"+productID, bob, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
