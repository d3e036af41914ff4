package e2e_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/NurettinDemirhan/ecopacknav/internal/config"
	"github.com/NurettinDemirhan/ecopacknav/internal/database"
	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/tests/helpers"
)

// TestE2EWithFullStack tests the entire service stack
func TestE2EWithFullStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	ctx := context.Background()

	tc, err := helpers.CreateAllTestContainers(t)
	if err != nil {
		t.Fatalf("Failed to start test containers: %v", err)
	}
	defer tc.Terminate(t)

	appHost, _ := tc.AppContainer.Host(ctx)
	appPort, _ := tc.AppContainer.MappedPort(ctx, "3000")
	baseURL := fmt.Sprintf("http://%s:%s", appHost, appPort.Port())

	// Wait a bit for everything to stabilize
	time.Sleep(5 * time.Second)

	t.Run("HealthCheck", func(t *testing.T) {
		testHealthCheck(t, tc, baseURL)
	})

	t.Run("PrometheusMetrics", func(t *testing.T) {
		testPrometheusMetrics(t, baseURL)
	})

	t.Run("SwaggerUI", func(t *testing.T) {
		testSwaggerUI(t, baseURL)
	})

	t.Run("UnauthenticatedAccess", func(t *testing.T) {
		testUnauthenticatedAccess(t, baseURL)
	})

	t.Run("ProductRoundTrip", func(t *testing.T) {
		testProductRoundTrip(t, baseURL)
	})
}

func testHealthCheck(t *testing.T, tc *helpers.TestContainers, baseURL string) {
	ctx := context.Background()

	// Point at the mapped ports on localhost, not internal container names
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	dbHost, _ := tc.DBContainer.Host(ctx)
	dbPort, _ := tc.DBContainer.MappedPort(ctx, "3306")
	cfg.DBHost = dbHost
	cfg.DBPort = dbPort.Port()

	gormDB, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	defer database.Close(gormDB)

	result := services.HealthCheck(cfg, gormDB, baseURL)
	if result.Status != "healthy" {
		t.Errorf("Health check failed: %+v", result)
	}

	t.Logf("Health check passed: status=%s, database=%s, server=%s",
		result.Status, result.Database, result.Server)
}

func testPrometheusMetrics(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/metrics")
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for metrics, got %d. Body: %s", resp.StatusCode, string(body))
	}

	t.Logf("Metrics endpoint working, found %d bytes of metrics", len(body))
}

func testSwaggerUI(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/swagger/index.html")
	if err != nil {
		t.Fatalf("Failed to get Swagger UI: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for Swagger UI, got %d", resp.StatusCode)
	}
}

func testUnauthenticatedAccess(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/api/products")
	if err != nil {
		t.Fatalf("Failed to access API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		body, _ := io.ReadAll(resp.Body)
		t.Errorf("Expected status 403 without a session, got %d. Body: %s", resp.StatusCode, string(body))
	}
}

func testProductRoundTrip(t *testing.T, baseURL string) {
	cookie := helpers.AcquireAccount(t, baseURL, helpers.UniqueUsername("e2e"), helpers.GeneratePassword())
	client := &http.Client{}

	form := url.Values{}
	form.Set("productCode", "E2E-001")
	form.Set("material", "solid")
	form.Set("productShape", "rectangular")
	form.Set("length", "2")
	form.Set("width", "2")
	form.Set("height", "2")

	req := helpers.AuthedRequest(t, http.MethodPost, baseURL+"/api/products", form.Encode(), cookie)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Create product request failed: %v", err)
	}
	helpers.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	req = helpers.AuthedRequest(t, http.MethodGet, baseURL+"/api/products", "", cookie)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("List products request failed: %v", err)
	}
	helpers.AssertStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if !strings.Contains(string(body), "E2E-001") {
		t.Errorf("Expected listing to contain the created product, got: %s", string(body))
	}
}
