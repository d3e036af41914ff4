package integration_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/config"
	"github.com/NurettinDemirhan/ecopacknav/internal/database"
	"github.com/NurettinDemirhan/ecopacknav/internal/models"
	"github.com/NurettinDemirhan/ecopacknav/internal/services"
	"github.com/NurettinDemirhan/ecopacknav/tests/helpers"
)

// TestWithMariaDB runs the service layer against a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	dbImage := os.Getenv("DB_IMAGE")
	if dbImage == "" {
		dbImage = "mariadb:11"
	}

	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage,
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	// Wait for database to be really ready
	time.Sleep(5 * time.Second)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Run("ProductLifecycle", func(t *testing.T) {
		testProductLifecycle(t, db)
	})

	t.Run("RelinkAndCascade", func(t *testing.T) {
		testRelinkAndCascade(t, db)
	})

	t.Run("OwnershipIsolation", func(t *testing.T) {
		testOwnershipIsolation(t, db)
	})
}

func testProductLifecycle(t *testing.T, db *gorm.DB) {
	owner := helpers.CreateTestUser(t, db, helpers.UniqueUsername("lifecycle"), "pw")

	product, err := services.CreateProduct(db, owner, services.ProductInput{
		ProductCode:     "SKU-100",
		ProductMaterial: models.MaterialSolid,
		ProductShape:    "rectangular",
		Dimensions:      map[string]string{"length": "2", "width": "3", "height": "4"},
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	id := product.ID

	detail, err := services.GetProductDetail(db, owner, id)
	if err != nil {
		t.Fatalf("GetProductDetail failed: %v", err)
	}
	if detail.Product.VolumeCm3 == nil || *detail.Product.VolumeCm3 != 24 {
		t.Errorf("Expected derived volume 24, got %v", detail.Product.VolumeCm3)
	}

	// Duplicate code for the same owner must be rejected
	if _, err := services.CreateProduct(db, owner, services.ProductInput{
		ProductCode:     "SKU-100",
		ProductMaterial: models.MaterialSolid,
	}); err == nil {
		t.Error("Expected duplicate product code to be rejected")
	}

	if _, err := services.DeleteProduct(db, services.NewLinker(db, zap.NewNop()), owner, id); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if _, err := services.GetProductDetail(db, owner, id); err == nil {
		t.Error("Expected deleted product to be gone")
	}
}

func testRelinkAndCascade(t *testing.T, db *gorm.DB) {
	owner := helpers.CreateTestUser(t, db, helpers.UniqueUsername("relink"), "pw")
	linker := services.NewLinker(db, zap.NewNop())

	productID := helpers.CreateTestProduct(t, db, owner, "SKU-200")
	pkgID := helpers.CreateTestPackaging(t, db, owner, models.LevelPrimary, "PKG-200")

	if _, err := linker.UpdateProductPackagingConnections(owner, productID, services.TierLinks{
		Primary: pkgID,
	}); err != nil {
		t.Fatalf("Relink failed: %v", err)
	}

	// Back-reference should now carry the product
	var pkg models.Packaging
	table, _ := models.PackagingTable(models.LevelPrimary)
	if err := db.Table(table).Where("id = ?", pkgID).First(&pkg).Error; err != nil {
		t.Fatalf("Failed to reload packaging: %v", err)
	}
	if !pkg.Refs().Contains(productID) {
		t.Error("Expected packaging back-reference to contain the product")
	}

	// Deleting the product must clear the back-reference
	if _, err := services.DeleteProduct(db, linker, owner, productID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if err := db.Table(table).Where("id = ?", pkgID).First(&pkg).Error; err != nil {
		t.Fatalf("Failed to reload packaging: %v", err)
	}
	if pkg.Refs().Contains(productID) {
		t.Error("Expected cascade to remove the back-reference")
	}
}

func testOwnershipIsolation(t *testing.T, db *gorm.DB) {
	ownerA := helpers.CreateTestUser(t, db, helpers.UniqueUsername("owner-a"), "pw")
	ownerB := helpers.CreateTestUser(t, db, helpers.UniqueUsername("owner-b"), "pw")

	productID := helpers.CreateTestProduct(t, db, ownerA, "SKU-300")

	if _, err := services.GetProductDetail(db, ownerB, productID); err == nil {
		t.Error("Expected another owner's product to be invisible")
	}

	linker := services.NewLinker(db, zap.NewNop())
	if _, err := linker.UpdateProductCustomer(ownerB, productID, ""); err == nil {
		t.Error("Expected relink against another owner's product to fail")
	}
}
