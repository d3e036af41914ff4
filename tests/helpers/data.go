package helpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
)

// CreateTestUser creates an account directly in the database and returns its id.
func CreateTestUser(t *testing.T, db *gorm.DB, username, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{Username: username, PasswordHash: string(hash)}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user.ID
}

// CreateTestProduct creates a minimal product for an owner and returns its id.
func CreateTestProduct(t *testing.T, db *gorm.DB, ownerID, code string) string {
	t.Helper()
	product := models.Product{
		OwnerID:         ownerID,
		ProductCode:     code,
		ProductMaterial: models.MaterialSolid,
		Connections:     models.NewJSONField(models.ProductConnections{}),
		Sales:           models.NewJSONField([]models.SaleRecord{}),
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to create product %s: %v", code, err)
	}
	return product.ID
}

// CreateTestPackaging creates a packaging at the given tier and returns its id.
func CreateTestPackaging(t *testing.T, db *gorm.DB, ownerID, level, code string) string {
	t.Helper()
	table, ok := models.PackagingTable(level)
	if !ok {
		t.Fatalf("Unknown packaging level %q", level)
	}
	pkg := models.Packaging{
		OwnerID:     ownerID,
		PackageCode: code,
	}
	pkg.SetRefs(nil)
	if err := db.Table(table).Create(&pkg).Error; err != nil {
		t.Fatalf("Failed to create %s packaging %s: %v", level, code, err)
	}
	return pkg.ID
}

// CreateTestPartner creates a customer or supplier and returns its id.
func CreateTestPartner(t *testing.T, db *gorm.DB, ownerID, partnerType, name string) string {
	t.Helper()
	partner := models.Partner{
		OwnerID:     ownerID,
		PartnerType: partnerType,
		PartnerName: name,
	}
	partner.SetConnectionIDs(nil)
	if err := db.Create(&partner).Error; err != nil {
		t.Fatalf("Failed to create partner %s: %v", name, err)
	}
	return partner.ID
}
