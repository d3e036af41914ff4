package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
)

func TestCreateProductGeometry(t *testing.T) {
	db := setupTestDB(t)
	owner := "owner-1"

	solid, err := CreateProduct(db, owner, ProductInput{
		ProductCode:     "SKU-SOLID",
		ProductMaterial: models.MaterialSolid,
		ProductShape:    "rectangular",
		Dimensions:      map[string]string{"length": "2", "width": "3", "height": "4"},
	})
	require.NoError(t, err)
	require.NotNil(t, solid.VolumeCm3)
	assert.Equal(t, 24.0, *solid.VolumeCm3)
	assert.Equal(t, "rectangular", solid.ProductShape)

	liquid, err := CreateProduct(db, owner, ProductInput{
		ProductCode:     "SKU-LIQUID",
		ProductMaterial: models.MaterialLiquidGas,
		ProductVolume:   "330ml",
	})
	require.NoError(t, err)
	assert.Nil(t, liquid.VolumeCm3)
	assert.Equal(t, "330ml", liquid.ProductVolume)
}

func TestCreateProductValidation(t *testing.T) {
	db := setupTestDB(t)
	owner := "owner-1"

	_, err := CreateProduct(db, owner, ProductInput{ProductMaterial: models.MaterialSolid})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CreateProduct(db, owner, ProductInput{ProductCode: "SKU-1"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CreateProduct(db, owner, ProductInput{
		ProductCode: "SKU-1", ProductMaterial: models.MaterialSolid,
	})
	require.NoError(t, err)

	// Same code, same owner: rejected
	_, err = CreateProduct(db, owner, ProductInput{
		ProductCode: "SKU-1", ProductMaterial: models.MaterialSolid,
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Same code, different owner: fine
	_, err = CreateProduct(db, "owner-2", ProductInput{
		ProductCode: "SKU-1", ProductMaterial: models.MaterialSolid,
	})
	assert.NoError(t, err)
}

func TestUpdateProductResetsGeometry(t *testing.T) {
	db := setupTestDB(t)
	linker := NewLinker(db, zap.NewNop())
	owner := "owner-1"

	product, err := CreateProduct(db, owner, ProductInput{
		ProductCode:     "SKU-1",
		ProductMaterial: models.MaterialSolid,
		ProductShape:    "sphere",
		Dimensions:      map[string]string{"radius": "1"},
	})
	require.NoError(t, err)
	require.NotNil(t, product.VolumeCm3)

	// Switching to liquid/gas clears the solid geometry
	updated, err := UpdateProduct(db, linker, owner, product.ID, ProductInput{
		ProductCode:     "SKU-1",
		ProductMaterial: models.MaterialLiquidGas,
		ProductVolume:   "1l",
	})
	require.NoError(t, err)
	assert.Empty(t, updated.ProductShape)
	assert.Nil(t, updated.VolumeCm3)
	assert.Equal(t, "1l", updated.ProductVolume)
}

func TestUpdateProductCodeRefreshesBackRefs(t *testing.T) {
	db := setupTestDB(t)
	linker := NewLinker(db, zap.NewNop())
	owner := "owner-1"

	product := newProduct(t, db, owner, "SKU-OLD")
	pkg := newPackaging(t, db, owner, models.LevelPrimary, "PKG-1")
	_, err := linker.UpdateProductPackagingConnections(owner, product.ID, TierLinks{Primary: pkg.ID})
	require.NoError(t, err)

	_, err = UpdateProduct(db, linker, owner, product.ID, ProductInput{
		ProductCode:     "SKU-NEW",
		ProductMaterial: models.MaterialSolid,
	})
	require.NoError(t, err)

	refs := reloadPackaging(t, db, models.LevelPrimary, pkg.ID).Refs()
	require.Len(t, refs, 1)
	assert.Equal(t, "SKU-NEW", refs[0].Code)
}

func TestListProductsPackagingStatus(t *testing.T) {
	db := setupTestDB(t)
	linker := NewLinker(db, zap.NewNop())
	owner := "owner-1"

	complete := newProduct(t, db, owner, "SKU-A")
	pkgP := newPackaging(t, db, owner, models.LevelPrimary, "PKG-P")
	pkgS := newPackaging(t, db, owner, models.LevelSecondary, "PKG-S")
	pkgT := newPackaging(t, db, owner, models.LevelTertiary, "PKG-T")
	_, err := linker.UpdateProductPackagingConnections(owner, complete.ID, TierLinks{
		Primary: pkgP.ID, Secondary: pkgS.ID, Tertiary: pkgT.ID,
	})
	require.NoError(t, err)

	newProduct(t, db, owner, "SKU-B")

	overviews, err := ListProducts(db, owner)
	require.NoError(t, err)
	require.Len(t, overviews, 2)

	assert.Equal(t, "Connected", overviews[0].PackagingStatus)
	assert.Equal(t, "green", overviews[0].PackagingStatusColor)
	assert.Equal(t, "Missing (3)", overviews[1].PackagingStatus)
	assert.Equal(t, "red", overviews[1].PackagingStatusColor)
}

func TestGetProductDetailResolvesLinks(t *testing.T) {
	db := setupTestDB(t)
	linker := NewLinker(db, zap.NewNop())
	owner := "owner-1"

	product := newProduct(t, db, owner, "SKU-1")
	pkg := newPackaging(t, db, owner, models.LevelPrimary, "PKG-1")
	customer := newPartner(t, db, owner, models.PartnerCustomer, "Acme")

	_, err := linker.UpdateProductPackagingConnections(owner, product.ID, TierLinks{Primary: pkg.ID})
	require.NoError(t, err)
	_, err = linker.UpdateProductCustomer(owner, product.ID, customer.ID)
	require.NoError(t, err)

	detail, err := GetProductDetail(db, owner, product.ID)
	require.NoError(t, err)
	require.Len(t, detail.Packaging, 1)
	assert.Equal(t, "PKG-1", detail.Packaging[0].Code)
	assert.Equal(t, models.LevelPrimary, detail.Packaging[0].Level)
	assert.Equal(t, "N/A", detail.Packaging[0].Recyclability)
	assert.Equal(t, "Acme", detail.CustomerName)
}

func TestGetProductDetailDanglingLinks(t *testing.T) {
	db := setupTestDB(t)
	owner := "owner-1"

	product := models.Product{
		OwnerID:         owner,
		ProductCode:     "SKU-1",
		ProductMaterial: models.MaterialSolid,
		Connections: models.NewJSONField(models.ProductConnections{
			PrimaryPackage: "gone-pkg",
			Customer:       "gone-partner",
		}),
		Sales: models.NewJSONField([]models.SaleRecord{}),
	}
	require.NoError(t, db.Create(&product).Error)

	detail, err := GetProductDetail(db, owner, product.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Packaging)
	assert.Equal(t, "Not Found", detail.CustomerName)
}

func TestDeleteProduct(t *testing.T) {
	db := setupTestDB(t)
	linker := NewLinker(db, zap.NewNop())
	owner := "owner-1"

	product := newProduct(t, db, owner, "SKU-1")

	code, err := DeleteProduct(db, linker, owner, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", code)

	_, err = GetProductDetail(db, owner, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = DeleteProduct(db, linker, owner, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
