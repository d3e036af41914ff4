package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
)

func TestGetProductStatus(t *testing.T) {
	db := setupTestDB(t)
	linker := NewLinker(db, zap.NewNop())
	owner := "owner-1"

	complete := newProduct(t, db, owner, "SKU-FULL")
	pkgP := newPackaging(t, db, owner, models.LevelPrimary, "PKG-P")
	pkgS := newPackaging(t, db, owner, models.LevelSecondary, "PKG-S")
	pkgT := newPackaging(t, db, owner, models.LevelTertiary, "PKG-T")
	customer := newPartner(t, db, owner, models.PartnerCustomer, "Acme")
	supplier := newPartner(t, db, owner, models.PartnerSupplier, "Supplies Inc")

	_, err := linker.UpdateProductPackagingConnections(owner, complete.ID, TierLinks{
		Primary: pkgP.ID, Secondary: pkgS.ID, Tertiary: pkgT.ID,
	})
	require.NoError(t, err)
	_, err = linker.UpdateProductCustomer(owner, complete.ID, customer.ID)
	require.NoError(t, err)
	_, err = linker.UpdatePackagingSupplier(owner, models.LevelPrimary, pkgP.ID, supplier.ID)
	require.NoError(t, err)

	// Missing everything
	bare := newProduct(t, db, owner, "SKU-BARE")
	// Missing only the customer
	partial := newProduct(t, db, owner, "SKU-PART")
	pkgP2 := newPackaging(t, db, owner, models.LevelPrimary, "PKG-P2")
	pkgS2 := newPackaging(t, db, owner, models.LevelSecondary, "PKG-S2")
	pkgT2 := newPackaging(t, db, owner, models.LevelTertiary, "PKG-T2")
	_, err = linker.UpdateProductPackagingConnections(owner, partial.ID, TierLinks{
		Primary: pkgP2.ID, Secondary: pkgS2.ID, Tertiary: pkgT2.ID,
	})
	require.NoError(t, err)

	report, err := GetProductStatus(db, owner)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.AtRisk)
	assert.Equal(t, 1, report.Summary.Compliant)

	assert.Equal(t, 1, report.MissingPrimary.Count)
	assert.Equal(t, bare.ID, report.MissingPrimary.Products[0].ID)
	assert.Equal(t, "SKU-BARE", report.MissingPrimary.Products[0].Code)
	assert.Equal(t, 1, report.MissingSecondary.Count)
	assert.Equal(t, 1, report.MissingTertiary.Count)

	assert.Equal(t, 2, report.MissingCustomer.Count)
	assert.True(t, report.MissingCustomer.Products.Contains(bare.ID))
	assert.True(t, report.MissingCustomer.Products.Contains(partial.ID))

	// All packagings but PKG-P lack a supplier
	assert.Equal(t, 5, report.MissingSupplier.Count)
	assert.False(t, report.MissingSupplier.Packagings.Contains(pkgP.ID))
}

func TestGetMissingRecyclability(t *testing.T) {
	db := setupTestDB(t)
	owner := "owner-1"

	graded := newPackaging(t, db, owner, models.LevelPrimary, "PKG-GRADED")
	require.NoError(t, db.Table("primary_packagings").
		Where("id = ?", graded.ID).Update("recyclability", "A").Error)

	ungraded := models.Packaging{
		OwnerID:     owner,
		PackageCode: "PKG-BLANK",
		Materials: models.NewJSONField([]models.Material{
			{PackageComponent: "Tray", Material: "PET"},
			{PackageComponent: "Lid", Material: "PET"},
			{PackageComponent: "Label", Material: "Paper"},
		}),
	}
	ungraded.SetRefs(nil)
	require.NoError(t, db.Table("secondary_packagings").Create(&ungraded).Error)

	// The em-dash placeholder counts as missing
	dash := newPackaging(t, db, owner, models.LevelTertiary, "PKG-DASH")
	require.NoError(t, db.Table("tertiary_packagings").
		Where("id = ?", dash.ID).Update("recyclability", "—").Error)

	newPackaging(t, db, "owner-2", models.LevelPrimary, "PKG-OTHER")

	report, err := GetMissingRecyclability(db, owner)
	require.NoError(t, err)
	require.Equal(t, 2, report.Count)

	byCode := make(map[string]UngradedPackaging, len(report.Packagings))
	for _, p := range report.Packagings {
		byCode[p.PackageCode] = p
	}
	require.Contains(t, byCode, "PKG-BLANK")
	require.Contains(t, byCode, "PKG-DASH")
	assert.Equal(t, models.LevelSecondary, byCode["PKG-BLANK"].Level)
	assert.Equal(t, "PET, Paper", byCode["PKG-BLANK"].Material)
}
