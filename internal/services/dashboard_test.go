package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
)

func ptr(v float64) *float64 { return &v }

// seedDashboardProduct creates a product with a full packaging chain:
// primary graded A (100g), secondary graded "b" holding 4 primaries,
// tertiary ungraded holding 2 secondaries.
func seedDashboardProduct(t *testing.T, db *gorm.DB, owner string, sales []models.SaleRecord) (productID string) {
	t.Helper()

	primary := models.Packaging{
		OwnerID:       owner,
		PackageCode:   "PKG-P",
		Recyclability: "A",
		Materials: models.NewJSONField([]models.Material{
			{PackageComponent: "Bottle", Material: "PET", WeightGrams: ptr(100)},
		}),
	}
	primary.SetRefs(nil)
	require.NoError(t, db.Table("primary_packagings").Create(&primary).Error)

	secondary := models.Packaging{
		OwnerID:                        owner,
		PackageCode:                    "PKG-S",
		Recyclability:                  "b",
		QuantityPrimaryInSecondaryUnit: ptr(4),
	}
	secondary.SetRefs(nil)
	require.NoError(t, db.Table("secondary_packagings").Create(&secondary).Error)

	tertiary := models.Packaging{
		OwnerID:                         owner,
		PackageCode:                     "PKG-T",
		QuantitySecondaryInTertiaryUnit: ptr(2),
	}
	tertiary.SetRefs(nil)
	require.NoError(t, db.Table("tertiary_packagings").Create(&tertiary).Error)

	product := models.Product{
		OwnerID:         owner,
		ProductCode:     "SKU-1",
		ProductMaterial: models.MaterialSolid,
		Connections: models.NewJSONField(models.ProductConnections{
			PrimaryPackage:   primary.ID,
			SecondaryPackage: secondary.ID,
			TertiaryPackage:  tertiary.ID,
		}),
		Sales: models.NewJSONField(sales),
	}
	require.NoError(t, db.Create(&product).Error)
	return product.ID
}

func TestAggregateDashboardCeilingPropagation(t *testing.T) {
	db := setupTestDB(t)
	owner := "owner-1"

	seedDashboardProduct(t, db, owner, []models.SaleRecord{
		{Year: "2024", Month: "3", Quantity: "10"},
	})

	data, err := AggregateDashboard(db, owner, DashboardFilters{})
	require.NoError(t, err)

	// 10 primaries, ceil(10/4)=3 secondaries; the tertiary tier is ungraded
	// so its ceil(3/2)=2 units land nowhere.
	assert.Equal(t, 10.0, data.QtyByGrade["A"])
	assert.Equal(t, 3.0, data.QtyByGrade["B"])
	assert.Equal(t, 0.0, data.QtyByGrade["C"])
	assert.Equal(t, 0.0, data.QtyByGrade["D"])

	// 10 units at 100g each, reported in kg
	assert.Equal(t, 1.0, data.WeightKgByGrade["A"])

	require.Len(t, data.Trend, 1)
	assert.Equal(t, "2024-03", data.Trend[0].Label)
	assert.Equal(t, 10.0, data.Trend[0].ByGrade["A"])
	assert.Equal(t, 3.0, data.Trend[0].ByGrade["B"])
}

func TestAggregateDashboardSkipsMalformedSales(t *testing.T) {
	db := setupTestDB(t)
	owner := "owner-1"

	seedDashboardProduct(t, db, owner, []models.SaleRecord{
		{Year: "2024", Month: "13", Quantity: "10"}, // invalid month
		{Year: "twenty", Month: "3", Quantity: "10"},
		{Year: "2024", Month: "4", Quantity: "0"}, // zero quantity
		{Year: "2024", Month: "5", Quantity: "abc"},
		{Year: "2024", Month: "6", Quantity: "8"},
	})

	data, err := AggregateDashboard(db, owner, DashboardFilters{})
	require.NoError(t, err)

	// Only the valid June sale counts
	assert.Equal(t, 8.0, data.QtyByGrade["A"])
	require.Len(t, data.Trend, 1)
	assert.Equal(t, "2024-06", data.Trend[0].Label)
}

func TestAggregateDashboardDateWindow(t *testing.T) {
	db := setupTestDB(t)
	owner := "owner-1"

	seedDashboardProduct(t, db, owner, []models.SaleRecord{
		{Year: "2024", Month: "1", Quantity: "5"},
		{Year: "2024", Month: "6", Quantity: "7"},
		{Year: "2024", Month: "12", Quantity: "9"},
	})

	start, ok := ParseMonth("2024-02")
	require.True(t, ok)
	end, ok := ParseMonth("2024-11")
	require.True(t, ok)

	data, err := AggregateDashboard(db, owner, DashboardFilters{StartMonth: start, EndMonth: end})
	require.NoError(t, err)

	assert.Equal(t, 7.0, data.QtyByGrade["A"])
	require.Len(t, data.Trend, 1)
	assert.Equal(t, "2024-06", data.Trend[0].Label)
}

func TestAggregateDashboardLevelFilter(t *testing.T) {
	db := setupTestDB(t)
	owner := "owner-1"

	seedDashboardProduct(t, db, owner, []models.SaleRecord{
		{Year: "2024", Month: "3", Quantity: "10"},
	})

	// Secondary only: the primary tier is filtered out at bucketing but unit
	// propagation through it still happens.
	data, err := AggregateDashboard(db, owner, DashboardFilters{Levels: []string{models.LevelSecondary}})
	require.NoError(t, err)

	assert.Equal(t, 0.0, data.QtyByGrade["A"])
	assert.Equal(t, 3.0, data.QtyByGrade["B"])
}

func TestAggregateDashboardTrendSorted(t *testing.T) {
	db := setupTestDB(t)
	owner := "owner-1"

	seedDashboardProduct(t, db, owner, []models.SaleRecord{
		{Year: "2024", Month: "11", Quantity: "1"},
		{Year: "2023", Month: "2", Quantity: "1"},
		{Year: "2024", Month: "4", Quantity: "1"},
	})

	data, err := AggregateDashboard(db, owner, DashboardFilters{})
	require.NoError(t, err)

	require.Len(t, data.Trend, 3)
	assert.Equal(t, "2023-02", data.Trend[0].Label)
	assert.Equal(t, "2024-04", data.Trend[1].Label)
	assert.Equal(t, "2024-11", data.Trend[2].Label)
}

func TestAggregateDashboardProductFilter(t *testing.T) {
	db := setupTestDB(t)
	owner := "owner-1"

	included := seedDashboardProduct(t, db, owner, []models.SaleRecord{
		{Year: "2024", Month: "3", Quantity: "10"},
	})

	other := models.Product{
		OwnerID:         owner,
		ProductCode:     "SKU-OTHER",
		ProductMaterial: models.MaterialSolid,
		Connections:     models.NewJSONField(models.ProductConnections{}),
		Sales: models.NewJSONField([]models.SaleRecord{
			{Year: "2024", Month: "3", Quantity: "99"},
		}),
	}
	require.NoError(t, db.Create(&other).Error)

	data, err := AggregateDashboard(db, owner, DashboardFilters{ProductIDs: []string{included}})
	require.NoError(t, err)
	assert.Equal(t, 10.0, data.QtyByGrade["A"])
}

func TestAggregateDashboardIgnoresOtherOwners(t *testing.T) {
	db := setupTestDB(t)

	seedDashboardProduct(t, db, "owner-a", []models.SaleRecord{
		{Year: "2024", Month: "3", Quantity: "10"},
	})

	data, err := AggregateDashboard(db, "owner-b", DashboardFilters{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, data.QtyByGrade["A"])
	assert.Empty(t, data.Trend)
}
