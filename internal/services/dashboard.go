package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/hints"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
)

// grades are the recyclability buckets of every dashboard series.
var grades = []string{"A", "B", "C", "D"}

// DashboardFilters narrows the dashboard aggregation. Zero times leave the
// date range open; empty slices mean no filtering on that axis.
type DashboardFilters struct {
	StartMonth time.Time
	EndMonth   time.Time
	ProductIDs []string
	Levels     []string
}

// ParseMonth parses a YYYY-MM filter value. Invalid input leaves the bound
// open rather than failing the request.
func ParseMonth(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TrendPoint is one month of the packaging trend, bucketed by grade.
type TrendPoint struct {
	Label   string             `json:"label"`
	ByGrade map[string]float64 `json:"by_grade"`
}

// DashboardData is the aggregated dashboard payload.
type DashboardData struct {
	QtyByGrade      map[string]float64 `json:"packaging_qty_by_grade"`
	WeightKgByGrade map[string]float64 `json:"packaging_weight_by_grade"`
	Trend           []TrendPoint       `json:"packaging_trend"`
}

// AggregateDashboard walks every sale of the filtered products, propagates
// sold primary units up the packaging tiers with ceiling division, and
// buckets unit counts and packaging weight by recyclability grade. Sales with
// unparseable dates or quantities are skipped; packagings without a valid
// grade are excluded.
func AggregateDashboard(db *gorm.DB, ownerID string, f DashboardFilters) (*DashboardData, error) {
	query := db.Clauses(hints.Comment("select", "dashboard")).
		Where("owner_id = ?", ownerID)
	if len(f.ProductIDs) > 0 {
		query = query.Where("id IN ?", f.ProductIDs)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}

	// All levels are indexed regardless of the level filter; the filter
	// applies at bucketing so unit propagation through a filtered-out tier
	// still works.
	type leveledPackaging struct {
		pkg   models.Packaging
		level string
	}
	packagings := make(map[string]leveledPackaging)
	for _, level := range models.Levels {
		table, _ := models.PackagingTable(level)
		var pkgs []models.Packaging
		err := db.Table(table).
			Clauses(hints.Comment("select", "dashboard")).
			Where("owner_id = ?", ownerID).
			Find(&pkgs).Error
		if err != nil {
			return nil, err
		}
		for _, pkg := range pkgs {
			packagings[pkg.ID] = leveledPackaging{pkg: pkg, level: level}
		}
	}

	levelAllowed := make(map[string]bool, len(models.Levels))
	if len(f.Levels) == 0 {
		for _, level := range models.Levels {
			levelAllowed[level] = true
		}
	} else {
		for _, level := range f.Levels {
			levelAllowed[level] = true
		}
	}

	data := DashboardData{
		QtyByGrade:      make(map[string]float64, len(grades)),
		WeightKgByGrade: make(map[string]float64, len(grades)),
	}
	for _, g := range grades {
		data.QtyByGrade[g] = 0
		data.WeightKgByGrade[g] = 0
	}
	trend := make(map[string]map[string]float64)

	for _, product := range products {
		conns := product.Connections.Data
		tierPkgs := make([]*models.Packaging, len(models.Levels))
		tierLevels := make([]string, len(models.Levels))
		for i, level := range models.Levels {
			if lp, ok := packagings[conns.PackagingIDFor(level)]; ok {
				p := lp.pkg
				tierPkgs[i] = &p
				tierLevels[i] = lp.level
			}
		}

		// Unlinked or unset multipliers pass units through unchanged.
		qtyPrimaryInSecondary := 1.0
		if tierPkgs[1] != nil && tierPkgs[1].QuantityPrimaryInSecondaryUnit != nil {
			qtyPrimaryInSecondary = *tierPkgs[1].QuantityPrimaryInSecondaryUnit
		}
		qtySecondaryInTertiary := 1.0
		if tierPkgs[2] != nil && tierPkgs[2].QuantitySecondaryInTertiaryUnit != nil {
			qtySecondaryInTertiary = *tierPkgs[2].QuantitySecondaryInTertiaryUnit
		}

		for _, sale := range product.Sales.Data {
			year, ok := sale.Year.Int()
			if !ok {
				continue
			}
			month, ok := sale.Month.Int()
			if !ok || month < 1 || month > 12 || year < 1 || year > 9999 {
				continue
			}
			saleDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
			if !f.StartMonth.IsZero() && saleDate.Before(f.StartMonth) {
				continue
			}
			if !f.EndMonth.IsZero() && saleDate.After(f.EndMonth) {
				continue
			}

			quantity, ok := sale.Quantity.Float64()
			if !ok || quantity == 0 {
				continue
			}

			primaryUnits := quantity
			secondaryUnits := 0.0
			if qtyPrimaryInSecondary > 0 {
				secondaryUnits = math.Ceil(primaryUnits / qtyPrimaryInSecondary)
			}
			tertiaryUnits := 0.0
			if qtySecondaryInTertiary > 0 {
				tertiaryUnits = math.Ceil(secondaryUnits / qtySecondaryInTertiary)
			}
			unitsPerTier := []float64{primaryUnits, secondaryUnits, tertiaryUnits}

			label := saleDate.Format("2006-01")
			if _, ok := trend[label]; !ok {
				byGrade := make(map[string]float64, len(grades))
				for _, g := range grades {
					byGrade[g] = 0
				}
				trend[label] = byGrade
			}

			for i, pkg := range tierPkgs {
				units := unitsPerTier[i]
				if pkg == nil || units == 0 {
					continue
				}
				if !levelAllowed[tierLevels[i]] {
					continue
				}

				grade := normalizeGrade(pkg.Recyclability)
				if _, ok := data.QtyByGrade[grade]; !ok {
					continue
				}

				data.QtyByGrade[grade] += units
				data.WeightKgByGrade[grade] += pkg.UnitWeightGrams() * units
				trend[label][grade] += units
			}
		}
	}

	// Weights accumulate in grams; report kilograms rounded to 2 decimals.
	for g, v := range data.WeightKgByGrade {
		data.WeightKgByGrade[g] = math.Round(v/1000*100) / 100
	}

	labels := make([]string, 0, len(trend))
	for label := range trend {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	data.Trend = make([]TrendPoint, 0, len(labels))
	for _, label := range labels {
		data.Trend = append(data.Trend, TrendPoint{Label: label, ByGrade: trend[label]})
	}

	return &data, nil
}

// normalizeGrade trims and uppercases a stored recyclability value.
func normalizeGrade(raw string) string {
	g := strings.ToUpper(strings.TrimSpace(raw))
	if g == "" {
		return "N/A"
	}
	return g
}
