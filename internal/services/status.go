package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
	"github.com/NurettinDemirhan/ecopacknav/internal/types"
)

// RefGroup is one missing-connection bucket of the product status report.
type RefGroup struct {
	Count    int           `json:"count"`
	Products types.RefList `json:"products"`
}

// PackagingGroup is the missing-supplier bucket of the product status report.
type PackagingGroup struct {
	Count      int           `json:"count"`
	Packagings types.RefList `json:"packagings"`
}

// StatusSummary counts products by connection completeness.
type StatusSummary struct {
	AtRisk     int `json:"at_risk"`
	Incomplete int `json:"incomplete"`
	Compliant  int `json:"compliant"`
}

// ProductStatusReport lists every missing connection slot across the owner's
// products and packagings.
type ProductStatusReport struct {
	Summary          StatusSummary  `json:"summary"`
	MissingPrimary   RefGroup       `json:"missing_primary"`
	MissingSecondary RefGroup       `json:"missing_secondary"`
	MissingTertiary  RefGroup       `json:"missing_tertiary"`
	MissingCustomer  RefGroup       `json:"missing_customer"`
	MissingSupplier  PackagingGroup `json:"missing_supplier"`
}

// GetProductStatus builds the missing-connection report. A product counts as
// at-risk when any of its four slots is unlinked.
func GetProductStatus(db *gorm.DB, ownerID string) (*ProductStatusReport, error) {
	var products []models.Product
	if err := db.Where("owner_id = ?", ownerID).Find(&products).Error; err != nil {
		return nil, err
	}

	report := ProductStatusReport{
		MissingPrimary:   RefGroup{Products: types.RefList{}},
		MissingSecondary: RefGroup{Products: types.RefList{}},
		MissingTertiary:  RefGroup{Products: types.RefList{}},
		MissingCustomer:  RefGroup{Products: types.RefList{}},
		MissingSupplier:  PackagingGroup{Packagings: types.RefList{}},
	}

	atRisk := make(map[string]bool)
	for _, p := range products {
		conns := p.Connections.Data
		ref := types.Ref{ID: p.ID, Code: p.ProductCode}

		if conns.PrimaryPackage == "" {
			report.MissingPrimary.Products = append(report.MissingPrimary.Products, ref)
			atRisk[p.ID] = true
		}
		if conns.SecondaryPackage == "" {
			report.MissingSecondary.Products = append(report.MissingSecondary.Products, ref)
			atRisk[p.ID] = true
		}
		if conns.TertiaryPackage == "" {
			report.MissingTertiary.Products = append(report.MissingTertiary.Products, ref)
			atRisk[p.ID] = true
		}
		if conns.Customer == "" {
			report.MissingCustomer.Products = append(report.MissingCustomer.Products, ref)
			atRisk[p.ID] = true
		}
	}

	pkgs, err := ListPackagings(db, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range pkgs {
		if pkgs[i].Supplier == "" {
			report.MissingSupplier.Packagings = append(report.MissingSupplier.Packagings,
				types.Ref{ID: pkgs[i].ID, Code: pkgs[i].PackageCode})
		}
	}

	report.MissingPrimary.Count = len(report.MissingPrimary.Products)
	report.MissingSecondary.Count = len(report.MissingSecondary.Products)
	report.MissingTertiary.Count = len(report.MissingTertiary.Products)
	report.MissingCustomer.Count = len(report.MissingCustomer.Products)
	report.MissingSupplier.Count = len(report.MissingSupplier.Packagings)

	report.Summary.AtRisk = len(atRisk)
	report.Summary.Incomplete = len(atRisk)
	report.Summary.Compliant = len(products) - len(atRisk)

	return &report, nil
}

// UngradedPackaging is one entry of the missing-recyclability report.
type UngradedPackaging struct {
	ID          string `json:"_id"`
	PackageCode string `json:"package_code"`
	Level       string `json:"level"`
	Material    string `json:"material"`
}

// MissingRecyclabilityReport lists packagings without a recyclability grade.
type MissingRecyclabilityReport struct {
	Count      int                 `json:"count"`
	Packagings []UngradedPackaging `json:"packagings"`
}

// GetMissingRecyclability builds the missing-recyclability report. A grade of
// "—" counts as missing like an empty one.
func GetMissingRecyclability(db *gorm.DB, ownerID string) (*MissingRecyclabilityReport, error) {
	pkgs, err := ListPackagings(db, ownerID)
	if err != nil {
		return nil, err
	}

	report := MissingRecyclabilityReport{Packagings: []UngradedPackaging{}}
	for i := range pkgs {
		grade := strings.TrimSpace(pkgs[i].Recyclability)
		if grade != "" && grade != "—" {
			continue
		}
		report.Packagings = append(report.Packagings, UngradedPackaging{
			ID:          pkgs[i].ID,
			PackageCode: pkgs[i].PackageCode,
			Level:       pkgs[i].Level,
			Material:    pickMaterialText(&pkgs[i]),
		})
	}
	report.Count = len(report.Packagings)
	return &report, nil
}
