package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
	"github.com/NurettinDemirhan/ecopacknav/internal/types"
)

// PackagingInput carries the parsed form fields of a packaging create/update.
type PackagingInput struct {
	Level         string
	PackageCode   string
	Recyclability string
	PackageShape  string
	Dimensions    map[string]string
	Materials     []models.Material

	QuantityPrimaryInSecondaryUnit  *float64
	QuantitySecondaryInTertiaryUnit *float64
}

func (in *PackagingInput) validate() (string, error) {
	if in.Level == "" || in.PackageCode == "" {
		return "", fmt.Errorf("%w: level and code are required", ErrValidation)
	}
	table, ok := models.PackagingTable(in.Level)
	if !ok {
		return "", fmt.Errorf("%w: invalid packaging level %q", ErrValidation, in.Level)
	}
	return table, nil
}

// CreatePackaging inserts a new packaging into its tier table.
func CreatePackaging(db *gorm.DB, ownerID string, in PackagingInput) (*models.Packaging, error) {
	table, err := in.validate()
	if err != nil {
		return nil, err
	}

	dims := in.Dimensions
	if dims == nil {
		dims = map[string]string{}
	}
	mats := in.Materials
	if mats == nil {
		mats = []models.Material{}
	}

	pkg := models.Packaging{
		OwnerID:       ownerID,
		PackageCode:   in.PackageCode,
		PackageShape:  in.PackageShape,
		Dimensions:    models.NewJSONField(dims),
		Materials:     models.NewJSONField(mats),
		Recyclability: in.Recyclability,
		VolumeCm3:     VolumeOf(in.PackageShape, dims),
		Level:         in.Level,
	}
	pkg.SetRefs(types.RefList{})

	switch in.Level {
	case models.LevelSecondary:
		pkg.QuantityPrimaryInSecondaryUnit = in.QuantityPrimaryInSecondaryUnit
	case models.LevelTertiary:
		pkg.QuantitySecondaryInTertiaryUnit = in.QuantitySecondaryInTertiaryUnit
	}

	if err := db.Table(table).Create(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

// UpdatePackaging rewrites a packaging's descriptive fields. Connections and
// supplier are left untouched; those change through the linker.
func UpdatePackaging(db *gorm.DB, ownerID, packagingID string, in PackagingInput) (*models.Packaging, error) {
	table, err := in.validate()
	if err != nil {
		return nil, err
	}

	var pkg models.Packaging
	if err := db.Table(table).Where("id = ? AND owner_id = ?", packagingID, ownerID).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	dims := in.Dimensions
	if dims == nil {
		dims = map[string]string{}
	}
	mats := in.Materials
	if mats == nil {
		mats = []models.Material{}
	}

	updates := map[string]interface{}{
		"package_code":  in.PackageCode,
		"package_shape": in.PackageShape,
		"dimensions":    models.NewJSONField(dims),
		"materials":     models.NewJSONField(mats),
		"recyclability": in.Recyclability,
		"volume_cm3":    VolumeOf(in.PackageShape, dims),
	}
	switch in.Level {
	case models.LevelSecondary:
		updates["quantity_primary_in_secondary_unit"] = in.QuantityPrimaryInSecondaryUnit
	case models.LevelTertiary:
		updates["quantity_secondary_in_tertiary_unit"] = in.QuantitySecondaryInTertiaryUnit
	}

	if err := db.Table(table).Where("id = ?", pkg.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	pkg.Level = in.Level
	return &pkg, nil
}

// DeletePackaging removes a packaging after clearing the tier slot of every
// product still pointing at it. Returns the deleted packaging's code.
func DeletePackaging(db *gorm.DB, linker *Linker, ownerID, level, packagingID string) (string, error) {
	table, ok := models.PackagingTable(level)
	if !ok {
		return "", fmt.Errorf("%w: invalid packaging level %q", ErrValidation, level)
	}

	var pkg models.Packaging
	if err := db.Table(table).Where("id = ? AND owner_id = ?", packagingID, ownerID).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if err := linker.UnlinkPackaging(ownerID, level, pkg.ID); err != nil {
		return "", err
	}

	if err := db.Table(table).Where("id = ?", pkg.ID).Delete(&models.Packaging{}).Error; err != nil {
		return "", err
	}
	return pkg.PackageCode, nil
}

// UpdateRecyclability sets only the recyclability grade of one packaging.
// Returns the packaging's code for activity logging.
func UpdateRecyclability(db *gorm.DB, ownerID, level, packagingID, grade string) (string, error) {
	table, ok := models.PackagingTable(level)
	if !ok {
		return "", fmt.Errorf("%w: invalid packaging level %q", ErrValidation, level)
	}

	var pkg models.Packaging
	if err := db.Table(table).Where("id = ? AND owner_id = ?", packagingID, ownerID).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	err := db.Table(table).Where("id = ?", pkg.ID).Update("recyclability", grade).Error
	if err != nil {
		return "", err
	}
	return pkg.PackageCode, nil
}

// ListPackagings returns all packagings of an owner across the three tier
// tables, each tagged with its level.
func ListPackagings(db *gorm.DB, ownerID string) ([]models.Packaging, error) {
	all := []models.Packaging{}
	for _, level := range models.Levels {
		table, _ := models.PackagingTable(level)
		var pkgs []models.Packaging
		if err := db.Table(table).Where("owner_id = ?", ownerID).Find(&pkgs).Error; err != nil {
			return nil, err
		}
		for i := range pkgs {
			pkgs[i].Level = level
		}
		all = append(all, pkgs...)
	}
	return all, nil
}

// PackagingRow is one normalized row of the packaging listing.
type PackagingRow struct {
	ID            string `json:"_id"`
	PackageCode   string `json:"package_code"`
	Level         string `json:"level"`
	ComponentType string `json:"component_type"`
	Material      string `json:"material"`
	Supplier      string `json:"supplier"`
	ProductsUsing int    `json:"products_using"`
	Recyclability string `json:"recyclability"`
}

// ListPackagingRows returns the packaging listing with material, component
// type, and supplier summarized per row.
func ListPackagingRows(db *gorm.DB, ownerID string) ([]PackagingRow, error) {
	pkgs, err := ListPackagings(db, ownerID)
	if err != nil {
		return nil, err
	}

	var partners []models.Partner
	if err := db.Where("owner_id = ?", ownerID).Find(&partners).Error; err != nil {
		return nil, err
	}
	supplierNames := make(map[string]string, len(partners))
	for _, p := range partners {
		supplierNames[p.ID] = p.PartnerName
	}

	rows := make([]PackagingRow, 0, len(pkgs))
	for i := range pkgs {
		pkg := &pkgs[i]
		supplier := "—"
		if name, ok := supplierNames[pkg.Supplier]; ok && pkg.Supplier != "" {
			supplier = name
		}
		recyclability := pkg.Recyclability
		if recyclability == "" {
			recyclability = "—"
		}
		rows = append(rows, PackagingRow{
			ID:            pkg.ID,
			PackageCode:   pkg.PackageCode,
			Level:         pkg.Level,
			ComponentType: pickComponentTypeText(pkg),
			Material:      pickMaterialText(pkg),
			Supplier:      supplier,
			ProductsUsing: len(pkg.Refs()),
			Recyclability: recyclability,
		})
	}
	return rows, nil
}

// PackagingCodeRef is an id/code/level triple for selection lists.
type PackagingCodeRef struct {
	ID          string `json:"_id"`
	PackageCode string `json:"package_code"`
	Level       string `json:"level"`
}

// ListPackagingCodes returns id/code pairs of all packagings of an owner
// across the tiers.
func ListPackagingCodes(db *gorm.DB, ownerID string) ([]PackagingCodeRef, error) {
	pkgs, err := ListPackagings(db, ownerID)
	if err != nil {
		return nil, err
	}
	refs := make([]PackagingCodeRef, 0, len(pkgs))
	for _, p := range pkgs {
		refs = append(refs, PackagingCodeRef{ID: p.ID, PackageCode: p.PackageCode, Level: p.Level})
	}
	return refs, nil
}

// PackagingSummary is the resolved view of one packaging for the detail
// panel.
type PackagingSummary struct {
	ID             string        `json:"_id"`
	PackageCode    string        `json:"package_code"`
	Level          string        `json:"level"`
	ComponentType  string        `json:"component_type"`
	Material       string        `json:"material"`
	Recyclability  string        `json:"recyclability"`
	LinkedProducts types.RefList `json:"linked_products"`
	SupplierID     string        `json:"supplier_id"`
	SupplierName   string        `json:"supplier_name"`
}

// GetPackaging loads one packaging by level and id.
func GetPackaging(db *gorm.DB, ownerID, level, packagingID string) (*models.Packaging, error) {
	table, ok := models.PackagingTable(level)
	if !ok {
		return nil, fmt.Errorf("%w: invalid packaging level %q", ErrValidation, level)
	}
	var pkg models.Packaging
	if err := db.Table(table).Where("id = ? AND owner_id = ?", packagingID, ownerID).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	pkg.Level = level
	return &pkg, nil
}

// GetPackagingSummary loads one packaging and resolves its linked products
// and supplier name. Legacy back-references lacking a product code are
// re-resolved against the products table.
func GetPackagingSummary(db *gorm.DB, ownerID, level, packagingID string) (*PackagingSummary, error) {
	pkg, err := GetPackaging(db, ownerID, level, packagingID)
	if err != nil {
		return nil, err
	}

	linked := types.RefList{}
	var unresolved []string
	for _, ref := range pkg.Refs() {
		if ref.Code != "" {
			linked = append(linked, ref)
		} else {
			unresolved = append(unresolved, ref.ID)
		}
	}
	if len(unresolved) > 0 {
		var products []models.Product
		err := db.Select("id", "product_code").
			Where("owner_id = ? AND id IN ?", ownerID, unresolved).
			Find(&products).Error
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			linked = append(linked, types.Ref{ID: p.ID, Code: p.ProductCode})
		}
	}

	supplierName := "Not linked"
	if pkg.Supplier != "" {
		var partner models.Partner
		err := db.Where("id = ? AND owner_id = ?", pkg.Supplier, ownerID).First(&partner).Error
		if err == nil {
			supplierName = partner.PartnerName
		} else {
			supplierName = "Not Found"
		}
	}

	recyclability := pkg.Recyclability
	if recyclability == "" {
		recyclability = "—"
	}

	return &PackagingSummary{
		ID:             pkg.ID,
		PackageCode:    pkg.PackageCode,
		Level:          level,
		ComponentType:  pickComponentTypeText(pkg),
		Material:       pickMaterialText(pkg),
		Recyclability:  recyclability,
		LinkedProducts: linked,
		SupplierID:     pkg.Supplier,
		SupplierName:   supplierName,
	}, nil
}

// pickMaterialText joins up to three distinct material names of a packaging.
func pickMaterialText(pkg *models.Packaging) string {
	var uniq []string
	seen := make(map[string]bool)
	for _, m := range pkg.Materials.Data {
		name := strings.TrimSpace(m.Material)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		uniq = append(uniq, name)
	}
	if len(uniq) == 0 {
		return "—"
	}
	if len(uniq) > 3 {
		uniq = uniq[:3]
	}
	return strings.Join(uniq, ", ")
}

// pickComponentTypeText joins up to three distinct component types of a
// packaging.
func pickComponentTypeText(pkg *models.Packaging) string {
	var uniq []string
	seen := make(map[string]bool)
	for _, m := range pkg.Materials.Data {
		name := strings.TrimSpace(m.PackageComponent)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		uniq = append(uniq, name)
	}
	if len(uniq) == 0 {
		return "—"
	}
	if len(uniq) > 3 {
		uniq = uniq[:3]
	}
	return strings.Join(uniq, ", ")
}
