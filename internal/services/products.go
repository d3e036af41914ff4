package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
)

// ProductInput carries the parsed form fields of a product create/update.
type ProductInput struct {
	ProductCode          string
	SecondaryProductCode string
	ProductCategory      string
	ProductDescription   string
	ProductMaterial      string
	ProductShape         string
	Dimensions           map[string]string
	ProductVolume        string
}

func (in *ProductInput) validate() error {
	if in.ProductCode == "" || in.ProductMaterial == "" {
		return fmt.Errorf("%w: product code and material are required", ErrValidation)
	}
	return nil
}

// CreateProduct inserts a new product with empty connections and sales.
func CreateProduct(db *gorm.DB, ownerID string, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var count int64
	err := db.Model(&models.Product{}).
		Where("owner_id = ? AND product_code = ?", ownerID, in.ProductCode).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: product code %q already exists", ErrValidation, in.ProductCode)
	}

	product := models.Product{
		OwnerID:              ownerID,
		ProductCode:          in.ProductCode,
		SecondaryProductCode: in.SecondaryProductCode,
		ProductCategory:      in.ProductCategory,
		ProductDescription:   in.ProductDescription,
		ProductMaterial:      in.ProductMaterial,
		Dimensions:           models.NewJSONField(map[string]string{}),
		Connections:          models.NewJSONField(models.ProductConnections{}),
		Sales:                models.NewJSONField([]models.SaleRecord{}),
	}
	applyGeometry(&product, in)

	if err := db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct rewrites a product's descriptive fields. Geometry is rebuilt
// from scratch so a material change clears the stale shape or volume. When
// the product code changes, the denormalized code in packaging
// back-references is refreshed through the linker.
func UpdateProduct(db *gorm.DB, linker *Linker, ownerID, productID string, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var product models.Product
	if err := db.Where("id = ? AND owner_id = ?", productID, ownerID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	codeChanged := product.ProductCode != in.ProductCode

	product.ProductCode = in.ProductCode
	product.SecondaryProductCode = in.SecondaryProductCode
	product.ProductCategory = in.ProductCategory
	product.ProductDescription = in.ProductDescription
	product.ProductMaterial = in.ProductMaterial
	product.ProductShape = ""
	product.Dimensions = models.NewJSONField(map[string]string{})
	product.VolumeCm3 = nil
	product.ProductVolume = ""
	applyGeometry(&product, in)

	updates := map[string]interface{}{
		"product_code":           product.ProductCode,
		"secondary_product_code": product.SecondaryProductCode,
		"product_category":       product.ProductCategory,
		"product_description":    product.ProductDescription,
		"product_material":       product.ProductMaterial,
		"product_shape":          product.ProductShape,
		"dimensions":             product.Dimensions,
		"volume_cm3":             product.VolumeCm3,
		"product_volume":         product.ProductVolume,
	}
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	if codeChanged {
		linker.RefreshProductCode(ownerID, product.ID, product.ProductCode)
	}

	return &product, nil
}

// applyGeometry fills the material-dependent fields of a product.
func applyGeometry(product *models.Product, in ProductInput) {
	switch in.ProductMaterial {
	case models.MaterialSolid:
		product.ProductShape = in.ProductShape
		dims := in.Dimensions
		if dims == nil {
			dims = map[string]string{}
		}
		product.Dimensions = models.NewJSONField(dims)
		product.VolumeCm3 = VolumeOf(in.ProductShape, dims)
	case models.MaterialLiquidGas:
		product.ProductVolume = in.ProductVolume
	}
}

// DeleteProduct removes a product after unlinking its packaging and customer
// back-references. Returns the deleted product's code.
func DeleteProduct(db *gorm.DB, linker *Linker, ownerID, productID string) (string, error) {
	var product models.Product
	if err := db.Where("id = ? AND owner_id = ?", productID, ownerID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	linker.UnlinkProduct(ownerID, &product)

	if err := db.Delete(&models.Product{}, "id = ?", product.ID).Error; err != nil {
		return "", err
	}
	return product.ProductCode, nil
}

// ProductOverview is one row of the product listing.
type ProductOverview struct {
	models.Product
	PackagingStatus      string `json:"packaging_status"`
	PackagingStatusColor string `json:"packaging_status_color"`
}

// ListProducts returns all products of an owner ordered by code, with a
// per-product packaging completeness status.
func ListProducts(db *gorm.DB, ownerID string) ([]ProductOverview, error) {
	var products []models.Product
	err := db.Where("owner_id = ?", ownerID).Order("product_code").Find(&products).Error
	if err != nil {
		return nil, err
	}

	overviews := make([]ProductOverview, 0, len(products))
	for _, p := range products {
		conns := p.Connections.Data
		missing := 0
		for _, level := range models.Levels {
			if conns.PackagingIDFor(level) == "" {
				missing++
			}
		}
		row := ProductOverview{Product: p}
		if missing == 0 {
			row.PackagingStatus = "Connected"
			row.PackagingStatusColor = "green"
		} else {
			row.PackagingStatus = fmt.Sprintf("Missing (%d)", missing)
			row.PackagingStatusColor = "red"
		}
		overviews = append(overviews, row)
	}
	return overviews, nil
}

// ProductCodeRef is an id/code pair for selection lists.
type ProductCodeRef struct {
	ID          string `json:"_id"`
	ProductCode string `json:"product_code"`
}

// ListProductCodes returns id/code pairs of all products of an owner.
func ListProductCodes(db *gorm.DB, ownerID string) ([]ProductCodeRef, error) {
	var products []models.Product
	err := db.Select("id", "product_code").
		Where("owner_id = ?", ownerID).
		Order("product_code").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	refs := make([]ProductCodeRef, 0, len(products))
	for _, p := range products {
		refs = append(refs, ProductCodeRef{ID: p.ID, ProductCode: p.ProductCode})
	}
	return refs, nil
}

// LinkedPackagingInfo summarizes one connected packaging on the product
// detail view.
type LinkedPackagingInfo struct {
	Code          string `json:"code"`
	Level         string `json:"level"`
	Recyclability string `json:"recyclability"`
}

// ProductDetail is a product with its connections resolved to names.
type ProductDetail struct {
	models.Product
	Packaging    []LinkedPackagingInfo `json:"packaging"`
	CustomerName string                `json:"customer_name,omitempty"`
}

// GetProductDetail loads one product and resolves its linked packagings and
// customer. Dangling links are silently omitted.
func GetProductDetail(db *gorm.DB, ownerID, productID string) (*ProductDetail, error) {
	var product models.Product
	if err := db.Where("id = ? AND owner_id = ?", productID, ownerID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	detail := ProductDetail{Product: product, Packaging: []LinkedPackagingInfo{}}
	conns := product.Connections.Data

	for _, level := range models.Levels {
		pkgID := conns.PackagingIDFor(level)
		if pkgID == "" {
			continue
		}
		table, _ := models.PackagingTable(level)
		var pkg models.Packaging
		err := db.Table(table).Where("id = ? AND owner_id = ?", pkgID, ownerID).First(&pkg).Error
		if err != nil {
			continue
		}
		recyclability := pkg.Recyclability
		if recyclability == "" {
			recyclability = "N/A"
		}
		detail.Packaging = append(detail.Packaging, LinkedPackagingInfo{
			Code:          pkg.PackageCode,
			Level:         level,
			Recyclability: recyclability,
		})
	}

	if conns.Customer != "" {
		var partner models.Partner
		err := db.Where("id = ? AND owner_id = ?", conns.Customer, ownerID).First(&partner).Error
		if err != nil {
			detail.CustomerName = "Not Found"
		} else {
			detail.CustomerName = partner.PartnerName
		}
	}

	return &detail, nil
}
