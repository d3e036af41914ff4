package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/types"
)

// Product material classes.
const (
	MaterialSolid     = "solid"
	MaterialLiquidGas = "liquid/gas"
)

// ProductConnections holds the four link slots of a product. An empty string
// means the slot is unlinked.
type ProductConnections struct {
	PrimaryPackage   string `json:"primary_package"`
	SecondaryPackage string `json:"secondary_package"`
	TertiaryPackage  string `json:"tertiary_package"`
	Customer         string `json:"customer"`
}

// SaleRecord is one sales entry of a product. Values are stored as submitted
// (string or number) and parsed only by the dashboard aggregation.
type SaleRecord struct {
	Year     types.FlexString `json:"year"`
	Month    types.FlexString `json:"month"`
	Quantity types.FlexString `json:"quantity"`
	SkuPrice types.FlexString `json:"sku_price,omitempty"`
}

// Product is a sellable item with optional geometry and per-tier packaging
// links. Dimensions are kept as the raw strings the form submitted; the
// derived volume is recomputed on every write.
type Product struct {
	ID                   string                        `gorm:"type:char(36);primaryKey" json:"_id"`
	OwnerID              string                        `gorm:"type:char(36);not null;index:idx_products_owner_code,unique" json:"owner"`
	ProductCode          string                        `gorm:"size:255;not null;index:idx_products_owner_code,unique" json:"product_code"`
	SecondaryProductCode string                        `gorm:"size:255" json:"secondary_product_code"`
	ProductCategory      string                        `gorm:"size:255" json:"product_category"`
	ProductDescription   string                        `gorm:"size:1024" json:"product_description"`
	ProductMaterial      string                        `gorm:"size:32;not null" json:"product_material"`
	ProductShape         string                        `gorm:"size:32" json:"product_shape,omitempty"`
	Dimensions           JSONField[map[string]string]  `json:"dimensions"`
	VolumeCm3            *float64                      `json:"volume_cm3"`
	ProductVolume        string                        `gorm:"size:64" json:"product_volume,omitempty"`
	Connections          JSONField[ProductConnections] `json:"connections"`
	Sales                JSONField[[]SaleRecord]       `json:"sales"`
	CreatedAt            time.Time                     `json:"-"`
	UpdatedAt            time.Time                     `json:"-"`
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns a uuid primary key when none is set.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PackagingIDFor returns the link slot for the given packaging level.
func (c ProductConnections) PackagingIDFor(level string) string {
	switch level {
	case LevelPrimary:
		return c.PrimaryPackage
	case LevelSecondary:
		return c.SecondaryPackage
	case LevelTertiary:
		return c.TertiaryPackage
	}
	return ""
}

// SetPackagingIDFor sets the link slot for the given packaging level.
func (c *ProductConnections) SetPackagingIDFor(level, id string) {
	switch level {
	case LevelPrimary:
		c.PrimaryPackage = id
	case LevelSecondary:
		c.SecondaryPackage = id
	case LevelTertiary:
		c.TertiaryPackage = id
	}
}
