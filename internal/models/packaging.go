package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/types"
)

// Packaging tier names as they appear in forms and API payloads.
const (
	LevelPrimary   = "Primary"
	LevelSecondary = "Secondary"
	LevelTertiary  = "Tertiary"
)

// Levels lists the packaging tiers in containment order.
var Levels = []string{LevelPrimary, LevelSecondary, LevelTertiary}

// PackagingTable maps a tier name to its table.
func PackagingTable(level string) (string, bool) {
	switch level {
	case LevelPrimary:
		return "primary_packagings", true
	case LevelSecondary:
		return "secondary_packagings", true
	case LevelTertiary:
		return "tertiary_packagings", true
	}
	return "", false
}

// Material is one component line of a packaging's bill of materials.
type Material struct {
	PackageComponent string   `json:"package_component"`
	Material         string   `json:"material"`
	WeightGrams      *float64 `json:"weight_grams"`
	RecycledContent  *float64 `json:"recycled_content"`
	ThicknessMicrons *float64 `json:"thickness_microns"`
	AdhesiveType     string   `json:"adhesive_type"`
	FoodContact      string   `json:"food_contact"`
	Coating          string   `json:"coating"`
}

// Packaging is one packaging unit. The same model backs all three tier
// tables; queries select the table with PackagingTable. Connections is the
// raw back-reference list to products, kept as stored because legacy rows mix
// encodings (decode with Refs, write back with SetRefs).
type Packaging struct {
	ID            string                       `gorm:"type:char(36);primaryKey" json:"_id"`
	OwnerID       string                       `gorm:"type:char(36);not null;index" json:"owner"`
	PackageCode   string                       `gorm:"size:255;not null" json:"package_code"`
	PackageShape  string                       `gorm:"size:32" json:"package_shape,omitempty"`
	Dimensions    JSONField[map[string]string] `json:"dimensions"`
	VolumeCm3     *float64                     `json:"volume_cm3"`
	Materials     JSONField[[]Material]        `json:"materials"`
	Recyclability string                       `gorm:"size:8" json:"recyclability"`
	Supplier      string                       `gorm:"type:char(36)" json:"supplier,omitempty"`
	Connections   JSON                         `json:"connections"`

	// Unit-conversion multipliers; only the one matching the tier is used.
	QuantityPrimaryInSecondaryUnit  *float64 `json:"quantity_primary_in_secondary_unit,omitempty"`
	QuantitySecondaryInTertiaryUnit *float64 `json:"quantity_secondary_in_tertiary_unit,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Level is filled in by services when rows from several tables are
	// combined; it is not a column.
	Level string `gorm:"-" json:"level,omitempty"`
}

// BeforeCreate assigns a uuid primary key when none is set.
func (p *Packaging) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Refs decodes the stored back-reference list tolerantly.
func (p *Packaging) Refs() types.RefList {
	return types.ParseRefs(p.Connections.JSON)
}

// SetRefs replaces the back-reference list with the canonical encoding.
func (p *Packaging) SetRefs(refs types.RefList) {
	if refs == nil {
		refs = types.RefList{}
	}
	b, _ := json.Marshal(refs)
	p.Connections = RawJSON(b)
}

// UnitWeightGrams sums the material component weights of one unit.
func (p *Packaging) UnitWeightGrams() float64 {
	var total float64
	for _, m := range p.Materials.Data {
		if m.WeightGrams != nil {
			total += *m.WeightGrams
		}
	}
	return total
}
