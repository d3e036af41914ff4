package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LookupKind selects one of the per-owner reference lists maintained on the
// data setup page.
type LookupKind string

// Lookup kinds as they appear in API payloads.
const (
	LookupComponentType LookupKind = "component_type"
	LookupAdhesive      LookupKind = "adhesive"
	LookupFoodContact   LookupKind = "food_contact"
	LookupCoating       LookupKind = "coating"
)

// LookupKinds lists all lookup kinds.
var LookupKinds = []LookupKind{
	LookupComponentType,
	LookupAdhesive,
	LookupFoodContact,
	LookupCoating,
}

// Table maps a lookup kind to its table.
func (k LookupKind) Table() (string, bool) {
	switch k {
	case LookupComponentType:
		return "component_types", true
	case LookupAdhesive:
		return "adhesives", true
	case LookupFoodContact:
		return "food_contacts", true
	case LookupCoating:
		return "coatings", true
	}
	return "", false
}

// LookupItem is one named entry in a lookup list. The same model backs all
// four tables; name uniqueness per owner is enforced by the service layer.
type LookupItem struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"_id"`
	OwnerID   string    `gorm:"type:char(36);not null;index" json:"owner"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a uuid primary key when none is set.
func (l *LookupItem) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
