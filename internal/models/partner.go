package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/types"
)

// Partner types.
const (
	PartnerCustomer = "customer"
	PartnerSupplier = "supplier"
)

// Partner is a customer or supplier. Connections is the raw id list of linked
// products (customers) or packagings (suppliers); legacy rows mix encodings,
// so it is decoded tolerantly and always written back as a plain id list.
type Partner struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"_id"`
	OwnerID     string    `gorm:"type:char(36);not null;index" json:"owner"`
	PartnerType string    `gorm:"size:32;not null" json:"partner_type"`
	PartnerName string    `gorm:"size:255;not null" json:"partner_name"`
	Email       string    `gorm:"size:255" json:"email"`
	PhoneNumber string    `gorm:"size:64" json:"phone_number"`
	Address     string    `gorm:"size:1024" json:"address"`
	Country     string    `gorm:"size:128" json:"country"`
	Connections JSON      `json:"connections"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// TableName overrides the table name for Partner
func (Partner) TableName() string {
	return "partners"
}

// BeforeCreate assigns a uuid primary key when none is set.
func (p *Partner) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ConnectionIDs decodes the stored id list tolerantly.
func (p *Partner) ConnectionIDs() []string {
	return types.ParseRefs(p.Connections.JSON).IDs()
}

// SetConnectionIDs replaces the id list, deduplicating while keeping order.
func (p *Partner) SetConnectionIDs(ids []string) {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	b, _ := json.Marshal(out)
	p.Connections = RawJSON(b)
}
