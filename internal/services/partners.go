package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
)

// PartnerInput carries the parsed form fields of a partner create/update.
type PartnerInput struct {
	PartnerType string
	PartnerName string
	Email       string
	PhoneNumber string
	Address     string
	Country     string
}

// CreatePartner inserts a new partner with an empty connection list.
func CreatePartner(db *gorm.DB, ownerID string, in PartnerInput) (*models.Partner, error) {
	if in.PartnerType == "" || in.PartnerName == "" {
		return nil, fmt.Errorf("%w: partner type and name are required", ErrValidation)
	}

	partner := models.Partner{
		OwnerID:     ownerID,
		PartnerType: in.PartnerType,
		PartnerName: in.PartnerName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		Country:     in.Country,
	}
	partner.SetConnectionIDs(nil)

	if err := db.Create(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// UpdatePartner rewrites a partner's descriptive fields. Connections change
// through the linker only.
func UpdatePartner(db *gorm.DB, ownerID, partnerID string, in PartnerInput) (*models.Partner, error) {
	if in.PartnerName == "" {
		return nil, fmt.Errorf("%w: partner name is required", ErrValidation)
	}

	var partner models.Partner
	if err := db.Where("id = ? AND owner_id = ?", partnerID, ownerID).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"partner_name": in.PartnerName,
		"partner_type": in.PartnerType,
		"email":        in.Email,
		"phone_number": in.PhoneNumber,
		"address":      in.Address,
		"country":      in.Country,
	}
	if err := db.Model(&models.Partner{}).Where("id = ?", partner.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	partner.PartnerName = in.PartnerName
	return &partner, nil
}

// DeletePartner removes a partner after clearing every product customer slot
// and packaging supplier field pointing at it. Returns the deleted partner's
// name.
func DeletePartner(db *gorm.DB, linker *Linker, ownerID, partnerID string) (string, error) {
	var partner models.Partner
	if err := db.Where("id = ? AND owner_id = ?", partnerID, ownerID).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if err := linker.UnlinkPartner(ownerID, partner.ID); err != nil {
		return "", err
	}

	if err := db.Delete(&models.Partner{}, "id = ?", partner.ID).Error; err != nil {
		return "", err
	}
	return partner.PartnerName, nil
}

// ListPartners returns all partners of an owner.
func ListPartners(db *gorm.DB, ownerID string) ([]models.Partner, error) {
	var partners []models.Partner
	err := db.Where("owner_id = ?", ownerID).Order("partner_name").Find(&partners).Error
	return partners, err
}

// ConnectedItem is one resolved entry of a partner's connection list.
type ConnectedItem struct {
	ID    string `json:"_id"`
	Code  string `json:"code"`
	Type  string `json:"type"`
	Level string `json:"level,omitempty"`
}

// PartnerDetail is a partner with its connection list resolved to codes.
type PartnerDetail struct {
	models.Partner
	ConnectionsDetailed []ConnectedItem `json:"connections_detailed"`
}

// GetPartnerDetail loads one partner and resolves its linked products or
// packagings. Dangling ids are omitted.
func GetPartnerDetail(db *gorm.DB, ownerID, partnerID string) (*PartnerDetail, error) {
	var partner models.Partner
	if err := db.Where("id = ? AND owner_id = ?", partnerID, ownerID).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	detail := PartnerDetail{Partner: partner, ConnectionsDetailed: []ConnectedItem{}}
	ids := partner.ConnectionIDs()
	if len(ids) == 0 {
		return &detail, nil
	}

	switch partner.PartnerType {
	case models.PartnerCustomer:
		var products []models.Product
		err := db.Select("id", "product_code").
			Where("owner_id = ? AND id IN ?", ownerID, ids).
			Find(&products).Error
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			detail.ConnectionsDetailed = append(detail.ConnectionsDetailed, ConnectedItem{
				ID:   p.ID,
				Code: p.ProductCode,
				Type: "Product",
			})
		}
	case models.PartnerSupplier:
		for _, level := range models.Levels {
			table, _ := models.PackagingTable(level)
			var pkgs []models.Packaging
			err := db.Table(table).Select("id", "package_code").
				Where("owner_id = ? AND id IN ?", ownerID, ids).
				Find(&pkgs).Error
			if err != nil {
				return nil, err
			}
			for _, pkg := range pkgs {
				detail.ConnectionsDetailed = append(detail.ConnectionsDetailed, ConnectedItem{
					ID:    pkg.ID,
					Code:  pkg.PackageCode,
					Type:  "Packaging",
					Level: level,
				})
			}
		}
	}

	return &detail, nil
}
