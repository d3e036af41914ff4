package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
)

func lookupTable(kind models.LookupKind) (string, error) {
	table, ok := kind.Table()
	if !ok {
		return "", fmt.Errorf("%w: invalid item type %q", ErrValidation, kind)
	}
	return table, nil
}

// ListLookupItems returns one lookup list of an owner sorted by name.
func ListLookupItems(db *gorm.DB, ownerID string, kind models.LookupKind) ([]models.LookupItem, error) {
	table, err := lookupTable(kind)
	if err != nil {
		return nil, err
	}
	var items []models.LookupItem
	err = db.Table(table).Where("owner_id = ?", ownerID).Order("name").Find(&items).Error
	return items, err
}

// ListAllLookupItems returns every lookup list of an owner keyed by kind.
func ListAllLookupItems(db *gorm.DB, ownerID string) (map[models.LookupKind][]models.LookupItem, error) {
	out := make(map[models.LookupKind][]models.LookupItem, len(models.LookupKinds))
	for _, kind := range models.LookupKinds {
		items, err := ListLookupItems(db, ownerID, kind)
		if err != nil {
			return nil, err
		}
		out[kind] = items
	}
	return out, nil
}

// CreateLookupItem adds a named entry to one lookup list. Names are unique
// per owner within a list.
func CreateLookupItem(db *gorm.DB, ownerID string, kind models.LookupKind, name string) (*models.LookupItem, error) {
	table, err := lookupTable(kind)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	var count int64
	err = db.Table(table).Where("owner_id = ? AND name = ?", ownerID, name).Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: this name already exists", ErrValidation)
	}

	item := models.LookupItem{OwnerID: ownerID, Name: name}
	if err := db.Table(table).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateLookupItem renames an entry, keeping per-owner uniqueness.
func UpdateLookupItem(db *gorm.DB, ownerID string, kind models.LookupKind, itemID, name string) error {
	table, err := lookupTable(kind)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	var item models.LookupItem
	if err := db.Table(table).Where("id = ? AND owner_id = ?", itemID, ownerID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var count int64
	err = db.Table(table).
		Where("owner_id = ? AND name = ? AND id <> ?", ownerID, name, item.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: this name already exists", ErrValidation)
	}

	return db.Table(table).Where("id = ?", item.ID).Update("name", name).Error
}

// DeleteLookupItem removes an entry.
func DeleteLookupItem(db *gorm.DB, ownerID string, kind models.LookupKind, itemID string) error {
	table, err := lookupTable(kind)
	if err != nil {
		return err
	}
	result := db.Table(table).Where("id = ? AND owner_id = ?", itemID, ownerID).Delete(&models.LookupItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
