package services

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
)

// Activity type vocabulary. The feed UI keys icons off these values.
const (
	ActivityProductCreation   = "product_creation"
	ActivityProductUpdate     = "product_update"
	ActivityProductDeletion   = "product_deletion"
	ActivityPackagingCreation = "packaging_creation"
	ActivityPackagingUpdate   = "packaging_update"
	ActivityPackagingDeletion = "packaging_deletion"
	ActivityPartnerCreation   = "partner_creation"
	ActivityPartnerUpdate     = "partner_update"
	ActivityPartnerDeletion   = "partner_deletion"
	ActivityConnectionUpdate  = "connection_update"
	ActivitySalesAddition     = "sales_addition"
)

// ActivityLogger appends entries to the per-user activity feed. Writes are
// best-effort: a failed insert is logged and never fails the request that
// triggered it.
type ActivityLogger struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewActivityLogger creates an ActivityLogger.
func NewActivityLogger(db *gorm.DB, log *zap.Logger) *ActivityLogger {
	return &ActivityLogger{db: db, log: log}
}

// Log records one activity entry.
func (a *ActivityLogger) Log(ownerID, activityType, description string) {
	entry := models.Activity{
		OwnerID:     ownerID,
		Type:        activityType,
		Description: description,
		Timestamp:   time.Now().UTC(),
	}
	if err := a.db.Create(&entry).Error; err != nil {
		a.log.Warn("activity log write failed",
			zap.String("type", activityType),
			zap.Error(err))
	}
}

// Latest returns the newest activity entries for an owner.
func (a *ActivityLogger) Latest(ownerID string, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	var entries []models.Activity
	err := a.db.Where("owner_id = ?", ownerID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
