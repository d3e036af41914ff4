package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
	"github.com/NurettinDemirhan/ecopacknav/internal/types"
)

// SaleUpdate carries a partial sales record update; nil fields are left
// unchanged.
type SaleUpdate struct {
	Year     *types.FlexString `json:"year"`
	Month    *types.FlexString `json:"month"`
	Quantity *types.FlexString `json:"quantity"`
	SkuPrice *types.FlexString `json:"sku_price"`
}

func loadProductForSales(db *gorm.DB, ownerID, productID string) (*models.Product, error) {
	var product models.Product
	if err := db.Where("id = ? AND owner_id = ?", productID, ownerID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func saveSales(db *gorm.DB, productID string, sales []models.SaleRecord) error {
	return db.Model(&models.Product{}).Where("id = ?", productID).
		Update("sales", models.NewJSONField(sales)).Error
}

// GetSales returns the sales records of a product.
func GetSales(db *gorm.DB, ownerID, productID string) ([]models.SaleRecord, error) {
	product, err := loadProductForSales(db, ownerID, productID)
	if err != nil {
		return nil, err
	}
	sales := product.Sales.Data
	if sales == nil {
		sales = []models.SaleRecord{}
	}
	return sales, nil
}

// AddSale appends a sales record to a product. Year, month, and quantity are
// required; values are stored as submitted. Returns the product code for
// activity logging.
func AddSale(db *gorm.DB, ownerID, productID string, record models.SaleRecord) (string, error) {
	if record.Year == "" || record.Month == "" || record.Quantity == "" {
		return "", fmt.Errorf("%w: year, month, and quantity are required", ErrValidation)
	}

	product, err := loadProductForSales(db, ownerID, productID)
	if err != nil {
		return "", err
	}

	sales := append(product.Sales.Data, record)
	if err := saveSales(db, product.ID, sales); err != nil {
		return "", err
	}
	return product.ProductCode, nil
}

// UpdateSale applies a partial update to the sales record at index.
func UpdateSale(db *gorm.DB, ownerID, productID string, index int, update SaleUpdate) error {
	product, err := loadProductForSales(db, ownerID, productID)
	if err != nil {
		return err
	}

	sales := product.Sales.Data
	if index < 0 || index >= len(sales) {
		return fmt.Errorf("%w: invalid sale index", ErrValidation)
	}

	if update.Year == nil && update.Month == nil && update.Quantity == nil && update.SkuPrice == nil {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	if update.Year != nil {
		sales[index].Year = *update.Year
	}
	if update.Month != nil {
		sales[index].Month = *update.Month
	}
	if update.Quantity != nil {
		sales[index].Quantity = *update.Quantity
	}
	if update.SkuPrice != nil {
		sales[index].SkuPrice = *update.SkuPrice
	}

	return saveSales(db, product.ID, sales)
}

// DeleteSale removes the sales record at index.
func DeleteSale(db *gorm.DB, ownerID, productID string, index int) error {
	product, err := loadProductForSales(db, ownerID, productID)
	if err != nil {
		return err
	}

	sales := product.Sales.Data
	if index < 0 || index >= len(sales) {
		return fmt.Errorf("%w: invalid sale index", ErrValidation)
	}

	sales = append(sales[:index], sales[index+1:]...)
	return saveSales(db, product.ID, sales)
}
