// Package productrepo persists catalog products. Stock counts live on the product row
// together with a version column that guards every update.
package productrepo

import (
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO is the products table. The (facility, name) index serves menu listings.
type ProductDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name          string          `gorm:"type:varchar(255);not null;index:idx_products_facility_name,priority:2"`
	Facility      string          `gorm:"type:varchar(255);not null;index:idx_products_facility_name,priority:1"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Available     bool            `gorm:"not null"`
	StockManaged  bool            `gorm:"not null"`
	StockCount    int             `gorm:"type:int;not null;check:stock_count >= 0"`
	StockCapacity int             `gorm:"type:int;not null"`
	Version       int             `gorm:"type:int;not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p *product.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID().Bytes(),
		Name:          p.Name(),
		Facility:      p.Facility(),
		Price:         p.Price().Decimal(),
		Available:     p.IsAvailable(),
		StockManaged:  p.IsStockManaged(),
		StockCount:    p.StockCount(),
		StockCapacity: p.StockCapacity(),
		Version:       p.Version(),
	}
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}

	return product.RestoreProduct(
		id,
		dto.Name,
		dto.Facility,
		price,
		dto.Available,
		dto.StockManaged,
		dto.StockCount,
		dto.StockCapacity,
		dto.Version,
	)
}
