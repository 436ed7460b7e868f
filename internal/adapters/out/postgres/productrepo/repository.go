package productrepo

import (
	"context"
	"errors"
	"fmt"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/adapters/out/postgres/pgerr"
	"canteen/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ports.ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a product repository on db, which may be a transaction.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Add(ctx context.Context, aggregate *product.Product) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewObjectExistsErrorWithCause("product", aggregate.ID(), err)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update writes the product with a compare-and-set on the version column. When no row
// matches, the product either does not exist or was written by someone else since it
// was read.
func (r *GormProductRepository) Update(ctx context.Context, aggregate *product.Product) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Updates(map[string]any{
			"name":           dto.Name,
			"facility":       dto.Facility,
			"price":          dto.Price,
			"available":      dto.Available,
			"stock_managed":  dto.StockManaged,
			"stock_count":    dto.StockCount,
			"stock_capacity": dto.StockCapacity,
			"version":        aggregate.Version() + 1,
		})
	if result.Error != nil {
		return fmt.Errorf("update product: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&ProductDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("check product: %w", err)
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("product", aggregate.ID().String())
		}
		return errs.NewVersionIsInvalidErrorWithCause(
			"product", fmt.Errorf("%s was changed by another transaction", aggregate.Name()),
		)
	}

	aggregate.AdvanceVersion()
	return nil
}

func (r *GormProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetMany loads all products in one query and returns them in the order of ids.
func (r *GormProductRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*product.Product, error) {
	if len(ids) == 0 {
		return []*product.Product{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]ProductDTO, len(dtos))
	for _, dto := range dtos {
		byID[dto.ID] = dto
	}

	products := make([]*product.Product, 0, len(ids))
	for _, id := range ids {
		dto, ok := byID[id.Bytes()]
		if !ok {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *GormProductRepository) ListByFacility(ctx context.Context, facility string) ([]*product.Product, error) {
	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).
		Where("facility = ?", facility).
		Order("name").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	products := make([]*product.Product, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
