package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/adapters/out/postgres/pgerr"
	"canteen/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker collects the orders written through a unit of work so their status
// changes can be handed out once the transaction commits.
type aggregateTracker interface {
	TrackAggregate(aggregate *order.Order)
}

// NewGormOrderRepository creates an order repository on db.
// Every order it writes is handed to tracker.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order and its line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewObjectExistsErrorWithCause("order", aggregate.ID(), err)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}

// Update writes the mutable columns of the order. Line items are left alone.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":                  dto.Status,
			"payment_status":          dto.PaymentStatus,
			"payment_reference":       dto.PaymentReference,
			"estimated_ready_minutes": dto.EstimatedReadyMinutes,
			"retired":                 dto.Retired,
			"updated_at":              dto.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("update order: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) ListByCustomer(ctx context.Context, customer kernel.Phone) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.withItems(ctx).
		Where("customer = ? AND retired = ?", customer.String(), false).
		Order("created_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

func (r *GormOrderRepository) ListByFacility(ctx context.Context, facility string, activeOnly bool) ([]*order.Order, error) {
	query := r.withItems(ctx).Where("facility = ? AND retired = ?", facility, false)
	if activeOnly {
		query = query.Where("status IN ?", []int{int(order.Paid), int(order.InProgress), int(order.Ready)})
	}

	var dtos []OrderDTO
	if err := query.Order("created_at").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

func (r *GormOrderRepository) ListPaymentPendingBefore(ctx context.Context, cutoff time.Time) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("status = ? AND created_at < ?", int(order.PaymentPending), cutoff.UTC()).
		Order("created_at").
		Pluck("id", &raw).Error; err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, id := range raw {
		orderID, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, orderID)
	}
	return ids, nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
