package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with all its sub-orders and line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, subDTOs, itemDTOs := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&subDTOs).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&itemDTOs).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order under optimistic concurrency. The write
// lands only when the stored version still matches the version the
// aggregate was loaded with; otherwise a Conflict error is returned.
// Sub-orders are rewritten alongside; line items are immutable.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, subDTOs, _ := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("order version", aggregate.ID().String())
	}

	for _, subDTO := range subDTOs {
		err := r.db.WithContext(ctx).Model(&SubOrderDTO{}).
			Where("id = ?", subDTO.ID).
			Select("*").Omit("id", "order_id").
			Updates(&subDTO).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order aggregate by ID with its sub-orders and items.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

// GetBySubOrder retrieves the order aggregate owning the given sub-order.
func (r *GormOrderRepository) GetBySubOrder(ctx context.Context, subOrderID kernel.UUID) (*order.Order, error) {
	if err := subOrderID.Validate(); err != nil {
		return nil, err
	}

	var subDTO SubOrderDTO
	if err := r.db.WithContext(ctx).First(&subDTO, "id = ?", subOrderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("sub_order", subOrderID.String())
		}
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", subDTO.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", subOrderID.String())
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

// load fetches the child rows for an order row and assembles the aggregate.
func (r *GormOrderRepository) load(ctx context.Context, dto OrderDTO) (*order.Order, error) {
	var subDTOs []SubOrderDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", dto.ID).
		Order("id").
		Find(&subDTOs).Error; err != nil {
		return nil, err
	}

	subOrderIDs := make([]any, 0, len(subDTOs))
	for _, subDTO := range subDTOs {
		subOrderIDs = append(subOrderIDs, subDTO.ID)
	}

	var itemDTOs []ItemDTO
	if len(subOrderIDs) > 0 {
		if err := r.db.WithContext(ctx).
			Where("sub_order_id IN ?", subOrderIDs).
			Order("id").
			Find(&itemDTOs).Error; err != nil {
			return nil, err
		}
	}

	return toDomain(dto, subDTOs, itemDTOs)
}
