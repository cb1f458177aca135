package assignmentrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAssignmentRepository {
	return &GormAssignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new assignment to the database.
func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an assignment with a compare-and-swap on the version column.
// When two drivers race on the same offer exactly one write matches the
// loaded version; every other caller gets a Conflict error and must reload.
func (r *GormAssignmentRepository) Update(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").Omit("id", "order_id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("assignment version", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByOrder retrieves the assignment for the given order.
func (r *GormAssignmentRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.Assignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetOfferable retrieves every assignment that needs poller attention at the
// given instant: rows awaiting a first or repeat offer, and offered rows
// whose window has already closed. Assignments whose order is already
// terminal are skipped.
func (r *GormAssignmentRepository) GetOfferable(ctx context.Context, now time.Time) ([]*assignment.Assignment, error) {
	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = driver_assignments.order_id").
		Where("orders.status NOT IN ?", []int{int(order.Delivered), int(order.Cancelled)}).
		Where(
			r.db.Where("driver_assignments.status IN ?", []int{
				int(assignment.Unassigned),
				int(assignment.Rejected),
				int(assignment.Expired),
			}).Or(
				"driver_assignments.status = ? AND driver_assignments.expires_at < ?",
				int(assignment.Offered), now,
			),
		).
		Order("driver_assignments.id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	assignments := make([]*assignment.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		a, dtoErr := toDomain(dto)
		if dtoErr != nil {
			return nil, dtoErr
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}
