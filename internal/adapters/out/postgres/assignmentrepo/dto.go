// Package assignmentrepo provides persistence for driver assignments.
// One row exists per order; the version column backs the compare-and-swap
// write that resolves races between competing drivers.
package assignmentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database row for a driver assignment.
type AssignmentDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	DriverID     *uuid.UUID `gorm:"type:uuid;index"`
	Status       int        `gorm:"index"`
	OfferedAt    *time.Time
	RespondedAt  *time.Time
	ExpiresAt    *time.Time
	AttemptCount int
	Version      int
}

// TableName specifies the database table name for assignment rows.
func (AssignmentDTO) TableName() string {
	return "driver_assignments"
}

func fromDomain(aggregate *assignment.Assignment) AssignmentDTO {
	var driverID *uuid.UUID
	if id := aggregate.DriverID(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	return AssignmentDTO{
		ID:           aggregate.ID().Bytes(),
		OrderID:      aggregate.OrderID().Bytes(),
		DriverID:     driverID,
		Status:       int(aggregate.Status()),
		OfferedAt:    aggregate.OfferedAt(),
		RespondedAt:  aggregate.RespondedAt(),
		ExpiresAt:    aggregate.ExpiresAt(),
		AttemptCount: aggregate.AttemptCount(),
		Version:      aggregate.Version(),
	}
}

func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	return assignment.RestoreAssignment(
		id,
		orderID,
		driverID,
		assignment.Status(dto.Status),
		dto.OfferedAt,
		dto.RespondedAt,
		dto.ExpiresAt,
		dto.AttemptCount,
		dto.Version,
	)
}
