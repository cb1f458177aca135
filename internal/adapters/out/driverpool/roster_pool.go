// Package driverpool provides the candidate selection adapter behind
// ports.CandidatePool. The production deployment ranks nearby drivers in an
// external geolocation service; RosterPool serves the same contract from a
// configured driver roster, handing each offer round to the next driver.
package driverpool

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// RosterPool selects offer candidates from a fixed roster. Round n goes to
// the n-th driver, so every driver gets exactly one round before the pool
// reports no candidates.
type RosterPool struct {
	drivers []kernel.UUID
}

// NewRosterPool creates a pool over the given driver IDs.
func NewRosterPool(drivers []kernel.UUID) *RosterPool {
	return &RosterPool{drivers: drivers}
}

// NewRosterPoolFromStrings parses driver UUIDs and creates a pool over them.
func NewRosterPoolFromStrings(ids []string) (*RosterPool, error) {
	drivers := make([]kernel.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, id)
	}
	return NewRosterPool(drivers), nil
}

// Next returns the candidate for the given offer round.
// Returns ErrNoCandidates once every driver on the roster has had a round.
func (p *RosterPool) Next(_ context.Context, _ kernel.UUID, attempt int) (kernel.UUID, error) {
	if attempt < 1 || attempt > len(p.drivers) {
		return kernel.UUID{}, ports.ErrNoCandidates
	}
	return p.drivers[attempt-1], nil
}
