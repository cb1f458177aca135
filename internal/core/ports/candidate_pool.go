package ports

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrNoCandidates is returned when the pool has no eligible driver left for
// an order's next offer round.
var ErrNoCandidates = errors.New("no eligible driver candidates")

// CandidatePool selects the driver to receive an order's next delivery
// offer. Implementations rank nearby available drivers; attempt is the
// 1-based number of the round about to be dispatched, so a pool can skip
// drivers already offered in earlier rounds.
type CandidatePool interface {
	Next(ctx context.Context, orderID kernel.UUID, attempt int) (kernel.UUID, error)
}
