package ports

import (
	"context"
	"field-route-service/internal/domain"
)

// Contract for an external route-optimization service.
//
// Implementations may fail for network or payload reasons; callers are
// expected to fall back to the local heuristic rather than surface the
// error, since planning must work fully offline.
type OptimizationProvider interface {
	// Optimize returns a visit order over points, starting at index 0,
	// with total distance and estimated duration.
	Optimize(ctx context.Context, points []domain.Coordinates) (domain.Tour, error)
}
