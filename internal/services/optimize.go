package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"field-route-service/internal/domain"
	"field-route-service/internal/ports"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// OptimizeRoute produces a visit order over points.
//
// The primary path asks the external optimization provider; any
// failure (network error, malformed response, invalid order) is logged
// and silently substituted with the local nearest-neighbor fallback,
// never surfaced to the caller. A nil provider goes straight to the
// fallback, which is the fully-offline mode.
func OptimizeRoute(ctx context.Context, points []domain.Coordinates, provider ports.OptimizationProvider) domain.Tour {
	if provider == nil {
		return NearestNeighborTour(points)
	}

	tour, err := provider.Optimize(ctx, points)
	if err != nil {
		log.Printf("optimize route: provider failed, using local fallback: %v", err)
		return NearestNeighborTour(points)
	}

	if err := validateTourOrder(tour.Order, len(points)); err != nil {
		log.Printf("optimize route: provider returned invalid order, using local fallback: %v", err)
		return NearestNeighborTour(points)
	}

	return tour
}

// validateTourOrder checks that order is a permutation of [0..n-1]
// beginning at index 0.
func validateTourOrder(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("order has %d entries, want %d", len(order), n)
	}
	if n == 0 {
		return nil
	}
	if order[0] != 0 {
		return fmt.Errorf("order must start at index 0, got %d", order[0])
	}

	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n {
			return fmt.Errorf("order index %d out of range [0, %d)", idx, n)
		}
		if seen[idx] {
			return fmt.Errorf("order repeats index %d", idx)
		}
		seen[idx] = true
	}

	return nil
}

// ApplyTour rewrites stop visit orders and route totals from a tour
// computed over the stops in their current order.
//
// Only legal while the route is still in planning: reordering an
// active or finished route would invalidate recorded visit data.
func ApplyTour(route *domain.Route, stops []*domain.Stop, tour domain.Tour) error {
	if route.Status != domain.RoutePlanning {
		return fmt.Errorf("apply tour: route %s is %s: %w", route.ID, route.Status, ErrInvalidTransition)
	}
	if err := validateTourOrder(tour.Order, len(stops)); err != nil {
		return fmt.Errorf("apply tour: %w", err)
	}

	for pos, idx := range tour.Order {
		stops[idx].Order = pos
	}

	route.TotalDistanceMeters = tour.TotalDistanceMeters
	route.TotalDurationSeconds = tour.TotalDurationSeconds

	return nil
}
