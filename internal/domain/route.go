package domain

import "time"

// Lifecycle state of a route.
//
// planning -> active -> completed; cancelled is terminal from any
// non-completed state.
type RouteStatus string

const (
	RoutePlanning  RouteStatus = "planning"
	RouteActive    RouteStatus = "active"
	RouteCompleted RouteStatus = "completed"
	RouteCancelled RouteStatus = "cancelled"
)

func (s RouteStatus) Valid() bool {
	switch s {
	case RoutePlanning, RouteActive, RouteCompleted, RouteCancelled:
		return true
	}
	return false
}

func (s RouteStatus) CanTransitionTo(next RouteStatus) bool {
	switch s {
	case RoutePlanning:
		return next == RouteActive || next == RouteCancelled
	case RouteActive:
		return next == RouteCompleted || next == RouteCancelled
	default:
		return false
	}
}

// Represents one day's plan for one user.
//
// At most one route exists per (UserID, Date); Date is a civil date in
// YYYY-MM-DD form. TotalDistanceMeters and TotalDurationSeconds are the
// optimizer's estimates for the planned visit order.
type Route struct {
	ID                   string
	UserID               string
	Date                 string
	Status               RouteStatus
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
	StartedAt            *time.Time
	CompletedAt          *time.Time
}

// Ordered visit sequence produced by an optimizer.
//
// Order is a permutation of [0..n-1] over the input points, always
// beginning at index 0 (the fixed starting point). It is immutable
// planning data and contains no side effects.
type Tour struct {
	Order                []int
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
}
