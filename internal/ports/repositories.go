package ports

import (
	"context"
	"field-route-service/internal/domain"
)

// Port: boundary for Route persistence.
type RouteRepository interface {
	// Create stores a new route; returns ErrRouteExists when a route
	// already exists for the same user and date.
	Create(ctx context.Context, route *domain.Route) error
	// Get returns ErrNotFound when no route has the given id.
	Get(ctx context.Context, id string) (*domain.Route, error)
	Update(ctx context.Context, route *domain.Route) error
}

// Port: boundary for Stop persistence.
type StopRepository interface {
	Create(ctx context.Context, stop *domain.Stop) error
	Get(ctx context.Context, id string) (*domain.Stop, error)
	// ListByRoute returns the route's stops ordered by visit order.
	ListByRoute(ctx context.Context, routeID string) ([]*domain.Stop, error)
	Update(ctx context.Context, stop *domain.Stop) error
	// Delete removes the stop permanently (stops are not soft-deleted).
	Delete(ctx context.Context, id string) error
}

// Port: boundary for QuestionResponse persistence.
type ResponseRepository interface {
	// Upsert inserts or replaces the response for (StopID, QuestionID).
	Upsert(ctx context.Context, resp *domain.QuestionResponse) error
	ListByRoute(ctx context.Context, routeID string) ([]*domain.QuestionResponse, error)
	ListByStop(ctx context.Context, stopID string) ([]*domain.QuestionResponse, error)
}

// Port: boundary for DayReport persistence.
type ReportRepository interface {
	// Save inserts the report, or replaces the existing report for the
	// same route in a single transaction.
	Save(ctx context.Context, report *domain.DayReport) error
	// GetByRoute returns ErrNotFound when the route has no report yet.
	GetByRoute(ctx context.Context, routeID string) (*domain.DayReport, error)
}

// Port: boundary for question template retrieval.
type QuestionRepository interface {
	Get(ctx context.Context, id string) (*domain.QuestionTemplate, error)
	// ListActive returns active templates ordered by sort order.
	ListActive(ctx context.Context) ([]*domain.QuestionTemplate, error)
}
