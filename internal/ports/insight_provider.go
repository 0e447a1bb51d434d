package ports

import (
	"context"
	"field-route-service/internal/domain"
)

// Optional contract for an external narrative-insight service.
//
// When absent or failing, report generation proceeds with the local
// rule-based observations alone.
type InsightProvider interface {
	Observations(
		ctx context.Context,
		route *domain.Route,
		stops []*domain.Stop,
		responses []*domain.QuestionResponse,
	) ([]string, error)
}
