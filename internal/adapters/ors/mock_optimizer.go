package ors

import (
	"context"

	"field-route-service/internal/domain"
)

// MockOptimizer returns a canned tour or error, for tests.
type MockOptimizer struct {
	Tour  domain.Tour
	Err   error
	Calls int
}

func (m *MockOptimizer) Optimize(ctx context.Context, points []domain.Coordinates) (domain.Tour, error) {
	m.Calls++
	if m.Err != nil {
		return domain.Tour{}, m.Err
	}
	return m.Tour, nil
}
