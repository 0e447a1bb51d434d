package ports

import (
	"context"
	"field-route-service/internal/domain"
)

// Contract for resolving an address to coordinates.
//
// External geocoding services are rate limited; implementations must
// self-throttle to at most one request per second.
type GeocodeProvider interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Contract for a persistent address -> coordinates cache.
type GeocodeCache interface {
	// GetMany returns cached coordinates for the given addresses;
	// missing addresses are simply absent from the result.
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
