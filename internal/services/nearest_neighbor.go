package services

import (
	"math"

	"field-route-service/internal/domain"
)

const (
	// Mean Earth radius for great-circle distance.
	earthRadiusMeters = 6371000.0

	// Fixed 25 mph average speed used to estimate travel duration.
	// A deliberately simplified substitute for traffic-aware routing.
	averageSpeedMetersPerSecond = 11.176
)

// Haversine returns the great-circle distance between two points in
// meters, ignoring elevation and road networks.
func Haversine(a, b domain.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// NearestNeighborTour orders points into a visit sequence using a
// greedy nearest-neighbor heuristic over great-circle distances.
//
// The tour starts at index 0 (the fixed starting point) and repeatedly
// visits the closest unvisited point; ties are broken by lowest index.
// The algorithm minimizes immediate travel distance at each step and
// does not attempt global optimization or a return leg. The design
// prioritizes determinism and offline operation over optimality: this
// is the degraded-mode fallback when no external optimization service
// is reachable.
//
// Callers must supply at least two points; shorter inputs yield a
// trivial tour over whatever was given.
func NearestNeighborTour(points []domain.Coordinates) domain.Tour {
	n := len(points)
	if n == 0 {
		return domain.Tour{Order: []int{}}
	}

	order := make([]int, 0, n)
	order = append(order, 0)

	visited := make([]bool, n)
	visited[0] = true

	current := 0
	total := 0.0

	for len(order) < n {
		best := -1
		bestDist := math.Inf(1)

		// Stable ascending scan: the first minimum encountered wins,
		// so equal distances resolve to the lowest index.
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			d := Haversine(points[current], points[i])
			if d < bestDist {
				bestDist = d
				best = i
			}
		}

		order = append(order, best)
		visited[best] = true
		total += bestDist
		current = best
	}

	return domain.Tour{
		Order:                order,
		TotalDistanceMeters:  total,
		TotalDurationSeconds: total / averageSpeedMetersPerSecond,
	}
}
