package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"field-route-service/internal/adapters/ors"
	"field-route-service/internal/domain"
)

var optimizePoints = []domain.Coordinates{
	{Lat: 33.0, Lon: -112.0},
	{Lat: 33.0, Lon: -109.0},
	{Lat: 33.0, Lon: -111.0},
}

func TestOptimizeRouteUsesProviderTour(t *testing.T) {
	provider := &ors.MockOptimizer{
		Tour: domain.Tour{
			Order:                []int{0, 1, 2},
			TotalDistanceMeters:  5000,
			TotalDurationSeconds: 450,
		},
	}

	tour := OptimizeRoute(context.Background(), optimizePoints, provider)

	if provider.Calls != 1 {
		t.Fatalf("provider called %d times, want 1", provider.Calls)
	}
	if !reflect.DeepEqual(tour, provider.Tour) {
		t.Fatalf("tour = %v, want provider tour %v", tour, provider.Tour)
	}
}

func TestOptimizeRouteFallsBackOnProviderError(t *testing.T) {
	provider := &ors.MockOptimizer{Err: errors.New("upstream unavailable")}

	tour := OptimizeRoute(context.Background(), optimizePoints, provider)

	want := NearestNeighborTour(optimizePoints)
	if !reflect.DeepEqual(tour, want) {
		t.Fatalf("tour = %v, want local fallback %v", tour, want)
	}
}

func TestOptimizeRouteFallsBackOnInvalidOrder(t *testing.T) {
	bad := []domain.Tour{
		{Order: []int{0, 1}},    // wrong length
		{Order: []int{1, 0, 2}}, // does not start at 0
		{Order: []int{0, 1, 1}}, // repeats an index
		{Order: []int{0, 1, 5}}, // out of range
	}

	want := NearestNeighborTour(optimizePoints)
	for _, tour := range bad {
		provider := &ors.MockOptimizer{Tour: tour}
		got := OptimizeRoute(context.Background(), optimizePoints, provider)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("provider order %v: got %v, want local fallback", tour.Order, got.Order)
		}
	}
}

func TestOptimizeRouteNilProvider(t *testing.T) {
	tour := OptimizeRoute(context.Background(), optimizePoints, nil)

	want := NearestNeighborTour(optimizePoints)
	if !reflect.DeepEqual(tour, want) {
		t.Fatalf("tour = %v, want local fallback %v", tour, want)
	}
}

func TestApplyTourRewritesOrdersAndTotals(t *testing.T) {
	route := &domain.Route{ID: "r1", Status: domain.RoutePlanning}
	stops := []*domain.Stop{
		{ID: "s0", Order: 0},
		{ID: "s1", Order: 1},
		{ID: "s2", Order: 2},
	}
	tour := domain.Tour{
		Order:                []int{0, 2, 1},
		TotalDistanceMeters:  12000,
		TotalDurationSeconds: 1074,
	}

	if err := ApplyTour(route, stops, tour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Tour position 1 visits input index 2, so stop s2 gets order 1.
	if stops[0].Order != 0 || stops[2].Order != 1 || stops[1].Order != 2 {
		t.Fatalf("orders = %d %d %d, want 0 2 1", stops[0].Order, stops[1].Order, stops[2].Order)
	}
	if route.TotalDistanceMeters != 12000 {
		t.Fatalf("distance = %f, want 12000", route.TotalDistanceMeters)
	}
	if route.TotalDurationSeconds != 1074 {
		t.Fatalf("duration = %f, want 1074", route.TotalDurationSeconds)
	}
}

func TestApplyTourRejectsNonPlanningRoute(t *testing.T) {
	route := &domain.Route{ID: "r1", Status: domain.RouteActive}
	stops := []*domain.Stop{{ID: "s0"}, {ID: "s1"}}
	tour := domain.Tour{Order: []int{0, 1}}

	err := ApplyTour(route, stops, tour)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("error = %v, want ErrInvalidTransition", err)
	}
}

func TestApplyTourRejectsInvalidOrder(t *testing.T) {
	route := &domain.Route{ID: "r1", Status: domain.RoutePlanning}
	stops := []*domain.Stop{{ID: "s0"}, {ID: "s1"}}

	if err := ApplyTour(route, stops, domain.Tour{Order: []int{0}}); err == nil {
		t.Fatal("expected error for short order")
	}
	if err := ApplyTour(route, stops, domain.Tour{Order: []int{1, 0}}); err == nil {
		t.Fatal("expected error for order not starting at 0")
	}
}
