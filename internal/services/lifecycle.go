package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"field-route-service/internal/domain"
	"field-route-service/internal/ports"
)

var (
	ErrTooFewStops    = errors.New("route needs at least two points to optimize")
	ErrNoCoordinates  = errors.New("stop has no coordinates and no geocoder is configured")
	ErrInvalidRequest = errors.New("invalid request")
)

// RouteService implements the route and stop lifecycle operations.
type RouteService struct {
	Routes    ports.RouteRepository
	Stops     ports.StopRepository
	Responses ports.ResponseRepository
	Questions ports.QuestionRepository

	// Optional collaborators; planning works fully offline without them.
	Optimizer ports.OptimizationProvider
	Geocoder  ports.GeocodeProvider

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *RouteService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// CreateRoute starts a new day plan. date is a civil date (YYYY-MM-DD);
// at most one route exists per user per date.
func (s *RouteService) CreateRoute(ctx context.Context, userID, date string) (*domain.Route, error) {
	if userID == "" {
		return nil, fmt.Errorf("create route: user id is required: %w", ErrInvalidRequest)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("create route: date %q must be YYYY-MM-DD: %w", date, ErrInvalidRequest)
	}

	route := &domain.Route{
		ID:     uuid.NewString(),
		UserID: userID,
		Date:   date,
		Status: domain.RoutePlanning,
	}

	if err := s.Routes.Create(ctx, route); err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}
	return route, nil
}

// AddStop appends a stop to the end of the visit sequence. When no
// coordinates are supplied the address is resolved through the
// geocoder.
func (s *RouteService) AddStop(ctx context.Context, routeID, address, name string, coords *domain.Coordinates) (*domain.Stop, error) {
	if address == "" {
		return nil, fmt.Errorf("add stop: address is required: %w", ErrInvalidRequest)
	}

	route, err := s.Routes.Get(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("add stop: load route %s: %w", routeID, err)
	}
	if route.Status != domain.RoutePlanning && route.Status != domain.RouteActive {
		return nil, fmt.Errorf("add stop: route %s is %s: %w", routeID, route.Status, ErrInvalidTransition)
	}

	if coords == nil {
		if s.Geocoder == nil {
			return nil, fmt.Errorf("add stop: %q: %w", address, ErrNoCoordinates)
		}
		c, err := s.Geocoder.Geocode(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("add stop: geocode %q: %w", address, err)
		}
		coords = &c
	}

	existing, err := s.Stops.ListByRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("add stop: list stops: %w", err)
	}

	stop := &domain.Stop{
		ID:      uuid.NewString(),
		RouteID: routeID,
		Address: address,
		Name:    name,
		Coords:  *coords,
		Order:   len(existing),
		Status:  domain.StopPending,
	}

	if err := s.Stops.Create(ctx, stop); err != nil {
		return nil, fmt.Errorf("add stop: %w", err)
	}
	return stop, nil
}

// RemoveStop deletes a stop permanently and compacts the remaining
// visit orders so they stay contiguous and zero-based.
func (s *RouteService) RemoveStop(ctx context.Context, routeID, stopID string) error {
	stop, err := s.Stops.Get(ctx, stopID)
	if err != nil {
		return fmt.Errorf("remove stop: load stop %s: %w", stopID, err)
	}
	if stop.RouteID != routeID {
		return fmt.Errorf("remove stop: stop %s does not belong to route %s: %w", stopID, routeID, ports.ErrNotFound)
	}

	if err := s.Stops.Delete(ctx, stopID); err != nil {
		return fmt.Errorf("remove stop: delete: %w", err)
	}

	remaining, err := s.Stops.ListByRoute(ctx, routeID)
	if err != nil {
		return fmt.Errorf("remove stop: list stops: %w", err)
	}
	for i, st := range remaining {
		if st.Order == i {
			continue
		}
		st.Order = i
		if err := s.Stops.Update(ctx, st); err != nil {
			return fmt.Errorf("remove stop: compact order for %s: %w", st.ID, err)
		}
	}

	return nil
}

// OptimizeStops computes a visit order over the route's stops and
// applies it. start optionally anchors the tour at the worker's current
// location; otherwise the first stop in the current order anchors it.
func (s *RouteService) OptimizeStops(ctx context.Context, routeID string, start *domain.Coordinates) (*domain.Route, []*domain.Stop, error) {
	route, err := s.Routes.Get(ctx, routeID)
	if err != nil {
		return nil, nil, fmt.Errorf("optimize stops: load route %s: %w", routeID, err)
	}
	if route.Status != domain.RoutePlanning {
		return nil, nil, fmt.Errorf("optimize stops: route %s is %s: %w", routeID, route.Status, ErrInvalidTransition)
	}

	stops, err := s.Stops.ListByRoute(ctx, routeID)
	if err != nil {
		return nil, nil, fmt.Errorf("optimize stops: list stops: %w", err)
	}

	if start != nil {
		// Anchor at the worker's location: stop i maps to point i+1.
		if len(stops) < 1 {
			return nil, nil, fmt.Errorf("optimize stops: route %s: %w", routeID, ErrTooFewStops)
		}

		points := make([]domain.Coordinates, 0, len(stops)+1)
		points = append(points, *start)
		for _, st := range stops {
			points = append(points, st.Coords)
		}

		tour := OptimizeRoute(ctx, points, s.Optimizer)
		for pos, idx := range tour.Order[1:] {
			stops[idx-1].Order = pos
		}
		route.TotalDistanceMeters = tour.TotalDistanceMeters
		route.TotalDurationSeconds = tour.TotalDurationSeconds
	} else {
		if len(stops) < 2 {
			return nil, nil, fmt.Errorf("optimize stops: route %s: %w", routeID, ErrTooFewStops)
		}

		points := make([]domain.Coordinates, 0, len(stops))
		for _, st := range stops {
			points = append(points, st.Coords)
		}

		tour := OptimizeRoute(ctx, points, s.Optimizer)
		if err := ApplyTour(route, stops, tour); err != nil {
			return nil, nil, fmt.Errorf("optimize stops: %w", err)
		}
	}

	// Callers get the stops in their new visit sequence, not load order.
	slices.SortFunc(stops, func(a, b *domain.Stop) int { return a.Order - b.Order })

	for _, st := range stops {
		if err := s.Stops.Update(ctx, st); err != nil {
			return nil, nil, fmt.Errorf("optimize stops: save stop %s: %w", st.ID, err)
		}
	}
	if err := s.Routes.Update(ctx, route); err != nil {
		return nil, nil, fmt.Errorf("optimize stops: save route: %w", err)
	}

	return route, stops, nil
}

// StartRoute moves the route to active, stamping StartedAt once.
func (s *RouteService) StartRoute(ctx context.Context, routeID string) (*domain.Route, error) {
	return s.transitionRoute(ctx, routeID, domain.RouteActive)
}

// CompleteRoute moves the route to completed, stamping CompletedAt.
func (s *RouteService) CompleteRoute(ctx context.Context, routeID string) (*domain.Route, error) {
	return s.transitionRoute(ctx, routeID, domain.RouteCompleted)
}

// CancelRoute cancels the route; legal from any non-completed state.
func (s *RouteService) CancelRoute(ctx context.Context, routeID string) (*domain.Route, error) {
	return s.transitionRoute(ctx, routeID, domain.RouteCancelled)
}

func (s *RouteService) transitionRoute(ctx context.Context, routeID string, next domain.RouteStatus) (*domain.Route, error) {
	route, err := s.Routes.Get(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("route %s -> %s: %w", routeID, next, err)
	}
	if !route.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("route %s: %s -> %s: %w", routeID, route.Status, next, ErrInvalidTransition)
	}

	route.Status = next
	now := s.now()
	switch next {
	case domain.RouteActive:
		if route.StartedAt == nil {
			route.StartedAt = &now
		}
	case domain.RouteCompleted:
		route.CompletedAt = &now
	}

	if err := s.Routes.Update(ctx, route); err != nil {
		return nil, fmt.Errorf("route %s -> %s: save: %w", routeID, next, err)
	}
	return route, nil
}

// ArriveAtStop records arrival: pending -> in_progress with ArrivedAt.
func (s *RouteService) ArriveAtStop(ctx context.Context, stopID string) (*domain.Stop, error) {
	return s.transitionStop(ctx, stopID, domain.StopInProgress)
}

// DepartStop records departure: in_progress -> completed with DepartedAt.
func (s *RouteService) DepartStop(ctx context.Context, stopID string) (*domain.Stop, error) {
	return s.transitionStop(ctx, stopID, domain.StopCompleted)
}

// SkipStop marks a pending stop as skipped.
func (s *RouteService) SkipStop(ctx context.Context, stopID string) (*domain.Stop, error) {
	return s.transitionStop(ctx, stopID, domain.StopSkipped)
}

func (s *RouteService) transitionStop(ctx context.Context, stopID string, next domain.StopStatus) (*domain.Stop, error) {
	stop, err := s.Stops.Get(ctx, stopID)
	if err != nil {
		return nil, fmt.Errorf("stop %s -> %s: %w", stopID, next, err)
	}
	if !stop.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("stop %s: %s -> %s: %w", stopID, stop.Status, next, ErrInvalidTransition)
	}

	stop.Status = next
	now := s.now()
	switch next {
	case domain.StopInProgress:
		stop.ArrivedAt = &now
	case domain.StopCompleted:
		stop.DepartedAt = &now
	}

	if err := s.Stops.Update(ctx, stop); err != nil {
		return nil, fmt.Errorf("stop %s -> %s: save: %w", stopID, next, err)
	}
	return stop, nil
}

// Value payload for SaveResponse; exactly one field should match the
// question's type.
type ResponseValue struct {
	Bool   *bool
	Number *float64
	Text   *string
	Image  *string
}

// SaveResponse records one answer to one question at one stop,
// snapshotting the question's text and type so later template edits do
// not alter historical reports. Re-saving the same (stop, question)
// pair updates the response in place.
func (s *RouteService) SaveResponse(ctx context.Context, stopID, questionID string, value ResponseValue) (*domain.QuestionResponse, error) {
	stop, err := s.Stops.Get(ctx, stopID)
	if err != nil {
		return nil, fmt.Errorf("save response: load stop %s: %w", stopID, err)
	}

	question, err := s.Questions.Get(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("save response: load question %s: %w", questionID, err)
	}

	resp := &domain.QuestionResponse{
		ID:           uuid.NewString(),
		StopID:       stop.ID,
		RouteID:      stop.RouteID,
		QuestionID:   question.ID,
		QuestionText: question.Text,
		QuestionType: question.Type,
		BoolValue:    value.Bool,
		NumberValue:  value.Number,
		TextValue:    value.Text,
		ImageData:    value.Image,
		UpdatedAt:    s.now(),
	}

	if err := s.Responses.Upsert(ctx, resp); err != nil {
		return nil, fmt.Errorf("save response: %w", err)
	}
	return resp, nil
}
