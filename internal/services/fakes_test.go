package services

import (
	"context"
	"slices"

	"field-route-service/internal/domain"
	"field-route-service/internal/ports"
)

// In-memory repositories for service tests. They copy on write and read
// so tests never share mutable state with the service under test.

type fakeRouteRepo struct {
	routes map[string]*domain.Route
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: map[string]*domain.Route{}}
}

func (f *fakeRouteRepo) Create(ctx context.Context, route *domain.Route) error {
	for _, r := range f.routes {
		if r.UserID == route.UserID && r.Date == route.Date {
			return ports.ErrRouteExists
		}
	}
	clone := *route
	f.routes[route.ID] = &clone
	return nil
}

func (f *fakeRouteRepo) Get(ctx context.Context, id string) (*domain.Route, error) {
	r, ok := f.routes[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (f *fakeRouteRepo) Update(ctx context.Context, route *domain.Route) error {
	if _, ok := f.routes[route.ID]; !ok {
		return ports.ErrNotFound
	}
	clone := *route
	f.routes[route.ID] = &clone
	return nil
}

type fakeStopRepo struct {
	stops map[string]*domain.Stop
}

func newFakeStopRepo() *fakeStopRepo {
	return &fakeStopRepo{stops: map[string]*domain.Stop{}}
}

func (f *fakeStopRepo) Create(ctx context.Context, stop *domain.Stop) error {
	clone := *stop
	f.stops[stop.ID] = &clone
	return nil
}

func (f *fakeStopRepo) Get(ctx context.Context, id string) (*domain.Stop, error) {
	s, ok := f.stops[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeStopRepo) ListByRoute(ctx context.Context, routeID string) ([]*domain.Stop, error) {
	var out []*domain.Stop
	for _, s := range f.stops {
		if s.RouteID == routeID {
			clone := *s
			out = append(out, &clone)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Stop) int { return a.Order - b.Order })
	return out, nil
}

func (f *fakeStopRepo) Update(ctx context.Context, stop *domain.Stop) error {
	if _, ok := f.stops[stop.ID]; !ok {
		return ports.ErrNotFound
	}
	clone := *stop
	f.stops[stop.ID] = &clone
	return nil
}

func (f *fakeStopRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.stops[id]; !ok {
		return ports.ErrNotFound
	}
	delete(f.stops, id)
	return nil
}

type fakeResponseRepo struct {
	responses []*domain.QuestionResponse
}

func (f *fakeResponseRepo) Upsert(ctx context.Context, resp *domain.QuestionResponse) error {
	clone := *resp
	for i, r := range f.responses {
		if r.StopID == resp.StopID && r.QuestionID == resp.QuestionID {
			clone.ID = r.ID
			f.responses[i] = &clone
			return nil
		}
	}
	f.responses = append(f.responses, &clone)
	return nil
}

func (f *fakeResponseRepo) ListByRoute(ctx context.Context, routeID string) ([]*domain.QuestionResponse, error) {
	var out []*domain.QuestionResponse
	for _, r := range f.responses {
		if r.RouteID == routeID {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeResponseRepo) ListByStop(ctx context.Context, stopID string) ([]*domain.QuestionResponse, error) {
	var out []*domain.QuestionResponse
	for _, r := range f.responses {
		if r.StopID == stopID {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeQuestionRepo struct {
	questions map[string]*domain.QuestionTemplate
}

func (f *fakeQuestionRepo) Get(ctx context.Context, id string) (*domain.QuestionTemplate, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *q
	return &clone, nil
}

func (f *fakeQuestionRepo) ListActive(ctx context.Context) ([]*domain.QuestionTemplate, error) {
	var out []*domain.QuestionTemplate
	for _, q := range f.questions {
		if q.Active {
			clone := *q
			out = append(out, &clone)
		}
	}
	slices.SortFunc(out, func(a, b *domain.QuestionTemplate) int { return a.SortOrder - b.SortOrder })
	return out, nil
}

type fakeReportRepo struct {
	reports map[string]*domain.DayReport
	saves   int
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[string]*domain.DayReport{}}
}

func (f *fakeReportRepo) Save(ctx context.Context, report *domain.DayReport) error {
	clone := *report
	f.reports[report.RouteID] = &clone
	f.saves++
	return nil
}

func (f *fakeReportRepo) GetByRoute(ctx context.Context, routeID string) (*domain.DayReport, error) {
	r, ok := f.reports[routeID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *r
	return &clone, nil
}

type fakeGeocoder struct {
	coords map[string]domain.Coordinates
	err    error
	calls  int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	f.calls++
	if f.err != nil {
		return domain.Coordinates{}, f.err
	}
	return f.coords[address], nil
}

type fakeInsights struct {
	observations []string
	err          error
}

func (f *fakeInsights) Observations(ctx context.Context, route *domain.Route, stops []*domain.Stop, responses []*domain.QuestionResponse) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.observations, nil
}
