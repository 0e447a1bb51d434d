package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"

	"field-route-service/internal/domain"
	"field-route-service/internal/ports"
)

// BuildExecutiveSummary aggregates a route, its stops, and all question
// responses into the report summary.
//
// Pure function of its inputs: no hidden state, safe to re-run on every
// regeneration. extraObservations holds strings from an external
// insight source and may be nil.
func BuildExecutiveSummary(
	route *domain.Route,
	stops []*domain.Stop,
	responses []*domain.QuestionResponse,
	extraObservations []string,
) domain.ExecutiveSummary {
	ordered := slices.Clone(stops)
	slices.SortStableFunc(ordered, func(a, b *domain.Stop) int { return a.Order - b.Order })

	st := computeRouteStats(route, ordered)
	rs := computeResponseStats(responses)

	return domain.ExecutiveSummary{
		TotalStops:     st.total,
		CompletedStops: st.completed,
		SkippedStops:   st.skipped,
		PendingStops:   st.pending,

		TotalDriveTimeMinutes:     st.driveMinutes,
		TotalOnSiteTimeMinutes:    st.onSiteMinutes,
		TotalTimeMinutes:          st.totalMinutes,
		AverageTimePerStopMinutes: st.avgStopMinutes,
		LocationsPerHour:          st.locationsPerHour,
		TotalDistanceKm:           st.distanceKm,

		Trends:       buildTrends(st, rs),
		Observations: buildObservations(route, st, rs, extraObservations),
		Issues:       buildIssues(ordered, groupResponsesByStop(responses)),
	}
}

func groupResponsesByStop(responses []*domain.QuestionResponse) map[string][]*domain.QuestionResponse {
	byStop := make(map[string][]*domain.QuestionResponse)
	for _, r := range responses {
		byStop[r.StopID] = append(byStop[r.StopID], r)
	}
	return byStop
}

// ReportService generates and persists day reports.
type ReportService struct {
	Routes    ports.RouteRepository
	Stops     ports.StopRepository
	Responses ports.ResponseRepository
	Reports   ports.ReportRepository

	// Optional; absence or failure never blocks generation.
	Insights ports.InsightProvider

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *ReportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Generate recomputes the route's day report from source data and
// replaces any prior report in place.
//
// The route must exist; a missing route is the one precondition that is
// a hard error. Regeneration preserves the prior report's identity.
func (s *ReportService) Generate(ctx context.Context, routeID string) (*domain.DayReport, error) {
	route, err := s.Routes.Get(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("generate report: load route %s: %w", routeID, err)
	}

	stops, err := s.Stops.ListByRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("generate report: list stops: %w", err)
	}

	responses, err := s.Responses.ListByRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("generate report: list responses: %w", err)
	}

	var extra []string
	if s.Insights != nil {
		extra, err = s.Insights.Observations(ctx, route, stops, responses)
		if err != nil {
			log.Printf("generate report: insight provider unavailable: %v", err)
			extra = nil
		}
	}

	reportID := uuid.NewString()
	if prior, err := s.Reports.GetByRoute(ctx, routeID); err == nil {
		reportID = prior.ID
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("generate report: load prior report: %w", err)
	}

	byStop := groupResponsesByStop(responses)
	stopReports := make([]domain.StopReport, 0, len(stops))
	for _, stop := range stops {
		stopResponses := make([]domain.QuestionResponse, 0, len(byStop[stop.ID]))
		for _, r := range byStop[stop.ID] {
			stopResponses = append(stopResponses, *r)
		}

		stopReports = append(stopReports, domain.StopReport{
			StopID:           stop.ID,
			Address:          stop.Address,
			Name:             stop.Name,
			Status:           stop.Status,
			TimeSpentMinutes: stop.TimeSpentMinutes(),
			ArrivedAt:        stop.ArrivedAt,
			DepartedAt:       stop.DepartedAt,
			Responses:        stopResponses,
		})
	}

	report := &domain.DayReport{
		ID:          reportID,
		RouteID:     routeID,
		Summary:     BuildExecutiveSummary(route, stops, responses, extra),
		Stops:       stopReports,
		GeneratedAt: s.now(),
	}

	// Single write: either the new report lands in full or the old one
	// remains untouched.
	if err := s.Reports.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("generate report: save: %w", err)
	}

	return report, nil
}
