package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"field-route-service/internal/ports"
)

func newTestReportService() (*ReportService, *RouteService, *fakeReportRepo) {
	routeSvc, routes, stops := newTestRouteService()
	reports := newFakeReportRepo()
	reportSvc := &ReportService{
		Routes:    routes,
		Stops:     stops,
		Responses: routeSvc.Responses,
		Reports:   reports,
		Now:       func() time.Time { return time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC) },
	}
	return reportSvc, routeSvc, reports
}

func TestGenerateReportForUnknownRoute(t *testing.T) {
	svc, _, _ := newTestReportService()

	_, err := svc.Generate(context.Background(), "missing")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestGenerateReportPersistsAndRetrieves(t *testing.T) {
	reportSvc, routeSvc, reports := newTestReportService()
	ctx := context.Background()

	route := mustCreateRoute(t, routeSvc)
	stop := mustAddStop(t, routeSvc, route.ID, "100 Main St", 33.45, -112.07)
	if _, err := routeSvc.StartRoute(ctx, route.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := routeSvc.ArriveAtStop(ctx, stop.ID); err != nil {
		t.Fatalf("arrive: %v", err)
	}
	if _, err := routeSvc.DepartStop(ctx, stop.ID); err != nil {
		t.Fatalf("depart: %v", err)
	}

	report, err := reportSvc.Generate(ctx, route.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if report.RouteID != route.ID || report.ID == "" {
		t.Fatalf("report identity: %+v", report)
	}
	if !report.GeneratedAt.Equal(time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("GeneratedAt = %v", report.GeneratedAt)
	}
	if report.Summary.TotalStops != 1 || report.Summary.CompletedStops != 1 {
		t.Fatalf("summary counts: %+v", report.Summary)
	}
	if len(report.Stops) != 1 || report.Stops[0].StopID != stop.ID {
		t.Fatalf("stop reports: %v", report.Stops)
	}

	fetched, err := reports.GetByRoute(ctx, route.ID)
	if err != nil {
		t.Fatalf("get by route: %v", err)
	}
	if fetched.ID != report.ID {
		t.Fatalf("persisted id = %q, want %q", fetched.ID, report.ID)
	}
}

func TestGenerateReportRegenerationKeepsIdentity(t *testing.T) {
	reportSvc, routeSvc, reports := newTestReportService()
	ctx := context.Background()

	route := mustCreateRoute(t, routeSvc)
	mustAddStop(t, routeSvc, route.ID, "100 Main St", 33.45, -112.07)

	first, err := reportSvc.Generate(ctx, route.ID)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}

	// More work happens, the report is regenerated in place.
	mustAddStop(t, routeSvc, route.ID, "200 Oak Ave", 33.51, -112.12)

	second, err := reportSvc.Generate(ctx, route.ID)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("regenerated id = %q, want original %q", second.ID, first.ID)
	}
	if second.Summary.TotalStops != 2 {
		t.Fatalf("regenerated summary not refreshed: %+v", second.Summary)
	}
	if reports.saves != 2 {
		t.Fatalf("saves = %d, want 2", reports.saves)
	}

	stored, _ := reports.GetByRoute(ctx, route.ID)
	if stored.Summary.TotalStops != 2 {
		t.Fatalf("stored summary stale: %+v", stored.Summary)
	}
}

func TestGenerateReportIncludesExternalInsights(t *testing.T) {
	reportSvc, routeSvc, _ := newTestReportService()
	reportSvc.Insights = &fakeInsights{observations: []string{"Traffic incident near downtown."}}
	ctx := context.Background()

	route := mustCreateRoute(t, routeSvc)
	report, err := reportSvc.Generate(ctx, route.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(report.Summary.Observations) == 0 || report.Summary.Observations[0] != "Traffic incident near downtown." {
		t.Fatalf("observations = %v, want the external insight first", report.Summary.Observations)
	}
}

func TestGenerateReportToleratesInsightFailure(t *testing.T) {
	reportSvc, routeSvc, _ := newTestReportService()
	reportSvc.Insights = &fakeInsights{err: errors.New("insight service down")}
	ctx := context.Background()

	route := mustCreateRoute(t, routeSvc)
	report, err := reportSvc.Generate(ctx, route.ID)
	if err != nil {
		t.Fatalf("generate should not fail: %v", err)
	}
	if len(report.Summary.Observations) == 0 {
		t.Fatalf("local observations should still be present")
	}
}
