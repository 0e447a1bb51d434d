package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"

	"field-route-service/internal/adapters/repositories"
	"field-route-service/internal/api/dto"
	"field-route-service/internal/services"
)

// End-to-end exercise of the HTTP surface over an in-memory database,
// offline (no optimizer, no geocoder, no insight service).
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	_, err = db.Exec(
		`INSERT INTO question_templates (id, text, type, sort_order, active) VALUES (?, ?, ?, ?, 1)`,
		"q-issue", "Any issues found at this location?", "yes_no", 1,
	)
	if err != nil {
		t.Fatalf("seed question: %v", err)
	}

	routes := repositories.NewSqliteRouteRepository(db)
	stops := repositories.NewSqliteStopRepository(db)
	responses := repositories.NewSqliteResponseRepository(db)
	reports := repositories.NewSqliteReportRepository(db)
	questions := repositories.NewSqliteQuestionRepository(db)

	routeService := &services.RouteService{
		Routes:    routes,
		Stops:     stops,
		Responses: responses,
		Questions: questions,
	}
	reportService := &services.ReportService{
		Routes:    routes,
		Stops:     stops,
		Responses: responses,
		Reports:   reports,
	}

	server := httptest.NewServer(NewRouter(routeService, reportService, reports, questions))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any, wantStatus int, out any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status %d, want %d", method, url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
}

func TestFullRouteDay(t *testing.T) {
	server := newTestServer(t)
	base := server.URL

	// Plan a route with three stops, added in a deliberately poor order.
	var route dto.RouteResponse
	doJSON(t, http.MethodPost, base+"/routes",
		dto.CreateRouteRequest{UserID: "u1", Date: "2026-03-02"},
		http.StatusCreated, &route)
	if route.Status != "planning" {
		t.Fatalf("status = %q, want planning", route.Status)
	}

	coords := []struct {
		address  string
		lat, lon float64
	}{
		{"100 West End", 33.0, -112.0},
		{"300 Far East", 33.0, -109.0},
		{"200 Mid Town", 33.0, -111.0},
	}
	stopIDs := make([]string, 0, 3)
	for _, c := range coords {
		var stop dto.StopResponse
		doJSON(t, http.MethodPost, fmt.Sprintf("%s/routes/%s/stops", base, route.ID),
			dto.AddStopRequest{Address: c.address, Lat: &c.lat, Lon: &c.lon},
			http.StatusCreated, &stop)
		stopIDs = append(stopIDs, stop.ID)
	}

	// Optimize without an anchor: nearest-neighbor from the first stop.
	var detail dto.RouteDetailResponse
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/routes/%s/optimize", base, route.ID),
		dto.OptimizeRequest{}, http.StatusOK, &detail)
	if detail.Route.TotalDistanceMeters <= 0 {
		t.Fatalf("optimization left totals unset: %+v", detail.Route)
	}
	if len(detail.Stops) != 3 {
		t.Fatalf("stops = %d, want 3", len(detail.Stops))
	}
	if detail.Stops[0].Address != "100 West End" ||
		detail.Stops[1].Address != "200 Mid Town" ||
		detail.Stops[2].Address != "300 Far East" {
		t.Fatalf("visit order = %q %q %q",
			detail.Stops[0].Address, detail.Stops[1].Address, detail.Stops[2].Address)
	}

	// Work the route: complete the first stop, skip the last.
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/routes/%s/start", base, route.ID),
		nil, http.StatusOK, &route)
	if route.Status != "active" || route.StartedAt == nil {
		t.Fatalf("after start: %+v", route)
	}

	var stop dto.StopResponse
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/stops/%s/arrive", base, stopIDs[0]),
		nil, http.StatusOK, &stop)
	if stop.Status != "in_progress" || stop.ArrivedAt == nil {
		t.Fatalf("after arrive: %+v", stop)
	}

	yes := true
	var saved dto.QuestionResponseResponse
	doJSON(t, http.MethodPut, fmt.Sprintf("%s/stops/%s/responses/q-issue", base, stopIDs[0]),
		dto.SaveResponseRequest{BoolValue: &yes}, http.StatusOK, &saved)
	if saved.QuestionText != "Any issues found at this location?" {
		t.Fatalf("snapshot = %q", saved.QuestionText)
	}

	doJSON(t, http.MethodPost, fmt.Sprintf("%s/stops/%s/depart", base, stopIDs[0]),
		nil, http.StatusOK, &stop)
	if stop.Status != "completed" || stop.DepartedAt == nil {
		t.Fatalf("after depart: %+v", stop)
	}

	doJSON(t, http.MethodPost, fmt.Sprintf("%s/stops/%s/skip", base, stopIDs[1]),
		nil, http.StatusOK, &stop)
	if stop.Status != "skipped" {
		t.Fatalf("after skip: %+v", stop)
	}

	doJSON(t, http.MethodPost, fmt.Sprintf("%s/routes/%s/complete", base, route.ID),
		nil, http.StatusOK, &route)
	if route.Status != "completed" || route.CompletedAt == nil {
		t.Fatalf("after complete: %+v", route)
	}

	// Generate and read back the report.
	var report dto.DayReportResponse
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/routes/%s/report", base, route.ID),
		nil, http.StatusOK, &report)
	if report.Summary.TotalStops != 3 || report.Summary.CompletedStops != 1 || report.Summary.SkippedStops != 1 {
		t.Fatalf("summary counts: %+v", report.Summary)
	}
	if len(report.Summary.Issues) == 0 {
		t.Fatal("reported issue and skipped stop should be flagged")
	}
	if len(report.Stops) != 3 {
		t.Fatalf("report stops = %d, want 3", len(report.Stops))
	}

	var fetched dto.DayReportResponse
	doJSON(t, http.MethodGet, fmt.Sprintf("%s/routes/%s/report", base, route.ID),
		nil, http.StatusOK, &fetched)
	if fetched.ID != report.ID {
		t.Fatalf("fetched id = %q, want %q", fetched.ID, report.ID)
	}

	// Regeneration keeps the report's identity.
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/routes/%s/report", base, route.ID),
		nil, http.StatusOK, &fetched)
	if fetched.ID != report.ID {
		t.Fatalf("regenerated id = %q, want %q", fetched.ID, report.ID)
	}
}

func TestRouterErrorMapping(t *testing.T) {
	server := newTestServer(t)
	base := server.URL

	// Unknown route.
	doJSON(t, http.MethodGet, base+"/routes/missing", nil, http.StatusNotFound, nil)
	doJSON(t, http.MethodGet, base+"/routes/missing/report", nil, http.StatusNotFound, nil)

	var route dto.RouteResponse
	doJSON(t, http.MethodPost, base+"/routes",
		dto.CreateRouteRequest{UserID: "u1", Date: "2026-03-02"},
		http.StatusCreated, &route)

	// Duplicate user/date conflicts.
	doJSON(t, http.MethodPost, base+"/routes",
		dto.CreateRouteRequest{UserID: "u1", Date: "2026-03-02"},
		http.StatusConflict, nil)

	// Malformed date is a client error.
	doJSON(t, http.MethodPost, base+"/routes",
		dto.CreateRouteRequest{UserID: "u1", Date: "03/02/2026"},
		http.StatusBadRequest, nil)

	// No geocoder configured: a stop without coordinates conflicts.
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/routes/%s/stops", base, route.ID),
		dto.AddStopRequest{Address: "100 Main St"},
		http.StatusConflict, nil)

	// Too few stops to optimize.
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/routes/%s/optimize", base, route.ID),
		dto.OptimizeRequest{}, http.StatusConflict, nil)

	// Unknown fields are rejected by the strict decoder.
	resp, err := http.Post(base+"/routes", "application/json",
		bytes.NewReader([]byte(`{"user_id": "u1", "date": "2026-03-02", "bogus": 1}`)))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field: status %d, want 400", resp.StatusCode)
	}

	// Health never needs a body.
	doJSON(t, http.MethodGet, base+"/health", nil, http.StatusOK, nil)
}
