package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"field-route-service/internal/domain"
	"field-route-service/internal/platform/obs"
	"field-route-service/internal/ports"
)

// SQLite-backed implementation of the ReportRepository port.
//
// Reports are regenerable documents, never queried relationally, so
// the summary and stop details are stored as JSON columns.
type SqliteReportRepository struct{ DB *sql.DB }

func NewSqliteReportRepository(db *sql.DB) *SqliteReportRepository {
	return &SqliteReportRepository{DB: db}
}

// Save writes the report in one statement: either the new report lands
// in full or the prior one remains.
func (s *SqliteReportRepository) Save(ctx context.Context, report *domain.DayReport) (err error) {
	defer obs.Time(ctx, "reports.Save")(&err)

	if s.DB == nil {
		return errors.New("sqlite report repository: DB is nil")
	}

	summaryJSON, err := json.Marshal(report.Summary)
	if err != nil {
		return fmt.Errorf("save report: marshal summary: %w", err)
	}
	stopsJSON, err := json.Marshal(report.Stops)
	if err != nil {
		return fmt.Errorf("save report: marshal stops: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO day_reports (id, route_id, summary_json, stops_json, generated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (route_id) DO UPDATE
	SET summary_json = excluded.summary_json,
		stops_json = excluded.stops_json,
		generated_at = excluded.generated_at;
	`,
		report.ID, report.RouteID,
		string(summaryJSON), string(stopsJSON),
		report.GeneratedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save report route=%s: %w", report.RouteID, err)
	}
	return nil
}

func (s *SqliteReportRepository) GetByRoute(ctx context.Context, routeID string) (*domain.DayReport, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite report repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	SELECT id, route_id, summary_json, stops_json, generated_at
	FROM day_reports
	WHERE route_id = ?;
	`, routeID)

	var (
		report                 domain.DayReport
		summaryJSON, stopsJSON string
		generatedAt            string
	)

	err := row.Scan(&report.ID, &report.RouteID, &summaryJSON, &stopsJSON, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get report for route %s: %w", routeID, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get report for route %s: %w", routeID, err)
	}

	if err := json.Unmarshal([]byte(summaryJSON), &report.Summary); err != nil {
		return nil, fmt.Errorf("get report for route %s: unmarshal summary: %w", routeID, err)
	}
	if err := json.Unmarshal([]byte(stopsJSON), &report.Stops); err != nil {
		return nil, fmt.Errorf("get report for route %s: unmarshal stops: %w", routeID, err)
	}
	if report.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt); err != nil {
		return nil, fmt.Errorf("get report for route %s: parse generated_at: %w", routeID, err)
	}

	return &report, nil
}
