package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"field-route-service/internal/domain"
	"field-route-service/internal/ports"
)

// SQLite-backed implementation of the RouteRepository port.
type SqliteRouteRepository struct{ DB *sql.DB }

func NewSqliteRouteRepository(db *sql.DB) *SqliteRouteRepository {
	return &SqliteRouteRepository{DB: db}
}

func (s *SqliteRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	if s.DB == nil {
		return errors.New("sqlite route repository: DB is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO routes (
		id, user_id, date, status,
		total_distance_meters, total_duration_seconds,
		started_at, completed_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`,
		route.ID, route.UserID, route.Date, string(route.Status),
		route.TotalDistanceMeters, route.TotalDurationSeconds,
		nullTime(route.StartedAt), nullTime(route.CompletedAt),
	)
	if err != nil {
		// The (user_id, date) uniqueness invariant surfaces as a
		// constraint violation from the driver.
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("create route user=%s date=%s: %w", route.UserID, route.Date, ports.ErrRouteExists)
		}
		return fmt.Errorf("create route: insert: %w", err)
	}
	return nil
}

func (s *SqliteRouteRepository) Get(ctx context.Context, id string) (*domain.Route, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite route repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	SELECT id, user_id, date, status,
		total_distance_meters, total_duration_seconds,
		started_at, completed_at
	FROM routes
	WHERE id = ?;
	`, id)

	route, err := scanRoute(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get route %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get route %s: %w", id, err)
	}
	return route, nil
}

func (s *SqliteRouteRepository) Update(ctx context.Context, route *domain.Route) error {
	if s.DB == nil {
		return errors.New("sqlite route repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `
	UPDATE routes
	SET status = ?,
		total_distance_meters = ?,
		total_duration_seconds = ?,
		started_at = ?,
		completed_at = ?
	WHERE id = ?;
	`,
		string(route.Status),
		route.TotalDistanceMeters, route.TotalDurationSeconds,
		nullTime(route.StartedAt), nullTime(route.CompletedAt),
		route.ID,
	)
	if err != nil {
		return fmt.Errorf("update route %s: %w", route.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update route %s: rows affected: %w", route.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update route %s: %w", route.ID, ports.ErrNotFound)
	}
	return nil
}

func scanRoute(row *sql.Row) (*domain.Route, error) {
	var (
		r                    domain.Route
		status               string
		startedAt, completed sql.NullString
	)

	err := row.Scan(
		&r.ID, &r.UserID, &r.Date, &status,
		&r.TotalDistanceMeters, &r.TotalDurationSeconds,
		&startedAt, &completed,
	)
	if err != nil {
		return nil, err
	}

	r.Status = domain.RouteStatus(status)
	if r.StartedAt, err = scanTime(startedAt); err != nil {
		return nil, err
	}
	if r.CompletedAt, err = scanTime(completed); err != nil {
		return nil, err
	}
	return &r, nil
}
