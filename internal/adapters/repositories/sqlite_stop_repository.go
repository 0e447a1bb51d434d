package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"field-route-service/internal/domain"
	"field-route-service/internal/ports"
)

// SQLite-backed implementation of the StopRepository port.
type SqliteStopRepository struct{ DB *sql.DB }

func NewSqliteStopRepository(db *sql.DB) *SqliteStopRepository {
	return &SqliteStopRepository{DB: db}
}

func (s *SqliteStopRepository) Create(ctx context.Context, stop *domain.Stop) error {
	if s.DB == nil {
		return errors.New("sqlite stop repository: DB is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO stops (
		id, route_id, address, name, lat, lon,
		visit_order, status, arrived_at, departed_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		stop.ID, stop.RouteID, stop.Address, stop.Name,
		stop.Coords.Lat, stop.Coords.Lon,
		stop.Order, string(stop.Status),
		nullTime(stop.ArrivedAt), nullTime(stop.DepartedAt),
	)
	if err != nil {
		return fmt.Errorf("create stop: insert: %w", err)
	}
	return nil
}

func (s *SqliteStopRepository) Get(ctx context.Context, id string) (*domain.Stop, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite stop repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, route_id, address, name, lat, lon,
		visit_order, status, arrived_at, departed_at
	FROM stops
	WHERE id = ?;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get stop %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get stop %s: %w", id, err)
		}
		return nil, fmt.Errorf("get stop %s: %w", id, ports.ErrNotFound)
	}

	stop, err := scanStop(rows)
	if err != nil {
		return nil, fmt.Errorf("get stop %s: %w", id, err)
	}
	return stop, nil
}

// ListByRoute returns the route's stops ordered by visit order.
func (s *SqliteStopRepository) ListByRoute(ctx context.Context, routeID string) ([]*domain.Stop, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite stop repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, route_id, address, name, lat, lon,
		visit_order, status, arrived_at, departed_at
	FROM stops
	WHERE route_id = ?
	ORDER BY visit_order;
	`, routeID)
	if err != nil {
		return nil, fmt.Errorf("list stops: query stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]*domain.Stop, 0, 16)
	for rows.Next() {
		stop, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}
		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}

func (s *SqliteStopRepository) Update(ctx context.Context, stop *domain.Stop) error {
	if s.DB == nil {
		return errors.New("sqlite stop repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `
	UPDATE stops
	SET address = ?, name = ?, lat = ?, lon = ?,
		visit_order = ?, status = ?, arrived_at = ?, departed_at = ?
	WHERE id = ?;
	`,
		stop.Address, stop.Name, stop.Coords.Lat, stop.Coords.Lon,
		stop.Order, string(stop.Status),
		nullTime(stop.ArrivedAt), nullTime(stop.DepartedAt),
		stop.ID,
	)
	if err != nil {
		return fmt.Errorf("update stop %s: %w", stop.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stop %s: rows affected: %w", stop.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update stop %s: %w", stop.ID, ports.ErrNotFound)
	}
	return nil
}

// Delete removes the stop permanently.
func (s *SqliteStopRepository) Delete(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("sqlite stop repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM stops WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete stop %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete stop %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete stop %s: %w", id, ports.ErrNotFound)
	}
	return nil
}

func scanStop(rows *sql.Rows) (*domain.Stop, error) {
	var (
		st                domain.Stop
		status            string
		arrived, departed sql.NullString
	)

	err := rows.Scan(
		&st.ID, &st.RouteID, &st.Address, &st.Name,
		&st.Coords.Lat, &st.Coords.Lon,
		&st.Order, &status, &arrived, &departed,
	)
	if err != nil {
		return nil, err
	}

	st.Status = domain.StopStatus(status)
	if st.ArrivedAt, err = scanTime(arrived); err != nil {
		return nil, err
	}
	if st.DepartedAt, err = scanTime(departed); err != nil {
		return nil, err
	}
	return &st, nil
}
