package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"field-route-service/internal/domain"
)

// SQLite-backed implementation of the ResponseRepository port.
type SqliteResponseRepository struct{ DB *sql.DB }

func NewSqliteResponseRepository(db *sql.DB) *SqliteResponseRepository {
	return &SqliteResponseRepository{DB: db}
}

// Upsert inserts or replaces the response for (stop, question). The
// original row id survives re-saves; only values and the question
// snapshot are rewritten.
func (s *SqliteResponseRepository) Upsert(ctx context.Context, resp *domain.QuestionResponse) error {
	if s.DB == nil {
		return errors.New("sqlite response repository: DB is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO question_responses (
		id, stop_id, route_id, question_id,
		question_text, question_type,
		bool_value, number_value, text_value, image_data,
		updated_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (stop_id, question_id) DO UPDATE
	SET question_text = excluded.question_text,
		question_type = excluded.question_type,
		bool_value = excluded.bool_value,
		number_value = excluded.number_value,
		text_value = excluded.text_value,
		image_data = excluded.image_data,
		updated_at = excluded.updated_at;
	`,
		resp.ID, resp.StopID, resp.RouteID, resp.QuestionID,
		resp.QuestionText, string(resp.QuestionType),
		nullBool(resp.BoolValue), nullFloat(resp.NumberValue),
		nullString(resp.TextValue), nullString(resp.ImageData),
		resp.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert response stop=%s question=%s: %w", resp.StopID, resp.QuestionID, err)
	}
	return nil
}

func (s *SqliteResponseRepository) ListByRoute(ctx context.Context, routeID string) ([]*domain.QuestionResponse, error) {
	return s.list(ctx, `route_id = ?`, routeID)
}

func (s *SqliteResponseRepository) ListByStop(ctx context.Context, stopID string) ([]*domain.QuestionResponse, error) {
	return s.list(ctx, `stop_id = ?`, stopID)
}

func (s *SqliteResponseRepository) list(ctx context.Context, where string, arg any) ([]*domain.QuestionResponse, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite response repository: DB is nil")
	}

	// Join stops for visit order so responses come back in encounter
	// order, which the report's issue list depends on.
	q := fmt.Sprintf(`
	SELECT r.id, r.stop_id, r.route_id, r.question_id,
		r.question_text, r.question_type,
		r.bool_value, r.number_value, r.text_value, r.image_data,
		r.updated_at
	FROM question_responses r
	JOIN stops s ON s.id = r.stop_id
	WHERE r.%s
	ORDER BY s.visit_order, r.updated_at;
	`, where)

	rows, err := s.DB.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("list responses: query: %w", err)
	}
	defer rows.Close()

	responses := make([]*domain.QuestionResponse, 0, 16)
	for rows.Next() {
		var (
			r            domain.QuestionResponse
			questionType string
			boolVal      sql.NullInt64
			numberVal    sql.NullFloat64
			textVal      sql.NullString
			imageVal     sql.NullString
			updatedAt    string
		)

		err := rows.Scan(
			&r.ID, &r.StopID, &r.RouteID, &r.QuestionID,
			&r.QuestionText, &questionType,
			&boolVal, &numberVal, &textVal, &imageVal,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list responses: scan row: %w", err)
		}

		r.QuestionType = domain.QuestionType(questionType)
		if boolVal.Valid {
			b := boolVal.Int64 != 0
			r.BoolValue = &b
		}
		if numberVal.Valid {
			n := numberVal.Float64
			r.NumberValue = &n
		}
		if textVal.Valid {
			t := textVal.String
			r.TextValue = &t
		}
		if imageVal.Valid {
			img := imageVal.String
			r.ImageData = &img
		}
		if r.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
			return nil, fmt.Errorf("list responses: parse updated_at: %w", err)
		}

		responses = append(responses, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list responses: row iteration: %w", err)
	}

	return responses, nil
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	if *b {
		return 1
	}
	return 0
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
