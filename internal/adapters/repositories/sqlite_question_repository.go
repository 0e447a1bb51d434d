package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"field-route-service/internal/domain"
	"field-route-service/internal/ports"
)

// SQLite-backed implementation of the QuestionRepository port.
type SqliteQuestionRepository struct{ DB *sql.DB }

func NewSqliteQuestionRepository(db *sql.DB) *SqliteQuestionRepository {
	return &SqliteQuestionRepository{DB: db}
}

func (s *SqliteQuestionRepository) Get(ctx context.Context, id string) (*domain.QuestionTemplate, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite question repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	SELECT id, text, type, sort_order, active
	FROM question_templates
	WHERE id = ?;
	`, id)

	q, err := scanQuestion(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get question %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get question %s: %w", id, err)
	}
	return q, nil
}

// ListActive returns active templates ordered by sort order.
func (s *SqliteQuestionRepository) ListActive(ctx context.Context) ([]*domain.QuestionTemplate, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite question repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, text, type, sort_order, active
	FROM question_templates
	WHERE active = 1
	ORDER BY sort_order;
	`)
	if err != nil {
		return nil, fmt.Errorf("list questions: query question_templates table: %w", err)
	}
	defer rows.Close()

	questions := make([]*domain.QuestionTemplate, 0, 8)
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list questions: scan row: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questions: row iteration: %w", err)
	}

	return questions, nil
}

func scanQuestion(scan func(...any) error) (*domain.QuestionTemplate, error) {
	var (
		q      domain.QuestionTemplate
		qType  string
		active int
	)
	if err := scan(&q.ID, &q.Text, &qType, &q.SortOrder, &active); err != nil {
		return nil, err
	}
	q.Type = domain.QuestionType(qType)
	q.Active = active != 0
	return &q, nil
}
