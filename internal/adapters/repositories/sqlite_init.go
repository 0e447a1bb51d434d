package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			date TEXT NOT NULL,
			status TEXT NOT NULL,
			total_distance_meters REAL NOT NULL DEFAULT 0,
			total_duration_seconds REAL NOT NULL DEFAULT 0,
			started_at TEXT,
			completed_at TEXT,
			UNIQUE (user_id, date)
		);`,
		`CREATE TABLE IF NOT EXISTS stops (
			id TEXT PRIMARY KEY,
			route_id TEXT NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
			address TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			visit_order INTEGER NOT NULL,
			status TEXT NOT NULL,
			arrived_at TEXT,
			departed_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_stops_route ON stops(route_id, visit_order);`,
		`CREATE TABLE IF NOT EXISTS question_templates (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			type TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			active INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS question_responses (
			id TEXT PRIMARY KEY,
			stop_id TEXT NOT NULL REFERENCES stops(id) ON DELETE CASCADE,
			route_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			question_text TEXT NOT NULL,
			question_type TEXT NOT NULL,
			bool_value INTEGER,
			number_value REAL,
			text_value TEXT,
			image_data TEXT,
			updated_at TEXT NOT NULL,
			UNIQUE (stop_id, question_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_responses_route ON question_responses(route_id);`,
		`CREATE TABLE IF NOT EXISTS day_reports (
			id TEXT PRIMARY KEY,
			route_id TEXT NOT NULL UNIQUE REFERENCES routes(id) ON DELETE CASCADE,
			summary_json TEXT NOT NULL,
			stops_json TEXT NOT NULL,
			generated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS geocode_cache (
			address TEXT PRIMARY KEY,
			lon REAL NOT NULL,
			lat REAL NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit: %w", err)
	}
	return nil
}

type seedQuestion struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`
	SortOrder int    `json:"sort_order"`
	Active    bool   `json:"active"`
}

// SeedQuestionsFromJSON loads question templates from a JSON seed file.
// Existing templates with the same id are left untouched so local
// edits survive restarts.
func SeedQuestionsFromJSON(db *sql.DB, path string) error {
	if db == nil {
		return errors.New("seed questions: DB is nil")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed questions: read %q: %w", path, err)
	}

	var questions []seedQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return fmt.Errorf("seed questions: parse %q: %w", path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed questions: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
	INSERT OR IGNORE INTO question_templates (id, text, type, sort_order, active)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("seed questions: prepare: %w", err)
	}
	defer stmt.Close()

	for _, q := range questions {
		if strings.TrimSpace(q.ID) == "" || strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("seed questions: entry missing id or text")
		}
		if _, err := stmt.Exec(q.ID, q.Text, q.Type, q.SortOrder, boolToInt(q.Active)); err != nil {
			return fmt.Errorf("seed questions: insert %q: %w", q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed questions: commit: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullTime formats an optional timestamp for storage.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// scanTime parses an optional stored timestamp.
func scanTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, fmt.Errorf("parse stored time %q: %w", s.String, err)
	}
	return &t, nil
}
