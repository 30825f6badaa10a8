package store

import (
	"fmt"
	"time"
)

// Run запись истории: одна загрузка книги с итогом расчета
type Run struct {
	ID            int64     `json:"id"`
	SessionID     string    `json:"sessionId"`
	Filename      string    `json:"filename"`
	TotalSheets   int       `json:"totalSheets"`
	Items         int       `json:"items"`
	RowErrors     int       `json:"rowErrors"`
	Positions     int       `json:"positions"`
	TotalQuantity float64   `json:"totalQuantity"`
	TotalValue    float64   `json:"totalValue"`
	DurationMs    int64     `json:"durationMs"`
	Status        string    `json:"status"`
	ErrorMessage  string    `json:"errorMessage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateRun сохраняет запись запуска, возвращает ее id
func (s *Store) CreateRun(run Run) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO runs (session_id, filename, total_sheets, items, row_errors,
			positions, total_quantity, total_value, duration_ms, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.SessionID, run.Filename, run.TotalSheets, run.Items, run.RowErrors,
		run.Positions, run.TotalQuantity, run.TotalValue, run.DurationMs,
		run.Status, run.ErrorMessage)
	if err != nil {
		return 0, fmt.Errorf("сохранить запуск: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("получить id запуска: %w", err)
	}
	return id, nil
}

// ListRuns последние запуски, новые первыми
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, session_id, filename, total_sheets, items, row_errors,
			positions, total_quantity, total_value, duration_ms, status,
			error_message, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("прочитать историю запусков: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Filename, &r.TotalSheets,
			&r.Items, &r.RowErrors, &r.Positions, &r.TotalQuantity,
			&r.TotalValue, &r.DurationMs, &r.Status, &r.ErrorMessage,
			&r.CreatedAt); err != nil {
			return nil, fmt.Errorf("разобрать запись запуска: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
