package database

import (
	"context"
	"fmt"

	"campusfix/internal/models"
)

// AddFeedback appends a feedback entry for a booking code.
func (db *DB) AddFeedback(ctx context.Context, fb *models.Feedback) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO feedback (id, code, rating, comment, created_at) VALUES (?, ?, ?, ?, ?)`,
		fb.ID, fb.Code, fb.Rating, fb.Comment, fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add feedback: %w", err)
	}
	return nil
}

// FeedbackForCode lists feedback entries for a booking, oldest first.
func (db *DB) FeedbackForCode(ctx context.Context, code string) ([]*models.Feedback, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, code, rating, comment, created_at FROM feedback WHERE code = ? ORDER BY created_at ASC`,
		code)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	defer rows.Close()

	var list []*models.Feedback
	for rows.Next() {
		fb := &models.Feedback{}
		if err := rows.Scan(&fb.ID, &fb.Code, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		list = append(list, fb)
	}
	return list, rows.Err()
}
