package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/taskboard/internal/models"
)

func (s *Store) ClaimTaskEvents(ctx context.Context, limit int) ([]models.TaskEvent, error) {
	if limit <= 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT seq, task_id, action, owner_id, title, description, status, due_date, occurred_at
		FROM task_events ORDER BY seq ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read task events: %w", err)
	}

	var events []models.TaskEvent
	for rows.Next() {
		var (
			e              models.TaskEvent
			action, status string
			dueDate        sql.NullString
			occurredAt     string
		)
		if err := rows.Scan(&e.Seq, &e.TaskID, &action, &e.OwnerID, &e.Title, &e.Description, &status, &dueDate, &occurredAt); err != nil {
			rows.Close()
			return nil, err
		}
		e.Action = models.TaskAction(action)
		e.Status = models.Status(status)
		if dueDate.Valid {
			e.DueDate = &dueDate.String
		}
		if e.OccurredAt, err = parseTime(occurredAt); err != nil {
			rows.Close()
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, e := range events {
		if _, err := tx.ExecContext(ctx, "DELETE FROM task_events WHERE seq = ?", e.Seq); err != nil {
			return nil, fmt.Errorf("failed to claim task event %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claimed events: %w", err)
	}
	return events, nil
}
