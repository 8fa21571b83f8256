package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/julianstephens/taskboard/internal/models"
)

// ClaimTaskEvents deletes the oldest events and returns them in one
// statement. SKIP LOCKED lets several workers drain the feed without
// handing the same event out twice.
func (s *Store) ClaimTaskEvents(ctx context.Context, limit int) ([]models.TaskEvent, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		DELETE FROM task_events
		WHERE seq IN (
			SELECT seq FROM task_events ORDER BY seq ASC LIMIT $1 FOR UPDATE SKIP LOCKED
		)
		RETURNING seq, task_id, action, owner_id, title, description, status,
		          to_char(due_date, 'YYYY-MM-DD'), occurred_at`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim task events: %w", err)
	}
	defer rows.Close()

	var events []models.TaskEvent
	for rows.Next() {
		var (
			e              models.TaskEvent
			action, status string
			dueDate        sql.NullString
		)
		if err := rows.Scan(&e.Seq, &e.TaskID, &action, &e.OwnerID, &e.Title, &e.Description, &status, &dueDate, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.Action = models.TaskAction(action)
		e.Status = models.Status(status)
		if dueDate.Valid {
			e.DueDate = &dueDate.String
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// RETURNING order is unspecified.
	sort.Slice(events, func(i, j int) bool { return events[i].Seq < events[j].Seq })
	return events, nil
}
