package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/storage"
)

const taskColumns = `id, owner_id, title, description, status, due_date, time_slot, created_at, updated_at`

func (s *Store) AddTask(ctx context.Context, task models.Task) (models.Task, error) {
	now := s.timestamp()
	if task.Status == "" {
		task.Status = models.StatusPending
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.OwnerID, task.Title, task.Description, string(task.Status),
		nullString(task.DueDate), task.TimeSlot, now, now,
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}

	return s.GetTask(ctx, task.ID)
}

func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, storage.ErrNotFound
	}
	return t, err
}

func (s *Store) QueryTasks(ctx context.Context, query storage.TaskQuery) ([]models.Task, error) {
	clause, args := storage.BuildTaskQuery(query, storage.QuestionPlaceholder)

	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks`+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, task models.Task) (models.Task, error) {
	now := s.timestamp()

	// Timestamps are fixed width, so text comparison orders them.
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, due_date = ?, time_slot = ?,
		    updated_at = CASE WHEN ? > created_at THEN ? ELSE created_at END
		WHERE id = ?`,
		task.Title, task.Description, string(task.Status), nullString(task.DueDate), task.TimeSlot,
		now, now, task.ID,
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to update task %s: %w", task.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Task{}, storage.ErrNotFound
	}

	return s.GetTask(ctx, task.ID)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanTask(row scanner) (models.Task, error) {
	var (
		t                    models.Task
		status               string
		dueDate              sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &status, &dueDate, &t.TimeSlot, &createdAt, &updatedAt)
	if err != nil {
		return models.Task{}, err
	}

	t.Status = models.Status(status)
	if dueDate.Valid {
		t.DueDate = &dueDate.String
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Task{}, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Task{}, err
	}
	t.Normalize()
	return t, nil
}
