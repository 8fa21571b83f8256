package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/storage"
)

const taskColumns = `id, owner_id, title, description, status, to_char(due_date, 'YYYY-MM-DD'), time_slot, created_at, updated_at`

func (s *Store) AddTask(ctx context.Context, task models.Task) (models.Task, error) {
	if task.Status == "" {
		task.Status = models.StatusPending
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO tasks (id, owner_id, title, description, status, due_date, time_slot)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+taskColumns,
		task.ID, task.OwnerID, task.Title, task.Description, string(task.Status),
		nullString(task.DueDate), task.TimeSlot,
	)
	added, err := scanTask(row)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}
	return added, nil
}

func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, storage.ErrNotFound
	}
	return t, err
}

func (s *Store) QueryTasks(ctx context.Context, query storage.TaskQuery) ([]models.Task, error) {
	clause, args := storage.BuildTaskQuery(query, storage.DollarPlaceholder)

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
	row := s.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, due_date = $4, time_slot = $5,
		    updated_at = GREATEST(now(), created_at)
		WHERE id = $6
		RETURNING `+taskColumns,
		task.Title, task.Description, string(task.Status), nullString(task.DueDate), task.TimeSlot, task.ID,
	)
	updated, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to update task %s: %w", task.ID, err)
	}
	return updated, nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
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
		t       models.Task
		status  string
		dueDate sql.NullString
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &status, &dueDate, &t.TimeSlot, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Task{}, err
	}
	t.Status = models.Status(status)
	if dueDate.Valid {
		t.DueDate = &dueDate.String
	}
	t.Normalize()
	return t, nil
}
