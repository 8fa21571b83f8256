package tasks

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/taskboard/internal/errors"
	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/slots"
	"github.com/julianstephens/taskboard/internal/storage"
)

// Reader is the read-only task surface. It is all an admin ever gets.
type Reader interface {
	Principal() models.Principal
	List(ctx context.Context, filter models.Filter, sort models.Sort) []models.Task
	Get(ctx context.Context, id string) (models.Task, error)
	// Slots reports slot availability for a create (candidateID "") or
	// an edit of candidateID.
	Slots(ctx context.Context, candidateID string) slots.Availability
}

// Writer adds the mutations. Only user-role principals receive one.
type Writer interface {
	Reader
	Create(ctx context.Context, in models.TaskInput) (models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id string) error
}

type reader struct {
	svc       *Service
	principal models.Principal
}

func (r *reader) Principal() models.Principal {
	return r.principal
}

func (r *reader) List(ctx context.Context, filter models.Filter, sort models.Sort) []models.Task {
	p := r.principal
	return r.svc.ListTasks(ctx, &p, filter, sort)
}

func (r *reader) Get(ctx context.Context, id string) (models.Task, error) {
	return r.svc.visibleTask(ctx, r.principal, id)
}

func (r *reader) Slots(ctx context.Context, candidateID string) slots.Availability {
	visible := r.List(ctx, models.FilterAll, models.SortDefault)
	return slots.Available(candidateID, visible, r.principal.IsAdmin())
}

type writer struct {
	*reader
}

func (w *writer) Create(ctx context.Context, in models.TaskInput) (models.Task, error) {
	if err := in.Validate(); err != nil {
		return models.Task{}, err
	}
	if err := w.svc.checkSlot(ctx, w.principal.ID, "", in.TimeSlot); err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:          w.svc.newID(),
		OwnerID:     w.principal.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		DueDate:     in.DueDatePtr(),
		TimeSlot:    in.TimeSlot,
	}
	created, err := w.svc.store.AddTask(ctx, task)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	created.Normalize()
	return created, nil
}

func (w *writer) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if patch.Empty() {
		return models.Task{}, apperrors.Invalid("no fields to update")
	}
	if err := patch.Validate(); err != nil {
		return models.Task{}, err
	}

	task, err := w.svc.visibleTask(ctx, w.principal, id)
	if err != nil {
		return models.Task{}, err
	}
	patch.Apply(&task)

	if patch.TimeSlot != nil {
		if err := w.svc.checkSlot(ctx, w.principal.ID, id, task.TimeSlot); err != nil {
			return models.Task{}, err
		}
	}

	updated, err := w.svc.store.UpdateTask(ctx, task)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Task{}, fmt.Errorf("%w: task %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	updated.Normalize()
	return updated, nil
}

func (w *writer) Delete(ctx context.Context, id string) error {
	if _, err := w.svc.visibleTask(ctx, w.principal, id); err != nil {
		return err
	}
	err := w.svc.store.DeleteTask(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: task %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
