// Package tasks is the access-control and query layer over the task
// store. Every read is scoped by the acting principal's role and every
// write goes through a Writer, which admins are never handed.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/taskboard/internal/errors"
	"github.com/julianstephens/taskboard/internal/logger"
	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/session"
	"github.com/julianstephens/taskboard/internal/slots"
	"github.com/julianstephens/taskboard/internal/storage"
)

// Store is the slice of storage.Provider the task layer uses.
type Store interface {
	AddTask(ctx context.Context, task models.Task) (models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	QueryTasks(ctx context.Context, query storage.TaskQuery) ([]models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type Service struct {
	store Store
	newID func() string
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		newID: func() string { return uuid.New().String() },
	}
}

// ListTasks returns the tasks principal may see, filtered and sorted.
// It never fails: without a principal the store is not contacted, and a
// store error is logged and yields an empty list.
func (s *Service) ListTasks(ctx context.Context, principal *models.Principal, filter models.Filter, sort models.Sort) []models.Task {
	if principal == nil {
		return []models.Task{}
	}

	q := storage.TaskQuery{}
	if !principal.IsAdmin() {
		// An empty OwnerID would drop the owner constraint entirely.
		if principal.ID == "" {
			logger.Warn("task query without principal id", "role", principal.Role)
			return []models.Task{}
		}
		q.OwnerID = principal.ID
	}
	if status, ok := filter.Status(); ok {
		q.Status = status
	}
	q.OrderBy, q.Descending = sort.Order()

	tasks, err := s.store.QueryTasks(ctx, q)
	if err != nil {
		logger.Error("task query failed", "principal", principal.ID, "filter", filter, "sort", sort, "error", err)
		return []models.Task{}
	}
	for i := range tasks {
		tasks[i].Normalize()
	}
	return tasks
}

// Authorize returns the task surface for sess. Admins get a Reader that
// cannot be turned into a Writer; users get a Writer.
func (s *Service) Authorize(sess *session.Session) (Reader, error) {
	if sess == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	r := &reader{svc: s, principal: sess.Principal}
	if sess.Principal.IsAdmin() {
		return r, nil
	}
	return &writer{reader: r}, nil
}

// Writer returns the mutation surface for sess, or ErrForbidden for admins.
func (s *Service) Writer(sess *session.Session) (Writer, error) {
	r, err := s.Authorize(sess)
	if err != nil {
		return nil, err
	}
	w, ok := r.(Writer)
	if !ok {
		return nil, fmt.Errorf("%w: admins have read-only access to tasks", apperrors.ErrForbidden)
	}
	return w, nil
}

// ownTasks is the slot conflict scope for a mutation: every task the
// principal owns, regardless of any list filter. Unlike ListTasks it
// reports store errors.
func (s *Service) ownTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	tasks, err := s.store.QueryTasks(ctx, storage.TaskQuery{OwnerID: ownerID, OrderBy: models.SortFieldCreatedAt, Descending: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for slot check: %w", err)
	}
	return tasks, nil
}

func (s *Service) checkSlot(ctx context.Context, ownerID, candidateID, slot string) error {
	if slot == "" {
		return nil
	}
	own, err := s.ownTasks(ctx, ownerID)
	if err != nil {
		return err
	}
	if !slots.Available(candidateID, own, false).Selectable(slot) {
		return fmt.Errorf("%w: %s is already taken", apperrors.ErrSlotOccupied, slot)
	}
	return nil
}

// visibleTask loads id and hides it unless principal may see it.
func (s *Service) visibleTask(ctx context.Context, principal models.Principal, id string) (models.Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Task{}, fmt.Errorf("%w: task %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to load task %s: %w", id, err)
	}
	if !principal.IsAdmin() && task.OwnerID != principal.ID {
		return models.Task{}, fmt.Errorf("%w: task %s", apperrors.ErrNotFound, id)
	}
	task.Normalize()
	return task, nil
}
