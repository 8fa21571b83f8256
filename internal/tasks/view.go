package tasks

import (
	"context"
	"sync"

	apperrors "github.com/julianstephens/taskboard/internal/errors"
	"github.com/julianstephens/taskboard/internal/models"
)

// View is a task list that is recomputed from the store after every
// change instead of being patched locally. Results from a refresh that
// was overtaken by a newer one are dropped.
type View struct {
	access Reader

	mu     sync.Mutex
	filter models.Filter
	sort   models.Sort
	tasks  []models.Task
	gen    uint64
}

func NewView(access Reader, filter models.Filter, sort models.Sort) *View {
	return &View{
		access: access,
		filter: filter,
		sort:   sort,
		tasks:  []models.Task{},
	}
}

// Tasks returns the last applied list.
func (v *View) Tasks() []models.Task {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.Task, len(v.tasks))
	copy(out, v.tasks)
	return out
}

// Refresh re-runs the query with the current filter and sort. It reports
// whether the result was applied.
func (v *View) Refresh(ctx context.Context) bool {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	filter, sort := v.filter, v.sort
	v.mu.Unlock()

	tasks := v.access.List(ctx, filter, sort)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return false
	}
	v.tasks = tasks
	return true
}

func (v *View) SetFilter(ctx context.Context, filter models.Filter) bool {
	v.mu.Lock()
	v.filter = filter
	v.mu.Unlock()
	return v.Refresh(ctx)
}

func (v *View) SetSort(ctx context.Context, sort models.Sort) bool {
	v.mu.Lock()
	v.sort = sort
	v.mu.Unlock()
	return v.Refresh(ctx)
}

func (v *View) Create(ctx context.Context, in models.TaskInput) (models.Task, error) {
	w, err := v.writer()
	if err != nil {
		return models.Task{}, err
	}
	task, err := w.Create(ctx, in)
	if err != nil {
		return models.Task{}, err
	}
	v.Refresh(ctx)
	return task, nil
}

func (v *View) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	w, err := v.writer()
	if err != nil {
		return models.Task{}, err
	}
	task, err := w.Update(ctx, id, patch)
	if err != nil {
		return models.Task{}, err
	}
	v.Refresh(ctx)
	return task, nil
}

func (v *View) Delete(ctx context.Context, id string) error {
	w, err := v.writer()
	if err != nil {
		return err
	}
	if err := w.Delete(ctx, id); err != nil {
		return err
	}
	v.Refresh(ctx)
	return nil
}

func (v *View) writer() (Writer, error) {
	w, ok := v.access.(Writer)
	if !ok {
		return nil, apperrors.ErrForbidden
	}
	return w, nil
}
