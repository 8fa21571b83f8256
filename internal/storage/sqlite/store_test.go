package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/storage"
)

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Second)
		return t
	}
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(dbPath, WithClock(stepClock(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func strPtr(s string) *string { return &s }

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Fatal("Load() on a missing database should fail")
	}
}

func TestInitThenLoad(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "taskboard.db")
	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	store.Close()

	reopened := NewStore(dbPath)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer reopened.Close()

	if n, err := reopened.Migrate(context.Background()); err != nil || n != 0 {
		t.Errorf("Migrate() on current schema = (%d, %v), want (0, nil)", n, err)
	}

	current, latest, err := reopened.SchemaStatus(context.Background())
	if err != nil || current == 0 || current != latest {
		t.Errorf("SchemaStatus() = (%d, %d, %v), want current == latest > 0", current, latest, err)
	}

	var _ storage.Migrator = reopened

	if reopened.GetConfigPath() != dbPath {
		t.Errorf("GetConfigPath() = %q", reopened.GetConfigPath())
	}
}

func TestUsers(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, models.UserProfile{ID: "u1", Email: "a@example.com", DisplayName: strPtr("Ada")})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if created.Role != models.RoleUser || created.CreatedAt.IsZero() {
		t.Errorf("CreateUser() = %+v, want default role and timestamp", created)
	}

	if _, err := store.CreateUser(ctx, models.UserProfile{ID: "u1", Email: "b@example.com"}); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate CreateUser() error = %v, want ErrAlreadyExists", err)
	}

	got, err := store.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.DisplayName == nil || *got.DisplayName != "Ada" || got.PhotoURL != nil {
		t.Errorf("GetUser() optional fields = %+v", got)
	}

	if err := store.SetUserRole(ctx, "u1", models.RoleAdmin); err != nil {
		t.Fatalf("SetUserRole() error = %v", err)
	}
	got, _ = store.GetUser(ctx, "u1")
	if got.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", got.Role)
	}

	if err := store.SetUserRole(ctx, "nobody", models.RoleAdmin); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("SetUserRole(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetUser(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetUser(missing) error = %v, want ErrNotFound", err)
	}

	if _, err := store.CreateUser(ctx, models.UserProfile{ID: "u2", Email: "c@example.com"}); err != nil {
		t.Fatal(err)
	}
	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 2 || users[0].ID != "u1" || users[1].ID != "u2" {
		t.Errorf("ListUsers() = %+v", users)
	}
}

func TestIdentitiesAndSessions(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	identity := models.Identity{UserID: "u1", Provider: models.ProviderPassword, Subject: "a@example.com", Email: "a@example.com", PasswordHash: "hash"}
	if err := store.CreateIdentity(ctx, identity); err != nil {
		t.Fatalf("CreateIdentity() error = %v", err)
	}
	if err := store.CreateIdentity(ctx, identity); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate CreateIdentity() error = %v", err)
	}

	got, err := store.GetIdentity(ctx, models.ProviderPassword, "a@example.com")
	if err != nil {
		t.Fatalf("GetIdentity() error = %v", err)
	}
	if got.UserID != "u1" || got.PasswordHash != "hash" {
		t.Errorf("GetIdentity() = %+v", got)
	}
	if _, err := store.GetIdentity(ctx, models.ProviderGoogle, "a@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetIdentity(other provider) error = %v, want ErrNotFound", err)
	}

	expires := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if err := store.CreateSession(ctx, models.SessionRecord{TokenHash: "h1", UserID: "u1", Email: "a@example.com", ExpiresAt: expires}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	rec, err := store.GetSession(ctx, "h1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if rec.UserID != "u1" || !rec.ExpiresAt.Equal(expires) {
		t.Errorf("GetSession() = %+v", rec)
	}
	if err := store.DeleteSession(ctx, "h1"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := store.GetSession(ctx, "h1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetSession() after delete error = %v", err)
	}
}

func TestTaskLifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	added, err := store.AddTask(ctx, models.Task{ID: "t1", OwnerID: "u1", Title: "Write report"})
	if err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	if added.Status != models.StatusPending {
		t.Errorf("default status = %q, want pending", added.Status)
	}
	if added.DueDate != nil || added.TimeSlot != "" {
		t.Errorf("defaults not applied: %+v", added)
	}
	if added.CreatedAt.IsZero() || !added.UpdatedAt.Equal(added.CreatedAt) {
		t.Errorf("timestamps = %v / %v", added.CreatedAt, added.UpdatedAt)
	}

	added.Title = "Write final report"
	added.Status = models.StatusInProgress
	added.DueDate = strPtr("2026-03-01")
	added.TimeSlot = "10:00-11:00"
	added.OwnerID = "intruder"
	updated, err := store.UpdateTask(ctx, added)
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if updated.Title != "Write final report" || updated.Status != models.StatusInProgress {
		t.Errorf("UpdateTask() fields = %+v", updated)
	}
	if updated.DueDate == nil || *updated.DueDate != "2026-03-01" || updated.TimeSlot != "10:00-11:00" {
		t.Errorf("UpdateTask() schedule = %+v", updated)
	}
	if updated.OwnerID != "u1" {
		t.Errorf("UpdateTask() must not change owner, got %q", updated.OwnerID)
	}
	if !updated.CreatedAt.Equal(added.CreatedAt) || !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Errorf("UpdateTask() timestamps = %v / %v", updated.CreatedAt, updated.UpdatedAt)
	}

	if _, err := store.UpdateTask(ctx, models.Task{ID: "missing", Status: models.StatusPending}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateTask(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.DeleteTask(ctx, "t1"); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if _, err := store.GetTask(ctx, "t1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetTask() after delete error = %v", err)
	}
	if err := store.DeleteTask(ctx, "t1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteTask() error = %v, want ErrNotFound", err)
	}
}

func TestUpdatedAtNeverBeforeCreatedAt(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "skew.db")
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		if calls == 1 {
			return created
		}
		// Clock stepped backwards after the insert.
		return created.Add(-time.Hour)
	}
	store := NewStore(dbPath, WithClock(clock))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	task, err := store.AddTask(ctx, models.Task{ID: "t1", OwnerID: "u1", Title: "a"})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := store.UpdateTask(ctx, task)
	if err != nil {
		t.Fatal(err)
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", updated.UpdatedAt, updated.CreatedAt)
	}
}

func TestQueryTasks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	seed := []models.Task{
		{ID: "a", OwnerID: "u1", Title: "a", Status: models.StatusPending, DueDate: strPtr("2026-03-02")},
		{ID: "b", OwnerID: "u1", Title: "b", Status: models.StatusCompleted},
		{ID: "c", OwnerID: "u2", Title: "c", Status: models.StatusPending, DueDate: strPtr("2026-03-01")},
		{ID: "d", OwnerID: "u1", Title: "d", Status: models.StatusPending, DueDate: strPtr("2026-03-01")},
	}
	for _, task := range seed {
		if _, err := store.AddTask(ctx, task); err != nil {
			t.Fatalf("AddTask(%s) error = %v", task.ID, err)
		}
	}

	tests := []struct {
		name  string
		query storage.TaskQuery
		want  []string
	}{
		{
			name:  "all newest first",
			query: storage.TaskQuery{OrderBy: models.SortFieldCreatedAt, Descending: true},
			want:  []string{"d", "c", "b", "a"},
		},
		{
			name:  "owner only",
			query: storage.TaskQuery{OwnerID: "u1", OrderBy: models.SortFieldCreatedAt, Descending: true},
			want:  []string{"d", "b", "a"},
		},
		{
			name:  "owner and status",
			query: storage.TaskQuery{OwnerID: "u1", Status: models.StatusPending, OrderBy: models.SortFieldCreatedAt, Descending: true},
			want:  []string{"d", "a"},
		},
		{
			name:  "due date ascending nulls first",
			query: storage.TaskQuery{OwnerID: "u1", OrderBy: models.SortFieldDueDate},
			want:  []string{"b", "d", "a"},
		},
		{
			name:  "due date descending nulls last",
			query: storage.TaskQuery{OrderBy: models.SortFieldDueDate, Descending: true},
			want:  []string{"a", "d", "c", "b"},
		},
		{
			name:  "no match",
			query: storage.TaskQuery{OwnerID: "u3"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.QueryTasks(ctx, tt.query)
			if err != nil {
				t.Fatalf("QueryTasks() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("QueryTasks() returned %d tasks, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestClaimTaskEvents(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, models.Task{ID: "t1", OwnerID: "u1", Title: "Plan sprint"})
	if err != nil {
		t.Fatal(err)
	}
	task.Status = models.StatusCompleted
	if _, err := store.UpdateTask(ctx, task); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddTask(ctx, models.Task{ID: "t2", OwnerID: "u1", Title: "Other"}); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteTask(ctx, "t2"); err != nil {
		t.Fatal(err)
	}

	events, err := store.ClaimTaskEvents(ctx, 2)
	if err != nil {
		t.Fatalf("ClaimTaskEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("claimed %d events, want 2", len(events))
	}
	if events[0].Action != models.ActionCreated || events[0].Status != models.StatusPending {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Action != models.ActionUpdated || events[1].Status != models.StatusCompleted || events[1].Title != "Plan sprint" {
		t.Errorf("second event = %+v", events[1])
	}

	rest, err := store.ClaimTaskEvents(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 || rest[0].TaskID != "t2" || rest[0].Action != models.ActionCreated {
		t.Errorf("remaining events = %+v, want only the t2 insert (deletes emit nothing)", rest)
	}

	again, _ := store.ClaimTaskEvents(ctx, 10)
	if len(again) != 0 {
		t.Errorf("claimed events returned twice: %+v", again)
	}
}
