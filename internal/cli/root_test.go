package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/taskboard/internal/config"
	apperrors "github.com/julianstephens/taskboard/internal/errors"
	"github.com/julianstephens/taskboard/internal/identity"
	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/slots"
	"github.com/julianstephens/taskboard/internal/storage/sqlite"
)

func setupContext(t *testing.T, sessions identity.SessionStore) *Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "cli.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewContext(store, config.Default(), sessions, nil)
}

func TestSessionRequiresSignIn(t *testing.T) {
	ctx := setupContext(t, &identity.MemorySessionStore{})
	_, err := ctx.Session(context.Background())
	if !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Errorf("Session() error = %v, want ErrUnauthenticated", err)
	}
}

func TestSessionRestoresAcrossContexts(t *testing.T) {
	sessions := &identity.MemorySessionStore{}
	first := setupContext(t, sessions)
	bg := context.Background()

	if _, err := first.Auth.Register(bg, "a@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}
	if _, err := first.Auth.Login(bg, "a@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}

	// A second invocation shares only the store and the persisted token.
	second := NewContext(first.Store, config.Default(), sessions, nil)
	sess, err := second.Session(bg)
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if sess.Principal.Email != "a@example.com" || sess.Principal.Role != models.RoleUser {
		t.Errorf("principal = %+v", sess.Principal)
	}

	if _, err := second.Writer(bg); err != nil {
		t.Errorf("Writer() for a user = %v", err)
	}
}

func TestWriterForbiddenForAdmin(t *testing.T) {
	ctx := setupContext(t, &identity.MemorySessionStore{})
	bg := context.Background()

	profile, err := ctx.Auth.Register(bg, "admin@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.Store.SetUserRole(bg, profile.ID, models.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Auth.Login(bg, "admin@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}

	if _, err := ctx.Writer(bg); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("Writer() error = %v, want ErrForbidden", err)
	}
	r, err := ctx.Reader(bg)
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	principal := r.Principal()
	if !principal.IsAdmin() {
		t.Error("admin reader should carry the admin principal")
	}
}

func TestPrintTaskLine(t *testing.T) {
	due := "2026-11-01"
	var buf bytes.Buffer
	PrintTaskLine(&buf, models.Task{ID: "t1", OwnerID: "u1", Title: "Plan", Status: models.StatusPending, DueDate: &due}, true)
	PrintTaskLine(&buf, models.Task{ID: "t2", Title: "Read", Status: models.StatusCompleted, TimeSlot: "09:00-10:00"}, false)

	out := buf.String()
	for _, want := range []string{"Plan", "2026-11-01", "unscheduled", "owner: u1", "09:00-10:00", "No due date", "[completed]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "owner:") != 1 {
		t.Errorf("owner should only be shown when asked:\n%s", out)
	}
}

func TestPrintSlots(t *testing.T) {
	visible := []models.Task{{ID: "a", TimeSlot: "09:00-10:00"}}

	var writable bytes.Buffer
	PrintSlots(&writable, slots.Available("", visible, false))
	if !strings.Contains(writable.String(), "09:00-10:00  (Occupied)") {
		t.Errorf("occupied slot not marked:\n%s", writable.String())
	}

	var readOnly bytes.Buffer
	PrintSlots(&readOnly, slots.Available("", visible, true))
	if strings.Contains(readOnly.String(), "Occupied") {
		t.Errorf("read-only view must not mark slots taken:\n%s", readOnly.String())
	}
}
