package admin

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/config"
	"github.com/julianstephens/taskboard/internal/identity"
	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/storage/sqlite"
)

func setupContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "admin.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := cli.NewContext(store, config.Default(), &identity.MemorySessionStore{}, nil)
	var out bytes.Buffer
	ctx.Out = &out
	return ctx, &out
}

func TestSetRoleByEmailAndID(t *testing.T) {
	ctx, out := setupContext(t)
	bg := context.Background()
	profile, err := ctx.Auth.Register(bg, "ada@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	if err := (&SetRoleCmd{User: "ADA@example.com", Role: "admin"}).Run(ctx); err != nil {
		t.Fatalf("set-role by email failed: %v", err)
	}
	got, err := ctx.Store.GetUser(bg, profile.ID)
	if err != nil || got.Role != models.RoleAdmin {
		t.Errorf("role after set-role = %q, %v", got.Role, err)
	}
	if !strings.Contains(out.String(), "ada@example.com is now admin") {
		t.Errorf("output = %q", out.String())
	}

	if err := (&SetRoleCmd{User: profile.ID, Role: "user"}).Run(ctx); err != nil {
		t.Fatalf("set-role by id failed: %v", err)
	}
	if got, _ := ctx.Store.GetUser(bg, profile.ID); got.Role != models.RoleUser {
		t.Errorf("role = %q, want user", got.Role)
	}
}

func TestSetRoleUnknownUser(t *testing.T) {
	ctx, _ := setupContext(t)
	if err := (&SetRoleCmd{User: "nobody@example.com", Role: "admin"}).Run(ctx); err == nil {
		t.Error("set-role for an unknown user should fail")
	}
}

func TestUsersCmd(t *testing.T) {
	ctx, out := setupContext(t)
	if err := (&UsersCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No users found") {
		t.Errorf("output = %q", out.String())
	}

	if _, err := ctx.Auth.Register(context.Background(), "b@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&UsersCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "user   b@example.com") {
		t.Errorf("output = %q", out.String())
	}
}
