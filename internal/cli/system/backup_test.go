package system

import (
	"context"
	"strings"
	"testing"

	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/storage/sqlite"
)

func TestBackupCommands(t *testing.T) {
	ctx, out, dbPath := setupContext(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	bg := context.Background()
	if _, err := ctx.Auth.Register(bg, "a@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No backups") {
		t.Errorf("empty list output = %q", out.String())
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "Backup created: "))
	if !strings.HasPrefix(name, "taskboard-") {
		t.Fatalf("unexpected backup name %q", name)
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), name) {
		t.Errorf("list output %q should include %s", out.String(), name)
	}

	// Wipe the users so the restore has something to bring back.
	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&BackupRestoreCmd{File: name}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Previous database saved as") {
		t.Errorf("restore output = %q", out.String())
	}

	restored := sqlite.NewStore(dbPath)
	if err := restored.Load(); err != nil {
		t.Fatal(err)
	}
	defer restored.Close()
	users, err := restored.ListUsers(bg)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Email != "a@example.com" {
		t.Errorf("restored users = %+v", users)
	}
}

func TestBackupRestoreCancelled(t *testing.T) {
	ctx, out, _ := setupContext(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "Backup created: "))

	ctx.Prompt = cli.StaticPrompter{Yes: false}
	out.Reset()
	if err := (&BackupRestoreCmd{File: name}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Restore cancelled") {
		t.Errorf("output = %q", out.String())
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _, _ := setupContext(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&BackupRestoreCmd{File: "taskboard-nope.db", Yes: true}).Run(ctx); err == nil {
		t.Error("restore of a missing backup should fail")
	}
}
