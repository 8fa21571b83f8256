package system

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/config"
	"github.com/julianstephens/taskboard/internal/identity"
	"github.com/julianstephens/taskboard/internal/storage/sqlite"
)

// setupContext returns a context over an uninitialized SQLite store.
func setupContext(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	ctx := cli.NewContext(store, config.Default(), &identity.MemorySessionStore{}, nil)
	var out bytes.Buffer
	ctx.Out = &out
	ctx.Prompt = cli.StaticPrompter{Secret: "hunter22", Yes: true}
	return ctx, &out, dbPath
}
