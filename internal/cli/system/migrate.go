package system

import (
	"fmt"

	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/storage"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return fmt.Errorf("storage backend does not support migrations")
	}

	dctx, cancel := ctx.Deadline()
	defer cancel()

	count, err := migrator.Migrate(dctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Fprintln(ctx.Out, "No migrations to apply. Database is up to date.")
	} else {
		fmt.Fprintf(ctx.Out, "Successfully applied %d migration(s).\n", count)
	}
	return nil
}
