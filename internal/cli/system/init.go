package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/taskboard/internal/backup"
	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/logger"
	"github.com/julianstephens/taskboard/internal/storage/sqlite"
)

type InitCmd struct {
	Force bool `help:"Back up and delete an existing SQLite database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*sqlite.Store); !ok {
			return fmt.Errorf("--force only applies to SQLite storage")
		}

		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			dctx, cancel := ctx.Deadline()
			saved, err := backup.NewManager(dbPath, backup.WithKeep(ctx.Config.Backup.Keep)).Create(dctx)
			cancel()
			if err != nil {
				// An unreadable database is exactly what --force is for.
				logger.Warn("Could not back up existing database", "path", dbPath, "error", err)
			} else {
				fmt.Fprintf(ctx.Out, "Backed up existing database to: %s\n", saved)
			}

			// Close first so the file is not held open.
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Fprintf(ctx.Out, "Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Initialized taskboard storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
