package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/taskboard/internal/backup"
	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/storage/sqlite"
)

func backupManager(ctx *cli.Context) (*backup.Manager, error) {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil, fmt.Errorf("backups only apply to SQLite storage")
	}
	return backup.NewManager(ctx.Store.GetConfigPath(), backup.WithKeep(ctx.Config.Backup.Keep)), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	dctx, cancel := ctx.Deadline()
	defer cancel()

	path, err := mgr.Create(dctx)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Fprintf(ctx.Out, "Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}

	if len(backups) == 0 {
		fmt.Fprintf(ctx.Out, "No backups in %s\n", mgr.Dir())
		return nil
	}
	for _, b := range backups {
		fmt.Fprintf(ctx.Out, "%s  %s  (%.1f KB)\n",
			b.Timestamp.Local().Format("2006-01-02 15:04:05"), filepath.Base(b.Path), float64(b.Size)/1024)
	}
	fmt.Fprintf(ctx.Out, "\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Backup path, or a file name inside the backup directory."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path := c.File
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(mgr.Dir(), c.File)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("backup file not found: tried %s and %s", c.File, mgr.Dir())
		}
	}

	if !c.Yes {
		ok, err := ctx.Prompt.Confirm(fmt.Sprintf("Replace the current database with %s?", filepath.Base(path)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(ctx.Out, "Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	dctx, cancel := ctx.Deadline()
	defer cancel()
	previous, err := mgr.Restore(dctx, path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Fprintf(ctx.Out, "Restored %s\n", filepath.Base(path))
	if previous != "" {
		fmt.Fprintf(ctx.Out, "Previous database saved as %s\n", filepath.Base(previous))
	}
	return nil
}
