package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/taskboard/internal/backup"
	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/keyring"
	"github.com/julianstephens/taskboard/internal/storage"
	"github.com/julianstephens/taskboard/internal/storage/sqlite"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	// warnOnly failures do not fail the run.
	warnOnly bool
	run      func(ctx context.Context, c *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Users readable", needsDB: true, run: checkUsersReadable},
	{name: "Notifier config", run: checkNotifierConfig},
	{name: "OS keyring", warnOnly: true, run: checkKeyring},
	{name: "Backups", needsDB: true, warnOnly: true, run: checkBackups},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Fprintln(ctx.Out, "Running diagnostics...")
	fmt.Fprintln(ctx.Out)

	dctx, cancel := ctx.Deadline()
	defer cancel()

	hasError := false
	dbReachable := true
	if err := ctx.Store.Load(); err != nil {
		fmt.Fprintf(ctx.Out, "❌ Database reachable: FAIL\n")
		fmt.Fprintf(ctx.Out, "   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Fprintf(ctx.Out, "✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Fprintf(ctx.Out, "⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(dctx, ctx)
		switch {
		case err == nil:
			fmt.Fprintf(ctx.Out, "✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Fprintf(ctx.Out, "⚠ %s: WARNING\n", c.name)
			fmt.Fprintf(ctx.Out, "   %v\n", err)
		default:
			fmt.Fprintf(ctx.Out, "❌ %s: FAIL\n", c.name)
			fmt.Fprintf(ctx.Out, "   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Fprintln(ctx.Out)
	if hasError {
		fmt.Fprintln(ctx.Out, "Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	fmt.Fprintln(ctx.Out, "All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx context.Context, c *cli.Context) error {
	migrator, ok := c.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := migrator.SchemaStatus(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("schema version %d is behind %d, run 'taskboard migrate'", current, latest)
	}
	if current > latest {
		return fmt.Errorf("schema version %d is newer than supported version %d, upgrade taskboard", current, latest)
	}
	return nil
}

func checkUsersReadable(ctx context.Context, c *cli.Context) error {
	_, err := c.Store.ListUsers(ctx)
	return err
}

func checkNotifierConfig(_ context.Context, c *cli.Context) error {
	return c.Config.Validate()
}

func checkKeyring(context.Context, *cli.Context) error {
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available; sign-ins will not persist")
	}
	return nil
}

func checkBackups(_ context.Context, c *cli.Context) error {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := backup.NewManager(c.Store.GetConfigPath()).List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return errors.New("no backups yet, run 'taskboard backup create'")
	}
	return nil
}

func checkClockTimezone(context.Context, *cli.Context) error {
	now := time.Now()
	// Session expiry depends on a sane clock.
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
