package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/models"
)

type TaskListCmd struct {
	Filter string `short:"f" help:"Status filter (all|pending|in-progress|completed)." default:"all"`
	Sort   string `help:"Sort order (due_date_asc|due_date_desc). Newest first when unset."`
	JSON   bool   `help:"Print tasks as JSON." name:"json"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	dctx, cancel := ctx.Deadline()
	defer cancel()

	r, err := ctx.Reader(dctx)
	if err != nil {
		return err
	}

	tasks := r.List(dctx, models.Filter(c.Filter), models.Sort(c.Sort))
	if c.JSON {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(ctx.Out, "No tasks found")
		return nil
	}

	principal := r.Principal()
	admin := principal.IsAdmin()
	if admin {
		fmt.Fprintln(ctx.Out, "All tasks (read-only):")
	} else {
		fmt.Fprintln(ctx.Out, "Tasks:")
	}
	for _, t := range tasks {
		cli.PrintTaskLine(ctx.Out, t, admin)
	}
	return nil
}

type TaskShowCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskShowCmd) Run(ctx *cli.Context) error {
	dctx, cancel := ctx.Deadline()
	defer cancel()

	r, err := ctx.Reader(dctx)
	if err != nil {
		return err
	}

	task, err := r.Get(dctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find task with ID %s: %w", c.ID, err)
	}

	cli.PrintTaskDetail(ctx.Out, task)
	fmt.Fprintln(ctx.Out)
	fmt.Fprintln(ctx.Out, "Time slots:")
	cli.PrintSlots(ctx.Out, r.Slots(dctx, task.ID))
	return nil
}

type SlotsCmd struct {
	Task string `help:"Evaluate slots for editing this task ID; its own slot stays free."`
}

func (c *SlotsCmd) Run(ctx *cli.Context) error {
	dctx, cancel := ctx.Deadline()
	defer cancel()

	r, err := ctx.Reader(dctx)
	if err != nil {
		return err
	}

	avail := r.Slots(dctx, c.Task)
	cli.PrintSlots(ctx.Out, avail)
	if avail.NeedsNotice(c.Task == "", "") {
		fmt.Fprintln(ctx.Out)
		fmt.Fprintln(ctx.Out, "ℹ All time slots are occupied.")
	}
	return nil
}
