package tasks

import (
	"fmt"

	"github.com/julianstephens/taskboard/internal/cli"
)

type TaskDeleteCmd struct {
	ID  string `arg:"" help:"Task ID to delete."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	dctx, cancel := ctx.Deadline()
	defer cancel()

	board, w, err := ctx.Board(dctx)
	if err != nil {
		return err
	}

	task, err := w.Get(dctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find task with ID %s: %w", c.ID, err)
	}

	if !c.Yes {
		ok, err := ctx.Prompt.Confirm(fmt.Sprintf("Delete %q?", task.Title))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(ctx.Out, "Cancelled")
			return nil
		}
	}

	if err := board.Delete(dctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	fmt.Fprintf(ctx.Out, "Deleted task: %s (ID: %s)\n", task.Title, c.ID)
	cli.PrintBoardSummary(ctx.Out, board.Tasks())
	return nil
}
