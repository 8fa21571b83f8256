package tasks

import (
	"fmt"

	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/models"
)

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `short:"d" help:"Task description."`
	Status      string `short:"s" help:"Status (pending|in-progress|completed)." default:"pending" enum:"pending,in-progress,completed"`
	Due         string `help:"Due date (YYYY-MM-DD)."`
	Slot        string `help:"Time slot, e.g. 09:00-10:00. Run 'taskboard slots' to see which are free."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	dctx, cancel := ctx.Deadline()
	defer cancel()

	board, w, err := ctx.Board(dctx)
	if err != nil {
		return err
	}

	if w.Slots(dctx, "").NeedsNotice(true, c.Slot) {
		fmt.Fprintln(ctx.Out, "ℹ All time slots are occupied. The task will be created unscheduled.")
	}

	task, err := board.Create(dctx, models.TaskInput{
		Title:       c.Title,
		Description: c.Description,
		Status:      models.Status(c.Status),
		DueDate:     c.Due,
		TimeSlot:    c.Slot,
	})
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	fmt.Fprintf(ctx.Out, "Added task: %s (ID: %s)\n", task.Title, task.ID)
	cli.PrintBoardSummary(ctx.Out, board.Tasks())
	return nil
}
