package tasks

import (
	"fmt"

	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/models"
)

type TaskEditCmd struct {
	ID          string  `arg:"" help:"Task ID."`
	Title       *string `help:"New title."`
	Description *string `short:"d" help:"New description."`
	Status      *string `short:"s" help:"New status (pending|in-progress|completed)."`
	Due         *string `help:"New due date (YYYY-MM-DD). Pass an empty string to clear it."`
	Slot        *string `help:"New time slot. Pass an empty string to unschedule."`
}

func (c *TaskEditCmd) patch() models.TaskPatch {
	p := models.TaskPatch{
		Title:       c.Title,
		Description: c.Description,
		DueDate:     c.Due,
		TimeSlot:    c.Slot,
	}
	if c.Status != nil {
		status := models.Status(*c.Status)
		p.Status = &status
	}
	return p
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	dctx, cancel := ctx.Deadline()
	defer cancel()

	board, _, err := ctx.Board(dctx)
	if err != nil {
		return err
	}

	task, err := board.Update(dctx, c.ID, c.patch())
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", c.ID, err)
	}

	fmt.Fprintf(ctx.Out, "Updated task: %s (ID: %s)\n", task.Title, task.ID)
	cli.PrintBoardSummary(ctx.Out, board.Tasks())
	return nil
}
