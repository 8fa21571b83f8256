package tasks

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/taskboard/internal/cli"
	"github.com/julianstephens/taskboard/internal/importer"
)

type TaskImportCmd struct {
	File string `arg:"" help:"JSON file holding an array of tasks, or - for stdin."`
}

func (c *TaskImportCmd) Run(ctx *cli.Context) error {
	var in io.Reader = os.Stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()
		in = f
	}

	inputs, err := importer.Parse(in)
	if err != nil {
		return err
	}

	dctx, cancel := ctx.Deadline()
	defer cancel()

	w, err := ctx.Writer(dctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range importer.Import(dctx, w, inputs) {
		if res.Err != nil {
			failed++
			fmt.Fprintf(ctx.Out, "❌ %s: %v\n", res.Title, res.Err)
			continue
		}
		fmt.Fprintf(ctx.Out, "✓ %s (ID: %s)\n", res.Task.Title, res.Task.ID)
	}

	fmt.Fprintf(ctx.Out, "\nImported %d of %d task(s)\n", len(inputs)-failed, len(inputs))
	if failed > 0 {
		return fmt.Errorf("%d task(s) could not be imported", failed)
	}
	return nil
}
