// Package importer loads tasks in bulk from a JSON array.
package importer

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	apperrors "github.com/julianstephens/taskboard/internal/errors"
	"github.com/julianstephens/taskboard/internal/logger"
	"github.com/julianstephens/taskboard/internal/models"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://taskboard.local/schema/task-import.json"

// Creator is the part of tasks.Writer the importer needs.
type Creator interface {
	Create(ctx context.Context, in models.TaskInput) (models.Task, error)
}

// Result reports one input's outcome. Err is nil when Task was created.
type Result struct {
	Index int
	Title string
	Task  models.Task
	Err   error
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return compiler.Compile(schemaURL)
}

// Parse reads and schema-checks a JSON array of tasks. Each element is
// also validated the way a single create would be, so a bad document is
// rejected before anything is written.
func Parse(r io.Reader) ([]models.TaskInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, apperrors.Invalid("import is not valid JSON: %v", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var inputs []models.TaskInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, apperrors.Invalid("import is not a task list: %v", err)
	}
	for i := range inputs {
		if err := inputs[i].Validate(); err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
	}
	return inputs, nil
}

// Import creates every input through w. It keeps going after a failed
// create; slot conflicts between imported tasks surface as per-item errors.
func Import(ctx context.Context, w Creator, inputs []models.TaskInput) []Result {
	results := make([]Result, 0, len(inputs))
	for i, in := range inputs {
		res := Result{Index: i, Title: in.Title}
		res.Task, res.Err = w.Create(ctx, in)
		if res.Err != nil {
			logger.Warn("Import skipped task", "index", i, "title", in.Title, "error", res.Err)
		}
		results = append(results, res)
	}
	return results
}

func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return apperrors.Invalid("%v", err)
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	loc := strings.TrimPrefix(leaf.InstanceLocation, "/")
	if loc == "" {
		return apperrors.Invalid("%s", leaf.Message)
	}
	return apperrors.Invalid("%s: %s", strings.ReplaceAll(loc, "/", "."), leaf.Message)
}
