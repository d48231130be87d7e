package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/gridstorm/internal/app"
	historyhandler "github.com/dshills/gridstorm/internal/dispatcher/handlers/history"
	"github.com/dshills/gridstorm/internal/input"
)

var errInvalidBatch = errors.New("invalid batch file")

// batchStep is one entry of a batch edit file.
type batchStep struct {
	// Select moves the selection before the command runs. Empty keeps the
	// selection the previous step left.
	Select  string         `yaml:"select"`
	Table   int            `yaml:"table"`
	Command string         `yaml:"command"`
	Args    map[string]any `yaml:"args"`
}

// loadBatch reads and validates the batch file at path.
func loadBatch(path string) ([]batchStep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var steps []batchStep
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("%w %s: %v", errInvalidBatch, path, err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w %s: no steps", errInvalidBatch, path)
	}
	for i, step := range steps {
		if step.Command == "" {
			return nil, fmt.Errorf("%w %s: step %d has no command", errInvalidBatch, path, i+1)
		}
		if step.Select != "" {
			if _, err := parseSelection(step.Select); err != nil {
				return nil, fmt.Errorf("%w %s: step %d: %v", errInvalidBatch, path, i+1, err)
			}
		}
	}
	return steps, nil
}

// action builds the dispatcher action for the step.
func (s batchStep) action() (input.Action, error) {
	action, err := input.ParseAction(s.Command)
	if err != nil {
		return input.Action{}, err
	}
	for k, v := range s.Args {
		action = action.WithArg(k, v)
	}
	return action.WithSource(input.SourceBatch), nil
}

// batchSnapshot names the snapshot a failing batch restores.
const batchSnapshot = "batch"

// runSteps selects and dispatches every step in order, stopping at the
// first failure.
func runSteps(cmd *cobra.Command, a *app.Application, steps []batchStep) error {
	for i, step := range steps {
		if step.Select != "" {
			sel, _ := parseSelection(step.Select)
			if err := a.Select(step.Table, sel.r1, sel.c1, sel.r2, sel.c2); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		action, err := step.action()
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := resultError(action.Name, a.Dispatch(cmd.Context(), action)); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func newBatchCmd(opts *rootOptions) *cobra.Command {
	var output outputOptions

	cmd := &cobra.Command{
		Use:   "batch FILE EDITS.yaml",
		Short: "Apply a YAML list of edits to a document",
		Long: `Apply the steps of EDITS.yaml to FILE in order and write the result.
Nothing is written if any step fails; the document is restored to its
state before the first step.

Each step selects cells (optional) and runs one command:

  - select: 0,0:1,1
    command: mergeCells
  - select: 2,0
    table: 1
    command: setCellAttr
    args:
      name: background
      value: "#eee"
  - command: addRowAfter`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := loadBatch(args[1])
			if err != nil {
				return err
			}

			a, doc, err := opts.openDocument(args[0])
			if err != nil {
				return err
			}
			defer opts.finish(cmd, a)

			history := func(name string) error {
				action := input.NewAction(name, nil).WithArg("name", batchSnapshot).WithSource(input.SourceBatch)
				return resultError(name, a.Dispatch(cmd.Context(), action))
			}
			if err := history(historyhandler.ActionSnapshot); err != nil {
				return err
			}
			if err := runSteps(cmd, a, steps); err != nil {
				if rerr := history(historyhandler.ActionRestore); rerr != nil {
					glog.Warningf("gridstorm: %v", rerr)
				}
				return err
			}
			if err := history(historyhandler.ActionDropSnapshot); err != nil {
				return err
			}
			return output.write(cmd, a.Config(), doc)
		},
	}

	addOutputFlags(cmd.Flags(), &output)
	return cmd
}
