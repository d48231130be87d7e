package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/gridstorm/internal/input"
)

func newApplyCmd(opts *rootOptions) *cobra.Command {
	var (
		tableIndex int
		selectArg  string
		dryRun     bool
		output     outputOptions
	)

	cmd := &cobra.Command{
		Use:   "apply FILE COMMAND...",
		Short: "Run table commands on a document",
		Long: `Select cells in a table of FILE and run table commands on them.

COMMAND is a command name with optional arguments, for example
"addRowAfter", "setCellAttr:name=background,value=red" or
"goToNextCell:direction=-1". Commands run in order against the selection
each one leaves behind. Use "gridstorm commands" to list them.

Examples:
  # Merge the top-left 2x2 block of the first table
  gridstorm apply doc.json --select 0,0:1,1 mergeCells

  # Add two rows below row 3 and print the result as HTML
  gridstorm apply doc.json --select 3,0 addRowAfter addRowAfter -o - -f html

  # Report which commands would apply without editing
  gridstorm apply doc.json --select 0,0 --dry-run mergeCells splitCell`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSelection(selectArg)
			if err != nil {
				return err
			}
			actions := make([]input.Action, 0, len(args)-1)
			for _, arg := range args[1:] {
				action, err := input.ParseAction(arg)
				if err != nil {
					return err
				}
				actions = append(actions, action.WithSource(input.SourceCLI))
			}

			a, doc, err := opts.openDocument(args[0])
			if err != nil {
				return err
			}
			defer opts.finish(cmd, a)

			if err := a.Select(tableIndex, sel.r1, sel.c1, sel.r2, sel.c2); err != nil {
				return err
			}

			if dryRun {
				for _, action := range actions {
					result := a.Check(action)
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", action.Name, result.Status)
				}
				return nil
			}

			results, err := a.DispatchBatch(cmd.Context(), actions, true)
			if err != nil {
				return err
			}
			for i, result := range results {
				if err := resultError(actions[i].Name, result); err != nil {
					return err
				}
			}
			return output.write(cmd, a.Config(), doc)
		},
	}

	cmd.Flags().IntVarP(&tableIndex, "table", "t", 0, "index of the table to edit")
	cmd.Flags().StringVarP(&selectArg, "select", "s", "0,0", "cell (row,col) or range (row,col:row,col) to select")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report whether each command applies without editing")
	addOutputFlags(cmd.Flags(), &output)
	return cmd
}
