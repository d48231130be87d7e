package main

import (
	"github.com/spf13/cobra"
)

func newScriptCmd(opts *rootOptions) *cobra.Command {
	var output outputOptions

	cmd := &cobra.Command{
		Use:   "script FILE SCRIPT.lua",
		Short: "Run a Lua edit script on a document",
		Long: `Run SCRIPT.lua against FILE and write the result.

Scripts use the preloaded "gridstorm" module:

  local g = require("gridstorm")
  g.select_cells(0, 0, 1, 1)
  if g.can("mergeCells") then g.run("mergeCells") end
  local w, h = g.size()
  g.log("now " .. w .. "x" .. h)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, doc, err := opts.openDocument(args[0])
			if err != nil {
				return err
			}
			defer opts.finish(cmd, a)

			if err := a.RunScript(cmd.Context(), args[1]); err != nil {
				return err
			}
			return output.write(cmd, a.Config(), doc)
		},
	}

	addOutputFlags(cmd.Flags(), &output)
	return cmd
}
