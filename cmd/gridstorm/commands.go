package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/gridstorm/internal/app"
	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/input"
)

func newCommandsCmd(opts *rootOptions) *cobra.Command {
	var namespaces bool

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the actions that apply, script and batch accept",
		Long: `List every dispatchable action. Names in the "table" namespace
may be given without the prefix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer opts.finish(cmd, a)

			if namespaces {
				for _, ns := range a.System().ListNamespaces() {
					fmt.Fprintln(cmd.OutOrStdout(), ns)
				}
				return nil
			}
			for _, name := range a.System().ListActions() {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimPrefix(name, input.DefaultNamespace+"."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&namespaces, "namespaces", false, "list the action namespaces instead")
	return cmd
}

func newNewCmd(opts *rootOptions) *cobra.Command {
	var (
		rows, cols int
		headerRow  bool
	)

	cmd := &cobra.Command{
		Use:   "new FILE",
		Short: "Create a document holding an empty table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := app.FormatFromPath(args[0])
			if err != nil {
				return err
			}
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer opts.finish(cmd, a)

			doc, err := a.NewScratch(rows, cols, headerRow)
			if err != nil {
				return err
			}
			return doc.SaveAs(args[0], format)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 3, "number of rows")
	cmd.Flags().IntVar(&cols, "cols", 3, "number of columns")
	cmd.Flags().BoolVar(&headerRow, "header", false, "make the first row header cells")
	return cmd
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config PATH",
		Short: "Write the default configuration to PATH",
		Long: `Write the default configuration to PATH as TOML or YAML, chosen by
the extension. An existing file is never overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteDefault(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
}
