package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/gridstorm/internal/app"
	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
)

// stdoutPath selects standard output as the write target.
const stdoutPath = "-"

var errInvalidSelection = errors.New("invalid selection")

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	readOnly   bool
	stats      bool
}

// newApp creates an application from the persistent flags.
func (o *rootOptions) newApp() (*app.Application, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.stats {
		cfg.Dispatcher.Metrics = true
		cfg.Dispatcher.Performance = true
	}
	return app.New(app.Options{Config: &cfg, ReadOnly: o.readOnly})
}

// finish prints the dispatch statistics when --stats is set and shuts a
// down. Unsaved changes are expected after a dry run and are not reported.
func (o *rootOptions) finish(cmd *cobra.Command, a *app.Application) {
	if o.stats {
		printStats(cmd.ErrOrStderr(), a.System())
	}
	if err := a.Shutdown(); err != nil && !errors.Is(err, app.ErrUnsavedChanges) {
		fmt.Fprintln(cmd.ErrOrStderr(), "gridstorm:", err)
	}
}

// openDocument creates an application and opens path in it.
func (o *rootOptions) openDocument(path string) (*app.Application, *app.Document, error) {
	a, err := o.newApp()
	if err != nil {
		return nil, nil, err
	}
	doc, err := a.Open(path)
	if err != nil {
		_ = a.Shutdown()
		return nil, nil, err
	}
	return a, doc, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "gridstorm",
		Short: "Structural editing of tables in rich-text documents",
		Long: `gridstorm edits the tables of ProseMirror-style JSON and HTML documents.

Commands select a cell or a rectangle of cells and run table commands
(addRowAfter, mergeCells, toggleHeaderRow, ...) the way a rich-text
editor would, keeping every table a consistent grid.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// glog reads its flags from the standard flag set.
			if !flag.Parsed() {
				_ = flag.CommandLine.Parse(nil)
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (.toml or .yaml)")
	root.PersistentFlags().BoolVar(&opts.readOnly, "read-only", false,
		"open documents read-only")
	root.PersistentFlags().BoolVar(&opts.stats, "stats", false,
		"print dispatch statistics to stderr")
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	root.AddCommand(
		newShowCmd(opts),
		newApplyCmd(opts),
		newScriptCmd(opts),
		newBatchCmd(opts),
		newNewCmd(opts),
		newCommandsCmd(opts),
		newInitConfigCmd(),
	)
	return root
}

// selection is a parsed --select value.
type selection struct {
	r1, c1, r2, c2 int
}

// parseSelection parses "row,col" or "row,col:row,col".
func parseSelection(s string) (selection, error) {
	from, to, isRange := strings.Cut(s, ":")
	r1, c1, err := parseCell(from)
	if err != nil {
		return selection{}, fmt.Errorf("%w %q: %v", errInvalidSelection, s, err)
	}
	sel := selection{r1: r1, c1: c1, r2: r1, c2: c1}
	if isRange {
		if sel.r2, sel.c2, err = parseCell(to); err != nil {
			return selection{}, fmt.Errorf("%w %q: %v", errInvalidSelection, s, err)
		}
	}
	return sel, nil
}

func parseCell(s string) (row, col int, err error) {
	r, c, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("want row,col, got %q", s)
	}
	if row, err = strconv.Atoi(strings.TrimSpace(r)); err != nil {
		return 0, 0, err
	}
	if col, err = strconv.Atoi(strings.TrimSpace(c)); err != nil {
		return 0, 0, err
	}
	if row < 0 || col < 0 {
		return 0, 0, fmt.Errorf("negative coordinate in %q", s)
	}
	return row, col, nil
}

// outputOptions controls where an edited document is written.
type outputOptions struct {
	out    string
	format string
}

func addOutputFlags(fs *pflag.FlagSet, o *outputOptions) {
	fs.StringVarP(&o.out, "out", "o", "",
		`write the result here instead of back to FILE ("-" for stdout)`)
	fs.StringVarP(&o.format, "format", "f", "",
		"output format: json or html (default: from the target extension)")
}

// write stores doc according to the output flags. An empty --out saves
// the document in place.
func (o outputOptions) write(cmd *cobra.Command, cfg config.Config, doc *app.Document) error {
	switch o.out {
	case "":
		if o.format == "" || o.format == doc.Format {
			return doc.Save()
		}
		return doc.SaveAs(doc.Path, o.format)
	case stdoutPath:
		format := o.format
		if format == "" {
			format = cfg.Output.Format
		}
		data, err := app.EncodeDocument(format, doc.Engine.Doc())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	format := o.format
	if format == "" {
		var err error
		if format, err = app.FormatFromPath(o.out); err != nil {
			format = cfg.Output.Format
		}
	}
	if err := doc.SaveAs(o.out, format); err != nil {
		return err
	}
	glog.V(1).Infof("gridstorm: wrote %s (%s)", o.out, format)
	return nil
}

// resultError converts a failed or inapplicable dispatch into an error.
func resultError(name string, result handler.Result) error {
	switch result.Status {
	case handler.StatusOK:
		return nil
	case handler.StatusNoOp:
		msg := result.Message
		if msg == "" {
			msg = "not applicable"
		}
		return fmt.Errorf("%s: %s", name, msg)
	}
	if result.Error != nil {
		return fmt.Errorf("%s: %w", name, result.Error)
	}
	return fmt.Errorf("%s: %s", name, result.Status)
}
