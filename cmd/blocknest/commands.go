package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dshills/blocknest/internal/config"
	"github.com/dshills/blocknest/internal/engine"
	"github.com/dshills/blocknest/internal/htmlio"
	"github.com/dshills/blocknest/internal/script"
)

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate the block structure of documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				e, err := a.openEngine(path, cmd.InOrStdin())
				if err != nil {
					return err
				}
				if err := e.Check(); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(a.out, "%s: ok (%d annotations)\n", path, len(e.Annotations()))
			}
			return nil
		},
	}
}

// dumpResult is the YAML form of a document.
type dumpResult struct {
	Text        string           `yaml:"text"`
	Annotations []dumpAnnotation `yaml:"annotations"`
}

type dumpAnnotation struct {
	Type  string            `yaml:"type"`
	Level int               `yaml:"level"`
	Start int               `yaml:"start"`
	End   int               `yaml:"end"`
	Align string            `yaml:"align,omitempty"`
	Attrs map[string]string `yaml:"attrs,omitempty"`
}

func newDumpResult(e *engine.Engine) dumpResult {
	res := dumpResult{Text: e.Text(), Annotations: []dumpAnnotation{}}
	for _, ann := range e.Annotations() {
		d := dumpAnnotation{
			Type:  ann.Type.String(),
			Level: ann.Level,
			Start: ann.Start,
			End:   ann.End,
			Align: ann.Align.String(),
		}
		if ann.Attrs.Len() > 0 {
			d.Attrs = make(map[string]string, ann.Attrs.Len())
			for _, k := range ann.Attrs.Keys() {
				d.Attrs[k], _ = ann.Attrs.Get(k)
			}
		}
		res.Annotations = append(res.Annotations, d)
	}
	return res
}

func (a *app) newDumpCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the text and annotations of a document",
		Long: `Print the text and block annotations of a document.

Output formats:
  table  - one annotation per row (default)
  yaml   - text and annotations as YAML`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.openEngine(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			res := newDumpResult(e)

			switch output {
			case "yaml":
				enc := yaml.NewEncoder(a.out)
				enc.SetIndent(2)
				if err := enc.Encode(res); err != nil {
					return err
				}
				return enc.Close()
			case "table":
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TYPE\tLEVEL\tSTART\tEND\tALIGN\tTEXT")
				for _, ann := range res.Annotations {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%q\n",
						ann.Type, ann.Level, ann.Start, ann.End, ann.Align,
						e.TextRange(ann.Start, min(ann.End, e.Len())))
				}
				return tw.Flush()
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, yaml)")
	return cmd
}

func (a *app) newFmtCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Normalize an HTML document",
		Long: `Import an HTML document and export it again. Adjacent blocks of the same
type are merged and unsupported markup is dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.openEngine(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts := a.htmlOptions()
			if cmd.Flags().Changed("pretty") {
				opts.Pretty = pretty
			}
			return a.writeHTML(e, opts)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")
	return cmd
}

func (a *app) writeHTML(e *engine.Engine, opts htmlio.Options) error {
	out, err := htmlio.ExportString(e, opts)
	if err != nil {
		return err
	}
	if out != "" && out[len(out)-1] != '\n' {
		out += "\n"
	}
	_, err = fmt.Fprint(a.out, out)
	return err
}

func (a *app) newRunCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Run a YAML or Lua script and print the resulting HTML",
		Long: `Run an operation script against a document and print the result as HTML.

YAML scripts (.yaml, .yml) list steps with optional expectations. Lua
scripts (.lua) drive the global doc object.

Examples:
  # Run a YAML script on its own initial content
  blocknest run lists.yaml

  # Run a Lua script on an existing document
  blocknest run --input notes.html outline.lua`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.runScript(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			return a.writeHTML(e, a.htmlOptions())
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Initial document (HTML or plain text)")
	return cmd
}

// runScript runs the script at path. A non-empty input replaces the
// script's own initial content.
func (a *app) runScript(ctx context.Context, path, input string) (*engine.Engine, error) {
	var s *script.Script
	if !script.IsLua(path) {
		var err error
		if s, err = script.ParseFile(path); err != nil {
			return nil, err
		}
	}

	var e *engine.Engine
	var err error
	switch {
	case input != "":
		e, err = a.openEngine(input, os.Stdin)
	case s != nil:
		e, err = s.NewEngine(a.htmlOptions(), a.engineOptions()...)
	default:
		e, err = engine.New(a.engineOptions()...)
	}
	if err != nil {
		return nil, err
	}

	r := script.NewRunner(e,
		script.WithLogger(a.logger.Named("script")),
		script.WithHTMLOptions(a.htmlOptions()),
	)
	if s == nil {
		err = r.RunLuaFile(ctx, path)
	} else {
		err = r.Run(ctx, s)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.logger.Info("script finished",
		zap.String("path", path),
		zap.Int("undo", e.UndoCount()),
		zap.Int("annotations", len(e.Annotations())),
	)
	return e, nil
}

func (a *app) newWatchCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "watch SCRIPT",
		Short: "Re-run a script whenever the configuration file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfgPath == "" {
				return fmt.Errorf("watch requires --config")
			}
			rerun := func() {
				e, err := a.runScript(cmd.Context(), args[0], input)
				if err == nil {
					err = a.writeHTML(e, a.htmlOptions())
				}
				if err != nil {
					fmt.Fprintf(a.errOut, "Error: %v\n", err)
				}
			}
			rerun()

			return config.Watch(cmd.Context(), a.cfgPath, func(cfg *config.Config, err error) {
				if err != nil {
					a.logger.Warn("configuration reload failed", zap.Error(err))
					return
				}
				logger, err := cfg.Log.NewLogger()
				if err != nil {
					a.logger.Warn("configuration reload failed", zap.Error(err))
					return
				}
				a.cfg, a.logger = cfg, logger
				a.logger.Info("configuration reloaded", zap.String("path", a.cfgPath))
				rerun()
			})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Initial document (HTML or plain text)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "blocknest %s (commit %s, built %s)\n", version, commit, date)
			return nil
		},
	}
}
