package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/blocknest/internal/config"
	"github.com/dshills/blocknest/internal/engine"
	"github.com/dshills/blocknest/internal/htmlio"
)

// app carries the state shared by all commands.
type app struct {
	out     io.Writer
	errOut  io.Writer
	cfgPath string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "blocknest",
		Short: "Nested block annotations for rich text",
		Long: `Blocknest keeps block formatting (paragraphs, headings, quotes, lists and
preformatted text) as nested annotations over plain text and converts it to
and from HTML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(a.cfgPath)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "Path to configuration file (.toml or .yaml)")

	root.AddCommand(
		a.newCheckCmd(),
		a.newDumpCmd(),
		a.newFmtCmd(),
		a.newRunCmd(),
		a.newWatchCmd(),
		newVersionCmd(),
	)
	return root
}

// configure loads the configuration and rebuilds the logger.
func (a *app) configure(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) htmlOptions() htmlio.Options {
	return htmlio.Options{
		TaskListAttr: a.cfg.HTML.TaskListAttr,
		Pretty:       a.cfg.HTML.Pretty,
	}
}

func (a *app) engineOptions() []engine.Option {
	return []engine.Option{
		engine.WithMaxUndoEntries(a.cfg.Engine.MaxUndoEntries),
		engine.WithStrictInvariants(a.cfg.Engine.StrictInvariants),
		engine.WithLogger(a.logger.Named("engine")),
	}
}

// openEngine loads an input file into a new engine. Files ending in .html or
// .htm are imported; anything else is plain text. "-" reads stdin.
func (a *app) openEngine(path string, stdin io.Reader) (*engine.Engine, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	opts := a.engineOptions()
	if !isHTML(path) {
		return engine.New(append(opts, engine.WithContent(string(data)))...)
	}

	c, err := htmlio.ImportString(string(data), a.htmlOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.logger.Debug("imported",
		zap.String("path", path),
		zap.Int("len", len([]rune(c.Text()))),
		zap.Int("annotations", len(c.Annotations())),
	)
	return engine.New(append(opts,
		engine.WithContent(c.Text()),
		engine.WithAnnotations(c.Annotations()),
	)...)
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return path == "-"
}
