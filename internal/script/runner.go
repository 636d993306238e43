package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/blocknest/internal/engine"
	"github.com/dshills/blocknest/internal/engine/block"
	"github.com/dshills/blocknest/internal/htmlio"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// Runner executes scripts against an engine.
type Runner struct {
	engine  *engine.Engine
	logger  *zap.Logger
	html    htmlio.Options
	timeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Lua print output is logged at info level.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHTMLOptions sets the options used by html expectations and doc:html.
func WithHTMLOptions(opts htmlio.Options) Option {
	return func(r *Runner) {
		r.html = opts
	}
}

// WithTimeout bounds each run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// NewRunner creates a runner for e.
func NewRunner(e *engine.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:  e,
		logger:  zap.NewNop(),
		html:    htmlio.DefaultOptions(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Engine returns the engine the runner drives.
func (r *Runner) Engine() *engine.Engine {
	return r.engine
}

func (r *Runner) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

// Run executes the steps of s in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, s *Script) error {
	ctx, cancel := r.context(ctx)
	defer cancel()
	_, err := r.runSteps(ctx, s.Steps)
	return err
}

// runSteps executes steps in order and reports whether any of them changed
// the document.
func (r *Runner) runSteps(ctx context.Context, steps []Step) (bool, error) {
	dirty := false
	for i := range steps {
		if err := ctx.Err(); err != nil {
			return dirty, err
		}
		st := &steps[i]
		changed, err := r.step(ctx, st)
		r.logger.Debug("step",
			zap.Int("index", i),
			zap.String("op", st.Op),
			zap.Bool("changed", changed),
			zap.Error(err),
		)
		if err == nil && st.Expect != nil {
			err = r.expect(st.Expect, changed)
		}
		if err != nil {
			return dirty, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		dirty = dirty || changed
	}
	return dirty, nil
}

func (r *Runner) step(ctx context.Context, st *Step) (bool, error) {
	e := r.engine
	var res engine.Result
	var err error

	switch strings.ToLower(st.Op) {
	case "insert":
		res, err = e.Insert(st.Pos, st.Text)
	case "delete":
		res, err = e.Delete(st.Start, st.End)
	case "replace":
		res, err = e.Replace(st.Start, st.End, st.Text)
	case "apply", "remove", "toggle":
		res, err = r.format(st)
	case "align":
		var align block.Alignment
		if align, err = block.ParseAlignment(st.Align); err != nil {
			return false, err
		}
		res, err = e.SetAlignment(st.Start, st.End, align)
	case "indent":
		res, err = e.Indent(st.Start, st.End)
	case "outdent":
		res, err = e.Outdent(st.Start, st.End)
	case "undo":
		return undoRedo(e.Undo())
	case "redo":
		return undoRedo(e.Redo())
	case "snapshot":
		e.CreateSnapshot(st.Name)
		return false, nil
	case "restore":
		snap, err := e.GetSnapshotByName(st.Name)
		if err != nil {
			return false, err
		}
		return true, e.RestoreSnapshot(snap.ID)
	case "group":
		var changed bool
		err := e.Transaction(st.Name, func() error {
			var err error
			changed, err = r.runSteps(ctx, st.Steps)
			return err
		})
		return changed && err == nil, err
	case "check":
		return false, e.Check()
	case "expect", "":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownOp, st.Op)
	}
	return res.Changed, err
}

func (r *Runner) format(st *Step) (engine.Result, error) {
	typ, err := block.ParseType(st.Type)
	if err != nil {
		return engine.Result{}, err
	}
	attrs, err := st.attributes()
	if err != nil {
		return engine.Result{}, err
	}

	switch strings.ToLower(st.Op) {
	case "apply":
		return r.engine.Apply(st.Start, st.End, typ, attrs)
	case "remove":
		return r.engine.Remove(st.Start, st.End, typ)
	}
	return r.engine.Toggle(st.Start, st.End, typ, attrs)
}

func undoRedo(err error) (bool, error) {
	if errors.Is(err, engine.ErrNothingToUndo) || errors.Is(err, engine.ErrNothingToRedo) {
		return false, nil
	}
	return err == nil, err
}

func (r *Runner) expect(x *Expectation, changed bool) error {
	e := r.engine
	if x.Changed != nil && *x.Changed != changed {
		return fmt.Errorf("%w: changed = %v, want %v", ErrExpectation, changed, *x.Changed)
	}
	if x.Text != nil {
		if got := e.Text(); got != *x.Text {
			return fmt.Errorf("%w: text = %q, want %q", ErrExpectation, got, *x.Text)
		}
	}
	if x.HTML != nil {
		got, err := htmlio.ExportString(e, r.html)
		if err != nil {
			return err
		}
		if got != *x.HTML {
			return fmt.Errorf("%w: html = %q, want %q", ErrExpectation, got, *x.HTML)
		}
	}
	if x.Annotations != nil {
		anns := e.Annotations()
		got := make([]string, len(anns))
		for i := range anns {
			got[i] = anns[i].String()
		}
		if strings.Join(got, "\n") != strings.Join(x.Annotations, "\n") {
			return fmt.Errorf("%w: annotations = %v, want %v", ErrExpectation, got, x.Annotations)
		}
	}
	return nil
}
