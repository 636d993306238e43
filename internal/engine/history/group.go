package history

import (
	"errors"
	"fmt"
)

// Transaction runs fn inside a group named name. When fn fails, the commands
// it recorded are reverted with revert, newest first, and nothing is
// recorded. revert is called once per command; callers use it to take
// whatever lock guards the document.
//
// Inside a group that is already open, fn joins that group and a failure is
// left for the outer transaction to revert.
func (h *History) Transaction(name string, fn func() error, revert func(Command) error) error {
	h.mu.Lock()
	nested := h.group != nil
	if !nested {
		h.group = NewCompoundCommand(name)
	}
	h.mu.Unlock()

	if nested {
		return fn()
	}

	if err := fn(); err != nil {
		h.mu.Lock()
		g := h.take()
		h.mu.Unlock()

		errs := []error{err}
		if g == nil {
			return err
		}
		for i := len(g.Commands) - 1; i >= 0; i-- {
			if rerr := revert(g.Commands[i]); rerr != nil {
				errs = append(errs, fmt.Errorf("revert %s: %w", g.Commands[i].Description(), rerr))
			}
		}
		return errors.Join(errs...)
	}

	h.EndGroup()
	return nil
}
