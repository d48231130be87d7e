package table

import (
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/dshills/gridstorm/internal/engine/state"
)

// Command is a table editing command.
type Command interface {
	// Name returns the command's registry name.
	Name() string

	// Check reports whether the command applies to s. It never modifies
	// anything.
	Check(s *state.State) bool

	// Build returns the transaction performing the command on s. It
	// returns ErrNotApplicable exactly when Check returns false.
	Build(s *state.State) (*state.Transaction, error)
}

// Dispatch receives a transaction produced by a command.
type Dispatch func(tr *state.Transaction)

// Run checks cmd against s when dispatch is nil, and otherwise builds the
// command's transaction and hands it to dispatch. It reports whether the
// command applies. Errors other than inapplicability are logged and
// reported as false; s is never modified.
func Run(cmd Command, s *state.State, dispatch Dispatch) bool {
	if dispatch == nil {
		return cmd.Check(s)
	}
	tr, err := cmd.Build(s)
	if err != nil {
		if !errors.Is(err, ErrNotApplicable) {
			glog.Errorf("table: %s failed: %v", cmd.Name(), err)
		}
		return false
	}
	dispatch(tr)
	return true
}

// command builds a Command from a check and an apply function. apply is
// only called after check succeeded.
type command struct {
	name  string
	check func(s *state.State) bool
	apply func(s *state.State, tr *state.Transaction) error
}

func (c *command) Name() string { return c.name }

func (c *command) Check(s *state.State) bool { return c.check(s) }

func (c *command) Build(s *state.State) (*state.Transaction, error) {
	if !c.check(s) {
		return nil, fmt.Errorf("%s: %w", c.name, ErrNotApplicable)
	}
	tr := s.Tr()
	if err := c.apply(s, tr); err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	if glog.V(2) {
		glog.Infof("table: %s built %d steps (tr %s)", c.name, len(tr.Steps()), tr.ID())
	}
	return tr, nil
}

func (c *command) String() string { return c.name }

// selectedRect is the check shared by commands that only need a table
// rectangle.
func selectedRect(s *state.State) bool {
	if !IsInTable(s) {
		return false
	}
	_, err := SelectedRect(s)
	return err == nil
}
