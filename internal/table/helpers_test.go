package table

import (
	"github.com/stretchr/testify/require"

	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/state"
	"github.com/dshills/gridstorm/internal/table/tabletest"
)

// mustApply builds cmd against s and returns the resulting state.
func mustApply(t tabletest.T, cmd Command, s *state.State) *state.State {
	t.Helper()
	require.True(t, cmd.Check(s), "%s should apply", cmd.Name())
	tr, err := cmd.Build(s)
	require.NoError(t, err)
	next, err := s.Apply(tr)
	require.NoError(t, err)
	return next
}

// textState returns a state with a cursor at pos.
func textState(doc *model.Node, pos int) *state.State {
	return state.New(doc, state.Cursor(pos))
}

// requireNotApplicable checks that cmd neither applies nor builds.
func requireNotApplicable(t tabletest.T, cmd Command, s *state.State) {
	t.Helper()
	require.False(t, cmd.Check(s), "%s should not apply", cmd.Name())
	_, err := cmd.Build(s)
	require.ErrorIs(t, err, ErrNotApplicable)
	require.False(t, Run(cmd, s, func(*state.Transaction) {
		require.Fail(t, "dispatch called for inapplicable command")
	}))
}
