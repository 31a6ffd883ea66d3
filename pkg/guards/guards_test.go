package guards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mExOms/convroute/pkg/xerrors"
)

func TestGuards_BreachesExpansionLimit(t *testing.T) {
	g := New(Limits{MaxExpansions: 2, MaxVisitedStates: 100, TimeBudgetMs: NoBudget}, false)

	breached, err := g.RecordExpansion()
	require.NoError(t, err)
	assert.False(t, breached)

	breached, err = g.RecordExpansion()
	require.NoError(t, err)
	assert.True(t, breached)

	report := g.Snapshot()
	assert.True(t, report.ExpansionsReached)
	assert.False(t, report.UniqueVisitedStatesReached)
}

func TestGuards_ThrowOnLimitReturnsTypedError(t *testing.T) {
	g := New(Limits{MaxExpansions: 1, MaxVisitedStates: 100, TimeBudgetMs: NoBudget}, true)

	_, err := g.RecordExpansion()
	require.Error(t, err)

	var guardErr *xerrors.GuardLimitExceeded
	require.ErrorAs(t, err, &guardErr)
	require.Len(t, guardErr.Breaches, 1)
	assert.Equal(t, "expansions", guardErr.Breaches[0].Name)
}

func TestGuards_UniqueVisitedStatesIndependentCounter(t *testing.T) {
	g := New(Limits{MaxExpansions: 100, MaxVisitedStates: 1, TimeBudgetMs: NoBudget}, false)
	breached, err := g.RecordUniqueState()
	require.NoError(t, err)
	assert.True(t, breached)

	report := g.Snapshot()
	assert.True(t, report.UniqueVisitedStatesReached)
	assert.False(t, report.ExpansionsReached)
}

func TestIdleReport_NeverBreached(t *testing.T) {
	report := Idle(Limits{MaxExpansions: 10, MaxVisitedStates: 10, TimeBudgetMs: NoBudget})
	assert.False(t, report.Breached())
}
