package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mExOms/convroute/pkg/guards"
)

func TestLoad_ReadsConfiguredValues(t *testing.T) {
	cfg, err := Load("testdata/planner.yaml")
	require.NoError(t, err)

	assert.Equal(t, "0", cfg.Search.ToleranceMin)
	assert.Equal(t, "0.05", cfg.Search.ToleranceMax)
	assert.Equal(t, 1, cfg.Search.HopLimits.Min)
	assert.Equal(t, 3, cfg.Search.HopLimits.Max)
	assert.Equal(t, int64(5000), cfg.Search.SearchGuards.MaxExpansions)
	assert.True(t, cfg.Search.ThrowOnGuardLimit)
	assert.Equal(t, int64(guards.NoBudget), cfg.Search.SearchGuards.TimeBudgetMs)
	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	assert.Equal(t, "planner.custom.outcomes", cfg.Server.OutcomeTopic)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	require.Error(t, err)
}

func TestSearchDefaults_ParseToleranceWindow(t *testing.T) {
	cfg, err := Load("testdata/planner.yaml")
	require.NoError(t, err)

	tw, err := cfg.Search.ParseToleranceWindow()
	require.NoError(t, err)
	assert.Equal(t, 0, tw.Max.Compare(tw.Heuristic()))
}
