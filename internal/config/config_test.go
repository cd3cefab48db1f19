package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// No config file on the search path: built-in defaults apply.
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.DealFilters.TurnoverRangeMillions.Min)
	assert.Equal(t, 50.0, cfg.DealFilters.TurnoverRangeMillions.Max)
	assert.True(t, cfg.DealFilters.IncludeUndisclosed)
	assert.Equal(t, 7, cfg.DealFilters.DaysLookback)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
deal_filters:
  turnover_range_millions:
    min: 10
    max: 100
  include_undisclosed: false
  days_lookback: 14
  sectors:
    - Consulting
    - IT Services
  excluded_keywords:
    - bankruptcy
buyer_classification:
  private_equity_indicators:
    - private equity
    - capital partners
technology_keywords:
  primary:
    - cloud
    - data analytics
geographic_mapping:
  - region: UK
    keywords: [uk, britain, london]
  - region: Europe
    keywords: [europe, germany]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.DealFilters.TurnoverRangeMillions.Min)
	assert.Equal(t, 100.0, cfg.DealFilters.TurnoverRangeMillions.Max)
	assert.False(t, cfg.DealFilters.IncludeUndisclosed)
	assert.Equal(t, 14, cfg.DealFilters.DaysLookback)
	assert.Equal(t, []string{"Consulting", "IT Services"}, cfg.DealFilters.Sectors)
	assert.Equal(t, []string{"private equity", "capital partners"}, cfg.BuyerClassification.PrivateEquityIndicators)
	assert.Equal(t, []string{"cloud", "data analytics"}, cfg.TechnologyKeywords.Primary)

	// Region order is preserved for first-match-wins semantics.
	require.Len(t, cfg.GeographicMapping, 2)
	assert.Equal(t, "UK", cfg.GeographicMapping[0].Region)
	assert.Equal(t, "Europe", cfg.GeographicMapping[1].Region)
}

func TestLoad_ExplicitMissingPathFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidRange(t *testing.T) {
	path := writeConfig(t, `
deal_filters:
  turnover_range_millions:
    min: 50
    max: 5
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidLookback(t *testing.T) {
	path := writeConfig(t, `
deal_filters:
  days_lookback: -1
`)
	_, err := Load(path)
	assert.Error(t, err)
}
