package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

var now = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestParseServeFlags(t *testing.T) {
	flags, err := ParseServeFlags([]string{"-port", "9000", "-verbose"})
	require.NoError(t, err)
	assert.Equal(t, 9000, flags.Port)
	assert.True(t, flags.Verbose)
	assert.Equal(t, "config.yaml", flags.ConfigPath)

	_, err = ParseServeFlags([]string{"-port", "x"})
	assert.Error(t, err)
}

func TestParseRecomputeFlags(t *testing.T) {
	t.Run("defaults to the current month", func(t *testing.T) {
		flags, err := ParseRecomputeFlags(nil, now)
		require.NoError(t, err)
		p, err := flags.Period()
		require.NoError(t, err)
		assert.Equal(t, planning.Period{Month: "March", Year: 2025}, p)
		assert.Equal(t, -1, flags.AsOfDay)
	})

	t.Run("numeric month", func(t *testing.T) {
		flags, err := ParseRecomputeFlags([]string{"-month", "1", "-year", "2024", "-redistribute", "10"}, now)
		require.NoError(t, err)
		p, err := flags.Period()
		require.NoError(t, err)
		assert.Equal(t, "January", p.Month)
		assert.Equal(t, 10, flags.AsOfDay)
	})

	t.Run("retry", func(t *testing.T) {
		flags, err := ParseRecomputeFlags([]string{"-retry", "42"}, now)
		require.NoError(t, err)
		assert.Equal(t, int64(42), flags.RetryRunID)

		_, err = ParseRecomputeFlags([]string{"-retry", "-3"}, now)
		assert.Error(t, err)
	})
}

func TestParseCatalogFlags(t *testing.T) {
	flags, err := ParseCatalogFlags([]string{"-file", "catalog.xlsx", "-sheet", "Products"})
	require.NoError(t, err)
	assert.Equal(t, "catalog.xlsx", flags.File)
	assert.Equal(t, "Products", flags.Sheet)

	_, err = ParseCatalogFlags(nil)
	assert.Error(t, err)

	_, err = ParseCatalogFlags([]string{"-file", "a.xlsx", "-template", "b.xlsx"})
	assert.Error(t, err)
}

func TestParseReportFlags(t *testing.T) {
	flags, err := ParseReportFlags([]string{"-month", "february"}, now)
	require.NoError(t, err)
	assert.Equal(t, "growth-plan-2025-02.xlsx", flags.Output)

	_, err = ParseReportFlags([]string{"-month", "Smarch"}, now)
	assert.Error(t, err)
}
