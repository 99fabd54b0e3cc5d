package calculator

import (
	"math"
	"portfoliocron/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_CalculateMetrics(t *testing.T) {
	t.Run("too few snapshots", func(t *testing.T) {
		_, err := CalculateMetrics([]domain.Snapshot{
			{Date: "2026-03-02", PortfolioValue: 100},
		})
		require.ErrorContains(t, err, "< 2 snapshots")
	})

	t.Run("one year of flat growth", func(t *testing.T) {
		out, err := CalculateMetrics([]domain.Snapshot{
			{Date: "2025-03-02", PortfolioValue: 1000},
			{Date: "2025-09-01", PortfolioValue: 1050},
			{Date: "2026-03-02", PortfolioValue: 1100},
		})
		require.NoError(t, err)

		require.InDelta(t, 0.10, out.AnnualizedReturn, 0.001)
		require.Greater(t, out.AnnualizedStdev, 0.0)
		require.Equal(t, out.AnnualizedReturn/out.AnnualizedStdev, out.SharpeRatio)
		require.Equal(t, 0.0, out.MaxDrawdown)
	})

	t.Run("drawdown measured from the peak", func(t *testing.T) {
		out, err := CalculateMetrics([]domain.Snapshot{
			{Date: "2026-01-02", PortfolioValue: 1000},
			{Date: "2026-01-05", PortfolioValue: 1200},
			{Date: "2026-01-06", PortfolioValue: 900},
			{Date: "2026-01-07", PortfolioValue: 1100},
		})
		require.NoError(t, err)

		require.InDelta(t, 0.25, out.MaxDrawdown, 1e-9)
	})

	t.Run("unsorted input is sorted by date", func(t *testing.T) {
		out, err := CalculateMetrics([]domain.Snapshot{
			{Date: "2026-03-02", PortfolioValue: 1100},
			{Date: "2025-03-02", PortfolioValue: 1000},
		})
		require.NoError(t, err)
		require.False(t, math.IsNaN(out.AnnualizedReturn))
		require.Greater(t, out.AnnualizedReturn, 0.0)
	})

	t.Run("zero value in history", func(t *testing.T) {
		_, err := CalculateMetrics([]domain.Snapshot{
			{Date: "2026-03-02", PortfolioValue: 0},
			{Date: "2026-03-03", PortfolioValue: 100},
		})
		require.ErrorContains(t, err, "zero portfolio value")
	})
}
