package calculator

import (
	"fmt"
	"math"
	"portfoliocron/internal/domain"
	"portfoliocron/internal/util"
	"sort"

	"github.com/montanaflynn/stats"
)

type SnapshotMetricsResult struct {
	AnnualizedReturn float64
	AnnualizedStdev  float64
	SharpeRatio      float64
	MaxDrawdown      float64
}

// CalculateMetrics derives return and risk metrics from a snapshot history.
// It assumes roughly daily snapshots; gaps from weekends or skipped runs
// are treated as consecutive observations.
func CalculateMetrics(snapshots []domain.Snapshot) (*SnapshotMetricsResult, error) {
	if len(snapshots) < 2 {
		return nil, fmt.Errorf("cannot calculate metrics on < 2 snapshots")
	}

	sorted := make([]domain.Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	returns := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		last := sorted[i-1].PortfolioValue
		if last == 0 {
			return nil, fmt.Errorf("cannot calculate return from zero portfolio value on %s", sorted[i-1].Date)
		}
		returns = append(returns, (sorted[i].PortfolioValue-last)/last)
	}

	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return nil, err
	}
	annualizedStdev := stdev * math.Sqrt(252)

	start, err := util.ParseDate(sorted[0].Date)
	if err != nil {
		return nil, err
	}
	end, err := util.ParseDate(sorted[len(sorted)-1].Date)
	if err != nil {
		return nil, err
	}
	numYears := end.Sub(start).Hours() / (365 * 24)
	if numYears <= 0 {
		return nil, fmt.Errorf("snapshot history spans no time (%s to %s)", sorted[0].Date, sorted[len(sorted)-1].Date)
	}

	startValue := sorted[0].PortfolioValue
	endValue := sorted[len(sorted)-1].PortfolioValue
	annualizedReturn := math.Pow(endValue/startValue, 1/numYears) - 1

	sharpeRatio := 0.0
	if annualizedStdev != 0 {
		sharpeRatio = annualizedReturn / annualizedStdev
	}

	maxDrawdown := 0.0
	peak := sorted[0].PortfolioValue
	for _, s := range sorted[1:] {
		if s.PortfolioValue > peak {
			peak = s.PortfolioValue
		} else if drawdown := (peak - s.PortfolioValue) / peak; drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	return &SnapshotMetricsResult{
		AnnualizedReturn: annualizedReturn,
		AnnualizedStdev:  annualizedStdev,
		SharpeRatio:      sharpeRatio,
		MaxDrawdown:      maxDrawdown,
	}, nil
}
