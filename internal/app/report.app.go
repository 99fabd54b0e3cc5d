package app

import (
	"context"
	"fmt"
	"portfoliocron/internal/calculator"
	"portfoliocron/internal/domain"
	"portfoliocron/internal/logger"
	"portfoliocron/internal/repository"
)

// ReportHandler is a read-only view over the snapshot history.
type ReportHandler struct {
	PortfolioRepository repository.PortfolioRepository
}

type ReportInput struct {
	Market    domain.Market
	AccountID string
	// Days limits the output to the most recent N snapshots; 0 means all
	Days int
}

func (h ReportHandler) Report(ctx context.Context, in ReportInput) error {
	log := logger.FromContext(ctx)

	accountID := in.AccountID
	if accountID == "" {
		accountID = in.Market.DefaultAccount
	}
	if accountID == "" {
		return fmt.Errorf("report requires an account id for market %s", in.Market.Code)
	}

	document, err := h.PortfolioRepository.Get(ctx, in.Market, accountID)
	if err != nil {
		return err
	}
	if len(document.Snapshots) == 0 {
		log.Infof("%s/%s has no snapshot history", in.Market.Collection, accountID)
		return nil
	}

	snapshots := document.Snapshots
	if in.Days > 0 && len(snapshots) > in.Days {
		snapshots = snapshots[len(snapshots)-in.Days:]
	}

	for _, s := range snapshots {
		log.Infof(
			"%s | value %.2f | capital %.2f | unrealized %.2f | daily %.2f | %d position(s)",
			s.Date, s.PortfolioValue, s.CapitalEngaged, s.UnrealizedPnL, s.DailyPnL, s.PositionCount,
		)
	}

	metrics, err := calculator.CalculateMetrics(snapshots)
	if err != nil {
		log.Warnf("no metrics: %v", err)
		return nil
	}
	log.Infof(
		"annualized return %.2f%% | annualized vol %.2f%% | sharpe %.2f | max drawdown %.2f%%",
		metrics.AnnualizedReturn*100,
		metrics.AnnualizedStdev*100,
		metrics.SharpeRatio,
		metrics.MaxDrawdown*100,
	)
	return nil
}
