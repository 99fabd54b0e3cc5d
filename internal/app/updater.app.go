package app

import (
	"context"
	"errors"
	"portfoliocron/internal/calculator"
	"portfoliocron/internal/domain"
	"portfoliocron/internal/engine"
	"portfoliocron/internal/logger"
	"portfoliocron/internal/repository"
	"time"

	"github.com/google/uuid"
)

// UpdaterHandler runs the daily valuation job: refresh every position's
// price, fold the result into a snapshot, write back the touched fields.
type UpdaterHandler struct {
	PortfolioRepository repository.PortfolioRepository
	PriceFeedRepository repository.PriceFeedRepository
	// Now is overridable in tests; defaults to time.Now
	Now func() time.Time
}

type UpdateInput struct {
	Market domain.Market
	// AccountID empty means the market default, or a whole-collection scan
	// when the market has no default
	AccountID string
}

type UpdateResult struct {
	RunID      uuid.UUID
	TargetDate string
	Updated    int
	Skipped    int
}

// Update processes one market. With an explicit (or market-default)
// account, a missing document is an unrecoverable setup failure. Scanning a
// whole collection, missing or empty documents are skipped, counted and
// logged, and the run continues - a broken account never blocks the rest.
func (h UpdaterHandler) Update(ctx context.Context, in UpdateInput) (*UpdateResult, error) {
	out := &UpdateResult{
		RunID:      uuid.New(),
		TargetDate: in.Market.TradingDate(h.now()),
	}

	log := logger.FromContext(ctx).With(
		"runId", out.RunID.String(),
		"market", in.Market.Code,
		"date", out.TargetDate,
	)
	ctx = context.WithValue(ctx, logger.ContextKey, log)

	accountID := in.AccountID
	if accountID == "" {
		accountID = in.Market.DefaultAccount
	}

	if accountID != "" {
		updated, err := h.updateAccount(ctx, in.Market, accountID, out.TargetDate)
		if err != nil {
			return nil, err
		}
		if updated {
			out.Updated++
		} else {
			out.Skipped++
		}
		return out, nil
	}

	accountIDs, err := h.PortfolioRepository.ListAccounts(ctx, in.Market)
	if err != nil {
		return nil, err
	}
	for _, accountID := range accountIDs {
		updated, err := h.updateAccount(ctx, in.Market, accountID, out.TargetDate)
		if errors.Is(err, repository.ErrPortfolioNotFound) {
			log.Warnf("skipping account %s: %v", accountID, err)
			out.Skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		if updated {
			out.Updated++
		} else {
			out.Skipped++
		}
	}

	log.Infof("done: updated %d portfolio(s), skipped %d", out.Updated, out.Skipped)
	return out, nil
}

func (h UpdaterHandler) updateAccount(ctx context.Context, market domain.Market, accountID string, targetDate string) (bool, error) {
	log := logger.FromContext(ctx).With("account", accountID)

	document, err := h.PortfolioRepository.Get(ctx, market, accountID)
	if err != nil {
		return false, err
	}

	if len(document.Positions) == 0 {
		log.Info("no positions, skipping")
		return false, nil
	}
	log.Infof("updating %d position(s)", len(document.Positions))

	if document.PriceCache == nil {
		document.PriceCache = map[string]domain.PriceResult{}
	}
	for _, p := range document.Positions {
		if market.RewritesStoredTicker() {
			p.Ticker = market.CanonicalTicker(p.Ticker)
		}
		result := h.PriceFeedRepository.Fetch(ctx, market, p.Ticker)
		if result.Success {
			document.PriceCache[market.CanonicalTicker(p.Ticker)] = result
			p.MarkPrice(result.Price)
		}
		// on failure the cached entry and the position's last price stand
	}

	result := engine.Run(engine.Input{
		Market:       market,
		TargetDate:   targetDate,
		Positions:    document.Positions,
		ClosedTrades: document.ClosedTrades,
		Transactions: document.Transactions,
		Snapshots:    document.Snapshots,
	})
	if result.Replaced {
		log.Infof("replaced existing snapshot for %s", targetDate)
	} else {
		log.Infof("new snapshot for %s", targetDate)
	}
	log.Infof(
		"value: %.2f | capital: %.2f | unrealized P&L: %.2f | daily P&L: %.2f",
		result.Snapshot.PortfolioValue,
		result.Snapshot.CapitalEngaged,
		result.Snapshot.UnrealizedPnL,
		result.Snapshot.DailyPnL,
	)

	if metrics, err := calculator.CalculateMetrics(result.Snapshots); err == nil {
		log.Infof(
			"history: %.2f%% annualized return | %.2f%% annualized vol | %.2f%% max drawdown",
			metrics.AnnualizedReturn*100,
			metrics.AnnualizedStdev*100,
			metrics.MaxDrawdown*100,
		)
	}

	err = h.PortfolioRepository.Update(ctx, market, accountID, domain.PortfolioMutation{
		Positions:  document.Positions,
		PriceCache: document.PriceCache,
		Snapshots:  result.Snapshots,
	})
	if err != nil {
		return false, err
	}
	log.Infof("saved (%d snapshots)", len(result.Snapshots))
	return true, nil
}

func (h UpdaterHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
