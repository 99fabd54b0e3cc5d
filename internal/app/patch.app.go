package app

import (
	"context"
	"fmt"
	"os"
	"portfoliocron/internal/domain"
	"portfoliocron/internal/engine"
	"portfoliocron/internal/logger"
	"portfoliocron/internal/repository"
	"portfoliocron/internal/util"
	"time"

	"github.com/gocarina/gocsv"
)

// PatchHandler re-runs the snapshot computation for a past date with
// operator-supplied prices substituted for the feed fetch. It exists to
// correct runs where bad prices made it into a snapshot.
type PatchHandler struct {
	PortfolioRepository repository.PortfolioRepository
	HistoryRepository   repository.HistoryRepository
	Now                 func() time.Time
}

type PriceOverride struct {
	Ticker        string  `csv:"ticker"`
	Price         float64 `csv:"price"`
	PreviousClose float64 `csv:"previousClose"`
}

type PatchInput struct {
	Market     domain.Market
	AccountID  string
	TargetDate string
	Overrides  []PriceOverride
	// FromFeed rebuilds the overrides from historical daily bars instead
	FromFeed bool
}

// LoadOverrides reads per-ticker corrections from a CSV file with a
// ticker,price,previousClose header, so fixes can be prepared in a
// spreadsheet.
func LoadOverrides(path string) ([]PriceOverride, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open overrides file: %w", err)
	}
	defer f.Close()

	overrides := []PriceOverride{}
	if err := gocsv.UnmarshalFile(f, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file %s: %w", path, err)
	}
	return overrides, nil
}

// Patch targets one specific portfolio, so a missing document is fatal
// here, unlike the scanning update run.
func (h PatchHandler) Patch(ctx context.Context, in PatchInput) error {
	log := logger.FromContext(ctx).With(
		"market", in.Market.Code,
		"date", in.TargetDate,
	)
	ctx = context.WithValue(ctx, logger.ContextKey, log)

	if _, err := util.ParseDate(in.TargetDate); err != nil {
		return err
	}

	accountID := in.AccountID
	if accountID == "" {
		accountID = in.Market.DefaultAccount
	}
	if accountID == "" {
		return fmt.Errorf("patch requires an account id for market %s", in.Market.Code)
	}

	document, err := h.PortfolioRepository.Get(ctx, in.Market, accountID)
	if err != nil {
		return err
	}

	overrides := in.Overrides
	if in.FromFeed {
		overrides, err = h.overridesFromFeed(in.Market, document.Positions, in.TargetDate)
		if err != nil {
			return err
		}
	}
	if len(overrides) == 0 {
		return fmt.Errorf("no price overrides for %s/%s on %s", in.Market.Collection, accountID, in.TargetDate)
	}

	h.applyOverrides(ctx, in.Market, document, overrides)

	result := engine.Run(engine.Input{
		Market:       in.Market,
		TargetDate:   in.TargetDate,
		Positions:    document.Positions,
		ClosedTrades: document.ClosedTrades,
		Transactions: document.Transactions,
		Snapshots:    document.Snapshots,
	})
	if result.Replaced {
		log.Infof("replaced snapshot for %s", in.TargetDate)
	} else {
		log.Infof("new snapshot for %s", in.TargetDate)
	}
	log.Infof(
		"value: %.2f | capital: %.2f | daily P&L: %.2f",
		result.Snapshot.PortfolioValue,
		result.Snapshot.CapitalEngaged,
		result.Snapshot.DailyPnL,
	)

	err = h.PortfolioRepository.Update(ctx, in.Market, accountID, domain.PortfolioMutation{
		Positions:  document.Positions,
		PriceCache: document.PriceCache,
		Snapshots:  result.Snapshots,
	})
	if err != nil {
		return err
	}
	log.Infof("saved (%d snapshots)", len(result.Snapshots))
	return nil
}

// applyOverrides rewrites the price cache and position prices the same way
// a successful fetch would, with the change metrics recomputed and the
// fetch timestamp reset.
func (h PatchHandler) applyOverrides(ctx context.Context, market domain.Market, document *domain.PortfolioDocument, overrides []PriceOverride) {
	log := logger.FromContext(ctx)

	if document.PriceCache == nil {
		document.PriceCache = map[string]domain.PriceResult{}
	}
	now := h.now().In(market.Location()).Format(domain.TimestampLayout)

	byTicker := map[string]PriceOverride{}
	for _, o := range overrides {
		key := market.CanonicalTicker(o.Ticker)
		byTicker[key] = o

		entry, ok := document.PriceCache[key]
		if !ok {
			log.Infof("ADD %s: %v", key, o.Price)
			entry = domain.PriceResult{Currency: market.FallbackCurrency}
		} else if entry.Price != o.Price {
			log.Infof("FIX %s: %v -> %v", key, entry.Price, o.Price)
		} else {
			log.Infof("OK  %s: %v (unchanged)", key, o.Price)
		}

		entry.Success = true
		entry.Error = ""
		entry.Price = o.Price
		entry.PreviousClose = o.PreviousClose
		entry.Change = util.Round4(o.Price - o.PreviousClose)
		entry.ChangePercent = 0
		if o.PreviousClose != 0 {
			entry.ChangePercent = util.Round4((o.Price - o.PreviousClose) / o.PreviousClose * 100)
		}
		entry.LastUpdated = now
		document.PriceCache[key] = entry
	}

	for _, p := range document.Positions {
		if o, ok := byTicker[market.CanonicalTicker(p.Ticker)]; ok {
			p.MarkPrice(o.Price)
		}
	}
}

// overridesFromFeed rebuilds overrides from the feed's historical bars: per
// position, the close on the target date and the last close strictly before
// it.
func (h PatchHandler) overridesFromFeed(market domain.Market, positions []*domain.Position, targetDate string) ([]PriceOverride, error) {
	target, err := util.ParseDate(targetDate)
	if err != nil {
		return nil, err
	}
	start := target.AddDate(0, 0, -14)
	end := target.AddDate(0, 0, 1)

	overrides := []PriceOverride{}
	for _, p := range positions {
		symbol := market.CanonicalTicker(p.Ticker)
		closes, err := h.HistoryRepository.GetDailyCloses(symbol, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to load history for %s: %w", symbol, err)
		}

		var price, previousClose float64
		found := false
		for _, c := range closes {
			date := c.Date.Format(time.DateOnly)
			if date == targetDate {
				price = c.Close.InexactFloat64()
				found = true
			} else if date < targetDate {
				previousClose = c.Close.InexactFloat64()
			}
		}
		if !found {
			return nil, fmt.Errorf("no close for %s on %s", symbol, targetDate)
		}

		overrides = append(overrides, PriceOverride{
			Ticker:        symbol,
			Price:         price,
			PreviousClose: previousClose,
		})
	}
	return overrides, nil
}

func (h PatchHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
