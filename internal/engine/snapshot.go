// Package engine computes daily valuation snapshots. It is pure: prices are
// refreshed by the caller beforehand, and the engine only folds in-memory
// document state into the snapshot history. Manual patch runs are the same
// computation with overridden price inputs.
package engine

import (
	"portfoliocron/internal/domain"
	"portfoliocron/internal/util"
	"sort"
)

type Input struct {
	Market       domain.Market
	TargetDate   string
	Positions    []*domain.Position
	ClosedTrades []domain.ClosedTrade
	Transactions []domain.Transaction
	Snapshots    []domain.Snapshot
}

type Result struct {
	Snapshot domain.Snapshot
	// Snapshots is the updated history, sorted ascending by date
	Snapshots []domain.Snapshot
	Replaced  bool
}

// Run computes the valuation snapshot for the target date, upserts it into
// the snapshot history and clears consumed intraday-addition hints on the
// positions. Re-running with identical inputs yields an identical history:
// an existing entry for the date is replaced in place, not appended.
func Run(in Input) Result {
	snapshot := computeSnapshot(in)
	snapshots, replaced := upsertSnapshot(in.Snapshots, snapshot)

	for _, p := range in.Positions {
		p.ClearIntradayMarkers()
	}

	return Result{
		Snapshot:  snapshot,
		Snapshots: snapshots,
		Replaced:  replaced,
	}
}

func computeSnapshot(in Input) domain.Snapshot {
	currentValue := 0.0
	capitalEngaged := 0.0
	for _, p := range in.Positions {
		currentValue += p.Quantity * p.PriceOrEntry()
		capitalEngaged += p.Quantity * p.EntryPrice
	}

	// recomputed from the full trade log every run so edits to historical
	// trades are picked up
	realizedPnL := 0.0
	for _, t := range in.ClosedTrades {
		realizedPnL += t.RealizedPnL()
	}

	totalDividends := 0.0
	for _, t := range in.Transactions {
		if t.Type == domain.TransactionTypeDividend {
			totalDividends += t.Amount
		}
	}

	closingPrices := map[string]float64{}
	positionsAtClose := make([]domain.PositionClose, 0, len(in.Positions))
	for _, p := range in.Positions {
		price := p.PriceOrEntry()
		closingPrices[in.Market.CanonicalTicker(p.Ticker)] = price

		pnlPercent := 0.0
		if p.EntryPrice != 0 {
			pnlPercent = (price - p.EntryPrice) / p.EntryPrice * 100
		}
		positionsAtClose = append(positionsAtClose, domain.PositionClose{
			Ticker:       p.Ticker,
			Name:         p.Name,
			Quantity:     p.Quantity,
			EntryPrice:   p.EntryPrice,
			EntryDate:    p.EntryDate,
			ClosingPrice: price,
			MarketValue:  price * p.Quantity,
			PnL:          (price - p.EntryPrice) * p.Quantity,
			PnLPercent:   pnlPercent,
		})
	}

	dailyPnL := computeDailyPnL(in, currentValue, capitalEngaged, realizedPnL)

	// rounding happens once, here, never on intermediate sums
	return domain.Snapshot{
		Date:             in.TargetDate,
		CapitalEngaged:   util.Round2(capitalEngaged),
		PortfolioValue:   util.Round2(currentValue),
		UnrealizedPnL:    util.Round2(currentValue - capitalEngaged),
		RealizedPnL:      util.Round2(realizedPnL),
		TotalDividends:   util.Round2(totalDividends),
		PositionCount:    len(in.Positions),
		ClosingPrices:    closingPrices,
		DailyPnL:         util.Round2(dailyPnL),
		PositionsAtClose: positionsAtClose,
	}
}

// computeDailyPnL measures close-to-close P&L against the most recent
// snapshot strictly before the target date. With no baseline, the whole
// unrealized P&L counts as today's.
//
// A position opened on the target date is measured entry-to-close. An
// intraday addition splits the position: pre-existing shares against the
// prior close, added shares against the addition price. A holdover with no
// recorded prior close contributes nothing - it was not held at the prior
// snapshot.
func computeDailyPnL(in Input, currentValue, capitalEngaged, realizedPnL float64) float64 {
	prior := priorSnapshot(in.Snapshots, in.TargetDate)
	if prior == nil {
		return util.Round2(currentValue - capitalEngaged)
	}

	dailyPnL := 0.0
	for _, p := range in.Positions {
		price := p.PriceOrEntry()
		priorClose, held := prior.ClosingPrices[in.Market.CanonicalTicker(p.Ticker)]

		if p.EntryDate == in.TargetDate {
			dailyPnL += (price - p.EntryPrice) * p.Quantity
		} else if addition := p.AdditionFor(in.TargetDate); addition != nil {
			if held {
				dailyPnL += (price - priorClose) * addition.QuantityBefore
			}
			dailyPnL += (price - addition.Price) * addition.Quantity
		} else if held {
			dailyPnL += (price - priorClose) * p.Quantity
		}
	}

	// trades closed since the prior snapshot surface as the realized delta
	return dailyPnL + (realizedPnL - prior.RealizedPnL)
}

func priorSnapshot(snapshots []domain.Snapshot, targetDate string) *domain.Snapshot {
	var prior *domain.Snapshot
	for i := range snapshots {
		s := &snapshots[i]
		if s.Date >= targetDate {
			continue
		}
		if prior == nil || s.Date > prior.Date {
			prior = s
		}
	}
	return prior
}

func upsertSnapshot(snapshots []domain.Snapshot, snapshot domain.Snapshot) ([]domain.Snapshot, bool) {
	out := make([]domain.Snapshot, len(snapshots))
	copy(out, snapshots)

	for i := range out {
		if out[i].Date == snapshot.Date {
			out[i] = snapshot
			return out, true
		}
	}

	out = append(out, snapshot)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out, false
}
