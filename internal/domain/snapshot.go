package domain

// Snapshot is one daily valuation record. Snapshots are keyed uniquely by
// date; recomputing a date replaces the entry in place, and the history is
// kept sorted ascending by date.
type Snapshot struct {
	Date           string  `firestore:"date"`
	CapitalEngaged float64 `firestore:"capitalEngaged"`
	PortfolioValue float64 `firestore:"portfolioValue"`
	UnrealizedPnL  float64 `firestore:"unrealizedPnL"`
	RealizedPnL    float64 `firestore:"realizedPnL"`
	TotalDividends float64 `firestore:"totalDividends"`
	PositionCount  int     `firestore:"positionCount"`

	// ClosingPrices is keyed by canonical ticker and is the baseline for the
	// next day's close-to-close P&L.
	ClosingPrices    map[string]float64 `firestore:"closingPrices"`
	DailyPnL         float64            `firestore:"dailyPnL"`
	PositionsAtClose []PositionClose    `firestore:"positionsAtClose"`
}

// PositionClose is the per-position breakdown recorded at a snapshot's
// close. Values here are intentionally unrounded.
type PositionClose struct {
	Ticker       string  `firestore:"ticker"`
	Name         string  `firestore:"name"`
	Quantity     float64 `firestore:"quantity"`
	EntryPrice   float64 `firestore:"entryPrice"`
	EntryDate    string  `firestore:"entryDate"`
	ClosingPrice float64 `firestore:"closingPrice"`
	MarketValue  float64 `firestore:"marketValue"`
	PnL          float64 `firestore:"pnl"`
	PnLPercent   float64 `firestore:"pnlPercent"`
}
