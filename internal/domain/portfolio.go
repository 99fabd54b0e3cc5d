package domain

// PortfolioDocument is the aggregate root for one account: loaded in full,
// mutated in memory, written back through a PortfolioMutation. Fields not
// listed here (user profile, settings) live on the same document but are
// never touched by the jobs.
type PortfolioDocument struct {
	Positions    []*Position            `firestore:"positions"`
	PriceCache   map[string]PriceResult `firestore:"priceCache"`
	ClosedTrades []ClosedTrade          `firestore:"closedTrades"`
	Transactions []Transaction          `firestore:"transactions"`
	Snapshots    []Snapshot             `firestore:"snapshots"`
}

// PortfolioMutation is the exact set of top-level fields the daily job
// owns. Saving one overwrites these fields and nothing else, plus a
// server-assigned lastUpdated timestamp.
type PortfolioMutation struct {
	Positions  []*Position
	PriceCache map[string]PriceResult
	Snapshots  []Snapshot
}
