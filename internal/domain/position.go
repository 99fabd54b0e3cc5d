package domain

// Position is one open holding in a portfolio document.
//
// The addedToday* fields are single-day hints written by the frontend when
// shares are added to an existing position intraday. They exist for exactly
// one snapshot cycle: the engine reads them through AdditionFor and clears
// them after the snapshot is folded.
type Position struct {
	Ticker       string   `firestore:"ticker"`
	Name         string   `firestore:"name,omitempty"`
	Quantity     float64  `firestore:"quantity"`
	EntryPrice   float64  `firestore:"entryPrice"`
	EntryDate    string   `firestore:"entryDate,omitempty"`
	CurrentPrice *float64 `firestore:"currentPrice,omitempty"`

	AddedTodayDate  string  `firestore:"addedTodayDate,omitempty"`
	AddedTodayQty   float64 `firestore:"addedTodayQty,omitempty"`
	AddedTodayPrice float64 `firestore:"addedTodayPrice,omitempty"`
	QtyBeforeToday  float64 `firestore:"qtyBeforeToday,omitempty"`
}

func (p *Position) MarkPrice(price float64) {
	p.CurrentPrice = &price
}

// PriceOrEntry returns the last marked price, falling back to the entry
// price when no fetch has ever succeeded for this position. The fallback
// means a position whose fetch failed contributes zero unrealized change,
// not an error.
func (p Position) PriceOrEntry() float64 {
	if p.CurrentPrice != nil {
		return *p.CurrentPrice
	}
	return p.EntryPrice
}

// IntradayAddition is the consumed form of the addedToday* hints: shares
// added to an already-held position during the target date's session.
type IntradayAddition struct {
	Quantity       float64
	Price          float64
	QuantityBefore float64
}

// AdditionFor returns the intraday-addition hint if it applies to the given
// date. Hints with a non-positive added or pre-addition quantity are
// ignored.
func (p Position) AdditionFor(date string) *IntradayAddition {
	if p.AddedTodayDate != date || p.AddedTodayQty <= 0 || p.QtyBeforeToday <= 0 {
		return nil
	}
	return &IntradayAddition{
		Quantity:       p.AddedTodayQty,
		Price:          p.AddedTodayPrice,
		QuantityBefore: p.QtyBeforeToday,
	}
}

func (p *Position) ClearIntradayMarkers() {
	p.AddedTodayDate = ""
	p.AddedTodayQty = 0
	p.AddedTodayPrice = 0
	p.QtyBeforeToday = 0
}

// ClosedTrade is immutable once created; it only ever contributes to
// realized P&L.
type ClosedTrade struct {
	Ticker     string  `firestore:"ticker"`
	Quantity   float64 `firestore:"quantity"`
	EntryPrice float64 `firestore:"entryPrice"`
	EntryDate  string  `firestore:"entryDate,omitempty"`
	ExitPrice  float64 `firestore:"exitPrice"`
	ExitDate   string  `firestore:"exitDate,omitempty"`
}

func (t ClosedTrade) RealizedPnL() float64 {
	return (t.ExitPrice - t.EntryPrice) * t.Quantity
}

const TransactionTypeDividend = "dividend"

type Transaction struct {
	Type   string  `firestore:"type"`
	Ticker string  `firestore:"ticker,omitempty"`
	Amount float64 `firestore:"amount"`
	Date   string  `firestore:"date,omitempty"`
}
