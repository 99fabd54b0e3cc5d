package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is how price cache timestamps are stored on the document.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// Market describes one market's collection, clock and ticker conventions.
// Offsets are fixed wall clocks - the US offset stays at EST year-round,
// matching every snapshot date already recorded.
type Market struct {
	Code             string
	Collection       string
	DefaultAccount   string
	FallbackCurrency string

	utcOffsetHours int
	rewriteStored  bool
}

var (
	MarketHK = Market{
		Code:             "hk",
		Collection:       "portfolios",
		DefaultAccount:   "main",
		FallbackCurrency: "HKD",
		utcOffsetHours:   8,
	}
	MarketUS = Market{
		Code:             "us",
		Collection:       "us-portfolios",
		FallbackCurrency: "USD",
		utcOffsetHours:   -5,
		rewriteStored:    true,
	}
)

func MarketFromCode(code string) (Market, error) {
	switch strings.ToLower(code) {
	case MarketHK.Code:
		return MarketHK, nil
	case MarketUS.Code:
		return MarketUS, nil
	}
	return Market{}, fmt.Errorf("unknown market %q", code)
}

func (m Market) Location() *time.Location {
	return time.FixedZone(strings.ToUpper(m.Code), m.utcOffsetHours*60*60)
}

// TradingDate formats the instant as a calendar date on the market's clock.
func (m Market) TradingDate(now time.Time) string {
	return now.In(m.Location()).Format(time.DateOnly)
}

// CanonicalTicker normalizes a stored ticker into the form used for feed
// lookups, cache keys and closing-price keys. Some HK lines are stored with
// a "b.HK" suffix the feed only knows as ".HK"; US tickers get trimmed,
// stripped of a stray ".HK" suffix and uppercased.
func (m Market) CanonicalTicker(ticker string) string {
	if m.rewriteStored {
		return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(ticker), ".HK", ""))
	}
	return strings.ReplaceAll(ticker, "b.HK", ".HK")
}

// RewritesStoredTicker reports whether the canonical form also replaces the
// ticker on the stored position. HK positions keep their original form so
// the frontend's references stay valid.
func (m Market) RewritesStoredTicker() bool {
	return m.rewriteStored
}
