package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceResult is the outcome of one price-feed lookup, stored as-is in the
// document's price cache. Failures are values, not errors: a failed fetch
// leaves the prior cache entry untouched and the run continues with the
// last known good price.
type PriceResult struct {
	Success       bool    `firestore:"success"`
	Price         float64 `firestore:"price,omitempty"`
	PreviousClose float64 `firestore:"previousClose,omitempty"`
	Change        float64 `firestore:"change,omitempty"`
	ChangePercent float64 `firestore:"changePercent,omitempty"`
	Currency      string  `firestore:"currency,omitempty"`
	LastUpdated   string  `firestore:"lastUpdated,omitempty"`
	Error         string  `firestore:"error,omitempty"`
}

func FailedPriceResult(err error) PriceResult {
	return PriceResult{
		Success: false,
		Error:   err.Error(),
	}
}

// DailyClose is one historical end-of-day price point from the feed.
type DailyClose struct {
	Date  time.Time
	Close decimal.Decimal
}
