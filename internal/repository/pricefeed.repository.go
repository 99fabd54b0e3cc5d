package repository

import (
	"context"
	"fmt"
	"portfoliocron/internal/domain"
	"portfoliocron/internal/logger"
	"portfoliocron/internal/util"
	"portfoliocron/pkg/yahoo"
	"time"
)

// ChartClient is the slice of the feed client the price feed needs.
type ChartClient interface {
	GetChart(symbol string) (*yahoo.ChartResult, error)
}

type PriceFeedRepository interface {
	// Fetch looks up the latest price for a ticker. It never returns an
	// error: any network, decode or payload problem becomes a failed
	// PriceResult so the caller keeps the last cached value and moves on.
	Fetch(ctx context.Context, market domain.Market, ticker string) domain.PriceResult
}

func NewPriceFeedRepository(client ChartClient) PriceFeedRepository {
	return priceFeedRepositoryHandler{
		Client: client,
		now:    time.Now,
	}
}

type priceFeedRepositoryHandler struct {
	Client ChartClient
	now    func() time.Time
}

func (h priceFeedRepositoryHandler) Fetch(ctx context.Context, market domain.Market, ticker string) domain.PriceResult {
	log := logger.FromContext(ctx)
	symbol := market.CanonicalTicker(ticker)

	result, err := h.Client.GetChart(symbol)
	if err != nil {
		log.Warnf("FAIL %s: %v", symbol, err)
		return domain.FailedPriceResult(err)
	}

	if result.Meta.RegularMarketPrice == nil {
		log.Warnf("FAIL %s: no price", symbol)
		return domain.FailedPriceResult(fmt.Errorf("no price"))
	}
	price := *result.Meta.RegularMarketPrice

	previousClose := h.derivePreviousClose(result, price)

	changePercent := 0.0
	if previousClose != 0 {
		changePercent = util.Round4((price - previousClose) / previousClose * 100)
	}

	currency := result.Meta.Currency
	if currency == "" {
		currency = market.FallbackCurrency
	}

	log.Infof("OK %s: %v (prevClose: %v)", symbol, price, previousClose)
	return domain.PriceResult{
		Success:       true,
		Price:         price,
		PreviousClose: previousClose,
		Change:        util.Round4(price - previousClose),
		ChangePercent: changePercent,
		Currency:      currency,
		LastUpdated:   h.now().In(market.Location()).Format(domain.TimestampLayout),
	}
}

// derivePreviousClose walks the close series newest to oldest, skipping
// samples stamped within the current UTC day (the feed sometimes returns
// today's own bar as the latest point), and takes the first non-null close.
// A missing or zero close falls through to the meta hints, then to the live
// price itself (zero daily change).
func (h priceFeedRepositoryHandler) derivePreviousClose(result *yahoo.ChartResult, price float64) float64 {
	closes := result.Closes()

	now := h.now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Unix()

	previousClose := 0.0
	for i := len(result.Timestamp) - 1; i >= 0; i-- {
		if i < len(closes) && closes[i] != nil && result.Timestamp[i] < todayStart {
			previousClose = *closes[i]
			break
		}
	}
	if previousClose == 0 {
		previousClose = result.Meta.PreviousClose
	}
	if previousClose == 0 {
		previousClose = result.Meta.ChartPreviousClose
	}
	if previousClose == 0 {
		previousClose = price
	}
	return previousClose
}
