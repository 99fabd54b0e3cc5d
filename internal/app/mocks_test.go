package app

import (
	"context"
	"errors"
	"fmt"
	"portfoliocron/internal/domain"
	"portfoliocron/internal/repository"
	"sort"
	"time"
)

// hand-written fakes; the collaborator interfaces are small enough that
// generated mocks would be more code than these

type fakePortfolioRepository struct {
	docs  map[string]*domain.PortfolioDocument
	extra []string // account ids the scan returns without a backing doc

	saved map[string]domain.PortfolioMutation
}

func newFakePortfolioRepository() *fakePortfolioRepository {
	return &fakePortfolioRepository{
		docs:  map[string]*domain.PortfolioDocument{},
		saved: map[string]domain.PortfolioMutation{},
	}
}

func docKey(market domain.Market, accountID string) string {
	return fmt.Sprintf("%s/%s", market.Collection, accountID)
}

func (f *fakePortfolioRepository) Get(ctx context.Context, market domain.Market, accountID string) (*domain.PortfolioDocument, error) {
	doc, ok := f.docs[docKey(market, accountID)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", docKey(market, accountID), repository.ErrPortfolioNotFound)
	}
	return doc, nil
}

func (f *fakePortfolioRepository) ListAccounts(ctx context.Context, market domain.Market) ([]string, error) {
	prefix := market.Collection + "/"
	accountIDs := append([]string{}, f.extra...)
	for key := range f.docs {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			accountIDs = append(accountIDs, key[len(prefix):])
		}
	}
	sort.Strings(accountIDs)
	return accountIDs, nil
}

func (f *fakePortfolioRepository) Update(ctx context.Context, market domain.Market, accountID string, mutation domain.PortfolioMutation) error {
	if _, ok := f.docs[docKey(market, accountID)]; !ok {
		return fmt.Errorf("%s: %w", docKey(market, accountID), repository.ErrPortfolioNotFound)
	}
	f.saved[docKey(market, accountID)] = mutation
	return nil
}

func (f *fakePortfolioRepository) Close() error {
	return nil
}

type fakePriceFeed struct {
	results map[string]domain.PriceResult
	fetched []string
}

func (f *fakePriceFeed) Fetch(ctx context.Context, market domain.Market, ticker string) domain.PriceResult {
	symbol := market.CanonicalTicker(ticker)
	f.fetched = append(f.fetched, symbol)
	if result, ok := f.results[symbol]; ok {
		return result
	}
	return domain.FailedPriceResult(errors.New("no data"))
}

type fakeHistoryRepository struct {
	closes map[string][]domain.DailyClose
}

func (f fakeHistoryRepository) GetDailyCloses(symbol string, start, end time.Time) ([]domain.DailyClose, error) {
	closes, ok := f.closes[symbol]
	if !ok {
		return nil, fmt.Errorf("no history for %s", symbol)
	}
	return closes, nil
}
