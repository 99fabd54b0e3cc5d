package repository

import (
	"fmt"
	"portfoliocron/internal/domain"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// HistoryRepository serves historical daily bars for feed-sourced patch
// runs. Unlike the live fetch path, errors here do propagate: a patch with
// missing history should abort, not silently keep bad prices.
type HistoryRepository interface {
	GetDailyCloses(symbol string, start, end time.Time) ([]domain.DailyClose, error)
}

func NewHistoryRepository() HistoryRepository {
	return historyRepositoryHandler{}
}

type historyRepositoryHandler struct{}

func (h historyRepositoryHandler) GetDailyCloses(symbol string, start, end time.Time) ([]domain.DailyClose, error) {
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	closes := []domain.DailyClose{}
	for iter.Next() {
		closes = append(closes, domain.DailyClose{
			Date:  time.Unix(int64(iter.Bar().Timestamp), 0).UTC(),
			Close: iter.Bar().Close,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get historical closes for %s: %w", symbol, err)
	}

	return closes, nil
}
