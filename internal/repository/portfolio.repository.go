package repository

import (
	"context"
	"errors"
	"fmt"
	"portfoliocron/internal/domain"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrPortfolioNotFound distinguishes a missing account document from an
// infrastructure failure; multi-account runs skip these and continue.
var ErrPortfolioNotFound = errors.New("portfolio document not found")

type PortfolioRepository interface {
	Get(ctx context.Context, market domain.Market, accountID string) (*domain.PortfolioDocument, error)
	ListAccounts(ctx context.Context, market domain.Market) ([]string, error)
	Update(ctx context.Context, market domain.Market, accountID string, mutation domain.PortfolioMutation) error
	Close() error
}

func NewPortfolioRepository(ctx context.Context, projectID string, credentialsJSON []byte) (PortfolioRepository, error) {
	client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}
	return portfolioRepositoryHandler{
		Client: client,
	}, nil
}

type portfolioRepositoryHandler struct {
	Client *firestore.Client
}

func (h portfolioRepositoryHandler) Get(ctx context.Context, market domain.Market, accountID string) (*domain.PortfolioDocument, error) {
	snapshot, err := h.Client.Collection(market.Collection).Doc(accountID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("%s/%s: %w", market.Collection, accountID, ErrPortfolioNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio %s/%s: %w", market.Collection, accountID, err)
	}

	document := &domain.PortfolioDocument{}
	if err := snapshot.DataTo(document); err != nil {
		return nil, fmt.Errorf("failed to decode portfolio %s/%s: %w", market.Collection, accountID, err)
	}
	return document, nil
}

func (h portfolioRepositoryHandler) ListAccounts(ctx context.Context, market domain.Market) ([]string, error) {
	iter := h.Client.Collection(market.Collection).Documents(ctx)
	defer iter.Stop()

	accountIDs := []string{}
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s portfolios: %w", market.Collection, err)
		}
		accountIDs = append(accountIDs, snapshot.Ref.ID)
	}
	return accountIDs, nil
}

// Update writes back only the fields the jobs own, plus a server-assigned
// lastUpdated timestamp. Every other document field is left untouched.
func (h portfolioRepositoryHandler) Update(ctx context.Context, market domain.Market, accountID string, mutation domain.PortfolioMutation) error {
	_, err := h.Client.Collection(market.Collection).Doc(accountID).Update(ctx, []firestore.Update{
		{Path: "priceCache", Value: mutation.PriceCache},
		{Path: "positions", Value: mutation.Positions},
		{Path: "snapshots", Value: mutation.Snapshots},
		{Path: "lastUpdated", Value: firestore.ServerTimestamp},
	})
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s/%s: %w", market.Collection, accountID, ErrPortfolioNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to save portfolio %s/%s: %w", market.Collection, accountID, err)
	}
	return nil
}

func (h portfolioRepositoryHandler) Close() error {
	return h.Client.Close()
}
