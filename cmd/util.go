package cmd

import (
	"context"
	"log"
	"net/http"
	"portfoliocron/internal/app"
	"portfoliocron/internal/config"
	"portfoliocron/internal/repository"
	"portfoliocron/pkg/yahoo"
	"time"
)

type Dependencies struct {
	Config              *config.Config
	PortfolioRepository repository.PortfolioRepository
	UpdaterApp          app.UpdaterHandler
	PatchApp            app.PatchHandler
	ReportApp           app.ReportHandler
}

func InitializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	portfolioRepository, err := repository.NewPortfolioRepository(ctx, cfg.ProjectID, cfg.CredentialsJSON)
	if err != nil {
		return nil, err
	}

	priceFeedRepository := repository.NewPriceFeedRepository(yahoo.Client{
		HttpClient: &http.Client{Timeout: 15 * time.Second},
	})
	historyRepository := repository.NewHistoryRepository()

	return &Dependencies{
		Config:              cfg,
		PortfolioRepository: portfolioRepository,
		UpdaterApp: app.UpdaterHandler{
			PortfolioRepository: portfolioRepository,
			PriceFeedRepository: priceFeedRepository,
		},
		PatchApp: app.PatchHandler{
			PortfolioRepository: portfolioRepository,
			HistoryRepository:   historyRepository,
		},
		ReportApp: app.ReportHandler{
			PortfolioRepository: portfolioRepository,
		},
	}, nil
}

func CloseDependencies(deps *Dependencies) {
	if err := deps.PortfolioRepository.Close(); err != nil {
		log.Fatalf("failed to close document store client: %v", err)
	}
}
