package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"portfoliocron/cmd"
	"portfoliocron/internal/app"
	"portfoliocron/internal/domain"
	"portfoliocron/internal/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

type lambdaHandler struct {
	deps *cmd.Dependencies
}

// scheduledEventDetail is the cron rule's constant input. Market falls back
// to PORTFOLIO_MARKET when the rule carries no detail.
type scheduledEventDetail struct {
	Market  string `json:"market"`
	Account string `json:"account"`
}

func (m lambdaHandler) Handler(ctx context.Context, event events.CloudWatchEvent) error {
	detail := scheduledEventDetail{}
	if len(event.Detail) > 0 {
		if err := json.Unmarshal(event.Detail, &detail); err != nil {
			return fmt.Errorf("failed to parse scheduled event detail: %w", err)
		}
	}
	if detail.Market == "" {
		detail.Market = os.Getenv("PORTFOLIO_MARKET")
	}

	market, err := domain.MarketFromCode(detail.Market)
	if err != nil {
		return err
	}

	ctx = context.WithValue(ctx, logger.ContextKey, logger.New())
	_, err = m.deps.UpdaterApp.Update(ctx, app.UpdateInput{
		Market:    market,
		AccountID: detail.Account,
	})
	return err
}

func main() {
	deps, err := cmd.InitializeDependencies(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(deps)

	handler := lambdaHandler{
		deps: deps,
	}
	lambda.Start(handler.Handler)
}
