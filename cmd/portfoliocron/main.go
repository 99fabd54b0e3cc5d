package main

import (
	"context"
	"fmt"
	"log"
	"portfoliocron/cmd"
	"portfoliocron/internal/app"
	"portfoliocron/internal/domain"
	"portfoliocron/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "portfoliocron",
		Short:         "Scheduled end-of-day portfolio valuation jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(updateCommand(), patchCommand(), reportCommand())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runContext() context.Context {
	return context.WithValue(context.Background(), logger.ContextKey, logger.New())
}

func updateCommand() *cobra.Command {
	var marketCode, accountID string

	c := &cobra.Command{
		Use:   "update",
		Short: "Refresh prices and record today's valuation snapshot",
		RunE: func(_ *cobra.Command, _ []string) error {
			market, err := domain.MarketFromCode(marketCode)
			if err != nil {
				return err
			}

			ctx := runContext()
			deps, err := cmd.InitializeDependencies(ctx)
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(deps)

			_, err = deps.UpdaterApp.Update(ctx, app.UpdateInput{
				Market:    market,
				AccountID: accountID,
			})
			return err
		},
	}
	c.Flags().StringVar(&marketCode, "market", "", "market to update (hk|us)")
	c.Flags().StringVar(&accountID, "account", "", "account document id (defaults to the market's default account, or a full collection scan)")
	_ = c.MarkFlagRequired("market")
	return c
}

func patchCommand() *cobra.Command {
	var marketCode, accountID, targetDate, overridesPath string
	var fromFeed bool

	c := &cobra.Command{
		Use:   "patch",
		Short: "Recompute a past date's snapshot with corrected prices",
		RunE: func(_ *cobra.Command, _ []string) error {
			market, err := domain.MarketFromCode(marketCode)
			if err != nil {
				return err
			}
			if (overridesPath == "") == !fromFeed {
				return fmt.Errorf("provide exactly one of --overrides or --from-feed")
			}

			overrides := []app.PriceOverride{}
			if overridesPath != "" {
				overrides, err = app.LoadOverrides(overridesPath)
				if err != nil {
					return err
				}
			}

			ctx := runContext()
			deps, err := cmd.InitializeDependencies(ctx)
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(deps)

			return deps.PatchApp.Patch(ctx, app.PatchInput{
				Market:     market,
				AccountID:  accountID,
				TargetDate: targetDate,
				Overrides:  overrides,
				FromFeed:   fromFeed,
			})
		},
	}
	c.Flags().StringVar(&marketCode, "market", "", "market to patch (hk|us)")
	c.Flags().StringVar(&accountID, "account", "", "account document id (defaults to the market's default account)")
	c.Flags().StringVar(&targetDate, "date", "", "snapshot date to recompute (YYYY-MM-DD)")
	c.Flags().StringVar(&overridesPath, "overrides", "", "csv file of ticker,price,previousClose overrides")
	c.Flags().BoolVar(&fromFeed, "from-feed", false, "rebuild overrides from the feed's historical closes")
	_ = c.MarkFlagRequired("market")
	_ = c.MarkFlagRequired("date")
	return c
}

func reportCommand() *cobra.Command {
	var marketCode, accountID string
	var days int

	c := &cobra.Command{
		Use:   "report",
		Short: "Print the recent snapshot history and its metrics",
		RunE: func(_ *cobra.Command, _ []string) error {
			market, err := domain.MarketFromCode(marketCode)
			if err != nil {
				return err
			}

			ctx := runContext()
			deps, err := cmd.InitializeDependencies(ctx)
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(deps)

			return deps.ReportApp.Report(ctx, app.ReportInput{
				Market:    market,
				AccountID: accountID,
				Days:      days,
			})
		},
	}
	c.Flags().StringVar(&marketCode, "market", "", "market to report on (hk|us)")
	c.Flags().StringVar(&accountID, "account", "", "account document id (defaults to the market's default account)")
	c.Flags().IntVar(&days, "days", 30, "number of recent snapshots to show (0 = all)")
	_ = c.MarkFlagRequired("market")
	return c
}
