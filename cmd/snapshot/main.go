// Command snapshot runs one ingestion cycle and writes the resulting
// snapshot document as JSON, for cron jobs and offline inspection.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"twpulse/internal/config"
	"twpulse/internal/infrastructure"
	"twpulse/internal/pipeline"
	"twpulse/internal/services"
	"twpulse/internal/sources"
)

func main() {
	out := flag.String("out", "", "output file (defaults to <data_dir>/snapshot-<day>.json)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall build timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// One-shot runs log to the console only.
	cfg.Logging.Output = "console"
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// One-shot runs carry no metrics pipeline.
	fetcher := sources.NewFetcher(cfg.Sources.FetchTimeout, cfg.Sources.FetchRPS, cfg.Sources.FetchBurst, nil, logger)
	days := sources.NewTradingDayLocator(fetcher, cfg.Sources.IndexURL, cfg.Sources.LookbackDays, logger)
	quotes := sources.NewQuoteAdapter(fetcher, cfg.Sources.QuoteURL, logger)
	foreign := sources.NewForeignFlowAdapter(fetcher, cfg.Sources.ForeignURL, logger)
	futures := sources.NewFuturesAdapter(fetcher, cfg.Sources.FuturesURL, config.FuturesProducts, logger)
	broker := sources.NewBrokerFlowAdapter(fetcher, cfg.Sources.BrokerURL, config.BrokerTargets, logger)
	ranking := sources.NewRankingAdapter(fetcher, cfg.Sources.RankingURL, logger)

	builder := pipeline.NewSnapshotBuilder(config.FixedTickers, days, quotes, foreign, futures, broker, ranking, logger)
	svc := services.NewSnapshotService(builder, cfg.Sources.RefreshPeriod, nil, logger)

	snap := svc.Refresh(ctx)

	path := *out
	if path == "" {
		path = filepath.Join(cfg.Paths.DataDir, fmt.Sprintf("snapshot-%s.json", snap.LatestTradingDay))
	}

	if err := svc.Save(ctx, path); err != nil {
		logger.Error("failed to save snapshot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("snapshot complete",
		slog.String("trading_day", snap.LatestTradingDay),
		slog.String("path", path))
}
