package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/makersim/config"
	"github.com/vadiminshakov/makersim/internal"
	"github.com/vadiminshakov/makersim/internal/domain"
	"github.com/vadiminshakov/makersim/internal/logging"
	"github.com/vadiminshakov/makersim/internal/services/fills"
	"github.com/vadiminshakov/makersim/internal/services/ledger"
	"github.com/vadiminshakov/makersim/internal/services/pricer"
	"github.com/vadiminshakov/makersim/internal/services/report"
	"github.com/vadiminshakov/makersim/internal/services/strategy"
	"github.com/vadiminshakov/makersim/internal/setup"
	"github.com/vadiminshakov/makersim/internal/storage/results"
	"github.com/vadiminshakov/makersim/internal/storage/runhistory"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to get configuration:", err)
		os.Exit(1)
	}

	if cfg.Setup {
		if err := setup.RunTUI(); err != nil {
			fmt.Fprintln(os.Stderr, "setup failed:", err)
			os.Exit(1)
		}
		return
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := results.NewStore(cfg.ResultsPath)
	if err != nil {
		logger.Fatal("failed to open results store", zap.Error(err))
	}

	var (
		mu        sync.Mutex
		summaries []domain.Summary
		seeds     = make(map[string]int64)
	)

	// runs share the seed so every strategy sees the same market path
	g := new(errgroup.Group)
	for _, name := range cfg.MarketMakers {
		makerName := name
		g.Go(func() error {
			summary, err := runOne(ctx, cfg, makerName, logger)
			if err != nil {
				logger.Error("run failed", zap.String("strategy", makerName), zap.Error(err))
			}
			if summary.RunID != "" {
				mu.Lock()
				summaries = append(summaries, summary)
				seeds[summary.RunID] = cfg.Seed
				mu.Unlock()
			}
			return nil
		})
		logger.Info("started", zap.String("strategy", makerName))
	}
	_ = g.Wait()

	aborted := false
	for _, summary := range summaries {
		if err := store.Save(summary, seeds[summary.RunID]); err != nil {
			logger.Error("failed to save run result", zap.String("run_id", summary.RunID), zap.Error(err))
		}
		if summary.Status == domain.StatusAborted {
			aborted = true
		}
	}

	fmt.Println(report.Render(summaries))

	if aborted || len(summaries) < len(cfg.MarketMakers) {
		os.Exit(1)
	}
}

// runOne executes a full simulation for one strategy. Aborted runs still
// return their partial summary.
func runOne(ctx context.Context, cfg config.Config, makerName string, logger *zap.Logger) (domain.Summary, error) {
	runID := uuid.NewString()

	maker, err := strategy.New(makerName, logger)
	if err != nil {
		return domain.Summary{}, err
	}

	processCfg := pricer.DefaultConfig()
	processCfg.StartPrice = cfg.StartPrice
	processCfg.StartVolatility = cfg.StartVolatility
	processCfg.VolTarget = cfg.StartVolatility
	processCfg.EventProbability = cfg.EventProbability
	process, err := pricer.NewProcess(processCfg, cfg.Seed, logger)
	if err != nil {
		return domain.Summary{}, err
	}

	evalCfg := fills.DefaultConfig()
	evalCfg.Policy = fills.Policy(cfg.FillPolicy)
	evalCfg.DefaultSize = cfg.FillSize
	// fills draw from their own stream so quote changes never shift prices
	evaluator, err := fills.NewEvaluator(evalCfg, cfg.Seed+1, logger)
	if err != nil {
		return domain.Summary{}, err
	}

	book := ledger.New(runID, cfg.InitialCapital, logger)

	recorder, err := runhistory.NewWALStore(filepath.Join(cfg.HistoryDir, makerName))
	if err != nil {
		return domain.Summary{}, err
	}
	defer recorder.Close()

	sim, err := internal.NewSimulator(
		runID,
		internal.SimulatorConfig{Days: cfg.Days, MaxStrategyFaults: cfg.MaxStrategyFaults},
		process,
		evaluator,
		book,
		maker,
		recorder,
		logger,
	)
	if err != nil {
		return domain.Summary{}, err
	}

	summary, err := sim.Run(ctx)
	if err != nil {
		return summary, err
	}

	logger.Info("run finished",
		zap.String("run_id", runID),
		zap.String("strategy", makerName),
		zap.String("total_pnl", summary.TotalPnL.String()),
		zap.String("max_drawdown", summary.MaxDrawdown.String()),
		zap.String("score", summary.Score.String()))
	return summary, nil
}
