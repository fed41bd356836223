// Package internal wires the simulation engine: price process, quote
// evaluation, ledger accounting and the daily loop that drives them.
package internal

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/makersim/internal/domain"
	"github.com/vadiminshakov/makersim/internal/services/fills"
	"github.com/vadiminshakov/makersim/internal/services/ledger"
	"github.com/vadiminshakov/makersim/internal/services/pricer"
	"github.com/vadiminshakov/makersim/internal/services/report"
	"github.com/vadiminshakov/makersim/internal/services/strategy"
	"github.com/vadiminshakov/makersim/pkg/retrier"
	"go.uber.org/zap"
)

// Recorder receives each day's snapshot. Emission failures are retried and
// reported, never fatal to the run.
type Recorder interface {
	Record(snapshot domain.LedgerSnapshot) error
}

// SimulatorConfig holds the loop parameters.
type SimulatorConfig struct {
	// Days is the number of trading days in the run.
	Days int
	// MaxStrategyFaults aborts the run once this many faulted days have been
	// recorded. Zero disables the threshold.
	MaxStrategyFaults int
}

// Simulator drives a single run: one strategy, one seeded market path, one
// ledger. Days execute strictly in sequence; the ledger is mutated exactly
// once per day and only by this loop.
type Simulator struct {
	runID     string
	cfg       SimulatorConfig
	process   *pricer.Process
	evaluator *fills.Evaluator
	book      *ledger.Ledger
	maker     strategy.MarketMaker
	recorder  Recorder
	retry     *retrier.Retrier
	logger    *zap.Logger

	status domain.RunStatus
}

// NewSimulator creates a simulator in the not-started state.
func NewSimulator(
	runID string,
	cfg SimulatorConfig,
	process *pricer.Process,
	evaluator *fills.Evaluator,
	book *ledger.Ledger,
	maker strategy.MarketMaker,
	recorder Recorder,
	logger *zap.Logger,
) (*Simulator, error) {
	if cfg.Days <= 0 {
		return nil, errors.Errorf("days must be positive, got %d", cfg.Days)
	}
	if process == nil || evaluator == nil || book == nil || maker == nil {
		return nil, errors.New("process, evaluator, ledger and maker are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Simulator{
		runID:     runID,
		cfg:       cfg,
		process:   process,
		evaluator: evaluator,
		book:      book,
		maker:     maker,
		recorder:  recorder,
		retry:     retrier.New(),
		logger:    logger.With(zap.String("run_id", runID), zap.String("strategy", maker.Name())),
		status:    domain.StatusNotStarted,
	}, nil
}

// Status returns the run state.
func (s *Simulator) Status() domain.RunStatus {
	return s.status
}

// Run executes the daily loop until the configured day count or an
// unrecoverable fault. The summary is built from whatever history
// accumulated, so an aborted run still reports its completed days.
func (s *Simulator) Run(ctx context.Context) (domain.Summary, error) {
	if s.status != domain.StatusNotStarted {
		return domain.Summary{}, errors.Errorf("simulator already ran, status %s", s.status)
	}
	s.status = domain.StatusRunning
	s.logger.Info("run started", zap.Int("days", s.cfg.Days))

	faultDays := 0
	for day := 0; day < s.cfg.Days; day++ {
		if err := ctx.Err(); err != nil {
			return s.abort(errors.Wrap(err, "run cancelled"))
		}

		state := s.process.Current()
		if day > 0 {
			state = s.process.Next()
		}

		quote, err := s.makeMarket(state)

		var fault *domain.StrategyFault
		var quotePtr *domain.Quote
		outcomes := []domain.TradeOutcome{domain.NoTrade()}

		switch {
		case err == nil:
			quotePtr = &quote
			evaluated, evalErr := s.evaluator.Evaluate(state, quote)
			outcomes = evaluated
			if evalErr != nil {
				fault = domain.AsStrategyFault(evalErr)
				if fault == nil {
					return s.abort(domain.NewCollaboratorFault("evaluator", evalErr))
				}
			}
		case errors.Is(err, strategy.ErrNoQuote):
			fault = domain.NewStrategyFault("declined", "")
		default:
			return s.abort(err)
		}

		snapshot := s.book.Update(state, quotePtr, outcomes, fault)
		if fault != nil {
			faultDays++
			s.logger.Warn("day faulted",
				zap.Int("day", state.Day),
				zap.String("fault", fault.Reason),
				zap.String("detail", fault.Detail))
		}

		s.emit(ctx, snapshot)
		s.logger.Debug("day completed",
			zap.Int("day", state.Day),
			zap.String("mid", state.MidPrice.StringFixed(2)),
			zap.String("event", state.Event.String()),
			zap.String("inventory", snapshot.Inventory.String()),
			zap.String("pnl", snapshot.PnL().StringFixed(2)))

		if s.cfg.MaxStrategyFaults > 0 && faultDays >= s.cfg.MaxStrategyFaults {
			return s.abort(errors.Errorf("strategy fault threshold exceeded: %d faulted days", faultDays))
		}
	}

	s.status = domain.StatusFinished
	summary := report.Build(s.runID, s.maker.Name(), s.status, s.book.History())
	s.logger.Info("run finished",
		zap.Int("days_completed", summary.DaysCompleted),
		zap.Int("fault_days", summary.FaultDays),
		zap.String("total_pnl", summary.TotalPnL.StringFixed(2)))
	return summary, nil
}

// makeMarket invokes the strategy, converting panics into collaborator
// faults so a broken strategy aborts the run instead of crashing it.
func (s *Simulator) makeMarket(state domain.MarketState) (quote domain.Quote, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.NewCollaboratorFault("strategy", fmt.Errorf("panic: %v", r))
		}
	}()

	quote, err = s.maker.MakeMarket(state, s.book)
	if err != nil && !errors.Is(err, strategy.ErrNoQuote) {
		err = domain.NewCollaboratorFault("strategy", err)
	}
	return quote, err
}

// emit hands the snapshot to the logging collaborator. The loop does not
// wait on persistence success beyond a short retry budget.
func (s *Simulator) emit(ctx context.Context, snapshot domain.LedgerSnapshot) {
	if s.recorder == nil {
		return
	}
	err := s.retry.Do(ctx, func(context.Context) error {
		return s.recorder.Record(snapshot)
	})
	if err != nil {
		s.logger.Error("failed to record day snapshot",
			zap.Int("day", snapshot.Day),
			zap.Error(err))
	}
}

func (s *Simulator) abort(err error) (domain.Summary, error) {
	s.status = domain.StatusAborted
	summary := report.Build(s.runID, s.maker.Name(), s.status, s.book.History())
	s.logger.Error("run aborted",
		zap.Int("days_completed", summary.DaysCompleted),
		zap.Error(err))
	return summary, err
}
