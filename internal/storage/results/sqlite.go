// Package results stores run summaries in SQLite so repeated runs of
// different strategies can be compared across invocations.
package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/makersim/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RunResult is the persisted form of a run summary.
type RunResult struct {
	ID            uint   `gorm:"primarykey"`
	RunID         string `gorm:"uniqueIndex"`
	Strategy      string `gorm:"index"`
	Status        string
	Seed          int64
	DaysCompleted int
	FaultDays     int
	TradeCount    int
	TotalPnL      string
	MaxDrawdown   string
	Score         string
	Sharpe        float64
	PnLByEvent    string
	CreatedAt     time.Time
}

// Store wraps the SQLite results database.
type Store struct {
	db *gorm.DB
}

// NewStore opens (or creates) the results database at path.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create results directory")
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open results database")
	}

	if err := db.AutoMigrate(&RunResult{}); err != nil {
		return nil, errors.Wrap(err, "migrate results database")
	}

	return &Store{db: db}, nil
}

// Save persists a run summary.
func (s *Store) Save(summary domain.Summary, seed int64) error {
	byEvent, err := json.Marshal(summary.PnLByEvent)
	if err != nil {
		return errors.Wrap(err, "marshal pnl by event")
	}

	result := RunResult{
		RunID:         summary.RunID,
		Strategy:      summary.Strategy,
		Status:        summary.Status.String(),
		Seed:          seed,
		DaysCompleted: summary.DaysCompleted,
		FaultDays:     summary.FaultDays,
		TradeCount:    summary.TradeCount,
		TotalPnL:      summary.TotalPnL.String(),
		MaxDrawdown:   summary.MaxDrawdown.String(),
		Score:         summary.Score.String(),
		Sharpe:        summary.Sharpe,
		PnLByEvent:    string(byEvent),
	}
	return errors.Wrap(s.db.Create(&result).Error, "save run result")
}

// Recent returns at most limit results ordered newest first.
func (s *Store) Recent(limit int) ([]RunResult, error) {
	var results []RunResult
	err := s.db.Order("created_at desc").Limit(limit).Find(&results).Error
	return results, errors.Wrap(err, "load recent results")
}

// BestByStrategy returns each strategy's highest score.
func (s *Store) BestByStrategy() (map[string]decimal.Decimal, error) {
	var results []RunResult
	if err := s.db.Find(&results).Error; err != nil {
		return nil, errors.Wrap(err, "load results")
	}

	best := make(map[string]decimal.Decimal)
	for _, r := range results {
		score, err := decimal.NewFromString(r.Score)
		if err != nil {
			return nil, errors.Wrapf(err, "decode score for run %s", r.RunID)
		}
		if cur, ok := best[r.Strategy]; !ok || score.GreaterThan(cur) {
			best[r.Strategy] = score
		}
	}
	return best, nil
}
