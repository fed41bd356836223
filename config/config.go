// Package config loads simulation parameters from flags or a YAML file.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the fully parsed run configuration.
type Config struct {
	// MarketMakers are the strategy names to simulate side by side.
	MarketMakers []string
	// Seed drives every random stream of the run.
	Seed int64
	// Days is the length of the run in trading days.
	Days int
	// InitialCapital is the starting cash of each ledger.
	InitialCapital decimal.Decimal
	// StartPrice is the day-0 mid price.
	StartPrice decimal.Decimal
	// StartVolatility is the day-0 daily volatility.
	StartVolatility float64
	// EventProbability is the per-day chance of an injected market event.
	EventProbability float64
	// FillPolicy selects the both-sides fill behaviour: independent or single.
	FillPolicy string
	// FillSize is the default size per fill.
	FillSize decimal.Decimal
	// MaxStrategyFaults aborts a run after this many faulted days, 0 disables.
	MaxStrategyFaults int

	// HistoryDir is where per-day snapshots are written.
	HistoryDir string
	// ResultsPath is the SQLite file collecting run summaries.
	ResultsPath string
	// LogFile is the rotating log destination, empty for stderr only.
	LogFile string
	// LogLevel is debug, info, warn or error.
	LogLevel string

	// Setup launches the interactive configuration wizard instead of a run.
	Setup bool
}

// yamlConfig mirrors Config with string decimals, the way the file is written.
type yamlConfig struct {
	MarketMakers     []string `yaml:"market_makers"`
	Seed             int64    `yaml:"seed"`
	Days             int      `yaml:"days"`
	InitialCapital   string   `yaml:"initial_capital,omitempty"`
	StartPrice       string   `yaml:"start_price,omitempty"`
	StartVolatility  float64  `yaml:"start_volatility,omitempty"`
	EventProbability float64  `yaml:"event_probability,omitempty"`
	FillPolicy       string   `yaml:"fill_policy,omitempty"`
	FillSize         string   `yaml:"fill_size,omitempty"`
	MaxFaults        int      `yaml:"max_strategy_faults,omitempty"`
	HistoryDir       string   `yaml:"history_dir,omitempty"`
	ResultsPath      string   `yaml:"results_path,omitempty"`
	LogFile          string   `yaml:"log_file,omitempty"`
	LogLevel         string   `yaml:"log_level,omitempty"`
}

const (
	defaultSeed        = 42
	defaultDays        = 63
	defaultHistoryDir  = "./wal/history"
	defaultResultsPath = "./makersim.db"
)

// Defaults returns the standard quarter-long run: price 100, daily
// volatility 0.02, 63 trading days.
func Defaults() Config {
	return Config{
		MarketMakers:      []string{"SimpleMaker"},
		Seed:              defaultSeed,
		Days:              defaultDays,
		InitialCapital:    decimal.NewFromInt(10000),
		StartPrice:        decimal.NewFromInt(100),
		StartVolatility:   0.02,
		EventProbability:  0.05,
		FillPolicy:        "independent",
		FillSize:          decimal.NewFromInt(1),
		MaxStrategyFaults: 0,
		HistoryDir:        defaultHistoryDir,
		ResultsPath:       defaultResultsPath,
		LogLevel:          "info",
	}
}

// Get parses the command line and, when --config is given, the YAML file.
// A .env file in the working directory is loaded first so storage paths can
// be overridden per environment.
func Get() (Config, error) {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to yaml config")
	marketMaker := flag.String("market-maker", "", "market maker strategy name, example: SimpleMaker")
	seed := flag.Int64("seed", defaultSeed, "random seed for the run")
	days := flag.Int("days", defaultDays, "number of trading days")
	setup := flag.Bool("setup", false, "launch the interactive configuration wizard")
	flag.Parse()

	cfg := Defaults()
	cfg.Setup = *setup

	if *configPath != "" {
		loaded, err := FromYamlFile(*configPath)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	// flags override the file
	if *marketMaker != "" {
		cfg.MarketMakers = []string{*marketMaker}
	}
	if isFlagSet("seed") {
		cfg.Seed = *seed
	}
	if isFlagSet("days") {
		cfg.Days = *days
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromYamlFile loads a Config from the YAML file at path.
func FromYamlFile(path string) (Config, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return fromYaml(payload)
}

func fromYaml(payload []byte) (Config, error) {
	var tmp yamlConfig
	if err := yaml.Unmarshal(payload, &tmp); err != nil {
		return Config{}, fmt.Errorf("parse yaml config: %w", err)
	}

	cfg := Defaults()
	if len(tmp.MarketMakers) > 0 {
		cfg.MarketMakers = tmp.MarketMakers
	}
	if tmp.Seed != 0 {
		cfg.Seed = tmp.Seed
	}
	if tmp.Days != 0 {
		cfg.Days = tmp.Days
	}
	if tmp.StartVolatility != 0 {
		cfg.StartVolatility = tmp.StartVolatility
	}
	if tmp.EventProbability != 0 {
		cfg.EventProbability = tmp.EventProbability
	}
	if tmp.FillPolicy != "" {
		cfg.FillPolicy = tmp.FillPolicy
	}
	if tmp.MaxFaults != 0 {
		cfg.MaxStrategyFaults = tmp.MaxFaults
	}
	if tmp.HistoryDir != "" {
		cfg.HistoryDir = tmp.HistoryDir
	}
	if tmp.ResultsPath != "" {
		cfg.ResultsPath = tmp.ResultsPath
	}
	if tmp.LogFile != "" {
		cfg.LogFile = tmp.LogFile
	}
	if tmp.LogLevel != "" {
		cfg.LogLevel = tmp.LogLevel
	}

	var err error
	if tmp.InitialCapital != "" {
		cfg.InitialCapital, err = decimal.NewFromString(tmp.InitialCapital)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'initial_capital' param in yaml config: %w", err)
		}
	}
	if tmp.StartPrice != "" {
		cfg.StartPrice, err = decimal.NewFromString(tmp.StartPrice)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'start_price' param in yaml config: %w", err)
		}
	}
	if tmp.FillSize != "" {
		cfg.FillSize, err = decimal.NewFromString(tmp.FillSize)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'fill_size' param in yaml config: %w", err)
		}
	}

	return cfg, nil
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if len(c.MarketMakers) == 0 {
		return fmt.Errorf("at least one market maker is required")
	}
	if c.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", c.Days)
	}
	if c.StartPrice.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("start price must be positive, got %s", c.StartPrice.String())
	}
	if c.StartVolatility < 0 {
		return fmt.Errorf("start volatility must be non-negative, got %f", c.StartVolatility)
	}
	if c.EventProbability < 0 || c.EventProbability > 1 {
		return fmt.Errorf("event probability must be in [0,1], got %f", c.EventProbability)
	}
	if c.FillPolicy != "independent" && c.FillPolicy != "single" {
		return fmt.Errorf("fill policy must be independent or single, got %s", c.FillPolicy)
	}
	if c.FillSize.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("fill size must be positive, got %s", c.FillSize.String())
	}
	return nil
}

// WriteYamlFile writes the config as YAML at path, for the setup wizard.
func (c Config) WriteYamlFile(path string) error {
	tmp := yamlConfig{
		MarketMakers:     c.MarketMakers,
		Seed:             c.Seed,
		Days:             c.Days,
		InitialCapital:   c.InitialCapital.String(),
		StartPrice:       c.StartPrice.String(),
		StartVolatility:  c.StartVolatility,
		EventProbability: c.EventProbability,
		FillPolicy:       c.FillPolicy,
		FillSize:         c.FillSize.String(),
		MaxFaults:        c.MaxStrategyFaults,
		HistoryDir:       c.HistoryDir,
		ResultsPath:      c.ResultsPath,
		LogFile:          c.LogFile,
		LogLevel:         c.LogLevel,
	}
	payload, err := yaml.Marshal(tmp)
	if err != nil {
		return fmt.Errorf("marshal yaml config: %w", err)
	}
	return os.WriteFile(path, payload, 0o644)
}

func applyEnv(cfg *Config) {
	if dir := os.Getenv("MAKERSIM_HISTORY_DIR"); dir != "" {
		cfg.HistoryDir = dir
	}
	if path := os.Getenv("MAKERSIM_RESULTS_PATH"); path != "" {
		cfg.ResultsPath = path
	}
	if file := os.Getenv("MAKERSIM_LOG_FILE"); file != "" {
		cfg.LogFile = file
	}
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
