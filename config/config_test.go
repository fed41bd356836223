package config

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	require.Equal(t, int64(42), cfg.Seed)
	require.Equal(t, 63, cfg.Days)
	require.True(t, cfg.StartPrice.Equal(decimal.NewFromInt(100)))
	require.Equal(t, 0.02, cfg.StartVolatility)
	require.Equal(t, "independent", cfg.FillPolicy)
}

func TestFromYamlOverridesDefaults(t *testing.T) {
	payload := []byte(`
market_makers:
  - FixedSpreadMaker
  - InventorySkewMaker
seed: 7
days: 21
initial_capital: "5000"
start_price: "250.5"
start_volatility: 0.05
event_probability: 0.1
fill_policy: single
max_strategy_faults: 5
log_level: debug
`)
	cfg, err := fromYaml(payload)
	require.NoError(t, err)

	require.Equal(t, []string{"FixedSpreadMaker", "InventorySkewMaker"}, cfg.MarketMakers)
	require.Equal(t, int64(7), cfg.Seed)
	require.Equal(t, 21, cfg.Days)
	require.True(t, cfg.InitialCapital.Equal(decimal.NewFromInt(5000)))
	require.True(t, cfg.StartPrice.Equal(decimal.NewFromFloat(250.5)))
	require.Equal(t, 0.05, cfg.StartVolatility)
	require.Equal(t, "single", cfg.FillPolicy)
	require.Equal(t, 5, cfg.MaxStrategyFaults)
	require.Equal(t, "debug", cfg.LogLevel)

	// omitted fields keep their defaults
	require.Equal(t, "./makersim.db", cfg.ResultsPath)
	require.True(t, cfg.FillSize.Equal(decimal.NewFromInt(1)))
}

func TestFromYamlRejectsBadDecimal(t *testing.T) {
	_, err := fromYaml([]byte(`initial_capital: "not a number"`))
	require.Error(t, err)
}

func TestFromYamlRejectsMalformedYaml(t *testing.T) {
	_, err := fromYaml([]byte("days: [not closed"))
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.MarketMakers = nil
	require.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Days = 0
	require.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.StartPrice = decimal.Zero
	require.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.EventProbability = 2
	require.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.FillPolicy = "both"
	require.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.FillSize = decimal.Zero
	require.Error(t, cfg.Validate())
}

func TestWriteYamlFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Defaults()
	cfg.MarketMakers = []string{"AdaptiveSpreadMaker"}
	cfg.Seed = 99
	cfg.Days = 30
	cfg.FillPolicy = "single"
	require.NoError(t, cfg.WriteYamlFile(path))

	loaded, err := FromYamlFile(path)
	require.NoError(t, err)
	require.Equal(t, cfg.MarketMakers, loaded.MarketMakers)
	require.Equal(t, cfg.Seed, loaded.Seed)
	require.Equal(t, cfg.Days, loaded.Days)
	require.Equal(t, cfg.FillPolicy, loaded.FillPolicy)
	require.True(t, cfg.StartPrice.Equal(loaded.StartPrice))
}

func TestEnvOverridesStoragePaths(t *testing.T) {
	t.Setenv("MAKERSIM_HISTORY_DIR", "/tmp/history")
	t.Setenv("MAKERSIM_RESULTS_PATH", "/tmp/results.db")

	cfg := Defaults()
	applyEnv(&cfg)
	require.Equal(t, "/tmp/history", cfg.HistoryDir)
	require.Equal(t, "/tmp/results.db", cfg.ResultsPath)
}
