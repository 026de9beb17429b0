// Package config loads sandbox parameters from a YAML file or CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Defaults mirror the reference sandbox parameters. They are simulation
// configuration, not physical constants.
const (
	DefaultInitialUsd       = "10000"
	DefaultInitialBtc       = "0"
	DefaultSeedPrice        = "64500"
	DefaultVolatility       = "0.0005"
	DefaultSeedSpread       = "0.015"
	DefaultSeedPoints       = 20
	DefaultHistoryCapacity  = 30
	DefaultTickInterval     = 3 * time.Second
	DefaultAdvisoryInterval = 60 * time.Second
	DefaultWebAddr          = ":8080"
)

// Config holds all sandbox parameters.
type Config struct {
	InitialUsd       decimal.Decimal
	InitialBtc       decimal.Decimal
	SeedPrice        decimal.Decimal
	Volatility       decimal.Decimal
	SeedSpread       decimal.Decimal
	SeedPoints       int
	HistoryCapacity  int
	TickInterval     time.Duration
	AdvisoryInterval time.Duration
	WebAddr          string
	TradeWALDir      string
	AdvisoryWALDir   string
	LLMAPIURL        string
	LLMAPIKey        string
	LLMModel         string
}

// configTmp is the yaml representation: decimal fields travel as
// strings and get validated during conversion.
type configTmp struct {
	InitialUsd       string        `yaml:"initial_usd,omitempty"`
	InitialBtc       string        `yaml:"initial_btc,omitempty"`
	SeedPrice        string        `yaml:"seed_price,omitempty"`
	Volatility       string        `yaml:"volatility,omitempty"`
	SeedSpread       string        `yaml:"seed_spread,omitempty"`
	SeedPoints       int           `yaml:"seed_points,omitempty"`
	HistoryCapacity  int           `yaml:"history_capacity,omitempty"`
	TickInterval     time.Duration `yaml:"tick_interval,omitempty"`
	AdvisoryInterval time.Duration `yaml:"advisory_interval,omitempty"`
	WebAddr          string        `yaml:"web_addr,omitempty"`
	TradeWALDir      string        `yaml:"trade_wal_dir,omitempty"`
	AdvisoryWALDir   string        `yaml:"advisory_wal_dir,omitempty"`
	LLMAPIURL        string        `yaml:"llm_api_url,omitempty"`
	LLMModel         string        `yaml:"llm_model,omitempty"`
}

// Get loads the configuration from --config yaml when provided,
// otherwise from CLI flags. The LLM API key always comes from the
// BITFLOW_LLM_API_KEY environment variable.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")

	initialUsd := flag.String("usd", DefaultInitialUsd, "initial USD balance")
	initialBtc := flag.String("btc", DefaultInitialBtc, "initial BTC balance")
	seedPrice := flag.String("seedprice", DefaultSeedPrice, "initial simulated price")
	volatility := flag.String("volatility", DefaultVolatility, "per-tick proportional volatility")
	tickInterval := flag.Duration("tickinterval", DefaultTickInterval, "price tick interval")
	advisoryInterval := flag.Duration("advisoryinterval", DefaultAdvisoryInterval, "advisory refresh interval")
	historyCapacity := flag.Int("historycap", DefaultHistoryCapacity, "rolling price window capacity")
	webAddr := flag.String("webaddr", DefaultWebAddr, "dashboard listen address")
	llmURL := flag.String("llmurl", "", "OpenAI-compatible chat completions URL")
	llmModel := flag.String("llmmodel", "", "advisory model name")

	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	tmp := configTmp{
		InitialUsd:       *initialUsd,
		InitialBtc:       *initialBtc,
		SeedPrice:        *seedPrice,
		Volatility:       *volatility,
		TickInterval:     *tickInterval,
		AdvisoryInterval: *advisoryInterval,
		HistoryCapacity:  *historyCapacity,
		WebAddr:          *webAddr,
		LLMAPIURL:        *llmURL,
		LLMModel:         *llmModel,
	}

	return tmp.toConfig()
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, err
	}

	return tmp.toConfig()
}

func (t configTmp) toConfig() (Config, error) {
	conf := Config{
		SeedPoints:       t.SeedPoints,
		HistoryCapacity:  t.HistoryCapacity,
		TickInterval:     t.TickInterval,
		AdvisoryInterval: t.AdvisoryInterval,
		WebAddr:          t.WebAddr,
		TradeWALDir:      t.TradeWALDir,
		AdvisoryWALDir:   t.AdvisoryWALDir,
		LLMAPIURL:        t.LLMAPIURL,
		LLMAPIKey:        os.Getenv("BITFLOW_LLM_API_KEY"),
		LLMModel:         t.LLMModel,
	}

	var err error
	if conf.InitialUsd, err = parseDecimal(t.InitialUsd, DefaultInitialUsd, "initial_usd"); err != nil {
		return Config{}, err
	}
	if conf.InitialBtc, err = parseDecimal(t.InitialBtc, DefaultInitialBtc, "initial_btc"); err != nil {
		return Config{}, err
	}
	if conf.SeedPrice, err = parseDecimal(t.SeedPrice, DefaultSeedPrice, "seed_price"); err != nil {
		return Config{}, err
	}
	if conf.Volatility, err = parseDecimal(t.Volatility, DefaultVolatility, "volatility"); err != nil {
		return Config{}, err
	}
	if conf.SeedSpread, err = parseDecimal(t.SeedSpread, DefaultSeedSpread, "seed_spread"); err != nil {
		return Config{}, err
	}

	if conf.InitialUsd.IsNegative() || conf.InitialBtc.IsNegative() {
		return Config{}, fmt.Errorf("initial balances must be non-negative")
	}
	if conf.SeedPrice.LessThanOrEqual(decimal.Zero) {
		return Config{}, fmt.Errorf("seed_price must be positive")
	}
	if conf.Volatility.LessThanOrEqual(decimal.Zero) {
		return Config{}, fmt.Errorf("volatility must be positive")
	}

	if conf.SeedPoints <= 0 {
		conf.SeedPoints = DefaultSeedPoints
	}
	if conf.HistoryCapacity <= 0 {
		conf.HistoryCapacity = DefaultHistoryCapacity
	}
	if conf.TickInterval <= 0 {
		conf.TickInterval = DefaultTickInterval
	}
	if conf.AdvisoryInterval <= 0 {
		conf.AdvisoryInterval = DefaultAdvisoryInterval
	}
	if conf.WebAddr == "" {
		conf.WebAddr = DefaultWebAddr
	}

	return conf, nil
}

func parseDecimal(value, fallback, field string) (decimal.Decimal, error) {
	if value == "" {
		value = fallback
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("incorrect '%s' param (must be a decimal): %w", field, err)
	}
	return parsed, nil
}
