// Package setup provides the interactive configuration wizard.
package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// wizardConfig is the yaml payload the wizard writes; tags match
// config.Get expectations.
type wizardConfig struct {
	InitialUsd       string        `yaml:"initial_usd"`
	InitialBtc       string        `yaml:"initial_btc"`
	SeedPrice        string        `yaml:"seed_price"`
	Volatility       string        `yaml:"volatility"`
	TickInterval     time.Duration `yaml:"tick_interval"`
	AdvisoryInterval time.Duration `yaml:"advisory_interval"`
	HistoryCapacity  int           `yaml:"history_capacity"`
	WebAddr          string        `yaml:"web_addr"`
	LLMAPIURL        string        `yaml:"llm_api_url,omitempty"`
	LLMModel         string        `yaml:"llm_model,omitempty"`
}

// RunTUI launches the terminal configuration wizard and writes the
// resulting yaml to path.
func RunTUI(path string) error {
	var (
		initialUsd          string
		seedPrice           string
		volatility          string
		tickIntervalStr     string
		advisoryIntervalStr string
		webAddr             string
		useAdvisory         bool
		apiURL              string
		model               string
		confirm             bool
	)

	// defaults
	initialUsd = "10000"
	seedPrice = "64500"
	volatility = "0.0005"
	tickIntervalStr = "3s"
	advisoryIntervalStr = "1m"
	webAddr = ":8080"
	apiURL = "https://openrouter.ai/api/v1/chat/completions"
	model = "deepseek/deepseek-v3.2-exp"

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("BITFLOW CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Set up your paper-trading sandbox.\n"))

	fmt.Println(stepStyle.Render("STEP 1: WALLET & MARKET"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Initial USD Balance").
				Value(&initialUsd).
				Validate(validatePositiveDecimal),
			huh.NewInput().
				Title("Seed Price").
				Description("Starting point of the simulated BTC price").
				Value(&seedPrice).
				Validate(validatePositiveDecimal),
			huh.NewInput().
				Title("Volatility").
				Description("Per-tick proportional volatility (e.g. 0.0005)").
				Value(&volatility).
				Validate(validatePositiveDecimal),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("BITFLOW CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: TIMING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tick Interval").
				Description("Duration string (e.g. 3s, 10s)").
				Value(&tickIntervalStr).
				Validate(validateDuration),
			huh.NewInput().
				Title("Advisory Refresh Interval").
				Description("Duration string (e.g. 1m, 5m)").
				Value(&advisoryIntervalStr).
				Validate(validateDuration),
			huh.NewInput().
				Title("Dashboard Address").
				Value(&webAddr),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("BITFLOW CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: AI ADVISORY"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable AI commentary?").
				Description("Requires BITFLOW_LLM_API_KEY in the environment").
				Value(&useAdvisory),
		),
	).Run()
	if err != nil {
		return err
	}

	if useAdvisory {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("LLM API URL").
					Value(&apiURL),
				huh.NewInput().
					Title("Model Name").
					Value(&model),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("BITFLOW CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Initial USD: %s\nSeed Price: %s\nVolatility: %s\nTick: %s\nAdvisory: %s\nDashboard: %s\n",
		initialUsd, seedPrice, volatility, tickIntervalStr, advisoryIntervalStr, webAddr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	tickInterval, _ := time.ParseDuration(tickIntervalStr)
	advisoryInterval, _ := time.ParseDuration(advisoryIntervalStr)

	cfg := wizardConfig{
		InitialUsd:       initialUsd,
		InitialBtc:       "0",
		SeedPrice:        seedPrice,
		Volatility:       volatility,
		TickInterval:     tickInterval,
		AdvisoryInterval: advisoryInterval,
		HistoryCapacity:  30,
		WebAddr:          webAddr,
	}
	if useAdvisory {
		cfg.LLMAPIURL = apiURL
		cfg.LLMModel = model
	}

	payload, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render("config written to " + path))
	return nil
}

func validatePositiveDecimal(s string) error {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a decimal number")
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func validateDuration(s string) error {
	_, err := time.ParseDuration(s)
	return err
}
