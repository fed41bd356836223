// Package setup holds the interactive configuration wizard.
package setup

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/makersim/config"
	"github.com/vadiminshakov/makersim/internal/services/strategy"
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

// GeneratedConfigFile is where the wizard saves its output.
const GeneratedConfigFile = "config.gen.yaml"

// RunTUI launches the terminal configuration wizard and writes the resulting
// YAML file next to the binary.
func RunTUI() error {
	defaults := config.Defaults()

	var (
		makers       []string
		seedStr      = strconv.FormatInt(defaults.Seed, 10)
		daysStr      = strconv.Itoa(defaults.Days)
		startPrice   = defaults.StartPrice.String()
		startVolStr  = fmt.Sprintf("%g", defaults.StartVolatility)
		eventProbStr = fmt.Sprintf("%g", defaults.EventProbability)
		fillPolicy   = defaults.FillPolicy
		confirm      bool
	)

	makerOptions := make([]huh.Option[string], 0, len(strategy.Names()))
	for _, name := range strategy.Names() {
		makerOptions = append(makerOptions, huh.NewOption(name, name))
	}

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("MAKERSIM CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Set up a market making simulation.\n"))

	// strategies
	fmt.Println(stepStyle.Render("STEP 1: MARKET MAKERS"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Choose the strategies to run side by side").
				Options(makerOptions...).
				Value(&makers).
				Validate(func(selected []string) error {
					if len(selected) == 0 {
						return fmt.Errorf("select at least one strategy")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// run parameters
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("MAKERSIM CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: RUN PARAMETERS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Random Seed").
				Description("Same seed reproduces the same market path").
				Value(&seedStr).
				Validate(validateInt64),
			huh.NewInput().
				Title("Trading Days").
				Description("Run length, 63 is one quarter").
				Value(&daysStr).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Start Price").
				Value(&startPrice).
				Validate(validatePositiveDecimal),
			huh.NewInput().
				Title("Start Volatility").
				Description("Daily volatility, e.g. 0.02").
				Value(&startVolStr).
				Validate(validateNonNegativeFloat),
			huh.NewInput().
				Title("Event Probability").
				Description("Per-day chance of a market event, 0 to 1").
				Value(&eventProbStr).
				Validate(validateProbability),
		),
	).Run()
	if err != nil {
		return err
	}

	// fill policy
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("MAKERSIM CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: FILL POLICY"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How may quotes fill within a day?").
				Options(
					huh.NewOption("Independent (both sides may fill)", "independent"),
					huh.NewOption("Single (at most one side fills)", "single"),
				).
				Value(&fillPolicy),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("MAKERSIM CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Strategies: %v\nSeed: %s\nDays: %s\nStart Price: %s\nStart Volatility: %s\nEvent Probability: %s\nFill Policy: %s\n",
		makers, seedStr, daysStr, startPrice, startVolStr, eventProbStr, fillPolicy,
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

	cfg := defaults
	cfg.MarketMakers = makers
	cfg.Seed, _ = strconv.ParseInt(seedStr, 10, 64)
	cfg.Days, _ = strconv.Atoi(daysStr)
	cfg.StartPrice, _ = decimal.NewFromString(startPrice)
	cfg.StartVolatility, _ = strconv.ParseFloat(startVolStr, 64)
	cfg.EventProbability, _ = strconv.ParseFloat(eventProbStr, 64)
	cfg.FillPolicy = fillPolicy

	if err := cfg.WriteYamlFile(GeneratedConfigFile); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(
		fmt.Sprintf("\n✓ Configuration saved to %s\nRun with --config %s", GeneratedConfigFile, GeneratedConfigFile)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return nil
}

func validateInt64(s string) error {
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return fmt.Errorf("must be an integer")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func validatePositiveDecimal(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func validateNonNegativeFloat(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("must be a non-negative number")
	}
	return nil
}

func validateProbability(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 1 {
		return fmt.Errorf("must be between 0 and 1")
	}
	return nil
}
