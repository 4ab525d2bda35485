package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"staffcast/internal/cache"
	"staffcast/internal/forecast"
	"staffcast/internal/history"
)

var (
	scenarioPath string
	historyPath  string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Run a forecast scenario and print the result as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario := forecast.DefaultScenario("cli", time.Now())
		if scenarioPath != "" {
			data, err := os.ReadFile(scenarioPath)
			if err != nil {
				return fmt.Errorf("failed to read scenario file: %w", err)
			}
			if err := json.Unmarshal(data, &scenario); err != nil {
				return fmt.Errorf("failed to parse scenario file: %w", err)
			}
		}

		var observations []history.Observation
		if historyPath != "" {
			var err error
			observations, err = history.ReadFile(historyPath)
			if err != nil {
				return err
			}
			log.Info().Int("count", len(observations)).Msg("Loaded historical observations")
		} else {
			log.Warn().Msg("No history file supplied, forecasting from default base metrics")
		}

		engine := forecast.NewEngine(cfg.Engine, forecast.WithCache(cache.NewMemoryStore()))
		run, err := engine.Generate(cmd.Context(), scenario, observations)
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(run)
	},
}

func init() {
	forecastCmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to a scenario JSON file (defaults apply when omitted)")
	forecastCmd.Flags().StringVar(&historyPath, "history", "", "path to a JSONL file of monthly observations")
}
