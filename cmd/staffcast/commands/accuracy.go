package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"staffcast/internal/stats"
)

var (
	actualPath    string
	predictedPath string
	horizonMonths int
)

var accuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Score a forecast against actuals and print the metrics as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		actual, err := readSeries(actualPath)
		if err != nil {
			return err
		}
		predicted, err := readSeries(predictedPath)
		if err != nil {
			return err
		}

		metrics := stats.Accuracy(actual, predicted)
		band, ok := stats.WithinThreshold(metrics, horizonMonths, cfg.Engine.AccuracyThresholds)

		out := struct {
			Metrics   stats.Metrics `json:"metrics"`
			Horizon   string        `json:"horizon"`
			MAPELimit float64       `json:"mape_limit"`
			Within    bool          `json:"within_threshold"`
		}{metrics, band.Name, band.MAPELimit, ok}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	},
}

func readSeries(path string) ([]float64, error) {
	if path == "" {
		return nil, fmt.Errorf("missing required series file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read series file: %w", err)
	}
	var series []float64
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("failed to parse series file %s: %w", path, err)
	}
	return series, nil
}

func init() {
	accuracyCmd.Flags().StringVar(&actualPath, "actual", "", "path to a JSON array of actual values")
	accuracyCmd.Flags().StringVar(&predictedPath, "predicted", "", "path to a JSON array of predicted values")
	accuracyCmd.Flags().IntVar(&horizonMonths, "horizon", 12, "forecast horizon in months for threshold selection")
	_ = accuracyCmd.MarkFlagRequired("actual")
	_ = accuracyCmd.MarkFlagRequired("predicted")
}
