package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"staffcast/internal/config"
	"staffcast/internal/logging"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "staffcast",
	Short: "Staffcast forecasts Medicare Advantage call demand and staffing",
	Long: `A workforce planning engine for seasonal Medicare Advantage enrollment support.
It projects membership and call volume month by month, sizes staffing with an
Erlang-C queueing model, and attaches Monte-Carlo uncertainty bands.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Staffcast starting")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(accuracyCmd)
}
