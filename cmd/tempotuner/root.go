package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brendanciccone/tempotuner/internal/logger"
	"github.com/brendanciccone/tempotuner/internal/tuner"
)

const version = "0.3.0"

var (
	flagRef     float64
	flagFlats   bool
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tempotuner",
	Short: "Chromatic instrument tuner for the terminal",
	Long: `tempotuner listens to the default input device, detects the fundamental
frequency of what you play, and shows a stable note with its cents deviation.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logger.SetLevel(logger.DEBUG)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tempotuner version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tempotuner", version)
	},
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&flagRef, "ref", tuner.DefaultReferenceA4,
		"reference pitch for A4 in Hz (420-460, 0.5 steps)")
	rootCmd.PersistentFlags().BoolVar(&flagFlats, "flats", false,
		"spell accidentals as flats instead of sharps")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"path to a JSON engine configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// loadEngineConfig resolves the engine configuration from --config or the
// defaults.
func loadEngineConfig() (tuner.Config, error) {
	if flagConfig == "" {
		return tuner.DefaultConfig(), nil
	}
	cfg, err := tuner.LoadConfig(flagConfig)
	if err != nil {
		return tuner.Config{}, err
	}
	logger.Debugf("loaded engine config from %s", flagConfig)
	return cfg, nil
}
