package commands

import (
	"github.com/spf13/cobra"

	"github.com/alokshah14/LeapTracking/internal/config"
)

// Global flags shared by every command.
var (
	flagConfig  string
	flagDataDir string
	flagLeapURL string
)

var rootCmd = &cobra.Command{
	Use:   "leaptracking",
	Short: "Finger independence trainer for Leap Motion hand tracking",
	Long: `leaptracking - train finger independence with real hand tracking.

The trainer connects to a local Leap Motion tracking service, walks you
through a short calibration (resting baseline, then press-and-hold each
finger in turn) and afterwards detects which single finger you press.
Practice sessions prompt a target finger and score every attempt.

Data is stored in ~/.leaptracking:
  config.yaml   - configuration (see 'leaptracking config init')
  calibration/  - the calibrated finger profile
  history.db    - practice sessions and attempts

Running leaptracking with no command starts the trainer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default <data dir>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.leaptracking)")
	rootCmd.PersistentFlags().StringVar(&flagLeapURL, "leap-url", "", "tracking service WebSocket URL")
}

// loadConfig resolves the effective configuration: defaults, then the
// config file, then environment overrides, then command line flags.
func loadConfig() (config.Config, string, error) {
	path := flagConfig
	if path == "" {
		dir := flagDataDir
		if dir == "" {
			var err error
			dir, err = config.DefaultDir()
			if err != nil {
				return config.Config{}, "", err
			}
		}
		path = config.Path(dir)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagLeapURL != "" {
		cfg.LeapURL = flagLeapURL
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, dataDir, nil
}
