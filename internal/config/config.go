// Package config loads and saves the leaptracking configuration file.
//
// The file lives at <data dir>/config.yaml and every field falls back to a
// default, so a missing file is a complete configuration. A .env file or the
// environment can override the service URL and the data directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	_ "github.com/joho/godotenv/autoload"

	"github.com/alokshah14/LeapTracking/internal/engine"
	"github.com/alokshah14/LeapTracking/internal/practice"
	"github.com/alokshah14/LeapTracking/internal/tracking"
)

// FileName is the configuration file name inside the data directory.
const FileName = "config.yaml"

const (
	envLeapURL = "LEAPTRACKING_LEAP_URL"
	envDataDir = "LEAPTRACKING_DATA_DIR"
)

// Config is the on-disk configuration.
type Config struct {
	// LeapURL is the tracking service WebSocket endpoint.
	LeapURL string `yaml:"leap_url"`

	// DataDir holds the calibration store, the practice history and the
	// config file itself. Empty means ~/.leaptracking.
	DataDir string `yaml:"data_dir"`

	// Tray enables the system tray icon.
	Tray bool `yaml:"tray"`

	Calibration Calibration `yaml:"calibration"`
	Practice    Practice    `yaml:"practice"`
}

// Calibration tunes the detection engine. Durations are plain seconds,
// distances are meters and angles are degrees.
type Calibration struct {
	CountdownSeconds   float64 `yaml:"countdown_seconds"`
	BaselineSeconds    float64 `yaml:"baseline_seconds"`
	HoldSeconds        float64 `yaml:"hold_seconds"`
	DetectionThreshold float64 `yaml:"detection_threshold"`
	PressedRatio       float64 `yaml:"pressed_ratio"`
	MaxDrift           float64 `yaml:"max_drift"`
	HandLostSeconds    float64 `yaml:"hand_lost_seconds"`
}

// Practice configures the exercise game.
type Practice struct {
	Hand         string  `yaml:"hand"`
	Mode         string  `yaml:"mode"`
	RearmSeconds float64 `yaml:"rearm_seconds"`
}

// Default returns the configuration used when no file exists. The
// calibration values mirror the engine defaults.
func Default() Config {
	e := engine.DefaultConfig()
	return Config{
		LeapURL: tracking.DefaultConfig().URL,
		Tray:    true,
		Calibration: Calibration{
			CountdownSeconds:   e.CountdownDuration.Seconds(),
			BaselineSeconds:    e.BaselineDuration.Seconds(),
			HoldSeconds:        e.CalibrationTime.Seconds(),
			DetectionThreshold: e.MinDetectionThreshold,
			PressedRatio:       e.PressedThresholdRatio,
			MaxDrift:           e.MaxPositionDrift,
			HandLostSeconds:    e.HandLostTimeout.Seconds(),
		},
		Practice: Practice{
			Hand:         tracking.Left.String(),
			Mode:         practice.Sequential.String(),
			RearmSeconds: practice.DefaultRearmDelay.Seconds(),
		},
	}
}

// DefaultDir returns the default data directory, ~/.leaptracking.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".leaptracking"), nil
}

// Load reads the configuration at path. A missing file yields the defaults;
// file values missing a key keep their default. Environment overrides are
// applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run; the defaults are the configuration.
	case err != nil:
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if url := os.Getenv(envLeapURL); url != "" {
		cfg.LeapURL = url
	}
	if dir := os.Getenv(envDataDir); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the parent directory.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ResolveDataDir returns the configured data directory, or the default when
// none is set.
func (c Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return DefaultDir()
}

// EngineConfig converts the calibration settings into engine tunables. The
// calibration store is attached by the caller.
func (c Config) EngineConfig() engine.Config {
	return engine.Config{
		CountdownDuration:     seconds(c.Calibration.CountdownSeconds),
		BaselineDuration:      seconds(c.Calibration.BaselineSeconds),
		CalibrationTime:       seconds(c.Calibration.HoldSeconds),
		MinDetectionThreshold: c.Calibration.DetectionThreshold,
		PressedThresholdRatio: c.Calibration.PressedRatio,
		MaxPositionDrift:      c.Calibration.MaxDrift,
		HandLostTimeout:       seconds(c.Calibration.HandLostSeconds),
	}
}

// PracticeConfig converts the practice settings, validating the hand and
// mode names.
func (c Config) PracticeConfig() (practice.Config, error) {
	hand, ok := tracking.ParseSide(c.Practice.Hand)
	if !ok {
		return practice.Config{}, fmt.Errorf("unknown practice hand %q", c.Practice.Hand)
	}
	mode, err := practice.ParseMode(c.Practice.Mode)
	if err != nil {
		return practice.Config{}, err
	}
	return practice.Config{
		Hand:       hand,
		Mode:       mode,
		RearmDelay: seconds(c.Practice.RearmSeconds),
	}, nil
}

// Path returns the config file path inside a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// CalibrationDir returns the calibration store directory inside a data
// directory.
func CalibrationDir(dataDir string) string {
	return filepath.Join(dataDir, "calibration")
}

// HistoryPath returns the practice history database path inside a data
// directory.
func HistoryPath(dataDir string) string {
	return filepath.Join(dataDir, "history.db")
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
