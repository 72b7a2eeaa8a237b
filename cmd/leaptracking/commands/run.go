package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alokshah14/LeapTracking/internal/app"
	"github.com/alokshah14/LeapTracking/internal/config"
	"github.com/alokshah14/LeapTracking/internal/engine"
	"github.com/alokshah14/LeapTracking/internal/kv"
	"github.com/alokshah14/LeapTracking/internal/store"
	"github.com/alokshah14/LeapTracking/internal/tracking"
	"github.com/alokshah14/LeapTracking/internal/tray"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to the tracking service and start detection",
	Long: `Connect to the Leap Motion tracking service and start the trainer.

With no saved calibration profile the calibration sequence begins as soon
as the service delivers frames; a saved profile is restored and detection
starts immediately. Use 'leaptracking profile clear' to force a fresh
calibration on the next run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runApp() error {
	cfg, dataDir, err := loadConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	calibration, err := kv.NewBadger(kv.BadgerOptions{Dir: config.CalibrationDir(dataDir)})
	if err != nil {
		return fmt.Errorf("failed to open calibration store: %w", err)
	}
	defer calibration.Close()

	history, err := store.New(config.HistoryPath(dataDir))
	if err != nil {
		return fmt.Errorf("failed to open practice history: %w", err)
	}
	defer history.Close()

	practiceCfg, err := cfg.PracticeConfig()
	if err != nil {
		return err
	}

	log.Printf("Connecting to tracking service at %s", cfg.LeapURL)
	source := tracking.NewLeapSource(tracking.Config{URL: cfg.LeapURL})

	a := app.New(app.Config{
		Source:      source,
		Calibration: calibration,
		History:     history,
		Engine:      cfg.EngineConfig(),
		Practice:    practiceCfg,
	})

	var tr *tray.Tray
	if cfg.Tray {
		tr = tray.New()
	}
	wireEvents(a, tr)

	if err := a.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if tr != nil {
		tr.OnPractice(func(running bool) {
			if running {
				a.StartPractice()
			} else {
				a.StopPractice()
			}
		})
		tr.OnRecalibrate(a.Recalibrate)
		tr.OnQuit(stop)

		// Dismiss the tray on SIGINT/SIGTERM so Run returns.
		go func() {
			<-ctx.Done()
			tr.Quit()
		}()

		// Blocks until the tray quits.
		tr.Run()
	} else {
		<-ctx.Done()
	}

	a.Stop()
	log.Println("Shutdown complete")
	return nil
}

// wireEvents subscribes the log and tray consumers to the engine. Status
// text repeats every frame while a condition holds, so the log line only
// fires on change; the tray overwrite is idempotent.
func wireEvents(a *app.App, tr *tray.Tray) {
	lastStatus := ""
	setStatus := func(text string) {
		if tr != nil {
			tr.SetStatus(text)
		}
	}

	a.Engine().Subscribe(engine.Events{
		CountdownTick: func(secondsRemaining int) {
			log.Printf("Calibration starting in %d...", secondsRemaining)
		},
		CalibrationStatus: func(message string) {
			if message != lastStatus {
				lastStatus = message
				log.Println(message)
			}
			setStatus(message)
		},
		GestureDetected: func(side tracking.Side, finger tracking.FingerIndex) {
			log.Printf("Detected press: %s %s", side, finger)
			if tr != nil {
				tr.SetLastPress(fmt.Sprintf("%s %s", side, finger))
			}
		},
		HandsLost: func() {
			log.Println("Hands lost from view")
		},
		HandsDrifted: func() {
			log.Println("Hands drifted from the calibrated position")
		},
		HandsRestored: func() {
			log.Println("Hands back in position")
		},
		Paused: func() {
			setStatus("Paused, return your hands to the calibrated position")
		},
		Resumed: func() {
			setStatus("Detecting")
		},
	})
}
