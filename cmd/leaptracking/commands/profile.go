package commands

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alokshah14/LeapTracking/internal/config"
	"github.com/alokshah14/LeapTracking/internal/engine"
	"github.com/alokshah14/LeapTracking/internal/kv"
	"github.com/alokshah14/LeapTracking/internal/tracking"
)

// Styles for the profile table.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect and manage the saved calibration profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved baseline and pressed angles",
	Long: `Print the saved calibration profile: the learned baseline (resting) and
pressed flexion angle for every finger of both hands, and the calibrated
palm positions.

The calibration store is locked while the trainer runs; stop it first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCalibrationStore(func(eng *engine.Engine) error {
			if !eng.Load() {
				return fmt.Errorf("no saved calibration profile, run 'leaptracking run' to calibrate")
			}
			printProfile(eng.Profile())
			return nil
		})
	},
}

var profileClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved calibration profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCalibrationStore(func(eng *engine.Engine) error {
			if !eng.HasSaved() {
				fmt.Println("No saved calibration profile.")
				return nil
			}
			if err := eng.ClearSaved(); err != nil {
				return fmt.Errorf("failed to clear profile: %w", err)
			}
			fmt.Println("Calibration profile cleared. The next run will recalibrate.")
			return nil
		})
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileClearCmd)
	rootCmd.AddCommand(profileCmd)
}

// withCalibrationStore opens the calibration store and hands an engine bound
// to it to fn.
func withCalibrationStore(fn func(eng *engine.Engine) error) error {
	_, dataDir, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := kv.NewBadger(kv.BadgerOptions{Dir: config.CalibrationDir(dataDir)})
	if err != nil {
		return fmt.Errorf("failed to open calibration store: %w", err)
	}
	defer st.Close()

	return fn(engine.New(engine.Config{Store: st}))
}

func printProfile(snap engine.Snapshot) {
	for side := tracking.Side(0); side < tracking.SideCount; side++ {
		fmt.Println(titleStyle.Render(fmt.Sprintf("%s hand", side)))

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, headerStyle.Render("  finger\tbaseline\tpressed\tdelta"))
		for f := 0; f < int(tracking.FingerCount); f++ {
			base := snap.Baseline[side][f]
			pressed := snap.Pressed[side][f]
			fmt.Fprintf(w, "  %s\t%7.1f°\t%7.1f°\t%6.1f°\n",
				tracking.FingerIndex(f), base, pressed, math.Abs(pressed-base))
		}
		w.Flush()

		pos := snap.Position[side]
		fmt.Println(dimStyle.Render(fmt.Sprintf("  palm position (%.3f, %.3f, %.3f) m", pos.X, pos.Y, pos.Z)))
		fmt.Println()
	}
}
