// Package main provides the leaptracking CLI.
//
// leaptracking trains finger independence against a Leap Motion hand
// tracking service: it calibrates per-user finger flexion signatures, then
// detects which finger is pressed in real time and scores practice
// exercises.
//
// Usage:
//
//	leaptracking [command]
//
// Commands:
//
//	run      - connect to the tracking service and start detection (default)
//	profile  - inspect or clear the saved calibration profile
//	config   - write a default configuration file
//	version  - print the version
//
// Data (calibration store, practice history, config file) lives in
// ~/.leaptracking by default.
package main

import (
	"fmt"
	"os"

	"github.com/alokshah14/LeapTracking/cmd/leaptracking/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
