// Package tray provides the system tray interface for the LeapTracking finger trainer.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onPractice    func(running bool)
	onRecalibrate func()
	onQuit        func()
	practicing    bool
	mu            sync.RWMutex

	// Menu items stored for later updates
	menuStatus    *systray.MenuItem
	menuLastPress *systray.MenuItem
	menuPractice  *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{}
}

// OnPractice sets the callback function to be called when the practice menu
// item toggles a session on or off.
func (t *Tray) OnPractice(fn func(running bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPractice = fn
}

// OnRecalibrate sets the callback function to be called when the recalibrate
// menu item is clicked.
func (t *Tray) OnRecalibrate(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRecalibrate = fn
}

// OnQuit sets the callback function to be called when the quit menu item is
// clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	// Set the tray title and tooltip
	systray.SetTitle("LeapTracking")
	systray.SetTooltip("LeapTracking Finger Trainer")

	// Create menu items
	t.menuStatus = systray.AddMenuItem("Status: waiting for calibration", "Current engine status")
	t.menuStatus.Disable()

	t.menuLastPress = systray.AddMenuItem("Last press: none", "Last detected finger press")
	t.menuLastPress.Disable()
	systray.AddSeparator()

	t.menuPractice = systray.AddMenuItem("Start practice", "Toggle a practice session")
	menuRecalibrate := systray.AddMenuItem("Recalibrate", "Redo the hand calibration")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit LeapTracking")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuPractice.ClickedCh:
				t.handlePractice()
			case <-menuRecalibrate.ClickedCh:
				t.handleRecalibrate()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
	// Cleanup resources if needed
}

// handlePractice handles the practice menu item click.
func (t *Tray) handlePractice() {
	t.mu.Lock()
	t.practicing = !t.practicing
	running := t.practicing

	// Update menu item text based on new state
	if running {
		t.menuPractice.SetTitle("Stop practice")
	} else {
		t.menuPractice.SetTitle("Start practice")
	}

	callback := t.onPractice
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(running)
	}
}

// handleRecalibrate handles the recalibrate menu item click.
func (t *Tray) handleRecalibrate() {
	t.mu.RLock()
	callback := t.onRecalibrate
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Quit dismisses the tray and unblocks Run. Used when shutdown is initiated
// elsewhere, such as a signal handler.
func (t *Tray) Quit() {
	systray.Quit()
}

// SetStatus updates the status line in the menu.
func (t *Tray) SetStatus(text string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuStatus != nil {
		t.menuStatus.SetTitle("Status: " + text)
	}
}

// SetLastPress updates the last detection line in the menu.
func (t *Tray) SetLastPress(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastPress != nil {
		if name == "" {
			t.menuLastPress.SetTitle("Last press: none")
		} else {
			t.menuLastPress.SetTitle("Last press: " + name)
		}
	}
}

// SetPracticing updates the practice toggle when a session starts or stops
// somewhere other than the menu itself.
func (t *Tray) SetPracticing(running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.practicing = running
	if t.menuPractice == nil {
		return
	}
	if running {
		t.menuPractice.SetTitle("Stop practice")
	} else {
		t.menuPractice.SetTitle("Start practice")
	}
}

// IsPracticing returns whether the practice toggle is on.
func (t *Tray) IsPracticing() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.practicing
}
