// Package app wires the tracking source, the detection engine and its
// consumers into the running application.
package app

import (
	"errors"
	"log"
	"sync"

	"github.com/alokshah14/LeapTracking/internal/engine"
	"github.com/alokshah14/LeapTracking/internal/kv"
	"github.com/alokshah14/LeapTracking/internal/practice"
	"github.com/alokshah14/LeapTracking/internal/store"
	"github.com/alokshah14/LeapTracking/internal/tracking"
)

// commandBuffer is the capacity of the queue feeding closures onto the
// pipeline goroutine.
const commandBuffer = 16

// Config holds configuration options for the application.
type Config struct {
	// Source supplies tracking frames. Required.
	Source tracking.Source

	// Calibration persists the calibration profile. May be nil, in which
	// case every start requires a fresh calibration.
	Calibration kv.Store

	// History records practice sessions and attempts. May be nil.
	History *store.Store

	// Engine tunes the detection engine. Its Store field is replaced with
	// Calibration.
	Engine engine.Config

	// Practice configures the exercise game.
	Practice practice.Config
}

// App owns the detection engine and the single goroutine that feeds it
// frames. Engine and runner calls from other goroutines go through Do.
type App struct {
	config   Config
	engine   *engine.Engine
	runner   *practice.Runner
	commands chan func()
	mu       sync.Mutex
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	engineConfig := config.Engine
	engineConfig.Store = config.Calibration
	e := engine.New(engineConfig)

	return &App{
		config:   config,
		engine:   e,
		runner:   practice.NewRunner(e, config.History, config.Practice),
		commands: make(chan func(), commandBuffer),
	}
}

// Engine returns the detection engine. While the pipeline is running the
// engine must only be touched from inside Do.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Practice returns the exercise runner. The same access rule as Engine
// applies.
func (a *App) Practice() *practice.Runner {
	return a.runner
}

// Start begins the tracking pipeline. A saved calibration profile is
// restored when present; otherwise calibration starts immediately.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}
	if a.config.Source == nil {
		return errors.New("app: no tracking source configured")
	}

	if a.engine.Load() {
		log.Println("Restored saved calibration profile")
	} else {
		log.Println("No saved calibration, starting calibration")
		a.engine.StartCalibration()
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the pipeline, finishes any practice session and releases the
// tracking source.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh == nil {
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	<-a.doneCh

	// The pipeline goroutine is gone, so touching the runner and the
	// source here is safe.
	if err := a.runner.Close(); err != nil {
		log.Printf("Error finishing practice session: %v", err)
	}
	if err := a.config.Source.Close(); err != nil {
		log.Printf("Error closing tracking source: %v", err)
	}

	log.Println("Tracking pipeline stopped")
}

// Do queues fn to run on the pipeline goroutine, keeping engine access
// single threaded. It blocks when the queue is full.
func (a *App) Do(fn func()) {
	a.commands <- fn
}

// Recalibrate stops any practice session and restarts the calibration
// sequence.
func (a *App) Recalibrate() {
	a.Do(func() {
		a.stopPractice()
		a.engine.StartCalibration()
	})
}

// StartPractice opens a practice session on the pipeline goroutine.
func (a *App) StartPractice() {
	a.Do(func() {
		if err := a.runner.Start(); err != nil {
			log.Printf("Starting practice failed: %v", err)
		}
	})
}

// StopPractice finishes the practice session in progress, if any.
func (a *App) StopPractice() {
	a.Do(a.stopPractice)
}

func (a *App) stopPractice() {
	if err := a.runner.Stop(); err != nil {
		log.Printf("Finishing practice failed: %v", err)
	}
}
