package app

import "log"

// runPipeline is the main loop that feeds tracking frames to the engine and
// the practice runner, and runs queued commands between frames. The engine
// is not safe for concurrent use, so everything that touches it happens on
// this goroutine.
//
// Pipeline logic per frame:
// 1. Update the engine (calibration progress or press detection)
// 2. Tick the practice runner so it can score the frame's detection
//    and arm the next exercise target
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	frames := a.config.Source.Frames()
	for {
		select {
		case <-stopCh:
			return
		case cmd := <-a.commands:
			cmd()
		case frame, ok := <-frames:
			if !ok {
				// The source is gone; keep serving commands until Stop.
				log.Println("Tracking source closed")
				frames = nil
				continue
			}
			a.engine.Update(frame)
			a.runner.Update(frame.Timestamp)
		}
	}
}
