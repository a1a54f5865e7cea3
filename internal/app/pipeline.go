package app

import (
	"encoding/json"
	"log"
	"time"

	"github.com/ayusman/taala/internal/capture"
	"github.com/ayusman/taala/internal/cycle"
	"github.com/ayusman/taala/internal/store"
)

// runPipeline is the main loop that processes frames from the camera.
// It manages the transitions between idle and active capture modes based
// on the motion gate.
//
// Pipeline logic:
//  1. Start in idle mode (IdleFPS)
//  2. On motion, switch to active mode (ActiveFPS)
//  3. Track the hand and extract the phase metric
//  4. Advance the boundary detector on the frame clock
//  5. Assemble accepted boundaries into cycles, persist and broadcast them
//  6. After 2s without motion, switch back to idle mode
func (a *App) runPipeline(stopCh <-chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if detection is disabled
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motion, _ := a.motion.Check(frame.Mat)

			if motion {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode {
				frame.Close()
				continue
			}

			if err := a.processFrame(frame); err != nil {
				log.Printf("Error processing frame: %v", err)
			}
			frame.Close()
		}
	}
}

// processFrame runs tracking and cycle detection on one captured frame.
// Called once per delivered frame; all detector state advances on the
// frame's capture timestamp.
func (a *App) processFrame(frame *capture.Frame) error {
	a.mu.RLock()
	trk := a.tracker
	metricFn := a.metric
	sink := a.config.Sink
	a.mu.RUnlock()

	if trk == nil {
		return nil
	}

	hands, err := trk.Track(frame)
	if err != nil {
		return err
	}

	if len(hands) == 0 {
		return nil
	}

	// Cycle analysis follows a single hand; the first reported one wins.
	hand := hands[0]
	metric := metricFn(hand)

	if sink != nil {
		sink.PublishMetric(frame.Timestamp, metric)
	}

	a.mu.Lock()
	boundary, emitted := a.detector.Step(metric, frame.Timestamp)
	if !emitted {
		a.mu.Unlock()
		return nil
	}

	c, closed := a.asm.Push(boundary)
	analysisID := a.analysisID
	a.mu.Unlock()

	if !closed {
		return nil
	}

	// Snapshot the hand pose at the closing boundary.
	if keypoints, err := json.Marshal(hand); err == nil {
		c.Keypoints = keypoints
	}

	log.Printf("Cycle detected: [%.3f, %.3f] duration %.3fs", c.Start, c.End, c.Duration)

	if analysisID != "" && a.config.Store != nil {
		if err := a.config.Store.Cycles().Append(analysisID, cycleToStore(analysisID, c)); err != nil {
			log.Printf("Error storing cycle: %v", err)
		}
	}

	if sink != nil {
		sink.PublishCycle(c)
	}

	return nil
}

// cycleToStore converts a detected cycle into its storage row.
func cycleToStore(analysisID string, c cycle.Cycle) store.Cycle {
	return store.Cycle{
		ID:         c.ID,
		AnalysisID: analysisID,
		Start:      c.Start,
		End:        c.End,
		Duration:   c.Duration,
		Confidence: c.Confidence,
		Keypoints:  c.Keypoints,
	}
}
