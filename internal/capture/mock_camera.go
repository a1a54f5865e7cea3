package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera plays back a pre-recorded frame sequence with synthetic
// timestamps, for testing the pipeline without hardware.
type MockCamera struct {
	frames   []*gocv.Mat
	interval float64
	index    int
	loop     bool
	mu       sync.Mutex
	running  bool
}

// NewMockCamera creates a MockCamera over the given frames. Timestamps are
// synthesized at the given interval in seconds between consecutive frames.
func NewMockCamera(frames []*gocv.Mat, interval float64, loop bool) *MockCamera {
	if interval <= 0 {
		interval = 1.0 / 15.0
	}
	return &MockCamera{
		frames:   frames,
		interval: interval,
		loop:     loop,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if len(c.frames) == 0 {
		return nil, fmt.Errorf("no frames available")
	}

	if c.index >= len(c.frames) {
		if c.loop {
			c.index = 0
		} else {
			return nil, fmt.Errorf("no more frames")
		}
	}

	// Clone so callers may close the frame without touching the source.
	mat := c.frames[c.index].Clone()
	ts := float64(c.index) * c.interval
	c.index++

	return &Frame{
		Mat:       &mat,
		Timestamp: ts,
		Width:     mat.Cols(),
		Height:    mat.Rows(),
	}, nil
}

func (c *MockCamera) SetFPS(fps int) {}
func (c *MockCamera) FPS() int       { return 15 }
func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SetFrames replaces the frame sequence and restarts playback.
func (c *MockCamera) SetFrames(frames []*gocv.Mat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	c.index = 0
}

// Reset restarts playback from the beginning.
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}
