// File: internal/osctl/osctl.go
package osctl

import "context"

// Frame is one screen capture: raw PNG bytes plus the pixel dimensions the
// capture was taken at. The dimensions bound click coordinates for the turn.
type Frame struct {
	PNG    []byte
	Width  int
	Height int
}

// Screen captures the current display. Consumed once per turn.
type Screen interface {
	Capture(ctx context.Context) (Frame, error)
}

// Input injects mouse and keyboard events. Each call either succeeds or
// fails with an OS-level error; the control loop treats a failure as fatal
// for the turn.
type Input interface {
	Click(x, y int) error
	Press(keys []string) error
	Write(text string) error
}
