// File: internal/osctl/screen.go
package osctl

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/kbinani/screenshot"
)

// DisplayScreen captures the primary display. It implements Screen.
type DisplayScreen struct {
	// Display selects which display to capture; 0 is the primary.
	Display int
}

var _ Screen = (*DisplayScreen)(nil)

// Capture grabs the display and returns it as a PNG frame.
func (s *DisplayScreen) Capture(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if screenshot.NumActiveDisplays() <= s.Display {
		return Frame{}, fmt.Errorf("display %d is not active", s.Display)
	}

	bounds := screenshot.GetDisplayBounds(s.Display)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return Frame{}, fmt.Errorf("screen capture failed: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Frame{}, fmt.Errorf("failed to encode capture: %w", err)
	}
	return Frame{
		PNG:    buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
