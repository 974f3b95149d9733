// File: internal/osctl/input.go
package osctl

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-vgo/robotgo"
)

// RobotInput injects input events through robotgo. It implements Input.
type RobotInput struct {
	// TypeDelay is the pause between typed characters; a small cadence keeps
	// target applications from dropping keystrokes.
	TypeDelay time.Duration
}

var _ Input = (*RobotInput)(nil)

// Click moves to (x, y) and performs a left click.
func (in *RobotInput) Click(x, y int) error {
	robotgo.Move(x, y)
	robotgo.MilliSleep(50)
	robotgo.Click("left")
	return nil
}

// Press holds every key in order, then releases them in reverse, so chords
// like ["cmd", "space"] behave as a human key combination would.
func (in *RobotInput) Press(keys []string) error {
	for _, key := range keys {
		if err := robotgo.KeyDown(key); err != nil {
			return fmt.Errorf("key down %q failed: %w", key, err)
		}
	}
	robotgo.MilliSleep(100)
	for i := len(keys) - 1; i >= 0; i-- {
		if err := robotgo.KeyUp(keys[i]); err != nil {
			return fmt.Errorf("key up %q failed: %w", keys[i], err)
		}
	}
	return nil
}

// Write types text rune by rune with the configured cadence. Literal "\n"
// sequences in model output are treated as real newlines.
func (in *RobotInput) Write(text string) error {
	text = strings.ReplaceAll(text, `\n`, "\n")
	for _, r := range text {
		robotgo.TypeStr(string(r))
		if in.TypeDelay > 0 {
			time.Sleep(in.TypeDelay)
		}
	}
	return nil
}
