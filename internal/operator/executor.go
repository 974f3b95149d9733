// File: internal/operator/executor.go
package operator

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hackparv/operate/api/schemas"
	"github.com/hackparv/operate/internal/osctl"
)

// Executor validates a decoded action batch and forwards the safe actions to
// the OS-control collaborator, strictly in the order received.
type Executor struct {
	input  osctl.Input
	logger *zap.Logger
}

// NewExecutor builds an executor over the given input collaborator.
func NewExecutor(input osctl.Input, logger *zap.Logger) *Executor {
	return &Executor{
		input:  input,
		logger: logger.Named("executor"),
	}
}

// Execute runs the batch against the screen bounds of the last capture. It
// returns terminated=true when a done action was reached; no action after a
// done is processed. A safety-gate block skips only that action and the
// batch continues, unless the blocked action was the sole action in the
// batch, in which case the block surfaces as the batch's error.
func (e *Executor) Execute(actions []schemas.Action, screenW, screenH int) (terminated bool, err error) {
	for _, action := range actions {
		if action.Thought != "" {
			e.logger.Info("Model thought", zap.String("thought", action.Thought))
		}

		switch action.Kind {
		case schemas.ActionClick, schemas.ActionPress, schemas.ActionWrite, schemas.ActionDone:
			// Known kinds proceed to validation below.
		default:
			return false, &UnknownOperationError{Kind: action.Kind}
		}

		if action.Kind == schemas.ActionDone {
			e.logger.Info("Objective reported complete", zap.String("summary", action.Summary))
			return true, nil
		}

		if blockErr := e.vet(action, screenW, screenH); blockErr != nil {
			if len(actions) == 1 {
				return false, blockErr
			}
			e.logger.Warn("Action blocked, continuing with remainder of batch", zap.Error(blockErr))
			continue
		}

		if osErr := e.perform(action); osErr != nil {
			return false, fmt.Errorf("OS input failed for %s: %w", action, osErr)
		}
	}
	return false, nil
}

// vet applies the structural invariants and the safety gate to one action.
func (e *Executor) vet(action schemas.Action, screenW, screenH int) error {
	if err := action.Validate(); err != nil {
		return &ValidationError{Action: action, Reason: err.Error()}
	}

	if action.Kind == schemas.ActionClick {
		if action.X >= screenW || action.Y >= screenH {
			return &ValidationError{
				Action: action,
				Reason: fmt.Sprintf("coordinates outside the %dx%d capture bounds", screenW, screenH),
			}
		}
	}

	// The safety gate applies to any text destined for a shell or command
	// field, which in this protocol means write content.
	if action.Kind == schemas.ActionWrite {
		if pattern := checkContent(action.Content); pattern != "" {
			e.logger.Warn("Security block: denylisted content rejected",
				zap.String("pattern", pattern),
			)
			return &ValidationError{Action: action, Reason: "content matches denylisted pattern: " + pattern}
		}
	}
	return nil
}

func (e *Executor) perform(action schemas.Action) error {
	e.logger.Info("Executing action", zap.String("action", action.String()))
	switch action.Kind {
	case schemas.ActionClick:
		return e.input.Click(action.X, action.Y)
	case schemas.ActionPress:
		return e.input.Press(action.Keys)
	case schemas.ActionWrite:
		return e.input.Write(action.Content)
	}
	return nil
}
