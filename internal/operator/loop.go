// File: internal/operator/loop.go
package operator

import (
	"context"
	"fmt"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/hackparv/operate/api/schemas"
	"github.com/hackparv/operate/internal/backend"
	"github.com/hackparv/operate/internal/config"
	"github.com/hackparv/operate/internal/osctl"
	"github.com/hackparv/operate/internal/session"
)

// State names one phase of the control loop's turn machine.
type State string

const (
	StateInit           State = "INIT"
	StateAwaitingAction State = "AWAITING_ACTION"
	StateExecuting      State = "EXECUTING"
	StateDone           State = "DONE"
	StateError          State = "ERROR"
)

// Loop is the top-level state machine driving one operator session:
// capture, backend call under retry, validate/execute, history update,
// termination check. A Loop owns its session state exclusively; nothing is
// shared across sessions.
type Loop struct {
	cfg      *config.Config
	spec     schemas.ModelSpecification
	backend  schemas.VisionBackend
	retrier  *backend.Retrier
	screen   osctl.Screen
	executor *Executor
	logger   *zap.Logger

	state State
}

// NewLoop wires a control loop from its collaborators. The model
// specification must already be resolved and validated.
func NewLoop(
	cfg *config.Config,
	spec schemas.ModelSpecification,
	visionBackend schemas.VisionBackend,
	screen osctl.Screen,
	input osctl.Input,
	logger *zap.Logger,
) *Loop {
	loopLogger := logger.Named("loop")
	return &Loop{
		cfg:      cfg,
		spec:     spec,
		backend:  visionBackend,
		retrier:  backend.NewRetrier(cfg.Backend.Retry, logger),
		screen:   screen,
		executor: NewExecutor(input, logger),
		logger:   loopLogger,
		state:    StateInit,
	}
}

// CurrentState exposes the loop's phase for observability and tests.
func (l *Loop) CurrentState() State { return l.state }

// Run drives the session until a done action, the iteration cap, or a fatal
// error. A nil return means the objective was reported complete.
func (l *Loop) Run(ctx context.Context, objective string) error {
	st := session.NewState(l.spec, backend.SystemPrompt)
	l.logger.Info("Session started",
		zap.String("session_id", st.ID),
		zap.String("model", l.spec.ModelName),
		zap.String("family", string(l.spec.Family)),
		zap.String("source", string(l.spec.Source)),
		zap.Int("max_turns", l.cfg.Loop.MaxTurns),
	)

	for st.LoopCount < l.cfg.Loop.MaxTurns {
		l.state = StateAwaitingAction

		terminated, err := l.turn(ctx, st, objective)
		if err != nil {
			l.state = StateError
			return err
		}
		st.LoopCount++

		if terminated {
			l.state = StateDone
			l.logger.Info("Session complete", zap.String("session_id", st.ID), zap.Int("turns", st.LoopCount))
			return nil
		}
	}

	l.state = StateError
	return &ObjectiveNotCompletedError{Turns: l.cfg.Loop.MaxTurns}
}

// turn executes one capture/decide/act cycle.
func (l *Loop) turn(ctx context.Context, st *session.State, objective string) (bool, error) {
	frame, err := l.screen.Capture(ctx)
	if err != nil {
		return false, fmt.Errorf("screen capture failed: %w", err)
	}

	encoded := backend.EncodeScreenshot(frame.PNG, l.cfg.Screenshot)
	l.logger.Debug("Screenshot encoded",
		zap.Int("raw_bytes", len(frame.PNG)),
		zap.Int("encoded_bytes", len(encoded)),
	)

	if err := st.History.AppendUser(backend.ObjectivePrompt(objective), encoded); err != nil {
		return false, err
	}

	actions, newSessionID, err := l.retrier.CallVision(
		ctx, l.backend, l.spec.Family, st.History.Turns(), objective, st.BackendSessionID,
	)
	if err != nil {
		return false, err
	}
	st.BackendSessionID = newSessionID

	// The assistant turn records the decoded batch verbatim so later turns
	// see what the model already decided.
	reply, err := json.MarshalToString(actions)
	if err != nil {
		return false, fmt.Errorf("failed to record assistant turn: %w", err)
	}
	if err := st.History.AppendAssistant(reply); err != nil {
		return false, err
	}

	l.state = StateExecuting
	l.logger.Info("Executing action batch",
		zap.Int("turn", st.LoopCount+1),
		zap.Int("actions", len(actions)),
	)
	return l.executor.Execute(actions, frame.Width, frame.Height)
}
