// File: internal/operator/loop_test.go
package operator

import (
	"context"
	"testing"
	"time"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hackparv/operate/api/schemas"
	"github.com/hackparv/operate/internal/backend"
	"github.com/hackparv/operate/internal/config"
	"github.com/hackparv/operate/internal/osctl"
)

// fakeScreen serves the same canned frame for every capture.
type fakeScreen struct {
	captures int
}

func (f *fakeScreen) Capture(ctx context.Context) (osctl.Frame, error) {
	f.captures++
	return osctl.Frame{PNG: []byte("not-a-real-png"), Width: 1920, Height: 1080}, nil
}

// scriptedVision replays one action batch (or error) per turn, recording the
// history each call received.
type scriptedVision struct {
	batches   [][]schemas.Action
	errs      []error
	calls     int
	histories [][]schemas.Turn
}

func (s *scriptedVision) SendVisionRequest(ctx context.Context, history []schemas.Turn, objective, sessionID string) ([]schemas.Action, string, error) {
	i := s.calls
	s.calls++
	s.histories = append(s.histories, history)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, "", s.errs[i]
	}
	return s.batches[i], "sid-fake", nil
}

func (s *scriptedVision) ListModels(ctx context.Context) ([]schemas.ModelInfo, error) {
	return nil, nil
}

func (s *scriptedVision) Validate(ctx context.Context, model string) (bool, error) {
	return true, nil
}

func fastLoopConfig(maxTurns int) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Loop.MaxTurns = maxTurns
	cfg.Backend.Retry.MaxAttempts = 2
	cfg.Backend.Retry.InitialInterval = time.Millisecond
	cfg.Backend.Retry.MaxInterval = 2 * time.Millisecond
	return cfg
}

func testSpec() schemas.ModelSpecification {
	return schemas.ModelSpecification{
		Raw:       "ollama:llava",
		Family:    schemas.FamilyOllama,
		ModelName: "llava",
		Source:    schemas.SourceExplicit,
	}
}

func newTestLoop(vision schemas.VisionBackend, screen osctl.Screen, input osctl.Input, maxTurns int) *Loop {
	return NewLoop(fastLoopConfig(maxTurns), testSpec(), vision, screen, input, zap.NewNop())
}

func TestRun_CompletesOnDone(t *testing.T) {
	vision := &scriptedVision{batches: [][]schemas.Action{
		{{Kind: schemas.ActionClick, X: 10, Y: 20, Thought: "open the menu"}},
		{{Kind: schemas.ActionDone, Summary: "objective met"}},
	}}
	screen := &fakeScreen{}
	input := &recordingInput{}
	l := newTestLoop(vision, screen, input, 10)

	err := l.Run(context.Background(), "open the settings menu")

	require.NoError(t, err)
	assert.Equal(t, StateDone, l.CurrentState())
	assert.Equal(t, 2, vision.calls)
	assert.Equal(t, 2, screen.captures, "every turn captures a fresh screenshot")
	assert.Equal(t, []string{"click(10,20)"}, input.calls)
}

func TestRun_IterationCapReached(t *testing.T) {
	// Never reports done.
	vision := &scriptedVision{batches: [][]schemas.Action{
		{{Kind: schemas.ActionClick, X: 1, Y: 1}},
		{{Kind: schemas.ActionClick, X: 2, Y: 2}},
		{{Kind: schemas.ActionClick, X: 3, Y: 3}},
	}}
	l := newTestLoop(vision, &fakeScreen{}, &recordingInput{}, 3)

	err := l.Run(context.Background(), "an objective it never finishes")

	var capped *ObjectiveNotCompletedError
	require.ErrorAs(t, err, &capped)
	assert.Equal(t, 3, capped.Turns)
	assert.Equal(t, StateError, l.CurrentState())
	assert.Equal(t, 3, vision.calls)
}

func TestRun_FatalBackendErrorStopsSession(t *testing.T) {
	vision := &scriptedVision{
		errs: []error{&backend.ResponseParseError{Raw: "not json", Err: assert.AnError}},
	}
	l := newTestLoop(vision, &fakeScreen{}, &recordingInput{}, 10)

	err := l.Run(context.Background(), "anything")

	var parseErr *backend.ResponseParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, StateError, l.CurrentState())
	assert.Equal(t, 1, vision.calls, "parse failures must not be retried")
}

// Each backend call sees the system prompt first, then alternating
// user/assistant turns, with the newest user turn carrying the screenshot.
func TestRun_HistoryGrowsAcrossTurns(t *testing.T) {
	vision := &scriptedVision{batches: [][]schemas.Action{
		{{Kind: schemas.ActionWrite, Content: "hello"}},
		{{Kind: schemas.ActionDone, Summary: "typed it"}},
	}}
	l := newTestLoop(vision, &fakeScreen{}, &recordingInput{}, 10)

	require.NoError(t, l.Run(context.Background(), "type hello"))
	require.Len(t, vision.histories, 2)

	first := vision.histories[0]
	require.Len(t, first, 2)
	assert.Equal(t, schemas.RoleSystem, first[0].Role)
	assert.Equal(t, schemas.RoleUser, first[1].Role)
	assert.True(t, first[1].HasImage())

	second := vision.histories[1]
	require.Len(t, second, 4)
	assert.Equal(t, schemas.RoleAssistant, second[2].Role)
	assert.False(t, second[2].HasImage())
	// The assistant turn holds the decoded batch re-marshaled, not raw reply
	// text, so later turns see exactly what was acted on.
	wantReply, err := json.MarshalToString(vision.batches[0])
	require.NoError(t, err)
	require.Len(t, second[2].Parts, 1)
	assert.Equal(t, wantReply, second[2].Parts[0].Text)
	assert.Equal(t, schemas.RoleUser, second[3].Role)
	assert.True(t, second[3].HasImage())
}

func TestRun_BlockedWriteInBatchDoesNotEndSession(t *testing.T) {
	vision := &scriptedVision{batches: [][]schemas.Action{
		{
			{Kind: schemas.ActionClick, X: 10, Y: 10},
			{Kind: schemas.ActionWrite, Content: "rm -rf /tmp/x"},
		},
		{{Kind: schemas.ActionDone, Summary: "done"}},
	}}
	input := &recordingInput{}
	l := newTestLoop(vision, &fakeScreen{}, input, 10)

	require.NoError(t, l.Run(context.Background(), "clean up"))
	assert.Equal(t, []string{"click(10,10)"}, input.calls)
}
