// File: internal/operator/executor_test.go
package operator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hackparv/operate/api/schemas"
)

// recordingInput captures every OS-control call in order.
type recordingInput struct {
	calls    []string
	failWith error
}

func (r *recordingInput) Click(x, y int) error {
	r.calls = append(r.calls, fmt.Sprintf("click(%d,%d)", x, y))
	return r.failWith
}

func (r *recordingInput) Press(keys []string) error {
	r.calls = append(r.calls, fmt.Sprintf("press(%v)", keys))
	return r.failWith
}

func (r *recordingInput) Write(text string) error {
	r.calls = append(r.calls, "write("+text+")")
	return r.failWith
}

func newTestExecutor(input *recordingInput) *Executor {
	return NewExecutor(input, zap.NewNop())
}

const (
	screenW = 1920
	screenH = 1080
)

// The click executes, the denylisted write is blocked without reaching the
// OS, and done terminates the batch.
func TestExecute_BlocksUnsafeWriteAndTerminatesOnDone(t *testing.T) {
	input := &recordingInput{}
	e := newTestExecutor(input)

	terminated, err := e.Execute([]schemas.Action{
		{Kind: schemas.ActionClick, X: 10, Y: 10},
		{Kind: schemas.ActionWrite, Content: "rm -rf /"},
		{Kind: schemas.ActionDone, Summary: "finished"},
	}, screenW, screenH)

	require.NoError(t, err)
	assert.True(t, terminated)
	assert.Equal(t, []string{"click(10,10)"}, input.calls,
		"the blocked write must never reach the OS-control collaborator")
}

// No action after a done is processed.
func TestExecute_DoneShortCircuitsBatch(t *testing.T) {
	input := &recordingInput{}
	e := newTestExecutor(input)

	terminated, err := e.Execute([]schemas.Action{
		{Kind: schemas.ActionDone, Summary: "all set"},
		{Kind: schemas.ActionClick, X: 5, Y: 5},
	}, screenW, screenH)

	require.NoError(t, err)
	assert.True(t, terminated)
	assert.Empty(t, input.calls)
}

func TestExecute_ActionsRunInOrder(t *testing.T) {
	input := &recordingInput{}
	e := newTestExecutor(input)

	terminated, err := e.Execute([]schemas.Action{
		{Kind: schemas.ActionClick, X: 100, Y: 200},
		{Kind: schemas.ActionWrite, Content: "hello world"},
		{Kind: schemas.ActionPress, Keys: []string{"enter"}},
	}, screenW, screenH)

	require.NoError(t, err)
	assert.False(t, terminated)
	assert.Equal(t, []string{"click(100,200)", "write(hello world)", "press([enter])"}, input.calls)
}

// A blocked sole action surfaces as the batch's error.
func TestExecute_SoleBlockedActionFailsBatch(t *testing.T) {
	input := &recordingInput{}
	e := newTestExecutor(input)

	_, err := e.Execute([]schemas.Action{
		{Kind: schemas.ActionWrite, Content: "dd if=/dev/zero of=/dev/sda"},
	}, screenW, screenH)

	var blocked *ValidationError
	require.ErrorAs(t, err, &blocked)
	assert.Empty(t, input.calls)
}

// An unknown operation kind is a protocol mismatch: fatal, not skipped.
func TestExecute_UnknownOperationIsFatal(t *testing.T) {
	input := &recordingInput{}
	e := newTestExecutor(input)

	_, err := e.Execute([]schemas.Action{
		{Kind: schemas.ActionClick, X: 1, Y: 1},
		{Kind: "teleport"},
	}, screenW, screenH)

	var unknown *UnknownOperationError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, schemas.ActionKind("teleport"), unknown.Kind)
	// The click before the mismatch already ran.
	assert.Equal(t, []string{"click(1,1)"}, input.calls)
}

// Clicks outside the capture bounds are blocked like any other invalid
// action; the rest of the batch continues.
func TestExecute_OutOfBoundsClickSkipped(t *testing.T) {
	input := &recordingInput{}
	e := newTestExecutor(input)

	terminated, err := e.Execute([]schemas.Action{
		{Kind: schemas.ActionClick, X: 5000, Y: 10},
		{Kind: schemas.ActionPress, Keys: []string{"escape"}},
	}, screenW, screenH)

	require.NoError(t, err)
	assert.False(t, terminated)
	assert.Equal(t, []string{"press([escape])"}, input.calls)
}

func TestExecute_StructurallyInvalidActionsSkipped(t *testing.T) {
	input := &recordingInput{}
	e := newTestExecutor(input)

	_, err := e.Execute([]schemas.Action{
		{Kind: schemas.ActionPress}, // no keys
		{Kind: schemas.ActionWrite}, // no content
		{Kind: schemas.ActionClick, X: 1, Y: 1},
	}, screenW, screenH)

	require.NoError(t, err)
	assert.Equal(t, []string{"click(1,1)"}, input.calls)
}

// OS-level failures are fatal for the turn.
func TestExecute_OSFailurePropagates(t *testing.T) {
	input := &recordingInput{failWith: errors.New("injection blocked by compositor")}
	e := newTestExecutor(input)

	_, err := e.Execute([]schemas.Action{
		{Kind: schemas.ActionClick, X: 1, Y: 1},
	}, screenW, screenH)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "injection blocked")
}
