package practice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestMachine(t *testing.T, count int) (*Machine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{current: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	machine, err := NewMachine(count, clock.now)
	require.NoError(t, err)
	return machine, clock
}

func TestNewMachineRequiresQuestions(t *testing.T) {
	_, err := NewMachine(0, nil)
	require.ErrorIs(t, err, ErrNoQuestions)
}

func TestNavigateClampsRange(t *testing.T) {
	machine, _ := newTestMachine(t, 5)

	index, err := machine.Navigate(-3)
	require.NoError(t, err)
	require.Equal(t, 0, index)

	index, err = machine.Navigate(9)
	require.NoError(t, err)
	require.Equal(t, 4, index)

	index, err = machine.Navigate(2)
	require.NoError(t, err)
	require.Equal(t, 2, index)
}

func TestNavigateClearsBufferAndTimer(t *testing.T) {
	machine, clock := newTestMachine(t, 3)

	require.NoError(t, machine.StartAnswer())
	require.NoError(t, machine.Append("half an answer"))
	clock.advance(30 * time.Second)

	_, err := machine.Navigate(1)
	require.NoError(t, err)
	require.Equal(t, StateViewing, machine.State())
	require.Empty(t, machine.Answer())
	require.Zero(t, machine.Elapsed())
}

func TestAnswerCycleHappyPath(t *testing.T) {
	machine, clock := newTestMachine(t, 2)

	require.NoError(t, machine.StartAnswer())
	require.NoError(t, machine.Append("I structured the migration "))
	require.NoError(t, machine.Append("in three phases."))
	clock.advance(45 * time.Second)

	answer, err := machine.BeginEvaluation()
	require.NoError(t, err)
	require.Equal(t, "I structured the migration in three phases.", answer)
	require.Equal(t, StateEvaluating, machine.State())
	require.Equal(t, 45*time.Second, machine.Elapsed())

	require.NoError(t, machine.CompleteEvaluation())
	require.Equal(t, StateScored, machine.State())
	require.Empty(t, machine.Answer())
}

func TestBeginEvaluationRejectsEmptyBuffer(t *testing.T) {
	machine, _ := newTestMachine(t, 1)

	require.NoError(t, machine.StartAnswer())
	require.NoError(t, machine.Append("   "))

	_, err := machine.BeginEvaluation()
	require.ErrorIs(t, err, ErrEmptyAnswer)
}

func TestFailEvaluationPreservesBuffer(t *testing.T) {
	machine, clock := newTestMachine(t, 1)

	require.NoError(t, machine.StartAnswer())
	require.NoError(t, machine.Append("my answer"))
	clock.advance(10 * time.Second)

	_, err := machine.BeginEvaluation()
	require.NoError(t, err)

	require.NoError(t, machine.FailEvaluation())
	require.Equal(t, StateAnswering, machine.State())
	require.Equal(t, "my answer", machine.Answer())

	// retry succeeds with the same buffer
	answer, err := machine.BeginEvaluation()
	require.NoError(t, err)
	require.Equal(t, "my answer", answer)
}

func TestElapsedAccumulatesAcrossRetry(t *testing.T) {
	machine, clock := newTestMachine(t, 1)

	require.NoError(t, machine.StartAnswer())
	require.NoError(t, machine.Append("answer"))
	clock.advance(20 * time.Second)
	_, err := machine.BeginEvaluation()
	require.NoError(t, err)

	require.NoError(t, machine.FailEvaluation())
	clock.advance(15 * time.Second)
	_, err = machine.BeginEvaluation()
	require.NoError(t, err)

	require.Equal(t, 35*time.Second, machine.Elapsed())
}

func TestGuardsAgainstInvalidTransitions(t *testing.T) {
	machine, _ := newTestMachine(t, 2)

	require.ErrorIs(t, machine.Append("text"), ErrInvalidTransition)
	_, err := machine.BeginEvaluation()
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.ErrorIs(t, machine.CompleteEvaluation(), ErrInvalidTransition)
	require.ErrorIs(t, machine.FailEvaluation(), ErrInvalidTransition)

	require.NoError(t, machine.StartAnswer())
	require.NoError(t, machine.Append("a"))
	_, err = machine.BeginEvaluation()
	require.NoError(t, err)

	_, err = machine.Navigate(1)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.ErrorIs(t, machine.StartAnswer(), ErrInvalidTransition)
}
