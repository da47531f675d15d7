// Package practice models the per-question cycle of a mock-interview run as
// an explicit state machine: Viewing -> Answering -> Evaluating -> Scored,
// with navigation returning to Viewing. The machine only holds transient
// state (position, answer buffer, timer); persisted question data is owned
// by the caller.
package practice

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// State identifies where the candidate is in the per-question cycle.
type State string

const (
	StateViewing    State = "viewing"
	StateAnswering  State = "answering"
	StateEvaluating State = "evaluating"
	StateScored     State = "scored"
)

var (
	// ErrNoQuestions indicates the machine was built without questions.
	ErrNoQuestions = errors.New("practice machine requires at least one question")
	// ErrInvalidTransition indicates the requested event is not allowed in
	// the current state.
	ErrInvalidTransition = errors.New("invalid practice transition")
	// ErrEmptyAnswer indicates evaluation was requested with nothing in the
	// answer buffer.
	ErrEmptyAnswer = errors.New("answer buffer is empty")
)

// Machine tracks one practice run. The clock is injected so elapsed time is
// testable without wall-clock polling.
type Machine struct {
	mu      sync.Mutex
	state   State
	index   int
	count   int
	buffer  string
	started time.Time
	elapsed time.Duration
	now     func() time.Time
}

// NewMachine builds a machine over count questions, positioned at question 0.
func NewMachine(count int, now func() time.Time) (*Machine, error) {
	if count <= 0 {
		return nil, ErrNoQuestions
	}
	if now == nil {
		now = time.Now
	}

	return &Machine{state: StateViewing, count: count, now: now}, nil
}

// State returns the current cycle state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Index returns the current question position.
func (m *Machine) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// Answer returns the in-progress answer buffer.
func (m *Machine) Answer() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffer
}

// Elapsed returns the time spent answering the current question.
func (m *Machine) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateAnswering {
		return m.elapsed + m.now().Sub(m.started)
	}
	return m.elapsed
}

// Navigate moves to the question at position target, clamped to the valid
// range. Moving clears the answer buffer and timer but never touches
// persisted question data. Navigation is refused while an evaluation is in
// flight.
func (m *Machine) Navigate(target int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateEvaluating {
		return m.index, ErrInvalidTransition
	}

	if target < 0 {
		target = 0
	}
	if target >= m.count {
		target = m.count - 1
	}

	m.index = target
	m.state = StateViewing
	m.buffer = ""
	m.elapsed = 0
	m.started = time.Time{}

	return m.index, nil
}

// StartAnswer begins free-text accumulation for the current question. Calling
// it while already answering is a no-op so the timer keeps running.
func (m *Machine) StartAnswer() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateEvaluating:
		return ErrInvalidTransition
	case StateAnswering:
		return nil
	default:
		m.state = StateAnswering
		m.started = m.now()
		return nil
	}
}

// Append adds text to the in-progress answer buffer.
func (m *Machine) Append(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAnswering {
		return ErrInvalidTransition
	}
	m.buffer += text

	return nil
}

// BeginEvaluation freezes the buffer, stops the timer, and hands the answer
// to the caller for scoring.
func (m *Machine) BeginEvaluation() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAnswering {
		return "", ErrInvalidTransition
	}
	if strings.TrimSpace(m.buffer) == "" {
		return "", ErrEmptyAnswer
	}

	m.elapsed += m.now().Sub(m.started)
	m.state = StateEvaluating

	return m.buffer, nil
}

// CompleteEvaluation marks the current question scored and clears the buffer.
func (m *Machine) CompleteEvaluation() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateEvaluating {
		return ErrInvalidTransition
	}
	m.state = StateScored
	m.buffer = ""

	return nil
}

// FailEvaluation returns to answering with the buffer intact so the candidate
// can retry without retyping.
func (m *Machine) FailEvaluation() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateEvaluating {
		return ErrInvalidTransition
	}
	m.state = StateAnswering
	m.started = m.now()

	return nil
}
