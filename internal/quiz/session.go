package quiz

import (
	"context"
	"errors"
	"sync"
	"time"
)

// SessionState is the lifecycle state of a quiz session.
type SessionState int

const (
	SessionNotStarted SessionState = iota
	SessionRunning
	SessionCompleted
)

// ErrSessionNotRunning is returned by operations that require a running
// session.
var ErrSessionNotRunning = errors.New("quiz session is not running")

// Submission carries everything the submit callback needs to score and
// persist an attempt. Answers is a snapshot taken at the instant the
// session completed; later Answer calls cannot modify it.
type Submission struct {
	StartedAt        time.Time
	CompletedAt      time.Time
	TimeTakenSeconds int
	Answers          map[string]int
	AutoSubmitted    bool
}

// SubmitFunc receives the submission exactly once per session.
type SubmitFunc func(Submission)

// Session drives one timed quiz run: NotStarted -> Running -> Completed.
// The countdown ticks once per second; when it reaches zero the session
// auto-submits with whatever answers were recorded. Completed is
// terminal: further ticks, submits and answer changes are no-ops.
type Session struct {
	mu        sync.Mutex
	state     SessionState
	remaining int
	startedAt time.Time
	answers   map[string]int
	onSubmit  SubmitFunc
	now       func() time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock injects the time source. Tests use this to stay deterministic.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates a session for a quiz of the given duration. The
// onSubmit callback fires exactly once, on manual submit or when the
// countdown expires.
func NewSession(durationMinutes int, onSubmit SubmitFunc, opts ...SessionOption) *Session {
	s := &Session{
		state:     SessionNotStarted,
		remaining: durationMinutes * 60,
		answers:   make(map[string]int),
		onSubmit:  onSubmit,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start transitions the session to Running, capturing the start instant.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionNotStarted {
		return errors.New("quiz session already started")
	}
	s.state = SessionRunning
	s.startedAt = s.now()
	return nil
}

// Answer records the selected option index for a question. Answers are
// rejected once the session has completed.
func (s *Session) Answer(questionID string, selected int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionRunning {
		return ErrSessionNotRunning
	}
	s.answers[questionID] = selected
	return nil
}

// Tick advances the countdown by one second. When the remaining time
// reaches zero the session completes and auto-submits. Ticks on a
// completed session are no-ops.
func (s *Session) Tick() {
	s.mu.Lock()
	if s.state != SessionRunning {
		s.mu.Unlock()
		return
	}
	s.remaining--
	if s.remaining > 0 {
		s.mu.Unlock()
		return
	}
	s.remaining = 0
	sub := s.completeLocked(true)
	s.mu.Unlock()
	s.onSubmit(sub)
}

// Submit completes the session with the answers recorded so far. A
// submit on a session that is not running returns ErrSessionNotRunning.
func (s *Session) Submit() error {
	s.mu.Lock()
	if s.state != SessionRunning {
		s.mu.Unlock()
		return ErrSessionNotRunning
	}
	sub := s.completeLocked(false)
	s.mu.Unlock()
	s.onSubmit(sub)
	return nil
}

// completeLocked transitions to Completed and snapshots the answer map.
// Callers must hold s.mu; the snapshot guarantees no mutation is visible
// to the submission after the transition.
func (s *Session) completeLocked(auto bool) Submission {
	s.state = SessionCompleted
	completedAt := s.now()
	snapshot := make(map[string]int, len(s.answers))
	for k, v := range s.answers {
		snapshot[k] = v
	}
	return Submission{
		StartedAt:        s.startedAt,
		CompletedAt:      completedAt,
		TimeTakenSeconds: int(completedAt.Sub(s.startedAt).Round(time.Second) / time.Second),
		Answers:          snapshot,
		AutoSubmitted:    auto,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns the seconds left on the countdown.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Run drives the countdown with a real one-second ticker until the
// session completes or ctx is cancelled. Cancellation discards the
// session without submitting; no attempt is recorded for it.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
			if s.State() == SessionCompleted {
				return
			}
		}
	}
}
