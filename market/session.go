package market

import "sync"

// Phase is a settlement session's lifecycle stage.
type Phase int

const (
	// PhaseComposing: the operation accumulator is being assembled.
	PhaseComposing Phase = iota
	// PhaseReserving: waiting on the treasury reservation service.
	PhaseReserving
	// PhaseBuilding: reservation granted, treasury payments being added.
	PhaseBuilding
	// PhaseSigning: draft handed to the adapter for signing.
	PhaseSigning
	// PhaseSubmitted: the transaction left for the network. Terminal.
	PhaseSubmitted
	// PhaseRejected: the reservation was denied. Terminal.
	PhaseRejected
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseComposing:
		return "composing"
	case PhaseReserving:
		return "reserving"
	case PhaseBuilding:
		return "building"
	case PhaseSigning:
		return "signing"
	case PhaseSubmitted:
		return "submitted"
	case PhaseRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Session tracks one settlement from composition to submission, so a
// caller driving a UI or a queue can observe where an in-flight
// settlement stands. Sessions are optional: every operation accepts nil.
type Session struct {
	mu    sync.Mutex
	phase Phase
	err   error
}

// NewSession returns a session in the composing phase.
func NewSession() *Session { return &Session{phase: PhaseComposing} }

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	if s == nil {
		return PhaseComposing
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Err returns the rejection cause, set only in the rejected phase.
func (s *Session) Err() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// to advances the session. Terminal phases never regress.
func (s *Session) to(p Phase) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseSubmitted || s.phase == PhaseRejected {
		return
	}
	s.phase = p
}

// reject moves the session to the terminal rejected phase.
func (s *Session) reject(err error) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseSubmitted || s.phase == PhaseRejected {
		return
	}
	s.phase = PhaseRejected
	s.err = err
}
