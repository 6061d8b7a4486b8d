package domain

// TurnSchedule tracks progress through a fixed speaking order. The order is
// captured once and never mutated; disconnected players are passed over on
// Advance, not removed, so a reconnect before their slot still gets a turn.
type TurnSchedule struct {
	order []string
	idx   int // -1 before the first speaker
}

// NewTurnSchedule creates a schedule over the given order
func NewTurnSchedule(playerIDs []string) *TurnSchedule {
	order := make([]string, len(playerIDs))
	copy(order, playerIDs)
	return &TurnSchedule{
		order: order,
		idx:   -1,
	}
}

// Order returns a copy of the fixed speaking order
func (s *TurnSchedule) Order() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of slots in the order
func (s *TurnSchedule) Len() int {
	return len(s.order)
}

// Index returns the current position, -1 before the first speaker
func (s *TurnSchedule) Index() int {
	return s.idx
}

// Current returns the current speaker, false before the first advance or
// after exhaustion.
func (s *TurnSchedule) Current() (string, bool) {
	if s.idx < 0 || s.idx >= len(s.order) {
		return "", false
	}
	return s.order[s.idx], true
}

// Advance moves to the next speaker that eligible reports true for,
// skipping the rest. Returns false when the order is exhausted.
func (s *TurnSchedule) Advance(eligible func(playerID string) bool) (string, bool) {
	for s.idx+1 < len(s.order) {
		s.idx++
		id := s.order[s.idx]
		if eligible == nil || eligible(id) {
			return id, true
		}
	}
	s.idx = len(s.order)
	return "", false
}

// Exhausted returns true once the pointer has passed the last slot
func (s *TurnSchedule) Exhausted() bool {
	return s.idx >= len(s.order)
}
