package decoder

import "fmt"

// State represents a session's state
type State string

const (
	// StateClosed means no hardware instance is held.
	StateClosed State = "closed"
	// StateOpening means the codec and post-processor are being created.
	StateOpening State = "opening"
	// StateOpened means the session is idle and accepts input.
	StateOpened State = "opened"
	// StateDecoding means an access unit is being decoded.
	StateDecoding State = "decoding"
	// StateFailed means the hardware reported a fatal error. Only Close is
	// accepted.
	StateFailed State = "failed"
	// StateClosing means the hardware instances are being released.
	StateClosing State = "closing"
)

var transitions = map[State][]State{
	StateClosed:   {StateOpening},
	StateOpening:  {StateOpened, StateClosed},
	StateOpened:   {StateDecoding, StateClosing},
	StateDecoding: {StateOpened, StateFailed},
	StateFailed:   {StateClosing},
	StateClosing:  {StateClosed},
}

// Update updates current state, s, to next. If the transition isn't
// allowed or f fails, s stays unchanged. f may be nil.
func (s *State) Update(next State, f func() error) error {
	if !s.can(next) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidState, *s, next)
	}

	if f != nil {
		if err := f(); err != nil {
			return err
		}
	}
	*s = next
	return nil
}

func (s *State) can(next State) bool {
	for _, to := range transitions[*s] {
		if to == next {
			return true
		}
	}
	return false
}
