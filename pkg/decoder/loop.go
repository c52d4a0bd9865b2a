package decoder

import "fmt"

// DefaultMaxSteps bounds the decode calls made for one access unit.
const DefaultMaxSteps = 256

// Event classifies the return code of one hardware decode call.
type Event int

const (
	// EventContinue changes nothing, the loop goes on.
	EventContinue Event = iota
	// EventProcessed means the input was consumed.
	EventProcessed
	// EventHeaders means stream headers were parsed.
	EventHeaders
	// EventPicture means decoded pictures can be popped.
	EventPicture
	// EventStreamError reports a corrupt or unsupported stream.
	EventStreamError
	// EventFatal reports a hardware failure.
	EventFatal
)

func (e Event) String() string {
	switch e {
	case EventContinue:
		return "continue"
	case EventProcessed:
		return "processed"
	case EventHeaders:
		return "headers"
	case EventPicture:
		return "picture"
	case EventStreamError:
		return "stream error"
	case EventFatal:
		return "fatal"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Status is the outcome of one decode call.
type Status struct {
	Event Event
	// Final ends the loop once the event is handled.
	Final bool
	// Probe asks for the stream info after the event. A failure to read it
	// is ignored.
	Probe bool
	// Code is the hardware return code.
	Code error
}

// Stepper is one codec's view of a decode loop over a single input.
type Stepper interface {
	// Step calls the hardware decode primitive on the remaining input,
	// advances past the consumed bytes and classifies the return code.
	// Codes no adapter expects panic.
	Step() Status
	// StreamInfo reads the parsed stream headers.
	StreamInfo() (StreamInfo, error)
	// NextPicture pops one picture from the codec. ok is false once none
	// remain.
	NextPicture() (info PictureInfo, ok bool, err error)
	// Remaining returns the number of input bytes not consumed.
	Remaining() int
}

// Run drives st until it reports a final status. An output buffer is
// allocated before every decode call. Stream errors are logged and counted
// but don't fail the call; fatal codes end the loop with a KindFatal error.
func (s *Session) Run(st Stepper) error {
	for steps := 0; ; steps++ {
		if steps == s.opts.MaxSteps {
			s.streamError(fmt.Errorf("%w: %d decode calls", ErrLoopLimit, steps))
			return nil
		}

		if err := s.AllocateOutput(); err != nil {
			return err
		}

		status := st.Step()
		logger.Tracef("session %s: %s (%v), %d bytes left", s.id, status.Event, status.Code, st.Remaining())

		switch status.Event {
		case EventContinue:
		case EventProcessed:
			status.Final = true
		case EventHeaders:
			info, err := st.StreamInfo()
			if err != nil {
				return NewError("stream info", KindStream, err)
			}
			if err := s.SetStreamInfo(info); err != nil {
				s.streamError(err)
				return nil
			}
		case EventPicture:
			if err := s.drain(st); err != nil {
				return err
			}
		case EventStreamError:
			s.streamError(status.Code)
		case EventFatal:
			logger.Errorf("session %s: G1 system error: %v", s.id, status.Code)
			return &Error{Kind: KindFatal, Op: "decode", Err: status.Code}
		default:
			panic(fmt.Sprintf("decoder: unknown event %v", status.Event))
		}

		if status.Probe {
			if info, err := st.StreamInfo(); err == nil {
				if err := s.SetStreamInfo(info); err != nil {
					logger.Debugf("session %s: ignoring stream info: %v", s.id, err)
				}
			}
		}

		if status.Final {
			break
		}
	}

	if left := st.Remaining(); left > 0 {
		logger.Warnf("session %s: found %d bytes corrupted", s.id, left)
	}
	return nil
}

// drain pops every picture the codec holds. Each picture after the first
// gets a fresh output buffer.
func (s *Session) drain(st Stepper) error {
	for n := 0; ; n++ {
		if n > 0 && s.output == nil {
			if err := s.AllocateOutput(); err != nil {
				return err
			}
		}

		info, ok, err := st.NextPicture()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := s.PushCompleted(info); err != nil {
			return err
		}
	}
}

func (s *Session) streamError(err error) {
	s.stats.StreamErrors++
	logger.Warnf("session %s: stream error: %v", s.id, err)
}
