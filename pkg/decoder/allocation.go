package decoder

import "github.com/pion/hantro/pkg/memalloc"

// AllocationParam is one allocator offered in an allocation query.
type AllocationParam struct {
	Allocator memalloc.Allocator
	Params    memalloc.Params
}

// AllocationQuery negotiates which allocator serves a buffer pool.
type AllocationQuery struct {
	Params []AllocationParam
}

// ProposeAllocation answers an upstream query with the session allocator.
// Input allocated from it is decoded without a copy.
func (s *Session) ProposeAllocation(q *AllocationQuery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.propose(q)
}

func (s *Session) propose(q *AllocationQuery) error {
	if s.alloc == nil {
		return ErrNotOpen
	}

	logger.Infof("session %s: proposing %s allocator", s.id, s.alloc.Name())
	q.Params = append(q.Params, AllocationParam{
		Allocator: s.alloc,
		Params:    memalloc.Params{Flags: memalloc.FlagPhysicallyContiguous},
	})
	return nil
}

// DecideAllocation picks the output allocator from a downstream query.
// Allocators the hardware can't address are discarded, and the session
// allocator is added when none is left. The first remaining allocator
// serves output pictures until Close.
func (s *Session) DecideAllocation(q *AllocationQuery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := q.Params[:0]
	for _, p := range q.Params {
		if p.Allocator != nil && p.Allocator.Contiguous() {
			logger.Infof("session %s: downstream provided a compatible allocator %s", s.id, p.Allocator.Name())
			kept = append(kept, p)
			continue
		}
		logger.Debugf("session %s: discarding incompatible allocator", s.id)
	}
	q.Params = kept

	if len(q.Params) == 0 {
		logger.Infof("session %s: using fallback allocator", s.id)
		if err := s.propose(q); err != nil {
			return err
		}
	}

	s.outAlloc = q.Params[0].Allocator
	return nil
}
