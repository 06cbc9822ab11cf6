package selection

// Generation identifies one rollup fetch. Later fetches have larger values.
type Generation uint64

// Sequencer hands out fetch generations and decides whether a completion
// may still be displayed. Only the most recently issued generation is
// current; progress, success and error callbacks for any older generation
// must be dropped.
//
// In-flight fetches are never cancelled. Their results are simply ignored.
//
// A Sequencer is owned by one event loop and is not safe for concurrent use.
type Sequencer struct {
	current Generation
}

// Next starts a new fetch and returns its generation. Every generation
// issued earlier becomes stale.
func (s *Sequencer) Next() Generation {
	s.current++
	return s.current
}

// Invalidate makes every issued generation stale without starting a
// fetch.
func (s *Sequencer) Invalidate() {
	s.current++
}

// Current returns the most recently issued generation, or zero.
func (s *Sequencer) Current() Generation {
	return s.current
}

// IsCurrent reports whether g is still allowed to update the display.
func (s *Sequencer) IsCurrent(g Generation) bool {
	return g != 0 && g == s.current
}
