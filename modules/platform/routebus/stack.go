package routebus

// stack is the pseudo-router's back-navigation history.
// The top entry is the route that was current immediately before the
// present one.
type stack struct {
	entries []Route
}

func (s *stack) push(r Route) {
	s.entries = append(s.entries, r)
}

// pop removes and returns the top entry. Returns false if the stack is empty.
func (s *stack) pop() (Route, bool) {
	if len(s.entries) == 0 {
		return Route{}, false
	}
	r := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = Route{}
	s.entries = s.entries[:len(s.entries)-1]
	return r, true
}

func (s *stack) peek() (Route, bool) {
	if len(s.entries) == 0 {
		return Route{}, false
	}
	return s.entries[len(s.entries)-1], true
}

func (s *stack) len() int {
	return len(s.entries)
}

func (s *stack) clear() {
	clear(s.entries)
	s.entries = s.entries[:0]
}
