package models

// StateStack saves small numeric decode states across decode calls, e.g. a
// pending branch delay slot. Push and Pop must balance; popping an empty
// stack is a backend bug and panics.
type StateStack struct {
	stack []uint32
}

func (s *StateStack) Push(state uint32) {
	s.stack = append(s.stack, state)
}

func (s *StateStack) Pop() uint32 {
	if len(s.stack) == 0 {
		panic("state stack underflow")
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top
}

func (s *StateStack) Len() int {
	return len(s.stack)
}
