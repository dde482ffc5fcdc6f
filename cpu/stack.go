package cpu

// Stack is the operand stack. It holds data pushed by programs as well as
// call return addresses.
type Stack struct {
	Data  []int32
	Limit int // Maximum depth, or 0 for unbounded.
}

// Push pushes a value. Callers check Full first when a limit is set.
func (s *Stack) Push(value int32) {
	s.Data = append(s.Data, value)
}

// Pop removes and returns the top value. ok is false on an empty stack.
func (s *Stack) Pop() (value int32, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

// Empty returns true if nothing is on the stack.
func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

// Full returns true if the stack has reached its Limit.
func (s *Stack) Full() bool {
	return s.Limit > 0 && len(s.Data) >= s.Limit
}

// Depth returns the number of values on the stack.
func (s *Stack) Depth() int {
	return len(s.Data)
}

// Peek returns the top value without removing it.
func (s *Stack) Peek() (value int32, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

// Reset empties the stack, keeping its limit.
func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
