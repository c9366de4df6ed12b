package extern

import (
	"github.com/wippyai/zksc-ffi/domain"
	"github.com/wippyai/zksc-ffi/value"
)

// Context is the execution-context handle passed as the first argument of
// every extern. It carries the executing domain explicitly so that
// visibility checks are pure functions of their inputs.
type Context struct {
	// Unknown is the runtime's placeholder for unobservable values.
	Unknown value.Value
	// Current is the domain the interpreter is executing in.
	Current domain.Domain
}

func NewContext(current domain.Domain) *Context {
	return &Context{
		Unknown: value.Unknown(),
		Current: current,
	}
}

// Visible reports whether data tagged d is observable in the current domain.
func (c *Context) Visible(d domain.Domain) bool {
	return d.VisibleIn(c.Current)
}

// Stack is the interpreter's evaluation stack, handed to externs that
// trigger further evaluation.
type Stack struct {
	vals []value.Value
}

func NewStack() *Stack {
	return &Stack{}
}

// Push takes ownership of v.
func (s *Stack) Push(v value.Value) {
	s.vals = append(s.vals, v)
}

// Pop transfers ownership of the top value to the caller.
func (s *Stack) Pop() (value.Value, bool) {
	if len(s.vals) == 0 {
		return value.Value{}, false
	}
	v := s.vals[len(s.vals)-1]
	s.vals[len(s.vals)-1] = value.Value{}
	s.vals = s.vals[:len(s.vals)-1]
	return v, true
}

// Peek returns the top value as a borrowed view.
func (s *Stack) Peek() (value.Value, bool) {
	if len(s.vals) == 0 {
		return value.Value{}, false
	}
	return s.vals[len(s.vals)-1], true
}

func (s *Stack) Len() int {
	return len(s.vals)
}

// Reset releases every value on the stack.
func (s *Stack) Reset() {
	for _, v := range s.vals {
		v.Release()
	}
	s.vals = s.vals[:0]
}
