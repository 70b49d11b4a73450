package cpu

// ifFrame is an open IF block of the preprocessor.
type ifFrame struct {
	Base    string // Label prefix, '__IF<n>'.
	Else    string // Target of the false path.
	End     string // Join point.
	HasElse bool   // Set once an ELSE was lowered.
}

// frameStack is the stack of open IF blocks.
type frameStack struct {
	Data []ifFrame
}

func (s *frameStack) Push(frame ifFrame) {
	s.Data = append(s.Data, frame)
}

func (s *frameStack) Pop() (frame ifFrame, ok bool) {
	top := s.Peek()
	if top != nil {
		frame, ok = *top, true
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *frameStack) Empty() bool {
	return len(s.Data) == 0
}

// Peek returns the innermost frame, or nil.
func (s *frameStack) Peek() *ifFrame {
	if s.Empty() {
		return nil
	}

	return &s.Data[len(s.Data)-1]
}
