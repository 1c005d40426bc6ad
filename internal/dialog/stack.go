package dialog

// Frame is one entry on the dialog stack.
type Frame struct {
	// DialogID names the dialog this frame belongs to.
	DialogID string `json:"dialogId"`
	// State holds dialog-local values that survive across turns.
	State map[string]any `json:"state"`
}

// Stack is a per-conversation dialog stack. The topmost frame is the active
// dialog; an empty stack means the root handler owns the turn.
type Stack struct {
	frames []Frame
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push makes a new frame for the given dialog the active one.
func (s *Stack) Push(dialogID string) *Frame {
	s.frames = append(s.frames, Frame{
		DialogID: dialogID,
		State:    make(map[string]any),
	})
	return &s.frames[len(s.frames)-1]
}

// Pop removes the active frame. Popping an empty stack is a no-op.
func (s *Stack) Pop() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Active returns the active frame, or nil when the stack is empty.
func (s *Stack) Active() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

// Clear removes every frame.
func (s *Stack) Clear() {
	s.frames = nil
}

// Len returns the stack depth.
func (s *Stack) Len() int {
	return len(s.frames)
}

// Registry maps dialog ids to dialog implementations.
type Registry struct {
	dialogs map[string]Dialog
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{dialogs: make(map[string]Dialog)}
}

// Add registers a dialog under its own id. Re-adding replaces the previous
// registration.
func (r *Registry) Add(d Dialog) {
	r.dialogs[d.ID()] = d
}

// Find returns the dialog registered under id.
func (r *Registry) Find(id string) (Dialog, bool) {
	d, ok := r.dialogs[id]
	return d, ok
}
