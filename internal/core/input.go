package core

// Action is a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone     Action = iota
	ActionLeft            // A, Left arrow
	ActionRight           // D, Right arrow
	ActionRotate          // X, W, Z
	ActionHardDrop        // Up arrow
	ActionSoftDrop        // S, Down arrow
	ActionHold            // Space
	ActionToggleAI        // I
	ActionBack            // B, Escape
	ActionRestart         // R
	ActionQuit            // Q, Ctrl+C
	ActionPause           // P
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionRotate:
		return "Rotate"
	case ActionHardDrop:
		return "HardDrop"
	case ActionSoftDrop:
		return "SoftDrop"
	case ActionHold:
		return "Hold"
	case ActionToggleAI:
		return "ToggleAI"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// Drag is a completed pointer gesture in screen coordinates:
// the button went down at From and was released at To.
type Drag struct {
	From Point
	To   Point
}

// InputFrame holds the input collected between two simulation steps.
type InputFrame struct {
	Actions map[Action]bool
	Drags   []Drag
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// AddDrag queues a pointer gesture for this frame.
func (f *InputFrame) AddDrag(from, to Point) {
	f.Drags = append(f.Drags, Drag{From: from, To: to})
}

// Empty reports whether nothing was triggered.
func (f InputFrame) Empty() bool {
	for _, on := range f.Actions {
		if on {
			return false
		}
	}
	return len(f.Drags) == 0
}

// Clear resets the frame for the next step.
func (f *InputFrame) Clear() {
	clear(f.Actions)
	f.Drags = f.Drags[:0]
}
