package core

// Action represents a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone      Action = iota
	ActionUp               // W, Up arrow - absolute heading up
	ActionDown             // S, Down arrow - absolute heading down
	ActionLeft             // Left arrow - absolute heading left
	ActionRight            // Right arrow - absolute heading right
	ActionTurnLeft         // A - turn left relative to the heading
	ActionTurnRight        // D - turn right relative to the heading
	ActionRestart          // R - restart after game over
	ActionPause            // P - pause/unpause
	ActionBack             // B, Escape
	ActionQuit             // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionTurnLeft:
		return "TurnLeft"
	case ActionTurnRight:
		return "TurnRight"
	case ActionRestart:
		return "Restart"
	case ActionPause:
		return "Pause"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered between two simulation ticks.
type InputFrame struct {
	Actions map[Action]bool
	// Last is the most recent steering action, so that two arrows pressed in
	// one frame resolve to the later one.
	Last Action
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
	if a.IsSteering() {
		f.Last = a
	}
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Last = ActionNone
}

// IsSteering reports whether the action changes the snake's heading.
func (a Action) IsSteering() bool {
	switch a {
	case ActionUp, ActionDown, ActionLeft, ActionRight, ActionTurnLeft, ActionTurnRight:
		return true
	}
	return false
}
