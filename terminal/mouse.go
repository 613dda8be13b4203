package terminal

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
	MouseBtnWheelUp
	MouseBtnWheelDown
	MouseBtnWheelLeft
	MouseBtnWheelRight
	MouseBtnBack    // Button 8, SGR code 128
	MouseBtnForward // Button 9, SGR code 129
)

// MouseAction represents the type of mouse event
type MouseAction uint8

const (
	MouseActionNone MouseAction = iota
	MouseActionPress
	MouseActionRelease
	MouseActionMove
	MouseActionDrag
)

// MouseMode controls which mouse events are reported (bitmask)
type MouseMode uint8

const (
	MouseModeNone   MouseMode = 0
	MouseModeClick  MouseMode = 1 << 0 // Press/release events
	MouseModeDrag   MouseMode = 1 << 1 // Drag events (button held + motion)
	MouseModeMotion MouseMode = 1 << 2 // All motion events
)

// MouseModeAll enables every report the parser understands
const MouseModeAll = MouseModeClick | MouseModeDrag | MouseModeMotion

var mouseButtonNames = [...]string{
	MouseBtnNone:       "None",
	MouseBtnLeft:       "Left",
	MouseBtnMiddle:     "Middle",
	MouseBtnRight:      "Right",
	MouseBtnWheelUp:    "WheelUp",
	MouseBtnWheelDown:  "WheelDown",
	MouseBtnWheelLeft:  "WheelLeft",
	MouseBtnWheelRight: "WheelRight",
	MouseBtnBack:       "Back",
	MouseBtnForward:    "Forward",
}

// String returns human-readable button name
func (b MouseButton) String() string {
	if int(b) < len(mouseButtonNames) {
		return mouseButtonNames[b]
	}
	return "None"
}

// IsWheel reports whether the button is a scroll report rather than a physical button
func (b MouseButton) IsWheel() bool {
	return b >= MouseBtnWheelUp && b <= MouseBtnWheelRight
}

// String returns human-readable action name
func (a MouseAction) String() string {
	switch a {
	case MouseActionPress:
		return "Press"
	case MouseActionRelease:
		return "Release"
	case MouseActionMove:
		return "Move"
	case MouseActionDrag:
		return "Drag"
	default:
		return "None"
	}
}
