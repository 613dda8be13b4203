package terminal

import "strconv"

// keyNames holds display names for non-rune keys
var keyNames = map[Key]string{
	KeyEscape:    "Escape",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBacktab:   "Backtab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",

	KeyUp:       "Up",
	KeyDown:     "Down",
	KeyLeft:     "Left",
	KeyRight:    "Right",
	KeyHome:     "Home",
	KeyEnd:      "End",
	KeyPageUp:   "PageUp",
	KeyPageDown: "PageDown",
	KeyInsert:   "Insert",

	KeyCapsLock:    "CapsLock",
	KeyScrollLock:  "ScrollLock",
	KeyNumLock:     "NumLock",
	KeyPrintScreen: "PrintScreen",
	KeyPause:       "Pause",
	KeyMenu:        "Menu",

	KeyKPDecimal:  "KPDecimal",
	KeyKPDivide:   "KPDivide",
	KeyKPMultiply: "KPMultiply",
	KeyKPSubtract: "KPSubtract",
	KeyKPAdd:      "KPAdd",
	KeyKPEnter:    "KPEnter",

	KeyLeftShift:    "LeftShift",
	KeyLeftControl:  "LeftControl",
	KeyLeftAlt:      "LeftAlt",
	KeyRightShift:   "RightShift",
	KeyRightControl: "RightControl",
	KeyRightAlt:     "RightAlt",

	KeyCtrlSpace:        "Ctrl+Space",
	KeyCtrlBackslash:    "Ctrl+\\",
	KeyCtrlBracketRight: "Ctrl+]",
	KeyCtrlCaret:        "Ctrl+^",
	KeyCtrlUnderscore:   "Ctrl+_",
}

// String returns a display name for the key
func (k Key) String() string {
	switch {
	case k == KeyNone:
		return "None"
	case k == KeyRune:
		return "Rune"
	case k >= KeyF1 && k <= KeyF12:
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	case k >= KeyKP0 && k <= KeyKP9:
		return "KP" + strconv.Itoa(int(k-KeyKP0))
	case k >= KeyCtrlA && k <= KeyCtrlZ:
		return "Ctrl+" + string(rune('A'+int(k-KeyCtrlA)))
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Key(" + strconv.Itoa(int(k)) + ")"
}

// String returns the set modifiers joined with '+'
func (m Modifier) String() string {
	s := ""
	if m&ModCtrl != 0 {
		s += "Ctrl+"
	}
	if m&ModAlt != 0 {
		s += "Alt+"
	}
	if m&ModShift != 0 {
		s += "Shift+"
	}
	if s == "" {
		return "None"
	}
	return s[:len(s)-1]
}
