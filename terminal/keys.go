package terminal

// Key represents a parsed input key
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)

	// Control keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab // Shift+Tab
	KeyBackspace
	KeyDelete

	// Navigation
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Lock and system keys (kitty protocol only)
	KeyCapsLock
	KeyScrollLock
	KeyNumLock
	KeyPrintScreen
	KeyPause
	KeyMenu

	// Keypad (kitty protocol only)
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKPDecimal
	KeyKPDivide
	KeyKPMultiply
	KeyKPSubtract
	KeyKPAdd
	KeyKPEnter

	// Modifier keys as keys (kitty protocol only)
	KeyLeftShift
	KeyLeftControl
	KeyLeftAlt
	KeyRightShift
	KeyRightControl
	KeyRightAlt

	// Ctrl+letter in legacy encoding; Ctrl+A = 0x01 .. Ctrl+Z = 0x1A
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH
	KeyCtrlI
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ
	KeyCtrlSpace
	KeyCtrlBackslash
	KeyCtrlBracketRight
	KeyCtrlCaret
	KeyCtrlUnderscore
)

// Modifier flags
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// KeyAction distinguishes press, auto-repeat and release reports
// Legacy encodings only produce KeyActionPress
type KeyAction uint8

const (
	KeyActionPress KeyAction = iota
	KeyActionRepeat
	KeyActionRelease
)

// String returns human-readable action name
func (a KeyAction) String() string {
	switch a {
	case KeyActionRepeat:
		return "Repeat"
	case KeyActionRelease:
		return "Release"
	default:
		return "Press"
	}
}

// letterKeys maps a final byte of CSI/SS3 sequences to keys
var letterKeys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
	'Z': KeyBacktab,
}

// tildeKeys maps the first parameter of CSI n ~ sequences to keys
var tildeKeys = map[int]Key{
	1:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	7:  KeyHome,
	8:  KeyEnd,
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

// kittyKeys maps kitty keyboard protocol key codes (CSI code u) to keys
// Codes not listed here are unicode codepoints reported as KeyRune
var kittyKeys = map[int]Key{
	9:     KeyTab,
	13:    KeyEnter,
	27:    KeyEscape,
	127:   KeyBackspace,
	57358: KeyCapsLock,
	57359: KeyScrollLock,
	57360: KeyNumLock,
	57361: KeyPrintScreen,
	57362: KeyPause,
	57363: KeyMenu,
	57399: KeyKP0,
	57400: KeyKP1,
	57401: KeyKP2,
	57402: KeyKP3,
	57403: KeyKP4,
	57404: KeyKP5,
	57405: KeyKP6,
	57406: KeyKP7,
	57407: KeyKP8,
	57408: KeyKP9,
	57409: KeyKPDecimal,
	57410: KeyKPDivide,
	57411: KeyKPMultiply,
	57412: KeyKPSubtract,
	57413: KeyKPAdd,
	57414: KeyKPEnter,
	57441: KeyLeftShift,
	57442: KeyLeftControl,
	57443: KeyLeftAlt,
	57447: KeyRightShift,
	57448: KeyRightControl,
	57449: KeyRightAlt,
}

// decodeModifiers converts the 1-based CSI modifier parameter to Modifier flags
func decodeModifiers(p int) Modifier {
	if p <= 1 {
		return ModNone
	}
	bits := p - 1
	var m Modifier
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&2 != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	return m
}

// decodeAction converts the kitty event-type subparameter
func decodeAction(p int) KeyAction {
	switch p {
	case 2:
		return KeyActionRepeat
	case 3:
		return KeyActionRelease
	default:
		return KeyActionPress
	}
}
