package input

import (
	"strconv"
	"strings"
)

// Key is a virtual key code; mouse buttons share the table with keyboard keys
type Key uint8

// KeyCount bounds the key table; keys at or above it are ignored
const KeyCount = 254

const (
	KeyMouseLeft     Key = 0x01
	KeyMouseRight    Key = 0x02
	KeyMouseMiddle   Key = 0x04
	KeyMouseBackward Key = 0x05
	KeyMouseForward  Key = 0x06

	KeyBackspace Key = 0x08
	KeyTab       Key = 0x09
	KeyEnter     Key = 0x0D
	KeyShift     Key = 0x10
	KeyControl   Key = 0x11
	KeyAlt       Key = 0x12
	KeyPause     Key = 0x13
	KeyCapsLock  Key = 0x14
	KeyEscape    Key = 0x1B
	KeySpace     Key = 0x20

	KeyPageUp      Key = 0x21
	KeyPageDown    Key = 0x22
	KeyEnd         Key = 0x23
	KeyHome        Key = 0x24
	KeyLeft        Key = 0x25
	KeyUp          Key = 0x26
	KeyRight       Key = 0x27
	KeyDown        Key = 0x28
	KeyPrint       Key = 0x2A
	KeyPrintScreen Key = 0x2C
	KeyInsert      Key = 0x2D
	KeyDelete      Key = 0x2E

	KeyAlpha0 Key = 0x30
	KeyAlpha1 Key = 0x31
	KeyAlpha2 Key = 0x32
	KeyAlpha3 Key = 0x33
	KeyAlpha4 Key = 0x34
	KeyAlpha5 Key = 0x35
	KeyAlpha6 Key = 0x36
	KeyAlpha7 Key = 0x37
	KeyAlpha8 Key = 0x38
	KeyAlpha9 Key = 0x39

	KeyA Key = 0x41
	KeyB Key = 0x42
	KeyC Key = 0x43
	KeyD Key = 0x44
	KeyE Key = 0x45
	KeyF Key = 0x46
	KeyG Key = 0x47
	KeyH Key = 0x48
	KeyI Key = 0x49
	KeyJ Key = 0x4A
	KeyK Key = 0x4B
	KeyL Key = 0x4C
	KeyM Key = 0x4D
	KeyN Key = 0x4E
	KeyO Key = 0x4F
	KeyP Key = 0x50
	KeyQ Key = 0x51
	KeyR Key = 0x52
	KeyS Key = 0x53
	KeyT Key = 0x54
	KeyU Key = 0x55
	KeyV Key = 0x56
	KeyW Key = 0x57
	KeyX Key = 0x58
	KeyY Key = 0x59
	KeyZ Key = 0x5A

	KeyNumpad0        Key = 0x60
	KeyNumpad1        Key = 0x61
	KeyNumpad2        Key = 0x62
	KeyNumpad3        Key = 0x63
	KeyNumpad4        Key = 0x64
	KeyNumpad5        Key = 0x65
	KeyNumpad6        Key = 0x66
	KeyNumpad7        Key = 0x67
	KeyNumpad8        Key = 0x68
	KeyNumpad9        Key = 0x69
	KeyNumpadMultiply Key = 0x6A
	KeyNumpadAdd      Key = 0x6B
	KeyNumpadSubtract Key = 0x6D
	KeyNumpadDecimal  Key = 0x6E
	KeyNumpadDivide   Key = 0x6F

	KeyF1  Key = 0x70
	KeyF2  Key = 0x71
	KeyF3  Key = 0x72
	KeyF4  Key = 0x73
	KeyF5  Key = 0x74
	KeyF6  Key = 0x75
	KeyF7  Key = 0x76
	KeyF8  Key = 0x77
	KeyF9  Key = 0x78
	KeyF10 Key = 0x79
	KeyF11 Key = 0x7A
	KeyF12 Key = 0x7B

	KeyNumLock    Key = 0x90
	KeyScrollLock Key = 0x91

	KeyShiftLeft    Key = 0xA0
	KeyShiftRight   Key = 0xA1
	KeyControlLeft  Key = 0xA2
	KeyControlRight Key = 0xA3
	KeyAltLeft      Key = 0xA4
	KeyAltRight     Key = 0xA5

	// US layout punctuation
	KeySemicolon    Key = 0xBA
	KeyPlus         Key = 0xBB
	KeyComma        Key = 0xBC
	KeyMinus        Key = 0xBD
	KeyPeriod       Key = 0xBE
	KeySlash        Key = 0xBF
	KeyTilde        Key = 0xC0
	KeyLeftBrace    Key = 0xDB
	KeyBackslash    Key = 0xDC
	KeyRightBrace   Key = 0xDD
	KeyQuote        Key = 0xDE
	KeyAngleBracket Key = 0xE2
)

// keyNames lists named keys; letters, digits, numpad digits and F-keys are generated
var keyNames = map[Key]string{
	KeyMouseLeft:      "MouseLeft",
	KeyMouseRight:     "MouseRight",
	KeyMouseMiddle:    "MouseMiddle",
	KeyMouseBackward:  "MouseBackward",
	KeyMouseForward:   "MouseForward",
	KeyBackspace:      "Backspace",
	KeyTab:            "Tab",
	KeyEnter:          "Enter",
	KeyShift:          "Shift",
	KeyControl:        "Control",
	KeyAlt:            "Alt",
	KeyPause:          "Pause",
	KeyCapsLock:       "CapsLock",
	KeyEscape:         "Escape",
	KeySpace:          "Space",
	KeyPageUp:         "PageUp",
	KeyPageDown:       "PageDown",
	KeyEnd:            "End",
	KeyHome:           "Home",
	KeyLeft:           "Left",
	KeyUp:             "Up",
	KeyRight:          "Right",
	KeyDown:           "Down",
	KeyPrint:          "Print",
	KeyPrintScreen:    "PrintScreen",
	KeyInsert:         "Insert",
	KeyDelete:         "Delete",
	KeyNumpadMultiply: "NumpadMultiply",
	KeyNumpadAdd:      "NumpadAdd",
	KeyNumpadSubtract: "NumpadSubtract",
	KeyNumpadDecimal:  "NumpadDecimal",
	KeyNumpadDivide:   "NumpadDivide",
	KeyNumLock:        "NumLock",
	KeyScrollLock:     "ScrollLock",
	KeyShiftLeft:      "ShiftLeft",
	KeyShiftRight:     "ShiftRight",
	KeyControlLeft:    "ControlLeft",
	KeyControlRight:   "ControlRight",
	KeyAltLeft:        "AltLeft",
	KeyAltRight:       "AltRight",
	KeySemicolon:      "Semicolon",
	KeyPlus:           "Plus",
	KeyComma:          "Comma",
	KeyMinus:          "Minus",
	KeyPeriod:         "Period",
	KeySlash:          "Slash",
	KeyTilde:          "Tilde",
	KeyLeftBrace:      "LeftBrace",
	KeyBackslash:      "Backslash",
	KeyRightBrace:     "RightBrace",
	KeyQuote:          "Quote",
	KeyAngleBracket:   "AngleBracket",
}

// nameToKey is the case-folded reverse of String for every named key
var nameToKey = buildNameIndex()

func buildNameIndex() map[string]Key {
	m := make(map[string]Key, 160)
	for k := Key(0); k < KeyCount; k++ {
		if name, ok := k.name(); ok {
			m[strings.ToLower(name)] = k
		}
	}
	return m
}

// Valid reports whether k is inside the key table
func (k Key) Valid() bool {
	return k < KeyCount
}

func (k Key) name() (string, bool) {
	switch {
	case k >= KeyAlpha0 && k <= KeyAlpha9:
		return "Alpha" + string(rune('0'+k-KeyAlpha0)), true
	case k >= KeyA && k <= KeyZ:
		return string(rune(k)), true
	case k >= KeyNumpad0 && k <= KeyNumpad9:
		return "Numpad" + string(rune('0'+k-KeyNumpad0)), true
	case k >= KeyF1 && k <= KeyF12:
		return "F" + strconv.Itoa(int(k-KeyF1)+1), true
	}
	name, ok := keyNames[k]
	return name, ok
}

// String returns the key name, or its hex code for unnamed keys
func (k Key) String() string {
	if name, ok := k.name(); ok {
		return name
	}
	return "Key(0x" + strconv.FormatUint(uint64(k), 16) + ")"
}

// KeyByName resolves a key name case-insensitively; single letters and digits are accepted
func KeyByName(name string) (Key, bool) {
	s := strings.ToLower(strings.TrimSpace(name))
	if k, ok := nameToKey[s]; ok {
		return k, true
	}
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		return KeyAlpha0 + Key(s[0]-'0'), true
	}
	return 0, false
}

// runeKeys maps characters to the key producing them on a US layout
var runeKeys = map[rune]Key{
	' ': KeySpace,
	';': KeySemicolon, ':': KeySemicolon,
	'=': KeyPlus, '+': KeyPlus,
	',': KeyComma, '<': KeyComma,
	'-': KeyMinus, '_': KeyMinus,
	'.': KeyPeriod, '>': KeyPeriod,
	'/': KeySlash, '?': KeySlash,
	'`': KeyTilde, '~': KeyTilde,
	'[': KeyLeftBrace, '{': KeyLeftBrace,
	'\\': KeyBackslash, '|': KeyBackslash,
	']': KeyRightBrace, '}': KeyRightBrace,
	'\'': KeyQuote, '"': KeyQuote,
	'!': KeyAlpha1, '@': KeyAlpha2, '#': KeyAlpha3, '$': KeyAlpha4, '%': KeyAlpha5,
	'^': KeyAlpha6, '&': KeyAlpha7, '*': KeyAlpha8, '(': KeyAlpha9, ')': KeyAlpha0,
}

// KeyForRune returns the key that types r, shifted reports whether Shift is implied
func KeyForRune(r rune) (k Key, shifted bool, ok bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + Key(r-'a'), false, true
	case r >= 'A' && r <= 'Z':
		return KeyA + Key(r-'A'), true, true
	case r >= '0' && r <= '9':
		return KeyAlpha0 + Key(r-'0'), false, true
	}
	k, ok = runeKeys[r]
	if !ok {
		return 0, false, false
	}
	shifted = strings.ContainsRune(`:+<_>?~{|}"!@#$%^&*()`, r)
	return k, shifted, true
}
