package backend

import (
	"github.com/lixenwraith/conpix/input"
	"github.com/lixenwraith/conpix/terminal"
)

// terminalKeys maps parsed terminal keys to virtual keys
var terminalKeys = map[terminal.Key]input.Key{
	terminal.KeyEscape:    input.KeyEscape,
	terminal.KeyEnter:     input.KeyEnter,
	terminal.KeyTab:       input.KeyTab,
	terminal.KeyBacktab:   input.KeyTab,
	terminal.KeyBackspace: input.KeyBackspace,
	terminal.KeyDelete:    input.KeyDelete,

	terminal.KeyUp:       input.KeyUp,
	terminal.KeyDown:     input.KeyDown,
	terminal.KeyLeft:     input.KeyLeft,
	terminal.KeyRight:    input.KeyRight,
	terminal.KeyHome:     input.KeyHome,
	terminal.KeyEnd:      input.KeyEnd,
	terminal.KeyPageUp:   input.KeyPageUp,
	terminal.KeyPageDown: input.KeyPageDown,
	terminal.KeyInsert:   input.KeyInsert,

	terminal.KeyCapsLock:    input.KeyCapsLock,
	terminal.KeyScrollLock:  input.KeyScrollLock,
	terminal.KeyNumLock:     input.KeyNumLock,
	terminal.KeyPrintScreen: input.KeyPrintScreen,
	terminal.KeyPause:       input.KeyPause,

	terminal.KeyKPDecimal:  input.KeyNumpadDecimal,
	terminal.KeyKPDivide:   input.KeyNumpadDivide,
	terminal.KeyKPMultiply: input.KeyNumpadMultiply,
	terminal.KeyKPSubtract: input.KeyNumpadSubtract,
	terminal.KeyKPAdd:      input.KeyNumpadAdd,
	terminal.KeyKPEnter:    input.KeyEnter,

	terminal.KeyCtrlSpace:        input.KeySpace,
	terminal.KeyCtrlBackslash:    input.KeyBackslash,
	terminal.KeyCtrlBracketRight: input.KeyRightBrace,
	terminal.KeyCtrlCaret:        input.KeyAlpha6,
	terminal.KeyCtrlUnderscore:   input.KeyMinus,
}

// modifierKeys maps kitty modifier key reports to the side-specific key and the generic one
var modifierKeys = map[terminal.Key][2]input.Key{
	terminal.KeyLeftShift:    {input.KeyShiftLeft, input.KeyShift},
	terminal.KeyRightShift:   {input.KeyShiftRight, input.KeyShift},
	terminal.KeyLeftControl:  {input.KeyControlLeft, input.KeyControl},
	terminal.KeyRightControl: {input.KeyControlRight, input.KeyControl},
	terminal.KeyLeftAlt:      {input.KeyAltLeft, input.KeyAlt},
	terminal.KeyRightAlt:     {input.KeyAltRight, input.KeyAlt},
}

// translateTerminalKey resolves the virtual key of a terminal key event
// shifted is set when the character itself implies Shift
func translateTerminalKey(ev terminal.Event) (k input.Key, shifted, ok bool) {
	switch {
	case ev.Key == terminal.KeyRune:
		return input.KeyForRune(ev.Rune)
	case ev.Key >= terminal.KeyF1 && ev.Key <= terminal.KeyF12:
		return input.KeyF1 + input.Key(ev.Key-terminal.KeyF1), false, true
	case ev.Key >= terminal.KeyKP0 && ev.Key <= terminal.KeyKP9:
		return input.KeyNumpad0 + input.Key(ev.Key-terminal.KeyKP0), false, true
	case ev.Key >= terminal.KeyCtrlA && ev.Key <= terminal.KeyCtrlZ:
		return input.KeyA + input.Key(ev.Key-terminal.KeyCtrlA), false, true
	case ev.Key == terminal.KeyBacktab:
		return input.KeyTab, true, true
	}
	k, ok = terminalKeys[ev.Key]
	return k, false, ok
}

// appendModifiers emits presses for held modifiers of a legacy key report
func appendModifiers(buf []input.Event, mods terminal.Modifier, shifted bool) []input.Event {
	if mods&terminal.ModShift != 0 || shifted {
		buf = append(buf, input.Press(input.KeyShift))
	}
	if mods&terminal.ModCtrl != 0 {
		buf = append(buf, input.Press(input.KeyControl))
	}
	if mods&terminal.ModAlt != 0 {
		buf = append(buf, input.Press(input.KeyAlt))
	}
	return buf
}

// mouseButtons maps terminal mouse buttons to virtual keys
var mouseButtons = map[terminal.MouseButton]input.Key{
	terminal.MouseBtnLeft:    input.KeyMouseLeft,
	terminal.MouseBtnMiddle:  input.KeyMouseMiddle,
	terminal.MouseBtnRight:   input.KeyMouseRight,
	terminal.MouseBtnBack:    input.KeyMouseBackward,
	terminal.MouseBtnForward: input.KeyMouseForward,
}
