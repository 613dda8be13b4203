package input

import "testing"

func TestKeyNames(t *testing.T) {
	tests := []struct {
		key  Key
		name string
	}{
		{KeyMouseBackward, "MouseBackward"},
		{KeyA, "A"},
		{KeyAlpha7, "Alpha7"},
		{KeyNumpad3, "Numpad3"},
		{KeyF11, "F11"},
		{KeyAngleBracket, "AngleBracket"},
		{Key(0xFF), "Key(0xff)"},
	}
	for _, tt := range tests {
		if got := tt.key.String(); got != tt.name {
			t.Errorf("Expected %q, got %q", tt.name, got)
		}
	}
}

func TestKeyByName(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		ok   bool
	}{
		{"escape", KeyEscape, true},
		{" F12 ", KeyF12, true},
		{"q", KeyQ, true},
		{"7", KeyAlpha7, true},
		{"numpad0", KeyNumpad0, true},
		{"mouseforward", KeyMouseForward, true},
		{"nope", 0, false},
	}
	for _, tt := range tests {
		k, ok := KeyByName(tt.name)
		if ok != tt.ok || k != tt.key {
			t.Errorf("KeyByName(%q): expected %v %v, got %v %v", tt.name, tt.key, tt.ok, k, ok)
		}
	}
}

func TestKeyForRune(t *testing.T) {
	tests := []struct {
		r       rune
		key     Key
		shifted bool
		ok      bool
	}{
		{'w', KeyW, false, true},
		{'W', KeyW, true, true},
		{'3', KeyAlpha3, false, true},
		{'#', KeyAlpha3, true, true},
		{' ', KeySpace, false, true},
		{'?', KeySlash, true, true},
		{'-', KeyMinus, false, true},
		{'é', 0, false, false},
	}
	for _, tt := range tests {
		k, shifted, ok := KeyForRune(tt.r)
		if k != tt.key || shifted != tt.shifted || ok != tt.ok {
			t.Errorf("KeyForRune(%q): expected %v %v %v, got %v %v %v", tt.r, tt.key, tt.shifted, tt.ok, k, shifted, ok)
		}
	}
}

func TestArrowKeyEvents(t *testing.T) {
	down := Press(KeyDown)
	if down.Kind != EventKey || down.Key != KeyDown || !down.Down {
		t.Errorf("Expected Down arrow press, got %+v", down)
	}
	up := Release(KeyUp)
	if up.Kind != EventKey || up.Key != KeyUp || up.Down {
		t.Errorf("Expected Up arrow release, got %+v", up)
	}
	if KeyDown.String() != "Down" || KeyUp.String() != "Up" {
		t.Errorf("Expected arrow names, got %q and %q", KeyDown, KeyUp)
	}
}
