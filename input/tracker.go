package input

// KeyState is the state of one key for the current frame
// JustDown and JustUp are never both set
type KeyState struct {
	IsDown   bool
	JustDown bool
	JustUp   bool
}

// override binds a state query to the keys it answers for
type override struct {
	query StateQuery
	keys  []Key
}

// Tracker folds input batches into per-key state, one batch per frame
type Tracker struct {
	keys [KeyCount]KeyState

	mouseX, mouseY int
	deltaX, deltaY int
	scroll         int

	overrides []override

	// Events of keys that already transitioned in the batch, replayed next poll
	pending []Event
	batch   []Event
}

// NewTracker creates a tracker with every key up
func NewTracker() *Tracker {
	return &Tracker{
		pending: make([]Event, 0, 16),
		batch:   make([]Event, 0, 64),
	}
}

// AddOverride makes q the authority for keys after each batch is applied
func (t *Tracker) AddOverride(q StateQuery, keys ...Key) {
	t.overrides = append(t.overrides, override{query: q, keys: keys})
}

// Poll drains src and updates key edges, mouse position, mouse delta and scroll delta
func (t *Tracker) Poll(src Source) {
	t.scroll = 0

	var wasDown [KeyCount]bool
	for i := range t.keys {
		wasDown[i] = t.keys[i].IsDown
		t.keys[i].JustDown = false
		t.keys[i].JustUp = false
	}

	startX, startY := t.mouseX, t.mouseY

	// Deferred events precede anything new
	t.batch = append(t.batch[:0], t.pending...)
	t.pending = t.pending[:0]
	if src != nil {
		t.batch = src.Drain(t.batch)
	}

	var changed, deferred [KeyCount]bool
	for _, ev := range t.batch {
		switch ev.Kind {
		case EventMouseMove:
			t.mouseX, t.mouseY = ev.X, ev.Y
		case EventWheel:
			t.scroll = ev.Delta
		case EventKey, EventMouseButton:
			if !ev.Key.Valid() {
				continue
			}
			k := ev.Key
			if deferred[k] {
				t.pending = append(t.pending, ev)
				continue
			}
			if t.keys[k].IsDown == ev.Down {
				continue
			}
			if changed[k] {
				deferred[k] = true
				t.pending = append(t.pending, ev)
				continue
			}
			t.keys[k].IsDown = ev.Down
			changed[k] = true
		}
	}

	for _, o := range t.overrides {
		for _, k := range o.keys {
			if !k.Valid() {
				continue
			}
			if down, ok := o.query.KeyDown(k); ok {
				t.keys[k].IsDown = down
			}
		}
	}

	for i := range t.keys {
		is := t.keys[i].IsDown
		t.keys[i].JustDown = !wasDown[i] && is
		t.keys[i].JustUp = wasDown[i] && !is
	}

	t.deltaX = t.mouseX - startX
	t.deltaY = t.mouseY - startY
}

// State returns the frame state of k, zero for keys outside the table
func (t *Tracker) State(k Key) KeyState {
	if !k.Valid() {
		return KeyState{}
	}
	return t.keys[k]
}

// IsPressed reports whether k is held
func (t *Tracker) IsPressed(k Key) bool { return t.State(k).IsDown }

// WasJustPressed reports whether k went down during the last poll
func (t *Tracker) WasJustPressed(k Key) bool { return t.State(k).JustDown }

// WasJustReleased reports whether k went up during the last poll
func (t *Tracker) WasJustReleased(k Key) bool { return t.State(k).JustUp }

// MouseX returns the pointer column
func (t *Tracker) MouseX() int { return t.mouseX }

// MouseY returns the pointer row
func (t *Tracker) MouseY() int { return t.mouseY }

// MouseDeltaX returns the pointer column change over the last poll
func (t *Tracker) MouseDeltaX() int { return t.deltaX }

// MouseDeltaY returns the pointer row change over the last poll
func (t *Tracker) MouseDeltaY() int { return t.deltaY }

// ScrollDelta returns the wheel delta of the last poll, 0 when the wheel did not move
func (t *Tracker) ScrollDelta() int { return t.scroll }

// Pending returns the number of events deferred to the next poll
func (t *Tracker) Pending() int { return len(t.pending) }
