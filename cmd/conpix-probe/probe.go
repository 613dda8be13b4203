package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/conpix/console"
	"github.com/lixenwraith/conpix/input"
	"github.com/lixenwraith/conpix/status"
)

const (
	minSpokes = 1
	maxSpokes = 32
)

// probe renders live input state onto a framebuffer
type probe struct {
	session *session
	status  *status.Registry
	spokes  int
	frames  int64
	phase   float64

	// log of recent edge transitions, newest last
	events []string
}

func newProbe(s *session, reg *status.Registry) *probe {
	return &probe{session: s, status: reg, spokes: 8}
}

// beep returns the tone for this frame, zero when silent
type beep struct {
	freq float64
	dur  time.Duration
}

// update applies input to probe state and reports quit requests and tones
func (p *probe) update(in *input.Tracker, dt time.Duration) (quit bool, tone beep) {
	p.frames++
	p.phase += dt.Seconds()

	if in.WasJustPressed(input.KeyEscape) {
		return true, beep{}
	}
	if in.WasJustPressed(input.KeyM) {
		p.session.Muted = !p.session.Muted
	}
	if d := in.ScrollDelta(); d != 0 {
		p.spokes = min(max(p.spokes+d, minSpokes), maxSpokes)
	}
	if in.WasJustPressed(input.KeySpace) && !p.session.Muted {
		tone = beep{freq: 440, dur: 120 * time.Millisecond}
	}
	if in.WasJustPressed(input.KeyMouseLeft) && !p.session.Muted {
		tone = beep{freq: 220 + 20*float64(p.spokes), dur: 60 * time.Millisecond}
	}

	for k := input.Key(1); k < input.KeyCount; k++ {
		switch {
		case in.WasJustPressed(k):
			p.log(k.String() + " down")
		case in.WasJustReleased(k):
			p.log(k.String() + " up")
		}
	}
	return false, tone
}

func (p *probe) log(s string) {
	const maxEvents = 8
	if len(p.events) == maxEvents {
		copy(p.events, p.events[1:])
		p.events = p.events[:maxEvents-1]
	}
	p.events = append(p.events, s)
}

// draw renders one frame
func (p *probe) draw(fb *console.Framebuffer, in *input.Tracker, dt time.Duration) {
	w, h := fb.Width(), fb.Height()
	fb.Clear(console.Pixel{})

	fb.Fill(0, 0, w, 1, console.Char(console.White, console.DarkBlue, ' '))
	fb.DrawString(1, 0, console.White, console.DarkBlue, "conpix probe  Esc quit  Space beep  M mute  wheel spokes")

	p.drawSpectrum(fb, 1)
	p.drawFan(fb, in)

	var held []string
	for k := input.Key(1); k < input.KeyCount; k++ {
		if in.IsPressed(k) {
			held = append(held, k.String())
		}
	}
	fb.DrawString(1, 3, console.Yellow, console.Black, "held: "+strings.Join(held, " "))
	for i, e := range p.events {
		fb.DrawString(1, 4+i, console.Grey, console.Black, e)
	}

	p.drawStatus(fb)

	mute := ""
	if p.session.Muted {
		mute = "  muted"
	}
	status := fmt.Sprintf("mouse %d,%d  delta %+d,%+d  scroll %+d  spokes %d  frame %s  run %d%s",
		in.MouseX(), in.MouseY(), in.MouseDeltaX(), in.MouseDeltaY(), in.ScrollDelta(),
		p.spokes, dt.Round(time.Millisecond), p.session.Runs, mute)
	fb.Fill(0, h-1, w, 1, console.Char(console.Black, console.Grey, ' '))
	fb.DrawString(1, h-1, console.Black, console.Grey, status)
}

// drawSpectrum shades a scrolling hue band with the nearest palette pixels
func (p *probe) drawSpectrum(fb *console.Framebuffer, y int) {
	w := fb.Width()
	for x := range w {
		hue := math.Mod(float64(x)*360/float64(w)+p.phase*60, 360)
		r, g, b := colorful.Hsv(hue, 1, 0.9).RGB255()
		fb.Draw(x, y, console.NearestPixel(r, g, b))
	}
}

// drawFan draws spokes from the screen center, the first one toward the mouse
func (p *probe) drawFan(fb *console.Framebuffer, in *input.Tracker) {
	w, h := fb.Width(), fb.Height()
	cx, cy := w/2, h/2
	tx, ty := in.MouseX(), in.MouseY()

	base := math.Atan2(float64(ty-cy), float64(tx-cx))
	radius := math.Hypot(float64(w), float64(h))
	for i := range p.spokes {
		a := base + float64(i)*2*math.Pi/float64(p.spokes)
		x2 := cx + int(math.Round(radius*math.Cos(a)))
		y2 := cy + int(math.Round(radius*math.Sin(a)))
		color := console.Cyan
		if i == 0 {
			color = console.Red
			if in.IsPressed(input.KeyMouseLeft) {
				color = console.Yellow
			}
		}
		fb.DrawLine(cx, cy, x2, y2, console.Shade(color, console.Black, console.GlyphHalf))
	}
	fb.DrawLine(cx, cy, tx, ty, console.Solid(console.Red))
}

// drawStatus lists the registry values along the right edge
func (p *probe) drawStatus(fb *console.Framebuffer) {
	const panelWidth = 28
	x := fb.Width() - panelWidth
	if p.status == nil || x < 0 {
		return
	}
	for i, e := range p.status.Snapshot() {
		y := 3 + i
		if y >= fb.Height()-1 {
			break
		}
		fb.DrawString(x, y, console.Green, console.Black, fmt.Sprintf("%-18s %9s", e.Name, e.Value))
	}
}
