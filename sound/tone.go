// Package sound plays short console beeps.
package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave selects the oscillator shape
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
)

const (
	toneAttack  = 5 * time.Millisecond
	toneRelease = 20 * time.Millisecond
)

// oscillator generates a fixed-length periodic wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     Wave
	rate     beep.SampleRate
}

func newOscillator(freq float64, duration time.Duration, wave Wave, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		default:
			val = math.Sin(2 * math.Pi * o.phase)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope ramps the stream in and out to avoid clicks
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) *envelope {
	total := rate.N(duration)
	att := min(rate.N(attack), total/2)
	rel := min(rate.N(release), total-att)
	return &envelope{streamer: s, attack: att, release: rel, total: total}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.total - e.release
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		} else if e.position >= releaseStart && e.release > 0 {
			vol = float64(e.total-e.position) / float64(e.release)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// Tone returns an enveloped sine of freq Hz lasting d
func Tone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return newEnvelope(newOscillator(freq, d, WaveSine, rate), d, toneAttack, toneRelease, rate)
}

// withVolume scales s linearly, 0 or less is silent
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
