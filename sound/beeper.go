package sound

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the speaker output rate
const SampleRate = beep.SampleRate(48000)

// Beeper mixes tones into the speaker; it stays silent until Init succeeds
type Beeper struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewBeeper creates a beeper at linear volume (0..1)
func NewBeeper(volume float64) *Beeper {
	return &Beeper{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Init opens the audio device, on failure the beeper remains silent
func (b *Beeper) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		log.Printf("sound: speaker unavailable: %v", err)
		return fmt.Errorf("sound init: %w", err)
	}
	speaker.Play(b.mixer)
	b.initialized = true
	return nil
}

// Enabled reports whether tones reach the device
func (b *Beeper) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

// Beep queues a tone and returns immediately
func (b *Beeper) Beep(freq float64, d time.Duration) {
	if freq <= 0 || d <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	tone := withVolume(Tone(freq, d, SampleRate), b.volume)
	speaker.Lock()
	b.mixer.Add(tone)
	speaker.Unlock()
}

// Close stops playback and releases the device
func (b *Beeper) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	b.initialized = false
}
