package sound

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestToneLength(t *testing.T) {
	rate := beep.SampleRate(8000)
	samples := drain(Tone(440, 100*time.Millisecond, rate))
	if len(samples) != rate.N(100*time.Millisecond) {
		t.Errorf("Expected %d samples, got %d", rate.N(100*time.Millisecond), len(samples))
	}
}

func TestToneEnvelope(t *testing.T) {
	rate := beep.SampleRate(8000)
	samples := drain(Tone(440, 200*time.Millisecond, rate))

	if samples[0][0] != 0 {
		t.Errorf("Expected silent first sample, got %v", samples[0][0])
	}
	last := samples[len(samples)-1][0]
	if math.Abs(last) > 0.01 {
		t.Errorf("Expected faded last sample, got %v", last)
	}

	peak := 0.0
	for _, s := range samples {
		if s[0] != s[1] {
			t.Fatal("Expected identical channels")
		}
		peak = math.Max(peak, math.Abs(s[0]))
	}
	if peak < 0.9 || peak > 1.0 {
		t.Errorf("Expected peak near 1, got %v", peak)
	}
}

func TestSquareOscillator(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := newOscillator(250, 16*time.Millisecond, WaveSquare, rate)
	samples := drain(osc)
	want := []float64{1, 1, -1, -1}
	for i, s := range samples {
		if s[0] != want[i%4] {
			t.Fatalf("Sample %d: expected %v, got %v", i, want[i%4], s[0])
		}
	}
}

func TestVolume(t *testing.T) {
	rate := beep.SampleRate(8000)
	loud := drain(Tone(300, 50*time.Millisecond, rate))
	quiet := drain(withVolume(Tone(300, 50*time.Millisecond, rate), 0.5))
	if len(loud) != len(quiet) {
		t.Fatalf("Expected equal length, got %d and %d", len(loud), len(quiet))
	}
	for i := range loud {
		if math.Abs(quiet[i][0]-loud[i][0]*0.5) > 1e-9 {
			t.Fatalf("Sample %d: expected half amplitude", i)
		}
	}

	for _, s := range drain(withVolume(Tone(300, 10*time.Millisecond, rate), 0)) {
		if s[0] != 0 {
			t.Fatal("Expected silence at zero volume")
		}
	}
}

func TestBeeperSilentWithoutInit(t *testing.T) {
	b := NewBeeper(0.3)
	if b.Enabled() {
		t.Error("Expected disabled before Init")
	}
	b.Beep(440, 10*time.Millisecond)
	b.Close()
}
