package main

import (
	"errors"
	"log"
	"time"

	"github.com/lixenwraith/conpix/archive"
)

const sessionKey = "probe.session"

// session is the persisted run history of the probe
type session struct {
	Runs     int64
	Frames   int64
	LastRun  time.Time
	Muted    bool
	BestFPS  float64
	Terminal string
}

func (s *session) MarshalRecord(r *archive.Record) {
	r.SetInt("runs", s.Runs).
		SetInt("frames", s.Frames).
		SetString("last_run", s.LastRun.UTC().Format(time.RFC3339)).
		SetBool("muted", s.Muted).
		SetFloat("best_fps", s.BestFPS).
		SetString("terminal", s.Terminal)
}

func (s *session) UnmarshalRecord(r *archive.Record) error {
	s.Runs, _ = r.GetInt("runs")
	s.Frames, _ = r.GetInt("frames")
	s.Muted, _ = r.GetBool("muted")
	s.BestFPS, _ = r.GetFloat("best_fps")
	s.Terminal, _ = r.GetString("terminal")
	if v, ok := r.GetString("last_run"); ok {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return err
		}
		s.LastRun = t
	}
	return nil
}

// loadSession reads the previous session, a missing record starts fresh
func loadSession(a *archive.Archive) *session {
	s := &session{}
	if err := archive.Load(a, sessionKey, s); err != nil && !errors.Is(err, archive.ErrNotFound) {
		log.Printf("probe: session unreadable, starting fresh: %v", err)
		*s = session{}
	}
	return s
}
