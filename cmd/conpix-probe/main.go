package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/lixenwraith/conpix/archive"
	"github.com/lixenwraith/conpix/backend"
	"github.com/lixenwraith/conpix/config"
	"github.com/lixenwraith/conpix/console"
	"github.com/lixenwraith/conpix/sound"
	"github.com/lixenwraith/conpix/status"
	"github.com/lixenwraith/conpix/terminal"
)

const frameInterval = 16 * time.Millisecond

var (
	configFlag  = flag.String("config", "conpix.toml", "TOML settings file")
	backendFlag = flag.String("backend", "", "Display backend: ansi, tcell")
	colorFlag   = flag.String("color", "", "Color mode: auto, 16, 256, truecolor")
	widthFlag   = flag.Int("width", 0, "Console width in cells")
	heightFlag  = flag.Int("height", 0, "Console height in cells")
	debugFlag   = flag.Bool("debug", false, "Write a debug log")
	muteFlag    = flag.Bool("mute", false, "Disable sound")
	dumpFlag    = flag.Bool("dump-config", false, "Print the effective settings and exit")
)

func main() {
	// Panic recovery: the terminal must leave raw mode before the trace is printed
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mCONPIX-PROBE CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()
	os.Exit(run())
}

// applyFlags overrides file settings with the flags given on the command line
func applyFlags(cfg *config.Config) error {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backendFlag
		case "color":
			cfg.ColorMode = *colorFlag
		case "width":
			cfg.Width = *widthFlag
		case "height":
			cfg.Height = *heightFlag
		case "debug":
			cfg.Log.Debug = *debugFlag
		case "mute":
			cfg.Sound.Enabled = !*muteFlag
		}
	})
	return cfg.Validate()
}

func run() int {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conpix-probe: %v\n", err)
		return 1
	}
	if err := applyFlags(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "conpix-probe: %v\n", err)
		return 1
	}
	if *dumpFlag {
		if err := cfg.Write(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "conpix-probe: %v\n", err)
			return 1
		}
		return 0
	}

	if f := setupLogging(cfg.Log); f != nil {
		defer f.Close()
	}

	sig := console.NewCloseSignal(cfg.CloseTimeout.Duration)
	sig.NotifySignals()
	reporter := console.NewReporter(sig)

	be, err := backend.Open(cfg)
	if err != nil {
		sig.Stop()
		reporter.Report(err)
		return 1
	}

	reg := status.NewRegistry()
	reg.Label("backend").Set(cfg.Backend)
	reg.Label("color").Set(cfg.ColorMode)

	opts := console.Options{
		Status:   reg,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Title:    cfg.Title,
		Signal:   sig,
		Reporter: reporter,
	}
	if cfg.Sound.Enabled {
		beeper := sound.NewBeeper(0.3)
		if err := beeper.Init(); err == nil {
			defer beeper.Close()
			opts.Beeper = beeper
		}
	}

	con, err := console.New(be, opts)
	if err != nil {
		be.Close()
		sig.Stop()
		reporter.Report(err)
		return 1
	}
	defer con.Close()

	arc, err := cfg.OpenArchive()
	if err != nil {
		con.Report(err)
		return 1
	}
	sess := loadSession(arc)
	sess.Runs++
	sess.LastRun = time.Now()
	sess.Terminal = os.Getenv("TERM")

	st := arc.Stats()
	reg.Counter("archive.loads").Store(int64(st.Loads))
	reg.Label("archive").Set(arc.Path())

	p := newProbe(sess, reg)
	if err := loop(con, p); err != nil {
		return 1
	}

	sess.Frames += p.frames
	if err := archive.Save(arc, sessionKey, sess); err != nil {
		log.Printf("probe: %v", err)
	}
	return 0
}

// loop runs poll, draw and blit until close is requested
func loop(con *console.Console, p *probe) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for !con.ShouldClose() {
		con.PollInputs()

		quit, tone := p.update(con.Input(), con.DeltaTime())
		if quit {
			con.RequestClose()
			break
		}
		if tone.freq > 0 {
			con.Beep(tone.freq, tone.dur)
		}

		p.draw(con.Framebuffer(), con.Input(), con.DeltaTime())
		if err := con.Blit(); err != nil {
			return err
		}
		if d := con.DeltaTime(); d > 0 {
			if fps := float64(time.Second) / float64(d); fps > p.session.BestFPS {
				p.session.BestFPS = fps
			}
		}

		select {
		case <-ticker.C:
		case <-con.Signal().Done():
		}
	}
	return nil
}
