package backend

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/conpix/config"
	"github.com/lixenwraith/conpix/console"
	"github.com/lixenwraith/conpix/terminal"
)

// Open creates the backend named in cfg on the controlling terminal
func Open(cfg *config.Config) (console.Backend, error) {
	mode, err := cfg.ColorModeValue()
	if err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.BackendANSI:
		b, err := NewANSI(terminal.New(mode), cfg.HoldRelease.Duration)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.BackendTcell:
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("tcell backend: %w", err)
		}
		b, err := NewTcell(screen, TcellOptions{
			HoldTimeout: cfg.HoldRelease.Duration,
			TrueColor:   mode == terminal.ColorModeTrueColor,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
