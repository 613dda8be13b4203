package backend

import (
	"strings"
	"testing"

	"github.com/lixenwraith/conpix/config"
)

func TestOpenRejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "sdl"
	if _, err := Open(cfg); err == nil || !strings.Contains(err.Error(), "sdl") {
		t.Errorf("Expected unknown backend error, got %v", err)
	}

	cfg = config.Default()
	cfg.ColorMode = "sepia"
	if _, err := Open(cfg); err == nil {
		t.Error("Expected color mode error")
	}
}
