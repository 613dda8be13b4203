package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/conpix/config"
)

const logFileName = "conpix-probe.log"

// setupLogging sends the standard logger to a file under cfg.Dir when debug is on
// The terminal is in raw mode, so output otherwise goes to io.Discard
func setupLogging(cfg config.LogConfig) *os.File {
	if !cfg.Debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(cfg.Dir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > cfg.MaxSize {
		rotated := filepath.Join(cfg.Dir, fmt.Sprintf("conpix-probe-%s.log", time.Now().Format("20060102-150405")))
		os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("conpix-probe: logging started (pid %d)", os.Getpid())
	return f
}
