package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/conpix/config"
)

func testLogConfig(t *testing.T) config.LogConfig {
	t.Helper()
	return config.LogConfig{
		Debug:   true,
		Dir:     filepath.Join(t.TempDir(), "logs"),
		MaxSize: 1024,
	}
}

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	logFile := setupLogging(config.Default().Log)
	if logFile != nil {
		t.Error("Expected nil log file when debug=false")
		logFile.Close()
	}

	if output := log.Writer(); output != io.Discard {
		t.Errorf("Expected log output to be io.Discard, got %v", output)
	}
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	defer log.SetOutput(os.Stderr)
	cfg := testLogConfig(t)

	logFile := setupLogging(cfg)
	if logFile == nil {
		t.Fatal("Expected non-nil log file when debug=true")
	}
	defer logFile.Close()

	log.Println("Test log message")

	logPath := filepath.Join(cfg.Dir, logFileName)
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}

	output := log.Writer()
	if output == os.Stdout || output == os.Stderr {
		t.Error("Log output should not be stdout or stderr")
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	defer log.SetOutput(os.Stderr)
	cfg := testLogConfig(t)

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		t.Fatalf("Failed to create logs directory: %v", err)
	}
	logPath := filepath.Join(cfg.Dir, logFileName)
	if err := os.WriteFile(logPath, make([]byte, cfg.MaxSize+1), 0644); err != nil {
		t.Fatalf("Failed to write log file: %v", err)
	}

	logFile := setupLogging(cfg)
	if logFile == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer logFile.Close()

	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != logFileName && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
		}
	}
	if !rotatedFound {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > cfg.MaxSize {
		t.Errorf("Expected new log file smaller than %d bytes, got %d", cfg.MaxSize, info.Size())
	}
}
