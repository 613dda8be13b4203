// Package config loads conpix settings from TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/conpix/archive"
	"github.com/lixenwraith/conpix/terminal"
)

// Backend names
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// MaxDimension caps width and height
const MaxDimension = 1000

// Duration is a time.Duration written as a string ("400ms") in TOML
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the complete settings tree
type Config struct {
	Width        int      `toml:"width"`
	Height       int      `toml:"height"`
	Title        string   `toml:"title"`
	Backend      string   `toml:"backend"`
	ColorMode    string   `toml:"color_mode"`
	HoldRelease  Duration `toml:"hold_release"`
	CloseTimeout Duration `toml:"close_timeout"`

	Archive ArchiveConfig `toml:"archive"`
	Log     LogConfig     `toml:"log"`
	Sound   SoundConfig   `toml:"sound"`
}

// ArchiveConfig locates the user data archive
type ArchiveConfig struct {
	App  string `toml:"app"`
	Dir  string `toml:"dir"` // empty selects the application data dir
	Name string `toml:"name"`
}

// LogConfig controls the debug log file
type LogConfig struct {
	Debug   bool   `toml:"debug"`
	Dir     string `toml:"dir"`
	MaxSize int64  `toml:"max_size"`
}

// SoundConfig toggles audio output
type SoundConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Width:        120,
		Height:       40,
		Title:        "conpix",
		Backend:      BackendANSI,
		ColorMode:    "auto",
		HoldRelease:  Duration{400 * time.Millisecond},
		CloseTimeout: Duration{5 * time.Second},
		Archive: ArchiveConfig{
			App:  "conpix",
			Name: "userdata",
		},
		Log: LogConfig{
			Dir:     "logs",
			MaxSize: 10 * 1024 * 1024,
		},
		Sound: SoundConfig{Enabled: true},
	}
}

// Load reads path over the defaults; a missing file yields the defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and names
func (c *Config) Validate() error {
	var errs []error

	if c.Width <= 0 || c.Width > MaxDimension || c.Height <= 0 || c.Height > MaxDimension {
		errs = append(errs, fmt.Errorf("size %dx%d out of range 1..%d", c.Width, c.Height, MaxDimension))
	}
	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if _, err := terminal.ParseColorMode(c.ColorMode); err != nil {
		errs = append(errs, err)
	}
	if c.HoldRelease.Duration <= 0 {
		errs = append(errs, fmt.Errorf("hold_release must be positive"))
	}
	if c.CloseTimeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("close_timeout must be positive"))
	}
	if c.Archive.Name == "" || strings.ContainsAny(c.Archive.Name, `/\`) {
		errs = append(errs, fmt.Errorf("archive name %q must be a plain file name", c.Archive.Name))
	}
	if c.Archive.Dir == "" && c.Archive.App == "" {
		errs = append(errs, fmt.Errorf("archive needs app or dir"))
	}
	if c.Log.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("log max_size must be positive"))
	}

	return errors.Join(errs...)
}

// ColorModeValue resolves the color_mode setting
func (c *Config) ColorModeValue() (terminal.ColorMode, error) {
	return terminal.ParseColorMode(c.ColorMode)
}

// OpenArchive opens the configured archive, resolving the data dir when none is set
func (c *Config) OpenArchive() (*archive.Archive, error) {
	dir := c.Archive.Dir
	if dir == "" {
		d, err := archive.DataDir(c.Archive.App)
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return archive.Open(dir, c.Archive.Name), nil
}

// Write encodes the configuration as TOML
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Save writes the configuration to path
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config save: %w", err)
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("config save: %w", err)
	}
	return f.Close()
}
