// Package archive persists small string settings in a flat key=value file.
//
// Each record is one line; the first '=' splits key and value and
// surrounding whitespace is trimmed. Lines without '=' are kept but ignored.
package archive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Separator splits key from value on each line
const Separator = "="

// Extension is appended to archive names
const Extension = ".archive"

// Stats counts file operations
type Stats struct {
	Loads    int
	Appends  int
	Rewrites int
}

// Archive is a cached view of one key=value file
type Archive struct {
	path string

	mu      sync.Mutex
	cache   map[string]string
	loaded  bool
	lastErr error
	stats   Stats
}

// New creates an archive at path; the file is read on first access
func New(path string) *Archive {
	return &Archive{
		path:  path,
		cache: make(map[string]string),
	}
}

// Open creates an archive named name inside dir
func Open(dir, name string) *Archive {
	return New(filepath.Join(dir, name+Extension))
}

// DataDir returns the per-application data directory
// $XDG_DATA_HOME/app when set, otherwise the user config directory
func DataDir(app string) (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, app), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("data dir: %w", err)
	}
	return filepath.Join(base, app), nil
}

// Path returns the file location
func (a *Archive) Path() string {
	return a.path
}

// Get returns the value for key, rereading the file once on a miss
func (a *Archive) Get(key string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key = normalizeKey(key)

	fresh := false
	if !a.loaded {
		if a.load() != nil {
			return "", false
		}
		fresh = true
	}
	if v, ok := a.cache[key]; ok {
		return v, true
	}
	if fresh {
		return "", false
	}
	if a.load() != nil {
		return "", false
	}
	v, ok := a.cache[key]
	return v, ok
}

// Set stores value under key; an unchanged value causes no write
// Returns false when the file could not be read or written, see LastError
func (a *Archive) Set(key, value string) bool {
	// Stored as the file will read back
	key = normalizeKey(key)
	value = strings.TrimSpace(SanitizeValue(value))

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.load(); err != nil {
		return false
	}

	old, exists := a.cache[key]
	switch {
	case !exists:
		if err := a.appendLine(key, value); err != nil {
			return a.fail(err)
		}
		a.stats.Appends++
	case old != value:
		if err := a.rewrite(key, value); err != nil {
			return a.fail(err)
		}
		a.stats.Rewrites++
	default:
		return true
	}
	a.cache[key] = value
	return true
}

// GetAll returns a copy of every record, rereading the file first when reload is set
func (a *Archive) GetAll(reload bool) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	// A failed read leaves the previous snapshot, the error is kept for LastError
	if reload || !a.loaded {
		a.load()
	}
	out := make(map[string]string, len(a.cache))
	for k, v := range a.cache {
		out[k] = v
	}
	return out
}

// LastError returns the most recent I/O error, nil after a successful operation
func (a *Archive) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Stats returns operation counters
func (a *Archive) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// SanitizeKey makes key storable: '=' becomes '-', line breaks become spaces
func SanitizeKey(key string) string {
	return strings.ReplaceAll(SanitizeValue(key), Separator, "-")
}

// SanitizeValue replaces line breaks with spaces
func SanitizeValue(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(value)
}

// normalizeKey is the form a key takes on disk
func normalizeKey(key string) string {
	return strings.TrimSpace(SanitizeKey(key))
}

// eachLine calls fn for every line of r without its line ending
// Lines have no length limit
func eachLine(r io.Reader, fn func(line string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			fn(strings.TrimSuffix(line, "\r"))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// parseLine splits a record line, ok is false for lines without a separator
func parseLine(line string) (key, value string, ok bool) {
	i := strings.Index(line, Separator)
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+len(Separator):]), true
}

func (a *Archive) fail(err error) bool {
	a.lastErr = err
	log.Printf("archive %s: %v", a.path, err)
	return false
}

// load replaces the cache with the file content, a missing file is an empty archive
func (a *Archive) load() error {
	f, err := os.Open(a.path)
	if errors.Is(err, fs.ErrNotExist) {
		clear(a.cache)
		a.loaded = true
		a.lastErr = nil
		return nil
	}
	if err != nil {
		a.fail(fmt.Errorf("load: %w", err))
		return err
	}
	defer f.Close()

	cache := make(map[string]string, len(a.cache))
	err = eachLine(f, func(line string) {
		if k, v, ok := parseLine(line); ok {
			cache[k] = v
		}
	})
	if err != nil {
		a.fail(fmt.Errorf("load: %w", err))
		return err
	}

	a.cache = cache
	a.loaded = true
	a.lastErr = nil
	a.stats.Loads++
	return nil
}

// appendLine adds one record at the end of the file
func (a *Archive) appendLine(key, value string) error {
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	f, err := os.OpenFile(a.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	defer f.Close()

	prefix := ""
	if info, err := f.Stat(); err == nil && info.Size() > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, info.Size()-1); err == nil && last[0] != '\n' {
			prefix = "\n"
		}
	}
	if _, err := f.WriteString(prefix + key + Separator + value + "\n"); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	return nil
}

// rewrite copies the file to a temporary sibling with the key's lines replaced, then swaps it in
func (a *Archive) rewrite(key, value string) error {
	src, err := os.Open(a.path)
	if err != nil {
		return fmt.Errorf("rewrite: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(a.path), filepath.Base(a.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("rewrite: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	tmp.Chmod(0o644)

	w := bufio.NewWriter(tmp)
	err = eachLine(src, func(line string) {
		if k, _, ok := parseLine(line); ok && k == key {
			line = key + Separator + value
		}
		w.WriteString(line)
		w.WriteByte('\n')
	})
	if err != nil {
		tmp.Close()
		return fmt.Errorf("rewrite: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("rewrite: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("rewrite: %w", err)
	}
	src.Close()

	if err := os.Rename(tmpName, a.path); err != nil {
		return fmt.Errorf("rewrite: %w", err)
	}
	return nil
}
