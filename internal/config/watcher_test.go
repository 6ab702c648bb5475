package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/keyladder/internal/config"
	"github.com/dshills/keyladder/internal/logging"
)

const watcherConfig = `
debounce_ms = 250

[[path]]
name = "primary"
key = "Esc"
ladder = ["smart_close"]
`

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func startWatcher(t *testing.T, path string) (*config.Watcher, chan *config.Config) {
	t.Helper()

	reloads := make(chan *config.Config, 8)
	w, err := config.NewWatcher(path, func(cfg *config.Config) {
		reloads <- cfg
	}, logging.NullLogger, config.WithReloadDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, reloads
}

func awaitReload(t *testing.T, reloads chan *config.Config) *config.Config {
	t.Helper()
	select {
	case cfg := <-reloads:
		return cfg
	case <-time.After(2 * time.Second):
		t.Fatal("no reload delivered")
		return nil
	}
}

func TestWatcherDeliversValidReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyladder.toml")
	writeFile(t, path, watcherConfig)

	_, reloads := startWatcher(t, path)

	writeFile(t, path, `
debounce_ms = 750

[[path]]
name = "primary"
key = "Esc"
ladder = ["smart_close", "save"]
`)

	cfg := awaitReload(t, reloads)
	if cfg.DebounceMS != 750 {
		t.Errorf("reloaded DebounceMS = %d, want 750", cfg.DebounceMS)
	}
	if len(cfg.Paths) != 1 || len(cfg.Paths[0].Ladder) != 2 {
		t.Errorf("reloaded paths = %+v, want one path with two rungs", cfg.Paths)
	}
}

func TestWatcherDropsInvalidReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyladder.toml")
	writeFile(t, path, watcherConfig)

	_, reloads := startWatcher(t, path)

	// A file that parses but fails validation must not be delivered.
	writeFile(t, path, `
[[path]]
name = ""
ladder = []
`)

	select {
	case cfg := <-reloads:
		t.Errorf("invalid configuration delivered: %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}

	// A subsequent valid write still comes through.
	writeFile(t, path, watcherConfig)
	cfg := awaitReload(t, reloads)
	if cfg.DebounceMS != 250 {
		t.Errorf("DebounceMS = %d, want 250", cfg.DebounceMS)
	}
}

func TestWatcherPicksUpCreatedFile(t *testing.T) {
	// The watcher watches the directory, so a file that does not exist
	// yet is picked up when it appears.
	path := filepath.Join(t.TempDir(), "keyladder.toml")

	_, reloads := startWatcher(t, path)

	writeFile(t, path, watcherConfig)
	cfg := awaitReload(t, reloads)
	if cfg.DebounceMS != 250 {
		t.Errorf("DebounceMS = %d, want 250", cfg.DebounceMS)
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keyladder.toml")
	writeFile(t, path, watcherConfig)

	_, reloads := startWatcher(t, path)

	writeFile(t, filepath.Join(dir, "other.toml"), "whatever = 1\n")

	select {
	case <-reloads:
		t.Error("sibling file write triggered a reload")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyladder.toml")
	writeFile(t, path, watcherConfig)

	w, _ := startWatcher(t, path)
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
