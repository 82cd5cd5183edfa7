package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitChange(t *testing.T, w *Watcher) *Config {
	t.Helper()
	select {
	case cfg := <-w.Changes:
		return cfg
	case err := <-w.Errors:
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
	return nil
}

func TestWatch_Reloads(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "tilegrid.yaml")
	if err := os.WriteFile(configPath, []byte("pathfinding:\n  requests: 5\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	w, err := Watch(configPath)
	if err != nil {
		t.Fatalf("failed to watch config: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(configPath, []byte("pathfinding:\n  requests: 9\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite test config: %v", err)
	}

	cfg := waitChange(t, w)
	if cfg.Pathfinding.Requests != 9 {
		t.Errorf("expected 9 requests after reload, got %d", cfg.Pathfinding.Requests)
	}
	if cfg.Pathfinding.StepBudget != 4096 {
		t.Errorf("expected defaults to survive reload, got step budget %d", cfg.Pathfinding.StepBudget)
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "tilegrid.yaml")
	if err := os.WriteFile(configPath, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	w, err := Watch(configPath)
	if err != nil {
		t.Fatalf("failed to watch config: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write sibling file: %v", err)
	}

	select {
	case cfg := <-w.Changes:
		t.Errorf("unexpected reload: %+v", cfg)
	case <-time.After(4 * watchDebounce):
	}
}

func TestWatch_ReportsInvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "tilegrid.yaml")
	if err := os.WriteFile(configPath, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	w, err := Watch(configPath)
	if err != nil {
		t.Fatalf("failed to watch config: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(configPath, []byte("tilemap:\n  topology: triangle\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite test config: %v", err)
	}

	select {
	case err := <-w.Errors:
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	case cfg := <-w.Changes:
		t.Errorf("expected an error, got config %+v", cfg)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch error")
	}
}

func TestWatcher_CloseClosesChannels(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "tilegrid.yaml")
	if err := os.WriteFile(configPath, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	w, err := Watch(configPath)
	if err != nil {
		t.Fatalf("failed to watch config: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
	if _, ok := <-w.Changes; ok {
		t.Error("expected Changes to be closed")
	}
	if _, ok := <-w.Errors; ok {
		t.Error("expected Errors to be closed")
	}
}

func TestWatch_MissingDir(t *testing.T) {
	if _, err := Watch("/nonexistent/dir/tilegrid.yaml"); err == nil {
		t.Error("expected error watching a missing directory")
	}
}
