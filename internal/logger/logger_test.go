package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fileLogger points the global logger at a fresh file and returns a reader
// for its contents.
func fileLogger(t *testing.T, lvl string, cfg FileConfig) func() string {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = filepath.Join(t.TempDir(), "tilegrid.log")
	}
	if err := InitWithFileConfig(lvl, cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return func() string {
		Sync()
		content, err := os.ReadFile(cfg.Path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		return string(content)
	}
}

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	fileLogger(t, "debug", FileConfig{
		Path:       filepath.Join(dir, "queue.log"),
		MaxSizeMB:  1, // Smallest size lumberjack allows
		MaxBackups: 2,
		MaxAgeDays: 1,
	})

	// ~250 bytes per entry, well past 1MB in total
	padding := strings.Repeat("x", 200)
	for i := range 15000 {
		Sugar.Infof("path request %d finished: %s", i, padding)
	}
	Sync()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read log dir: %v", err)
	}

	var rotated []string
	sawCurrent := false
	for _, e := range entries {
		switch {
		case e.Name() == "queue.log":
			sawCurrent = true
		case strings.HasPrefix(e.Name(), "queue-") && strings.HasSuffix(e.Name(), ".log"):
			rotated = append(rotated, e.Name())
		}
	}

	if !sawCurrent {
		t.Error("current log file missing after rotation")
	}
	if len(rotated) == 0 {
		t.Fatal("no rotated log files found")
	}
	for _, name := range rotated {
		// queue-YYYY-MM-DDTHH-MM-SS.SSS.log
		if !strings.Contains(name, "-20") {
			t.Errorf("rotated file %s has no timestamp", name)
		}
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level string
		shown []string
		quiet []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
		{"bogus", []string{"INFO"}, []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			read := fileLogger(t, tt.level, FileConfig{MaxSizeMB: 10})

			Debug("expanding nodes")
			Info("grid ready")
			Warn("path request failed")
			Error("pathfinding failed")

			content := read()
			for _, lvl := range tt.shown {
				if !strings.Contains(content, lvl) {
					t.Errorf("expected %s entries at level %s", lvl, tt.level)
				}
			}
			for _, lvl := range tt.quiet {
				if strings.Contains(content, lvl) {
					t.Errorf("unexpected %s entries at level %s", lvl, tt.level)
				}
			}
		})
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("tilegrid.log")

	if cfg.Path != "tilegrid.log" {
		t.Errorf("expected path tilegrid.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 50 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 7 {
		t.Errorf("unexpected rotation limits: %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("expected rotated files to be compressed")
	}
}

func TestSetLevel(t *testing.T) {
	read := fileLogger(t, "error", FileConfig{MaxSizeMB: 1})

	Info("hidden message")
	SetLevel("debug")
	Debug("visible message")

	content := read()
	if strings.Contains(content, "hidden message") {
		t.Error("info entry logged at error level")
	}
	if !strings.Contains(content, "visible message") {
		t.Error("debug entry missing after SetLevel")
	}
}

func TestNamed(t *testing.T) {
	read := fileLogger(t, "info", FileConfig{MaxSizeMB: 1})

	Named("queue").Info("tick", zap.Duration("elapsed", 1500*time.Millisecond))

	content := read()
	if !strings.Contains(content, "queue") {
		t.Errorf("expected logger name in output, got %q", content)
	}
	if !strings.Contains(content, "1.5s") {
		t.Errorf("expected durations encoded as strings, got %q", content)
	}
}

func TestInitConsoleOnly(t *testing.T) {
	if err := Init("warn", ""); err != nil {
		t.Fatalf("failed to init console logger: %v", err)
	}
	if Log.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !Log.Core().Enabled(zap.WarnLevel) {
		t.Error("warn should be enabled at warn level")
	}
}
