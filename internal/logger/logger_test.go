package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerServiceWritesToFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewLoggerService(map[string]interface{}{"folder_path": dir, "level": "debug"})
	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	l := L()
	l.Info().Str("run_id", "abc").Msg("file sink check")
	Audit("audit channel check")
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var logFile string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".log" {
			logFile = filepath.Join(dir, e.Name())
		}
	}
	if logFile == "" {
		t.Fatal("no log file created")
	}
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "file sink check") {
		t.Error("log file is missing the info event")
	}
	if !strings.Contains(string(data), `"channel":"audit"`) {
		t.Error("log file is missing the audit event")
	}
}

func TestCapturedLoggerReachesFileSink(t *testing.T) {
	captured := L()

	dir := t.TempDir()
	svc := NewLoggerService(map[string]interface{}{"folder_path": dir})
	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	captured.Info().Msg("captured before start")
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	found := false
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".log" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if strings.Contains(string(data), "captured before start") {
			found = true
		}
	}
	if !found {
		t.Error("event from a logger captured before Start missed the file sink")
	}
}

func TestInitLevelFallback(t *testing.T) {
	Init("nonsense")
	if got := L().GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("level after bad name = %v, want info", got)
	}
	Init("warn")
	if got := L().GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", got)
	}
	Init("info")
}

func TestIntOption(t *testing.T) {
	cfg := map[string]interface{}{"a": 3, "b": 4.0}
	if got := intOption(cfg, "a"); got != 3 {
		t.Errorf("int option = %d, want 3", got)
	}
	if got := intOption(cfg, "b"); got != 4 {
		t.Errorf("float option = %d, want 4", got)
	}
	if got := intOption(cfg, "missing"); got != 0 {
		t.Errorf("missing option = %d, want 0", got)
	}
}
