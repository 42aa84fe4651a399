package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewLogger_CreatesDirAndLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	log, err := NewLogger(dir, "debug")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir missing: %v", err)
	}
	if !log.Core().Enabled(-1) { // debug
		t.Fatalf("debug level should be enabled")
	}

	log.Info("test_message_from_logging_test")

	// lumberjack opens the file on first write
	if _, err := os.Stat(filepath.Join(dir, "sslchecker.log")); err != nil {
		t.Fatalf("log file missing: %v", err)
	}
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	log, err := NewLogger(t.TempDir(), "loud")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if log.Core().Enabled(-1) || !log.Core().Enabled(0) {
		t.Fatalf("want info level")
	}
}

func TestNewStdout(t *testing.T) {
	if log := NewStdout("warn"); log.Core().Enabled(0) {
		t.Fatalf("info should be disabled at warn")
	}
}
