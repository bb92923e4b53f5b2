package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	previous := GetLogger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(previous) })
	return logs
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"loud", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitialize_SilentWithoutLevel(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	previous := GetLogger()
	t.Cleanup(func() { SetLogger(previous) })

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be silent when no level is configured")
	}
}

func TestInitialize_FromEnvToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webnetesctl.log")
	t.Setenv(LogLevelEnvVar, "warn")
	t.Setenv(LogFileEnvVar, path)
	previous := GetLogger()
	t.Cleanup(func() { SetLogger(previous) })

	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	if !GetLogger().Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
	if GetLogger().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
}

func TestLogLookup(t *testing.T) {
	logs := observe(t)

	LogLookup("public_address", "failed", zap.Error(errors.New("timeout")))
	LogLookup("reverse_geocode", "resolved")

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("failed lookup level = %v, want warn", entries[0].Level)
	}
	if entries[1].Level != zapcore.DebugLevel {
		t.Errorf("successful lookup level = %v, want debug", entries[1].Level)
	}
	if entries[0].ContextMap()["source"] != "public_address" {
		t.Errorf("source field = %v", entries[0].ContextMap()["source"])
	}
}

func TestLogApply(t *testing.T) {
	logs := observe(t)

	LogApply("file:/tmp/node.yaml", "abc123", nil)
	LogApply("socket:ws://node/control", "abc123", errors.New("refused"))

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("levels = %v, %v; want info, error", entries[0].Level, entries[1].Level)
	}
	if entries[1].ContextMap()["digest"] != "abc123" {
		t.Errorf("digest field = %v", entries[1].ContextMap()["digest"])
	}
}

func TestLogDraft(t *testing.T) {
	logs := observe(t)

	LogDraft("discarded", "ffee00", zap.Bool("dropped_edits", true))

	entries := logs.FilterField(zap.String("event", "discarded")).AllUntimed()
	if len(entries) != 1 {
		t.Fatalf("got %d discarded entries, want 1", len(entries))
	}
	if entries[0].ContextMap()["dropped_edits"] != true {
		t.Error("extra fields should be carried through")
	}
}

func TestInitializeFile(t *testing.T) {
	tests := []struct {
		name    string
		envFile bool
	}{
		{name: "default path"},
		{name: "env wins", envFile: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			defaultPath := filepath.Join(dir, "panel.log")
			envPath := filepath.Join(dir, "env.log")
			t.Setenv(LogFileEnvVar, "")
			if tt.envFile {
				t.Setenv(LogFileEnvVar, envPath)
			}
			previous := GetLogger()
			t.Cleanup(func() { SetLogger(previous) })

			if err := InitializeFile("info", defaultPath); err != nil {
				t.Fatalf("InitializeFile() error = %v", err)
			}
			Info("panel started")
			Sync()

			want, other := defaultPath, envPath
			if tt.envFile {
				want, other = envPath, defaultPath
			}
			data, err := os.ReadFile(want)
			if err != nil {
				t.Fatalf("log file not written: %v", err)
			}
			if !strings.Contains(string(data), "panel started") {
				t.Errorf("log file = %q", data)
			}
			if _, err := os.Stat(other); err == nil {
				t.Errorf("%s should not have been written", other)
			}
		})
	}
}

func TestConcurrentUse(t *testing.T) {
	previous := GetLogger()
	t.Cleanup(func() { SetLogger(previous) })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			LogLookup("public_address", "resolved")
		}()
		go func() {
			defer wg.Done()
			SetLogger(zap.NewNop())
		}()
	}
	wg.Wait()
}
