package log

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"Warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for input, want := range tests {
		assert.Equal(t, want, parseLevel(input), "input %q", input)
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv(EnvLevel, "")
		t.Setenv(EnvFormat, "")
		t.Setenv(EnvOutput, "")
		t.Setenv(EnvMode, "")

		cfg := NewConfigFromEnv()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "console", cfg.Format)
		assert.Empty(t, cfg.filePath())
		assert.False(t, cfg.AddSource)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv(EnvLevel, "warn")
		t.Setenv(EnvFormat, "json")
		t.Setenv(EnvAddSource, "true")
		t.Setenv(EnvMode, "")

		cfg := NewConfigFromEnv()
		assert.Equal(t, "warn", cfg.Level)
		assert.Equal(t, "json", cfg.Format)
		assert.True(t, cfg.AddSource)
	})

	t.Run("development forces debug", func(t *testing.T) {
		t.Setenv(EnvLevel, "error")
		t.Setenv(EnvFormat, "json")
		t.Setenv(EnvMode, "Development")

		cfg := NewConfigFromEnv()
		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, "console", cfg.Format)
		assert.True(t, cfg.AddSource)
	})

	t.Run("bad bool keeps default", func(t *testing.T) {
		t.Setenv(EnvAddSource, "sometimes")
		t.Setenv(EnvMode, "")
		assert.False(t, NewConfigFromEnv().AddSource)
	})
}

func TestConfigFilePath(t *testing.T) {
	t.Setenv("LOCALAPPDATA", filepath.Join("C:", "Users", "cam", "AppData", "Local"))

	assert.Empty(t, (&Config{Output: "stdout"}).filePath())
	assert.Equal(t, "/var/log/estlcameo.log", (&Config{Output: "file:/var/log/estlcameo.log"}).filePath())
	assert.Equal(t,
		filepath.Join("C:", "Users", "cam", "AppData", "Local", "EstlCameo", "EstlCameo.log"),
		(&Config{Output: "FILE"}).filePath(),
	)
}

func TestInit_DebugMode(t *testing.T) {
	defer Init(&Config{Level: "info", Format: "console", Output: "stdout"})

	Init(&Config{Level: "debug", Output: "stdout"})
	assert.True(t, IsDebugMode())

	Init(&Config{Level: "info", Output: "stdout"})
	assert.False(t, IsDebugMode())
	assert.NotNil(t, GetLogger())
}

func TestInit_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "estlcameo.log")
	defer Init(&Config{Level: "info", Format: "console", Output: "stdout"})

	Init(&Config{Level: "info", Format: "json", Output: "file:" + path})
	NewModuleLogger("snapshot", "store").Info("Snapshot created", "snapshot", "20240101_120000.e12")
	With("pid", 42).Debug("below level")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"Snapshot created"`)
	assert.Contains(t, out, `"service":"`+ServiceName+`"`)
	assert.Contains(t, out, `"module":"snapshot"`)
	assert.Contains(t, out, `"component":"store"`)
	assert.NotContains(t, out, "below level")
}

func TestLogCtxFromContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithProjectPath(ctx, `C:\cam\part.e12`)
	ctx = WithSnapshotPath(ctx, `C:\cam\.snapshots\part\20240101_120000.e12`)

	attrs := LogCtxFromContext(ctx)
	require.Len(t, attrs, 3)
	assert.Equal(t, "request_id", attrs[0].Key)
	assert.Equal(t, "project_path", attrs[1].Key)
	assert.Equal(t, `C:\cam\part.e12`, attrs[1].Value.String())
	assert.Equal(t, "snapshot_path", attrs[2].Key)

	assert.Empty(t, LogCtxFromContext(context.Background()))
	assert.Empty(t, LogCtxFromContext(WithProjectPath(context.Background(), "")))
}
