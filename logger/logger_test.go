package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, zapLevel(DebugLevel))
	assert.Equal(t, zapcore.InfoLevel, zapLevel(InfoLevel))
	assert.Equal(t, zapcore.WarnLevel, zapLevel(WarnLevel))
	assert.Equal(t, zapcore.ErrorLevel, zapLevel(ErrorLevel))
	assert.Equal(t, zapcore.InfoLevel, zapLevel("verbose"))
}

func TestInitLogger_WritesRotatedFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "logs", "server.log")

	require.NoError(t, InitLogger(Config{Level: DebugLevel, OutputPath: out, MaxSize: 1}))
	Info("track listed", String("id", "42"), Int("instruments", 3))
	Sync()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"track listed"`)
	assert.Contains(t, string(data), `"id":"42"`)
}
