package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGateLoggerLevels(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	l := New(WithLogger(log.New(b, "", 0)), WithLevel(LogLevelWarn))

	// Act
	l.Debug("debug", nil)
	l.Info("info", nil)
	l.Warn("warn", nil)
	l.Error("error", nil)

	// Assert
	out := b.String()
	require.NotContains(t, out, "[DEBUG]")
	require.NotContains(t, out, "[INFO]")
	require.Contains(t, out, "[WARN]")
	require.Contains(t, out, "[ERROR]")
}

func TestGateLoggerAddSkip(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	l := New(WithLogger(log.New(b, "", 0))).(*GateLogger)

	// Act
	skipped := l.AddSkip(1)

	// Assert
	require.Equal(t, 1, skipped.Skip())
	require.Zero(t, l.Skip())
}
