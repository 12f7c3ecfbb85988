package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewHonoursLevel(t *testing.T) {
	l := New("warn", "console")
	assert.False(t, l.Zap().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Zap().Core().Enabled(zapcore.WarnLevel))

	named := l.Named("jobsuche").With("component", "test")
	assert.True(t, named.Zap().Core().Enabled(zapcore.ErrorLevel))
}
