package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func saveGlobals() func() {
	level := zerolog.GlobalLevel()
	logger := log.Logger
	return func() {
		zerolog.SetGlobalLevel(level)
		log.Logger = logger
	}
}

func TestLevelForVerbosity(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLevel, LevelForVerbosity(tt.verbosity))
		})
	}
}

func TestSetupLoggerWithWriter(t *testing.T) {
	restore := saveGlobals()
	defer restore()

	var buf bytes.Buffer
	SetupLoggerWithWriter(1, &buf, true)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	logger := GetLogger("executor")
	logger.Debug().Msg("hidden")
	logger.Info().Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "component=executor")
}

func TestLogOperationStart(t *testing.T) {
	restore := saveGlobals()
	defer restore()

	var buf bytes.Buffer
	SetupLoggerWithWriter(2, &buf, true)

	done := LogOperationStart(GetLogger("syncer"), "sync")
	done()

	out := buf.String()
	assert.Contains(t, out, "Operation started")
	assert.Contains(t, out, "Operation completed")
	assert.Contains(t, out, "operation=sync")
}
