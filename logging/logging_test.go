package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/plus3/orrery/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(in), "level %q", in)
	}
}

func TestNew(t *testing.T) {
	var out, file bytes.Buffer
	log := logging.New("warn", &out, &file)

	log.Info().Msg("hidden")
	log.Warn().Str("body", "venus").Msg("retrograde")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "retrograde")
	assert.Contains(t, file.String(), "body=venus")
	assert.False(t, strings.Contains(file.String(), "\x1b["), "file output has no colors")
}

func TestSampled(t *testing.T) {
	var out bytes.Buffer
	log := logging.Sampled(logging.New("trace", &out, nil))

	for range 1000 {
		log.Trace().Msg("frame")
	}
	lines := strings.Count(out.String(), "frame")
	assert.GreaterOrEqual(t, lines, 5)
	assert.Less(t, lines, 1000)
}
