package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode parses newline-delimited JSON log output.
func decode(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for line := range strings.Lines(buf.String()) {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), "line %q", line)
		out = append(out, m)
	}

	return out
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	assert.NotPanics(t, func() {
		l.Trace("trace")
		l.InfoContext(t.Context(), "info", slog.Int("n", 1))
		l.With(slog.String("k", "v")).Error("error")
	})

	assert.Equal(t, DefaultLevel, l.Level())
	assert.Equal(t, DefaultFormat, l.Format())
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level Level
		want  []string
	}{
		{LevelTrace, []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{LevelDebug, []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{LevelInfo, []string{"INFO", "WARN", "ERROR"}},
		{LevelWarn, []string{"WARN", "ERROR"}},
		{LevelError, []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer

			l := Make(&buf, WithLevel(tt.level), WithFormat(FormatJSON))

			l.Trace("m")
			l.Debug("m")
			l.Info("m")
			l.Warn("m")
			l.Error("m")

			var got []string
			for _, m := range decode(t, &buf) {
				got = append(got, m["level"].(string))
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_Attributes(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON)).With(slog.String("component", "rng"))
	l.InfoContext(context.Background(), "draw", slog.Int("attempts", 3))

	msgs := decode(t, &buf)
	require.Len(t, msgs, 1)

	assert.Equal(t, "draw", msgs[0]["msg"])
	assert.Equal(t, "rng", msgs[0]["component"])
	assert.InDelta(t, 3, msgs[0]["attempts"], 0)
}

func TestLogger_Wrap(t *testing.T) {
	var first, second bytes.Buffer

	base := Make(&first, WithLevel(LevelError))
	wrapped := base.Wrap(WithOutput(&second), WithLevel(LevelDebug))

	base.Info("dropped")
	wrapped.Debug("kept")

	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), "kept")
	assert.Equal(t, LevelError, base.Level())
	assert.Equal(t, LevelDebug, wrapped.Level())

	var zero Logger
	assert.Equal(t, LevelWarn, zero.Wrap(WithLevel(LevelWarn)).Level())
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithCaller(true)).Info("here")

	msgs := decode(t, &buf)
	require.Len(t, msgs, 1)

	src, ok := msgs[0]["source"].(map[string]any)
	require.True(t, ok, "source: %v", msgs[0]["source"])
	assert.True(t, strings.HasSuffix(src["file"].(string), "log_test.go"), "file %v", src["file"])
}

func TestLogger_TimeLayout(t *testing.T) {
	tests := []struct {
		layout string
		check  func(t *testing.T, v any)
	}{
		{"none", func(t *testing.T, v any) { assert.Nil(t, v) }},
		{"", func(t *testing.T, v any) { assert.Nil(t, v) }},
		{"RFC3339", func(t *testing.T, v any) {
			_, err := time.Parse(time.RFC3339, v.(string))
			assert.NoError(t, err)
		}},
		{"date-only", func(t *testing.T, v any) {
			_, err := time.Parse(time.DateOnly, v.(string))
			assert.NoError(t, err)
		}},
		{"2006", func(t *testing.T, v any) { assert.Len(t, v, 4) }},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			var buf bytes.Buffer

			Make(&buf, WithFormat(FormatJSON), WithTimeLayout(tt.layout)).Info("m")

			msgs := decode(t, &buf)
			require.Len(t, msgs, 1)
			tt.check(t, msgs[0]["time"])
		})
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithLevel(LevelTrace), WithTimeLayout("none")).
		Trace("parse complete", slog.Int("depth", 2))

	assert.Equal(t, "level=TRACE msg=\"parse complete\" depth=2\n", buf.String())
}

func TestLogger_Pretty(t *testing.T) {
	for _, format := range []Format{FormatText, FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer

			l := Make(&buf,
				WithPretty(true),
				WithFormat(format),
				WithTimeLayout("none"),
			).With(slog.Group("req", slog.String("id", "7")))

			l.Warn("sampling exhausted", slog.Bool("satisfied", false))
			l.Debug("hidden")

			out := buf.String()
			assert.Contains(t, out, "WARN")
			assert.Contains(t, out, "sampling exhausted")
			assert.Contains(t, out, "req.id")
			assert.Contains(t, out, "satisfied")
			assert.NotContains(t, out, "hidden")
			assert.NotContains(t, out, "time")
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"warn+2", LevelWarn + 2},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "trace", LevelTrace.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "trace+1", (LevelTrace + 1).String())
	assert.Equal(t, "info+2", (LevelInfo + 2).String())
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat(" JSON "))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, DefaultFormat, ParseFormat("xml"))
}

func TestEnumerations(t *testing.T) {
	var levels, formats []string

	for l := range Levels() {
		levels = append(levels, l)
	}

	for f := range Formats() {
		formats = append(formats, f)
	}

	assert.Equal(t, []string{"trace", "debug", "info", "warn", "error"}, levels)
	assert.Equal(t, []string{"text", "json"}, formats)
}
