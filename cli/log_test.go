package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ardnew/grand/log"
)

func TestLogConfigScan(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		level log.Level
		want  logConfig
	}{
		{
			name:  "assigned",
			args:  []string{"--log-level=debug", "--log-format=json", "0..10"},
			level: log.LevelDebug,
			want:  logConfig{Level: "debug", Format: "json"},
		},
		{
			name:  "separate values",
			args:  []string{"gen", "--log-level", "trace", "--log-time-layout", "Kitchen"},
			level: log.LevelTrace,
			want:  logConfig{Level: "trace", TimeLayout: "Kitchen"},
		},
		{
			name:  "booleans",
			args:  []string{"--log-pretty", "--log-caller=false", "--log-level=warn"},
			level: log.LevelWarn,
			want:  logConfig{Level: "warn", Pretty: true},
		},
		{
			name:  "negated",
			args:  []string{"--no-log-pretty", "--no-log-caller=false", "--log-level=error"},
			level: log.LevelError,
			want:  logConfig{Level: "error", Caller: true},
		},
		{
			name:  "terminator",
			args:  []string{"--log-level=info", "--", "--log-level=debug"},
			level: log.LevelInfo,
			want:  logConfig{Level: "info"},
		},
		{
			name:  "flag value is not consumed",
			args:  []string{"--log-level=info", "--log-format", "--count=3"},
			level: log.LevelInfo,
			want:  logConfig{Level: "info"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := log.Default()
			t.Cleanup(func() { log.SetDefault(saved) })

			var got logConfig

			got.scan(tt.args)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.level, log.Default().Level())
		})
	}
}
