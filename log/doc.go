// Package log provides leveled structured logging on top of [log/slog].
//
// A [Logger] adds a trace level below debug and takes [slog.Attr] values
// only, so every attribute is typed at the call site:
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Info("generated", slog.Int("count", 10))
//
// The zero [Logger] discards everything. Libraries accept one through an
// option and log unconditionally; only programs decide where output goes.
//
// # Configuration
//
// Loggers are configured once with functional options: [WithLevel],
// [WithFormat], [WithTimeLayout], [WithCaller], [WithPretty] and
// [WithOutput]. [Logger.Wrap] derives a logger with some options changed.
//
// # Package-level logging
//
// The package-level functions ([Info], [DebugContext], ...) use a default
// logger writing text to standard error. [Config] reconfigures it, and
// [Default] returns it for injection elsewhere.
//
// Functions without a context argument use [DefaultContextProvider], which
// returns [context.TODO] unless replaced.
package log
