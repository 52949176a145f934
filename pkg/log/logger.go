package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogger installs the default slog logger used across GoML.
// Logs are written to stdout as JSON, and warnings raised through
// the errors package are routed to a structured warning logger on
// stderr.
func SetupLogger(loglevel string) {
	SetupLoggerWithWriter(os.Stdout, loglevel)
	EnableStructuredWarnings(os.Stderr)
}

// SetupLoggerWithWriter is SetupLogger with an explicit destination.
func SetupLoggerWithWriter(w io.Writer, loglevel string) {
	ops := slog.HandlerOptions{
		AddSource:   true,
		Level:       ToLogLevel(loglevel),
		ReplaceAttr: renameKeys,
	}
	slog.SetDefault(slog.New(WrapByErrFmtHandler(slog.NewJSONHandler(w, &ops))))
}

// renameKeys rewrites the level and message keys to the names most log
// collectors expect.
func renameKeys(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.LevelKey:
		attr.Key = "severity"
	case slog.MessageKey:
		attr.Key = "message"
	}
	return attr
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ToLogLevel maps a level name to its slog.Level. Unknown names panic.
func ToLogLevel(level string) slog.Level {
	l, ok := logLevels[level]
	if !ok {
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
	return l
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
