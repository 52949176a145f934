package log

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrFmtHandler decorates a slog handler so that records carrying an
// error attribute also emit the error's stack trace.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps the given handler with stack trace extraction.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{handler: handler}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	if stack := stackFromRecord(r); stack != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stack))
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

// stackFromRecord finds the first error attribute in the record and
// returns its stack trace, or "" when the record carries none.
func stackFromRecord(r slog.Record) string {
	var stack string
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			stack = extractStacktrace(err)
		}
		return false
	})
	return stack
}

// extractStacktrace walks the whole error chain and returns the
// innermost recorded stack trace. Errors are usually wrapped several
// times on the way up, and the innermost stack points at where the
// error originated instead of where it was last wrapped.
func extractStacktrace(err error) string {
	var stack string
	for _, payload := range errors.GetAllSafeDetails(err) {
		for _, detail := range payload.SafeDetails {
			// Stack trace details contain file:line pairs.
			if strings.Contains(detail, ".go:") {
				stack = detail
			}
		}
	}
	return stack
}
