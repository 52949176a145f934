package log

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
)

// EnableStructuredWarnings routes warnings raised through errors.Warn
// to a zerolog logger writing to w. Warning types that implement
// zerolog.LogObjectMarshaler are emitted with their structured fields,
// everything else falls back to the plain error message.
func EnableStructuredWarnings(w io.Writer) {
	logger := zerolog.New(w).With().Timestamp().Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		event := logger.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event.EmbedObject(obj).Msg("goml warning")
			return
		}
		event.Err(warning).Msg("goml warning")
	})
}

// DisableStructuredWarnings reverts errors.Warn to its plain handler.
func DisableStructuredWarnings() {
	errors.SetZerologWarnFunc(nil)
}
