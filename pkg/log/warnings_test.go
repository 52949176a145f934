package log

import (
	"bytes"
	stdlog "log"
	"strings"
	"testing"

	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
)

func TestStructuredWarnings(t *testing.T) {
	var buf bytes.Buffer
	EnableStructuredWarnings(&buf)
	defer DisableStructuredWarnings()

	errors.Warn(errors.NewConvergenceWarning("PassiveAggressiveClassifier", 5, ""))

	out := buf.String()
	fields := []string{
		`"level":"warn"`,
		`"algorithm":"PassiveAggressiveClassifier"`,
		`"iterations":5`,
		`"type":"ConvergenceWarning"`,
	}
	for _, field := range fields {
		if !strings.Contains(out, field) {
			t.Errorf("warning output missing %s: %s", field, out)
		}
	}
}

func TestStructuredWarningsPlainError(t *testing.T) {
	var buf bytes.Buffer
	EnableStructuredWarnings(&buf)
	defer DisableStructuredWarnings()

	// Warnings without structured fields fall back to the message.
	errors.Warn(errors.New("training data looks degenerate"))

	if !strings.Contains(buf.String(), "training data looks degenerate") {
		t.Errorf("warning output missing message: %s", buf.String())
	}
}

func TestDisableStructuredWarnings(t *testing.T) {
	var buf bytes.Buffer
	EnableStructuredWarnings(&buf)
	DisableStructuredWarnings()

	var captured error
	errors.SetWarningHandler(func(w error) { captured = w })
	defer errors.SetWarningHandler(func(w error) {
		stdlog.Printf("GoML-Warning: %v\n", w)
	})

	errors.Warn(errors.NewConvergenceWarning("KMeans", 300, ""))

	if buf.Len() != 0 {
		t.Errorf("structured output should stay silent after disabling: %s", buf.String())
	}
	if captured == nil {
		t.Error("plain handler should receive the warning again")
	}
}
