package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestRecoverTurnsPanicIntoError checks that a panic inside a deferred
// Recover becomes a PanicError on the named return value.
func TestRecoverTurnsPanicIntoError(t *testing.T) {
	foldFunc := func() (err error) {
		defer Recover(&err, "CrossValidate")
		panic("index out of range in fold")
	}

	err := foldFunc()

	if err == nil {
		t.Fatal("recovered panic should surface as an error")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("want *PanicError, got %T", err)
	}

	if panicErr.Operation != "CrossValidate" {
		t.Errorf("Operation = %q, want CrossValidate", panicErr.Operation)
	}
	if panicErr.PanicValue != "index out of range in fold" {
		t.Errorf("PanicValue = %v", panicErr.PanicValue)
	}
	if panicErr.StackTrace == "" {
		t.Error("StackTrace should not be empty")
	}
	if got, want := panicErr.Error(), "panic in CrossValidate: index out of range in fold"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// TestRecoverPassesThroughNormalReturn checks that Recover does not
// disturb a function that returns without panicking.
func TestRecoverPassesThroughNormalReturn(t *testing.T) {
	foldFunc := func() (err error) {
		defer Recover(&err, "CrossValidate")
		return nil
	}

	if err := foldFunc(); err != nil {
		t.Fatalf("clean return should stay error free, got %v", err)
	}
}

// TestRecoverKeepsExistingError checks that a panic occurring after an
// error was already set wraps that error instead of discarding it.
func TestRecoverKeepsExistingError(t *testing.T) {
	fitErr := fmt.Errorf("fit failed on fold 2")

	foldFunc := func() (err error) {
		defer Recover(&err, "CrossValidate")
		err = fitErr
		panic("scorer panicked afterwards")
	}

	err := foldFunc()

	if err == nil {
		t.Fatal("recovered panic should surface as an error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "panic in CrossValidate") {
		t.Errorf("message should mention the panic: %s", msg)
	}
	if !strings.Contains(msg, "fit failed on fold 2") {
		t.Errorf("message should keep the original error text: %s", msg)
	}
	if !errors.Is(err, fitErr) {
		t.Error("original error should survive in the chain")
	}
}

func TestSafeExecute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		err := SafeExecute("GridSearchCV.Refit", func() error {
			return nil
		})
		if err != nil {
			t.Fatalf("want nil, got %v", err)
		}
	})

	t.Run("function error passes through", func(t *testing.T) {
		fitErr := fmt.Errorf("singular matrix")
		err := SafeExecute("GridSearchCV.Refit", func() error {
			return fitErr
		})
		if err != fitErr {
			t.Fatalf("fn's own error should come back untouched, got %v", err)
		}
	})

	t.Run("panic becomes PanicError", func(t *testing.T) {
		err := SafeExecute("GridSearchCV.Refit", func() error {
			panic("estimator blew up")
		})
		if err == nil {
			t.Fatal("recovered panic should surface as an error")
		}

		var panicErr *PanicError
		if !errors.As(err, &panicErr) {
			t.Fatalf("want *PanicError, got %T", err)
		}
		if panicErr.Operation != "GridSearchCV.Refit" {
			t.Errorf("Operation = %q, want GridSearchCV.Refit", panicErr.Operation)
		}
		if panicErr.PanicValue != "estimator blew up" {
			t.Errorf("PanicValue = %v", panicErr.PanicValue)
		}
	})
}

// TestPanicErrorFormat checks the error and debug string formats.
func TestPanicErrorFormat(t *testing.T) {
	panicErr := NewPanicError("Pipeline.Fit", "nil step")

	if got, want := panicErr.Error(), "panic in Pipeline.Fit: nil step"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	str := panicErr.String()
	if !strings.Contains(str, "Stack trace:") {
		t.Errorf("String() should carry the stack trace: %s", str)
	}
	if !strings.Contains(str, "panic in Pipeline.Fit: nil step") {
		t.Errorf("String() should start with the error message: %s", str)
	}

	if panicErr.Unwrap() != nil {
		t.Error("Unwrap() should be nil, a PanicError is a root cause")
	}
}

// BenchmarkRecoverNoPanic measures the deferred Recover overhead on the
// normal, non-panicking path.
func BenchmarkRecoverNoPanic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		func() (err error) {
			defer Recover(&err, "bench")
			return nil
		}()
	}
}
