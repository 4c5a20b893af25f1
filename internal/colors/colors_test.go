package colors

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() { os.Stderr = oldStderr }()

	fn()
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	fn()
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestError(t *testing.T) {
	output := captureStderr(t, func() { Error("something went wrong") })
	if !strings.Contains(output, "Error:") {
		t.Errorf("Error output missing 'Error:' prefix: %q", output)
	}
	if !strings.Contains(output, "something went wrong") {
		t.Errorf("Error output missing message: %q", output)
	}
	if !strings.Contains(output, Red) {
		t.Errorf("Error output missing red color code: %q", output)
	}
}

func TestWarning(t *testing.T) {
	output := captureStderr(t, func() { Warning("heads", "up") })
	if !strings.Contains(output, "Warning:") {
		t.Errorf("Warning output missing 'Warning:' prefix: %q", output)
	}
	if !strings.Contains(output, "heads up") {
		t.Errorf("Warning output did not join messages: %q", output)
	}
}

func TestSuccess(t *testing.T) {
	output := captureStdout(t, func() { Success("operation completed") })
	if !strings.Contains(output, "✓") {
		t.Errorf("Success output missing checkmark: %q", output)
	}
	if !strings.Contains(output, "operation completed") {
		t.Errorf("Success output missing message: %q", output)
	}
}

func TestInfoSuppressedWhenQuiet(t *testing.T) {
	SetQuiet(true)
	defer SetQuiet(false)

	output := captureStdout(t, func() { Info("not shown") })
	if output != "" {
		t.Errorf("Info produced output in quiet mode: %q", output)
	}
}

func TestDebugOnlyWhenEnabled(t *testing.T) {
	SetDebug(false)
	output := captureStderr(t, func() { Debug("hidden") })
	if output != "" {
		t.Errorf("Debug produced output while disabled: %q", output)
	}

	SetDebug(true)
	defer SetDebug(false)
	output = captureStderr(t, func() { Debug("visible") })
	if !strings.Contains(output, "visible") {
		t.Errorf("Debug output missing message: %q", output)
	}
}

type spyLogger struct {
	errors []string
	infos  []string
}

func (s *spyLogger) Debug(msg string, args ...any) {}
func (s *spyLogger) Info(msg string, args ...any)  { s.infos = append(s.infos, msg) }
func (s *spyLogger) Warn(msg string, args ...any)  {}
func (s *spyLogger) Error(msg string, args ...any) { s.errors = append(s.errors, msg) }

func TestOutputMirroredToLogger(t *testing.T) {
	spy := &spyLogger{}
	SetLogger(spy)
	defer SetLogger(nil)

	_ = captureStderr(t, func() { Error("logged error") })
	_ = captureStdout(t, func() { Info("logged info") })

	if len(spy.errors) != 1 || spy.errors[0] != "logged error" {
		t.Errorf("error not mirrored to logger: %v", spy.errors)
	}
	if len(spy.infos) != 1 || spy.infos[0] != "logged info" {
		t.Errorf("info not mirrored to logger: %v", spy.infos)
	}
}
