package logger

import (
	"bytes"
	"os"
	"testing"
)

// capture redirects log output into a buffer and restores the
// defaults when the test ends.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t)

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose off")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose on after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose off after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Debug("loaded %s", "quoref_dev.json")

	if got := buf.String(); got != "[DEBUG] loaded quoref_dev.json\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Debug("loaded dataset")

	if buf.Len() > 0 {
		t.Error("expected silence when verbose is disabled")
	}
}

func TestSection(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Section("Annotation Walk")

	if got := buf.String(); got != "\n=== Annotation Walk ===\n" {
		t.Errorf("unexpected section output: %q", got)
	}
}

func TestInfo(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Info("committed %d perturbations", 3)

	if got := buf.String(); got != "[INFO] committed 3 perturbations\n" {
		t.Errorf("unexpected info output: %q", got)
	}
}

func TestWarn(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Warn("recording session failed")

	if got := buf.String(); got != "[WARN] recording session failed\n" {
		t.Errorf("unexpected warn output: %q", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	capture(t)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(n int) {
			SetVerbose(true)
			Debug("walker %d", n)
			IsVerbose()
			SetVerbose(false)
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	// Passes if the race detector stays quiet.
}
