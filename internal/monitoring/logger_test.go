package monitoring

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"testing"
)

func restoreLogger(t *testing.T) {
	t.Helper()
	prev := Logf
	t.Cleanup(func() { Logf = prev })
}

func TestSetLogger(t *testing.T) {
	restoreLogger(t)

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	Logf("estimate %s", "ok")

	SetLogger(nil)
	Logf("dropped")

	if len(lines) != 1 || lines[0] != "estimate ok" {
		t.Errorf("lines = %q, want one line %q", lines, "estimate ok")
	}
}

func TestLogf_DefaultsToStdLog(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}

	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	}()

	Logf("scenario log: %s", "pasture.db")
	if got := strings.TrimSpace(buf.String()); got != "scenario log: pasture.db" {
		t.Errorf("got %q", got)
	}
}

func TestPrefixed(t *testing.T) {
	restoreLogger(t)

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})

	logf := Prefixed("migrate")
	logf("applied version %d", 1)
	if got != "[migrate] applied version 1" {
		t.Errorf("got %q", got)
	}

	// follows later SetLogger calls
	SetLogger(nil)
	got = ""
	logf("muted")
	if got != "" {
		t.Errorf("expected muted logger, got %q", got)
	}
}
