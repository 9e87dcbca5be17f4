package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestSpinnerSilentOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := &Spinner{message: "Running query", out: &buf, done: make(chan struct{})}
	s.Start()
	s.Stop()
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestSpinnerClearsLineOnStop(t *testing.T) {
	var buf bytes.Buffer
	s := &Spinner{message: "Running query", out: &buf, tty: true, done: make(chan struct{})}
	s.Start()
	s.Stop()
	if !strings.HasSuffix(buf.String(), "\r\033[K") {
		t.Fatalf("expected trailing clear sequence, got %q", buf.String())
	}
	// A second Stop must not panic on the closed channel.
	s.Stop()
}

func TestProgressCountsAndClears(t *testing.T) {
	var buf bytes.Buffer
	p := &Progress{message: "Checking entities", total: 3, out: &buf, tty: true}
	p.Update(1)
	p.Update(2)
	p.Done()

	out := buf.String()
	if !strings.Contains(out, "(1/3)") || !strings.Contains(out, "(2/3)") {
		t.Fatalf("missing counts in %q", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Fatalf("expected trailing clear sequence, got %q", out)
	}
}

func TestProgressSilentOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := &Progress{message: "Checking entities", total: 3, out: &buf}
	p.Update(1)
	p.Done()
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
