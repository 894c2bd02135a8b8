package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewStdoutOnly(t *testing.T) {
	l, err := New("")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer l.Close()
	if l.ToFile() {
		t.Fatal("expected stdout destination")
	}
	if l.Path() != "" {
		t.Fatalf("expected empty path, got %q", l.Path())
	}
}

func TestFileSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")

	l, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Line("%s:", "appA")
	l.Line("\trunning aguille.py on %s", "appA/res/layout")
	if _, err := l.Writer().Write([]byte("analyzer output\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening must append, not truncate.
	l2, err := New(path)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	l2.Line("appB:")
	l2.Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	got := string(b)
	for _, want := range []string{"appA:\n", "\trunning aguille.py on appA/res/layout\n", "analyzer output\n", "appB:\n"} {
		if !strings.Contains(got, want) {
			t.Fatalf("log missing %q:\n%s", want, got)
		}
	}
}
